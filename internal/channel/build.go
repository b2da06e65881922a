package channel

import (
	"fmt"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/config"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

// Build constructs the channel described by c against the given backends.
func Build(c config.Channel, b Backends) (cast.Channel, error) {
	name := c.Label()
	colors, err := c.Gradient.Build()
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", name, err)
	}

	switch c.Kind {
	case config.KindParticle:
		em, ok := b.Emitter(c.Target)
		if !ok {
			return nil, missing(name, "emitter", c.Target)
		}
		cfg := ParticleConfig{Name: name, Colors: colors}
		if c.EnablePhase != "" {
			if cfg.EnablePhase, err = cast.ParsePhase(c.EnablePhase); err != nil {
				return nil, fmt.Errorf("channel %s: %w", name, err)
			}
		}
		if len(c.Speed) > 0 {
			cfg.Speed = curve.NewEnvelope(c.Speed...)
		}
		if c.Size != nil {
			cfg.Size = &SizeFade{Base: c.Size.Base, Scale: c.Size.Scale, Fade: c.Size.Fade.Pair()}
		}
		return NewParticle(cfg, em), nil

	case config.KindLight:
		l, ok := b.Light(c.Target)
		if !ok {
			return nil, missing(name, "light", c.Target)
		}
		return NewLight(LightConfig{Name: name, Peak: c.Peak, Fade: c.Fade.Pair(), Colors: colors}, l), nil

	case config.KindDecal:
		d, ok := b.Decal(c.Target)
		if !ok {
			return nil, missing(name, "decal", c.Target)
		}
		return NewDecal(DecalConfig{
			Name:     name,
			MaxScale: c.Peak,
			Fade:     c.Fade.Pair(),
			Spin:     c.Spin,
			SpinFade: c.SpinFade.Pair(),
		}, d), nil

	case config.KindPost, config.KindMaterial:
		sink, ok := b.Params(c.Target)
		if !ok {
			return nil, missing(name, "parameter set", c.Target)
		}
		tracks := make([]Track, 0, len(c.Tracks))
		for _, t := range c.Tracks {
			tracks = append(tracks, Track{
				Name:    t.Name,
				Base:    t.Base,
				Range:   t.Range,
				Fade:    t.Fade.Pair(),
				Drive:   Drive(t.Drive),
				OutSpan: t.OutSpan,
			})
		}
		if c.Kind == config.KindPost {
			return NewPostProcess(name, sink, tracks...), nil
		}
		return NewMaterial(name, sink, tracks...), nil

	case config.KindAudio:
		v, ok := b.Voice(c.Target)
		if !ok {
			return nil, missing(name, "voice", c.Target)
		}
		return NewAudio(AudioConfig{
			Name:         name,
			Volume:       c.Peak,
			Fade:         c.Fade.Pair(),
			SourceLength: c.SourceLength,
		}, v), nil
	}
	return nil, fmt.Errorf("channel %s: unknown kind %q", name, c.Kind)
}

func missing(name, what, target string) error {
	return fmt.Errorf("channel %s: %w: %s %q", name, ErrNoBackend, what, target)
}
