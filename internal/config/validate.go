package config

import (
	"fmt"
	"slices"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/diagnostics"
)

// Validate checks spells and channels. Warnings leave the config usable;
// any diagnostics.Err entry means the spell cannot be built.
func (c *Config) Validate() []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	seen := map[string]bool{}

	for i, s := range c.Spells {
		where := fmt.Sprintf("spells[%d]", i)
		if s.Name == "" {
			out = append(out, diagnostics.Diagnostic{
				Severity: diagnostics.Err,
				Code:     "SPELL_NO_NAME",
				Summary:  where + " has no name",
			})
			continue
		}
		if seen[s.Name] {
			out = append(out, diagnostics.Diagnostic{
				Severity: diagnostics.Err,
				Code:     "SPELL_DUPLICATE",
				Summary:  "spell " + s.Name + " is defined more than once",
			})
		}
		seen[s.Name] = true

		if err := s.Fractions.Validate(); err != nil {
			out = append(out, diagnostics.Diagnostic{
				Severity:       diagnostics.Warn,
				Code:           "FRACTION_SUM",
				Summary:        "phase fractions of " + s.Name + " do not add up to 1",
				Detail:         err.Error(),
				SuggestedFixes: []string{"adjust anticipation, action and recuperation so they sum to 1"},
				Evidence:       map[string]any{"sum": s.Fractions.Sum()},
			})
		}
		if s.Duration <= 0 {
			out = append(out, diagnostics.Diagnostic{
				Severity: diagnostics.Warn,
				Code:     "DURATION_CLAMPED",
				Summary:  "duration of " + s.Name + " is not positive",
				Evidence: map[string]any{"duration": s.Duration, "clamped": cast.MinDuration},
			})
		}
		for j, ch := range s.Channels {
			out = append(out, validateChannel(s.Name, j, ch)...)
		}
	}
	return out
}

func validateChannel(spell string, i int, ch Channel) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	where := fmt.Sprintf("%s.channels[%d]", spell, i)

	if !slices.Contains(Kinds, ch.Kind) {
		return append(out, diagnostics.Diagnostic{
			Severity:     diagnostics.Err,
			Code:         "CHANNEL_KIND",
			Summary:      fmt.Sprintf("%s has unknown kind %q", where, ch.Kind),
			LikelyCauses: []string{"typo in kind"},
			Evidence:     map[string]any{"known": Kinds},
		})
	}
	if ch.Target == "" {
		out = append(out, diagnostics.Diagnostic{
			Severity: diagnostics.Err,
			Code:     "CHANNEL_TARGET",
			Summary:  where + " has no target",
		})
	}
	if _, err := ch.Gradient.Build(); err != nil {
		out = append(out, diagnostics.Diagnostic{
			Severity: diagnostics.Err,
			Code:     "GRADIENT",
			Summary:  where + " gradient is invalid",
			Detail:   err.Error(),
		})
	}
	if ch.EnablePhase != "" {
		if p, err := cast.ParsePhase(ch.EnablePhase); err != nil || p == cast.Idle {
			out = append(out, diagnostics.Diagnostic{
				Severity: diagnostics.Err,
				Code:     "ENABLE_PHASE",
				Summary:  fmt.Sprintf("%s enable_phase %q is not a cast phase", where, ch.EnablePhase),
			})
		}
	}
	for _, f := range []Fade{ch.Fade, ch.SpinFade} {
		if f.Mode == "separate" && len(f.Out) == 0 {
			out = append(out, diagnostics.Diagnostic{
				Severity: diagnostics.Warn,
				Code:     "FADE_NO_OUT",
				Summary:  where + " uses separate fades without an out curve; the in curve is mirrored",
			})
		}
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(ds []diagnostics.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diagnostics.Err {
			return true
		}
	}
	return false
}
