// castsim casts one spell headless at a fixed step and prints what every
// fixture does, tick by tick.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-spellcast/internal/app"
	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "configs/spellcast.yaml", "path to the spell config")
		spell      = flag.String("spell", "", "spell to cast (default: the first one)")
		dt         = flag.Float64("dt", 0.1, "fixed step in seconds")
		limit      = flag.Float64("max", 30, "give up after this many simulated seconds")
		verbose    = flag.Bool("v", false, "log phase transitions")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if err := checkStep(*dt, *limit); err != nil {
		log.Fatal().Err(err).Msg("flags")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
	}
	cfg.Driver = "sim"

	core, err := app.New(cfg, app.Options{DriverKind: "sim", Log: &log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("build")
	}
	name := *spell
	if name == "" {
		names := core.Caster.Names()
		if len(names) == 0 {
			log.Fatal().Msg("config has no spells")
		}
		name = names[0]
	}
	if err := core.Cast(name); err != nil {
		log.Fatal().Err(err).Str("spell", name).Msg("cast")
	}

	prev := cast.Anticipation
	fmt.Printf("cast %s\n", name)
	for tick := 1; float64(tick)*(*dt) <= *limit; tick++ {
		if err := core.Step(*dt); err != nil {
			log.Warn().Err(err).Msg("frame")
		}
		st := status(core.Snapshot(), name)
		if st.Phase != prev {
			fmt.Printf("-- %s -> %s\n", prev, st.Phase)
			prev = st.Phase
		}
		fmt.Printf("%4d %-12s p=%.3f m=%.3f %s\n", tick, st.Phase, st.Progress, st.Multiplier, outputs(core))
		if !st.Active {
			fmt.Printf("done after %d ticks\n", tick)
			return
		}
	}
	fmt.Printf("still active after %.1fs\n", *limit)
	os.Exit(1)
}

// checkStep rejects steps that would never reach the time limit.
func checkStep(dt, limit float64) error {
	if !(dt > 0) {
		return fmt.Errorf("-dt must be positive, got %g", dt)
	}
	if !(limit > 0) {
		return fmt.Errorf("-max must be positive, got %g", limit)
	}
	return nil
}

func status(s app.State, name string) cast.Status {
	for _, st := range s.Spells {
		if st.Spell == name {
			return st
		}
	}
	return cast.Status{}
}

// outputs renders every fixture value on one line.
func outputs(c *app.Core) string {
	var parts []string
	c.With(func(c *app.Core) {
		for _, l := range c.Cfg.Stage.Lights {
			if f, ok := c.Stage.Light(l.Name); ok {
				parts = append(parts, fmt.Sprintf("%s=%.2f%s", l.Name, f.Intensity(), f.Color().Hex()))
			}
		}
		for _, e := range c.Cfg.Stage.Emitters {
			if f, ok := c.Stage.Emitter(e.Name); ok {
				on := "off"
				if f.Enabled() {
					on = "on"
				}
				parts = append(parts, fmt.Sprintf("%s=%s/v%.2f/s%.2f", e.Name, on, f.Speed(), f.StartSize()))
			}
		}
		for _, d := range c.Cfg.Stage.Decals {
			if f, ok := c.Stage.Decal(d.Name); ok {
				parts = append(parts, fmt.Sprintf("%s=x%.2f/r%.2f", d.Name, f.Scale(), f.Rotation()))
			}
		}
		for _, v := range c.Cfg.Stage.Voices {
			if f, ok := c.Voices[v.Name]; ok && f.Playing() {
				parts = append(parts, fmt.Sprintf("%s=g%.2f/p%.2f", v.Name, f.Gain(), f.Pitch()))
			}
		}
		post := c.Stage.Post.Snapshot()
		keys := make([]string, 0, len(post))
		for k := range post {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := c.Cfg.Post[k]; ok {
				parts = append(parts, fmt.Sprintf("%s=%.2f", k, post[k]))
			}
		}
	})
	return strings.Join(parts, " ")
}
