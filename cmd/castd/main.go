package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-spellcast/internal/app"
	"github.com/coreman2200/funtimes-spellcast/internal/audio"
	"github.com/coreman2200/funtimes-spellcast/internal/config"
	"github.com/coreman2200/funtimes-spellcast/internal/led"
	"github.com/coreman2200/funtimes-spellcast/internal/telemetry"
)

func main() {
	// ---- Flags (config.yaml wins where it sets a value) ----
	var (
		configPath = flag.String("config", "configs/spellcast.yaml", "path to the spell config")
		driver     = flag.String("driver", "sim", "driver: nrz | sim")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, RGB)")
		fps        = flag.Int("fps", 60, "target frames per second")
		brightness = flag.Float64("brightness", 0.8, "global brightness 0..1")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		noAudio    = flag.Bool("no-audio", false, "disable the speaker even if the config enables it")
		schema     = flag.Bool("schema", false, "print the config JSON schema and exit")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *schema {
		b, err := config.SchemaJSON()
		if err != nil {
			log.Fatal().Err(err).Msg("schema")
		}
		os.Stdout.Write(append(b, '\n'))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
	}

	// ---- Effective params ----
	if cfg.Driver == "" {
		cfg.Driver = *driver
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if cfg.ColorOrder == "" {
		cfg.ColorOrder = *colorOrder
	}
	if cfg.FPS <= 0 {
		cfg.FPS = *fps
	}
	if cfg.Brightness <= 0 {
		cfg.Brightness = *brightness
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = *addr
	}

	l := app.LayoutOf(cfg)
	if err := l.Validate(); err != nil {
		log.Fatal().Err(err).Msg("layout")
	}

	// ---- Driver selection ----
	var drv led.Driver
	switch cfg.Driver {
	case "nrz":
		n, err := led.OpenNRZ(led.NRZOpts{
			Port:       cfg.SPI.Dev,
			Count:      l.Count(),
			ColorOrder: cfg.ColorOrder,
		})
		if err != nil {
			log.Warn().Err(err).Str("driver", "nrz").Str("dev", cfg.SPI.Dev).Msg("NRZ init failed; falling back to SIM")
			cfg.Driver = "sim"
			drv = led.NewSim()
			break
		}
		if !n.Hardware() {
			log.Warn().Msg("no SPI port found; drawing the strip on the console")
		}
		drv = n
	case "sim":
		drv = led.NewSim()
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		cfg.Driver = "sim"
		drv = led.NewSim()
	}
	defer drv.Close()

	// ---- Audio ----
	var out *audio.Output
	if cfg.Audio.Enabled && !*noAudio {
		if out, err = audio.Open(cfg.Audio.SampleRate); err != nil {
			log.Warn().Err(err).Msg("audio disabled")
			out = nil
		} else {
			defer out.Close()
		}
	}

	core, err := app.New(cfg, app.Options{Driver: drv, DriverKind: cfg.Driver, Audio: out, Log: &log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("build")
	}

	tel := telemetry.NewServer(l, core, log.Logger)
	tel.Driver = cfg.Driver
	tel.FPS = cfg.FPS
	core.SetSink(tel)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      withCORS(tel.Router()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("driver", cfg.Driver).Strs("spells", core.Caster.Names()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Run until signalled ----
	_ = core.Run(ctx)
	log.Info().Msg("shutting down")

	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		_ = srv.Close()
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
