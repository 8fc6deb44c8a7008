package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/opengovhq/oryx/internal/config"
	"github.com/opengovhq/oryx/internal/digest"
	"github.com/opengovhq/oryx/internal/feed"
	"github.com/opengovhq/oryx/internal/metrics"
	"github.com/opengovhq/oryx/internal/registry"
	"github.com/opengovhq/oryx/internal/render"
	"github.com/opengovhq/oryx/internal/slack"
)

func main() {
	once := flag.Bool("once", false, "run once and exit")
	daemon := flag.Bool("daemon", false, "run continuously, posting daily at the configured local time")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	if cfg.Debug {
		log = log.Level(zerolog.DebugLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	stats := metrics.New()
	if cfg.EnableMonitoring {
		go startMonitoringServer(cfg.MonitoringPort, stats, log)
	}

	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		log.Warn().Err(err).Msg("registry override unusable, using built-in defaults")
	}

	channels, err := cfg.Channels()
	if err != nil {
		log.Warn().Err(err).Msg("channel map unusable, using built-in defaults")
	}

	loc, err := time.LoadLocation(cfg.LocalTZ)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.LocalTZ).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}

	fetcher := feed.New(cfg.FetchTimeout, cfg.PolitenessDelay, log)
	gen := digest.New(reg, fetcher, digest.Options{
		WindowHours:     cfg.WindowHours,
		VerifiedOnly:    cfg.VerifiedOnly,
		Themes:          cfg.Themes,
		PerCountryCap:   cfg.PerCountryCap,
		IncludeRegional: cfg.IncludeRegional,
	}, log, stats)
	poster := slack.New(cfg.SlackBotToken, cfg.SlackWebhookURL, 20*time.Second, log)

	app := &runner{cfg: cfg, gen: gen, poster: poster, channels: channels, loc: loc, stats: stats, log: log}

	switch {
	case *daemon:
		app.runDaemon(context.Background())
	default:
		_ = once // default behavior is a single run, same as -once
		app.runAll(context.Background())
	}
}

type runner struct {
	cfg      *config.Config
	gen      *digest.Generator
	poster   *slack.Client
	channels map[string][]string
	loc      *time.Location
	stats    *metrics.Metrics
	log      zerolog.Logger
}

// runAll generates and posts one digest per configured channel. A failed
// channel is logged and the rest proceed.
func (r *runner) runAll(ctx context.Context) {
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, channel := range names {
		if err := r.runChannel(ctx, channel, r.channels[channel]); err != nil {
			r.stats.SetError(err.Error())
			r.log.Error().Err(err).Str("channel", channel).Msg("channel run failed")
		}
	}
}

func (r *runner) runChannel(ctx context.Context, channel string, countries []string) error {
	d, err := r.gen.Generate(ctx, countries)
	if err != nil {
		return fmt.Errorf("generate digest: %w", err)
	}

	title := render.Title(time.Now().In(r.loc))
	if r.cfg.SlackBotToken != "" {
		body := render.Message(d, r.cfg.MaxMessageChars)
		if err := r.poster.PostMessage(ctx, channel, title+"\n\n"+body); err != nil {
			return err
		}
	} else {
		if err := r.poster.PostWebhook(ctx, title, render.Sections(d)); err != nil {
			return err
		}
	}
	r.stats.AddMessageSent()
	return nil
}

// runDaemon posts daily at the configured local HH:MM.
func (r *runner) runDaemon(ctx context.Context) {
	at, _ := time.Parse("15:04", r.cfg.PostAt) // validated by config.Load
	for {
		now := time.Now().In(r.loc)
		target := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, r.loc)
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
		r.log.Info().Time("next_post", target).Msg("sleeping until next post")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(target)):
		}
		r.runAll(ctx)
	}
}

func startMonitoringServer(port int, stats *metrics.Metrics, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		s := stats.GetStats()
		status := "ok"
		w.Header().Set("Content-Type", "application/json")
		if !s["is_healthy"].(bool) {
			status = "error"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     status,
			"last_run":   s["last_run_time"],
			"last_error": s["last_error"],
		})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats.GetStats())
	})

	log.Info().Int("port", port).Msg("starting monitoring server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Error().Err(err).Msg("monitoring server stopped")
	}
}
