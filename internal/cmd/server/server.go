// Package server wires the session host together: storage, services,
// commands, adapters, and the coordinator loop.
package server

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/fableroom/internal/adapter/ws"
	"github.com/louisbranch/fableroom/internal/ai"
	"github.com/louisbranch/fableroom/internal/command"
	"github.com/louisbranch/fableroom/internal/coordinator"
	"github.com/louisbranch/fableroom/internal/game/service"
	"github.com/louisbranch/fableroom/internal/i18n"
	entrypoint "github.com/louisbranch/fableroom/internal/platform/cmd"
	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/storage/memory"
	"github.com/louisbranch/fableroom/internal/storage/sqlite"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

// Config carries the server's runtime settings.
type Config struct {
	// Addr is the websocket listen address.
	Addr string `env:"FABLEROOM_ADDR" envDefault:":8080"`
	// DBPath points at the SQLite database file. Empty keeps everything
	// in memory.
	DBPath string `env:"FABLEROOM_DB_PATH"`
	// Locale selects the outbound message catalog.
	Locale string `env:"FABLEROOM_LOCALE" envDefault:"en-US"`
	// SessionSecret verifies HS256 session tokens on the websocket. Empty
	// disables token checks.
	SessionSecret string `env:"FABLEROOM_SESSION_SECRET"`
	// OpenAIAPIKey enables the OpenAI narrator. Empty falls back to a
	// static narrator.
	OpenAIAPIKey string `env:"FABLEROOM_OPENAI_API_KEY"`
	// OpenAIModel names the model used for narration.
	OpenAIModel string `env:"FABLEROOM_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// ParseConfig loads environment defaults and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "websocket listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path (empty for in-memory)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "message locale")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the session host and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()
	}

	if err := seedScenarios(ctx, store); err != nil {
		return err
	}

	printer := i18n.NewPrinter(cfg.Locale)
	registry := service.NewRegistry(time.Now)
	emitter := telemetry.NewEmitter(store, time.Now)
	narrator := buildNarrator(cfg, printer)

	rooms := service.NewRoomService(registry, printer, store, emitter)
	matches := service.NewMatchService(registry, printer, store, emitter)
	turns := service.NewTurnService(registry, printer, store, narrator, emitter)

	factory := command.NewFactory(command.Services{
		Rooms:   rooms,
		Matches: matches,
		Turns:   turns,
	})

	var secret []byte
	if cfg.SessionSecret != "" {
		secret = []byte(cfg.SessionSecret)
	}
	transport := ws.New(ws.Config{Addr: cfg.Addr, Secret: secret})

	coord := coordinator.New(factory, printer, emitter, transport)
	log.Printf("session host listening on %s", cfg.Addr)
	return coord.Run(ctx)
}

func openStore(path string) (storage.Store, error) {
	if strings.TrimSpace(path) == "" {
		log.Printf("no database path configured, using in-memory store")
		return memory.NewStore(), nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func buildNarrator(cfg Config, printer *i18n.Printer) ai.Narrator {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		log.Printf("no OpenAI key configured, narration is static")
		return ai.StaticNarrator{Line: printer.T(i18n.KeyNarrationFallback)}
	}
	return ai.NewOpenAINarrator(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
	})
}

// seedScenarios installs the built-in scenario on an empty store so a fresh
// server has something to play.
func seedScenarios(ctx context.Context, store storage.ScenarioStore) error {
	existing, err := store.ListScenarios(ctx)
	if err != nil {
		return fmt.Errorf("list scenarios: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if err := store.PutScenario(ctx, builtinScenario()); err != nil {
		return fmt.Errorf("seed scenario: %w", err)
	}
	return nil
}
