// Package scenario implements the scenario import CLI: it loads scenario
// JSON documents into the host's SQLite store and lists what is installed.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	entrypoint "github.com/louisbranch/fableroom/internal/platform/cmd"
	"github.com/louisbranch/fableroom/internal/scenario"
	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/storage/sqlite"
)

// Config holds scenario command configuration.
type Config struct {
	DBPath string `env:"FABLEROOM_DB_PATH"`
	File   string `env:"FABLEROOM_SCENARIO_FILE"`
	List   bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.File, "file", cfg.File, "path to a scenario JSON file to import")
	fs.BoolVar(&cfg.List, "list", cfg.List, "list installed scenarios")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.DBPath == "" {
		return errors.New("database path is required")
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	return run(ctx, cfg, store, out)
}

func run(ctx context.Context, cfg Config, store storage.ScenarioStore, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.File != "" {
		imported, err := importFile(ctx, store, cfg.File)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %s (%s)\n", imported.ID, imported.Name)
	}
	if cfg.List {
		return list(ctx, store, out)
	}
	if cfg.File == "" {
		return errors.New("nothing to do: pass -file or -list")
	}
	return nil
}

func importFile(ctx context.Context, store storage.ScenarioStore, path string) (scenario.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("read scenario file: %w", err)
	}
	var s scenario.Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return scenario.Scenario{}, fmt.Errorf("parse scenario file: %w", err)
	}
	normalized, err := scenario.Normalize(s)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := store.PutScenario(ctx, normalized); err != nil {
		return scenario.Scenario{}, fmt.Errorf("store scenario: %w", err)
	}
	return normalized, nil
}

func list(ctx context.Context, store storage.ScenarioStore, out io.Writer) error {
	scenarios, err := store.ListScenarios(ctx)
	if err != nil {
		return fmt.Errorf("list scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(out, "no scenarios installed")
		return nil
	}
	for _, s := range scenarios {
		fmt.Fprintf(out, "%s\t%s\t%d-%d players\n", s.ID, s.Name, s.MinPlayers, s.MaxPlayers)
	}
	return nil
}
