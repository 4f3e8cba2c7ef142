// Package sessiontoken implements the session-token CLI: it generates the
// HS256 secret the websocket adapter verifies against, and signs player
// tokens with it.
package sessiontoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/louisbranch/fableroom/internal/adapter/ws"
	entrypoint "github.com/louisbranch/fableroom/internal/platform/cmd"
)

const secretBytes = 32

// Config holds session-token command configuration.
type Config struct {
	Secret         string        `env:"FABLEROOM_SESSION_SECRET"`
	PlayerID       string        `env:"FABLEROOM_TOKEN_PLAYER"`
	PlayerName     string        `env:"FABLEROOM_TOKEN_NAME"`
	TTL            time.Duration `env:"FABLEROOM_TOKEN_TTL" envDefault:"24h"`
	GenerateSecret bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Secret, "secret", cfg.Secret, "HS256 signing secret")
	fs.StringVar(&cfg.PlayerID, "player", cfg.PlayerID, "player id to sign a token for")
	fs.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "display name embedded in the token")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime")
	fs.BoolVar(&cfg.GenerateSecret, "generate-secret", cfg.GenerateSecret, "emit a fresh signing secret instead of a token")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the session-token command and writes its output to out.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if cfg.GenerateSecret {
		return generateSecret(out, reader)
	}

	if cfg.Secret == "" {
		return errors.New("secret is required (or pass -generate-secret)")
	}
	if cfg.PlayerID == "" {
		return errors.New("player id is required")
	}
	if cfg.TTL <= 0 {
		return errors.New("ttl must be greater than zero")
	}

	token, err := ws.IssueToken(cfg.PlayerID, cfg.PlayerName, []byte(cfg.Secret), cfg.TTL, nil)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func generateSecret(out io.Writer, reader io.Reader) error {
	if reader == nil {
		reader = rand.Reader
	}
	buf := make([]byte, secretBytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	_, err := fmt.Fprintf(out, "FABLEROOM_SESSION_SECRET=%s\n", hex.EncodeToString(buf))
	return err
}
