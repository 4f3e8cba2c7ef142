package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseConfigNil(t *testing.T) {
	if err := ParseConfig[struct{}](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseConfigFromArgs(t *testing.T) {
	type cfg struct {
		Name string `env:"FABLEROOM_TEST_NAME" envDefault:"fallback"`
	}
	var c cfg
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&c.Name, "name", c.Name, "test name")
	if err := ParseConfigFromArgs(&c, fs, []string{"-name", "override"}); err != nil {
		t.Fatalf("parse config from args: %v", err)
	}
	if c.Name != "override" {
		t.Fatalf("expected flag override, got %q", c.Name)
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	want := errors.New("boom")
	err := RunWithTelemetry(context.Background(), ServiceServer, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
