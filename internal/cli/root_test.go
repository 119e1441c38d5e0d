package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/logcatparse/internal/cli/plugins"
)

func emptyFinder() *plugins.Finder {
	return &plugins.Finder{}
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"parse", "detect", "diagnose", "validate", "version"} {
		if !isBuiltinCommand(cmd, name) {
			t.Errorf("missing command: %s", name)
		}
	}
	for _, flag := range []string{"config", "log-level"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag: %s", flag)
		}
	}
	if !isBuiltinCommand(cmd, "help") || isBuiltinCommand(cmd, "frobnicate") {
		t.Error("isBuiltinCommand misclassified help or frobnicate")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.txt")
	dirty := filepath.Join(dir, "dirty.txt")
	if err := os.WriteFile(clean, []byte("01-15 10:00:00.000  1234  1240 I Tag: ok\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dirty, []byte("orphan\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"version"}, 0},
		{"parse clean", []string{"parse", "-q", "--strict", clean}, 0},
		{"parse dirty lenient", []string{"parse", "-q", dirty}, 0},
		{"parse dirty strict", []string{"parse", "-q", "--strict", dirty}, 1},
		{"parse missing file", []string{"parse", filepath.Join(dir, "missing.txt")}, 2},
		{"bad log level", []string{"--log-level", "loud", "version"}, 2},
		{"unknown command", []string{"frobnicate"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(context.Background(), tt.args, emptyFinder()); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_Plugin(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/sh\nexit 3\n"
	if err := os.WriteFile(filepath.Join(dir, plugins.Prefix+"stats"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	finder := &plugins.Finder{Dirs: []string{dir}}
	if got := run(context.Background(), []string{"stats", "--top", "5"}, finder); got != 3 {
		t.Errorf("plugin exit code = %d, want 3", got)
	}

	// Built-in commands are never shadowed by plugins.
	if err := os.WriteFile(filepath.Join(dir, plugins.Prefix+"version"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	if got := run(context.Background(), []string{"version"}, finder); got != 0 {
		t.Errorf("version exit code = %d, want 0", got)
	}
}

func TestSetupLogging(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	cmd := NewRootCommand()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	if err := setupLogging(cmd, "info"); err != nil {
		t.Fatalf("setupLogging error = %v", err)
	}
	slog.Debug("hidden")
	slog.Info("shown", "k", "v")

	out := stderr.String()
	if !strings.Contains(out, "msg=shown k=v") {
		t.Errorf("stderr = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}

	if err := setupLogging(cmd, "chatty"); err == nil {
		t.Error("expected error for invalid level")
	}
}
