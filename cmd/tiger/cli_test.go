package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/tiger/bootstrap"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI(t *testing.T) {
	t.Chdir(t.TempDir())

	game := t.TempDir()
	write(t, game, "events/witch_events.txt", "namespace = witch\n")
	write(t, game, "common/traits/00_traits.txt", "brave = { }\ncraven = { }\n")

	mod := t.TempDir()
	write(t, mod, "descriptor.mod", "name = \"CLI Mod\"\n")
	write(t, mod, "common/scripted_effects/cli.txt", "cli_effect = { flurb = yes }\n")
	db := filepath.Join(t.TempDir(), "tiger.db")

	t.Run("version", func(t *testing.T) {
		out, err := execute(t, "version")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out, "tiger dev") {
			t.Errorf("unexpected version output %q", out)
		}
	})

	t.Run("validate fails on error", func(t *testing.T) {
		out, err := execute(t, "validate", mod, "--game", game, "--format", "table",
			"--fail-on", "error", "--index-db", db, "--log-level", "disabled")
		if !errors.Is(err, bootstrap.ErrThreshold) {
			t.Fatalf("expected threshold error, got %v", err)
		}
		if !strings.Contains(out, "flurb") || !strings.Contains(out, "1 errors") {
			t.Errorf("unexpected report:\n%s", out)
		}
	})

	t.Run("items list", func(t *testing.T) {
		out, err := execute(t, "items", "list", "trait", "br", "--mod", mod, "--game", game,
			"--index-db", db, "--format", "console", "--log-level", "disabled")
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(out) != "brave" {
			t.Errorf("expected only brave, got %q", out)
		}
	})

	t.Run("items check", func(t *testing.T) {
		out, err := execute(t, "items", "check", "scripted_effect", "cli_effect", "--mod", mod, "--game", game,
			"--log-level", "disabled", "--fresh")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "[MOD] common/scripted_effects/cli.txt:1") {
			t.Errorf("unexpected output %q", out)
		}

		_, err = execute(t, "items", "check", "trait", "ugly", "--mod", mod, "--game", game, "--log-level", "disabled")
		if err == nil {
			t.Error("expected an error for an undefined trait")
		}

		_, err = execute(t, "items", "check", "planet", "x", "--mod", mod, "--game", game)
		if err == nil {
			t.Error("expected an error for an unknown kind")
		}
	})

	t.Run("runs", func(t *testing.T) {
		out, err := execute(t, "runs", "--mod", mod, "--game", game, "--index-db", db, "--log-level", "disabled")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "CLI") && !strings.Contains(out, filepath.Base(mod)) {
			t.Errorf("expected the recorded run:\n%s", out)
		}
	})
}
