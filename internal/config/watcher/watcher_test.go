package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keyclaim/internal/config"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.toml")
	if err := os.WriteFile(path, []byte("[[binding]]\nname = \"a\"\nkey = \"q\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := make(chan *config.Config, 4)
	w, err := New(path, func(cfg *config.Config, err error) {
		if err == nil {
			select {
			case results <- cfg:
			default:
			}
		}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[[binding]]\nname = \"b\"\nkey = \"Esc\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A reload may observe the truncated file first; wait for the final content.
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-results:
			_, reloaded = cfg.Binding("b")
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_ReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 4)
	w, err := New(path, func(cfg *config.Config, err error) {
		if err != nil {
			select {
			case errs <- err:
			default:
			}
		}
	}, WithDebounce(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(path, []byte("tick_rate = \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		if err == nil {
			t.Error("expected an error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "bindings.toml"), func(*config.Config, error) {})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
