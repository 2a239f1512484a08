package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := cfg.Server.Port, 1234; got != want {
		t.Errorf("Server.Port = %d, want %d", got, want)
	}
	if got, want := cfg.AI.Timeout, 10*time.Second; got != want {
		t.Errorf("AI.Timeout = %v, want %v", got, want)
	}
	if got, want := cfg.Logging.Level, "info"; got != want {
		t.Errorf("Logging.Level = %q, want %q", got, want)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawserver.yaml")
	data := `server:
  port: 4321
ai:
  timeout: 2s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := cfg.Server.Port, 4321; got != want {
		t.Errorf("Server.Port = %d, want %d", got, want)
	}
	if got, want := cfg.AI.Timeout, 2*time.Second; got != want {
		t.Errorf("AI.Timeout = %v, want %v", got, want)
	}
	// Untouched keys keep their defaults.
	if got, want := cfg.Server.Host, "0.0.0.0"; got != want {
		t.Errorf("Server.Host = %q, want %q", got, want)
	}
	if got, want := cfg.AI.Port, 5000; got != want {
		t.Errorf("AI.Port = %d, want %d", got, want)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawserver.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed YAML: expected error, got nil")
	}
}

func TestAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 1234}
	if got, want := s.Addr(), "127.0.0.1:1234"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}
