package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func chdir(t *testing.T, dir string) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(dir+"/config", 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := []byte("sequencer:\n  capacity: 10\nconnections:\n  capacity: 200\n  idle_ttl: 5m\n")
	if err := os.WriteFile(dir+"/config/default.yaml", data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	viper.Reset()
	chdir(t, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sequencer.Capacity != 10 {
		t.Fatalf("expected sequencer capacity 10, got %d", cfg.Sequencer.Capacity)
	}
	if cfg.Connections.Capacity != 200 {
		t.Fatalf("expected connections capacity 200, got %d", cfg.Connections.Capacity)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(dir+"/config", 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(dir+"/config/default.yaml", []byte("sequencer:\n  capacity: 10\n"), 0o600); err != nil {
		t.Fatalf("write default: %v", err)
	}
	if err := os.WriteFile(dir+"/config/staging.yaml", []byte("sequencer:\n  capacity: 25\n"), 0o600); err != nil {
		t.Fatalf("write staging: %v", err)
	}

	viper.Reset()
	chdir(t, dir)

	cfg, err := Load("staging")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sequencer.Capacity != 25 {
		t.Fatalf("expected overridden capacity 25, got %d", cfg.Sequencer.Capacity)
	}
}
