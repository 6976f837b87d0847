package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8082"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != "localhost:8082" {
		t.Errorf("address: expected localhost:8082, got %q", cfg.Addr)
	}
	if cfg.Roster.MaxStudents != 5 {
		t.Errorf("max_students: expected 5, got %d", cfg.Roster.MaxStudents)
	}
	if cfg.Roster.AddDelay != time.Second || cfg.Roster.MutateDelay != 500*time.Millisecond {
		t.Errorf("delays: expected 1s/500ms, got %v/%v", cfg.Roster.AddDelay, cfg.Roster.MutateDelay)
	}
	if cfg.StoragePath != "" {
		t.Errorf("storage_path: expected empty, got %q", cfg.StoragePath)
	}
}

func TestLoadReadsRosterSection(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_path: "storage/roster.db"
seed_demo: true
http_server:
  address: ":9000"
roster:
  max_students: 8
  add_delay: 5ms
  mutate_delay: 20ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Roster.MaxStudents != 8 || cfg.Roster.AddDelay != 5*time.Millisecond || cfg.Roster.MutateDelay != 20*time.Millisecond {
		t.Errorf("unexpected roster config: %+v", cfg.Roster)
	}
	if !cfg.SeedDemo || cfg.StoragePath != "storage/roster.db" {
		t.Errorf("unexpected storage config: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "non-positive capacity",
			body:    "env: dev\nhttp_server:\n  address: \":1\"\nroster:\n  max_students: -1\n",
			wantErr: "max_students",
		},
		{
			name:    "negative delay",
			body:    "env: dev\nhttp_server:\n  address: \":1\"\nroster:\n  mutate_delay: -1s\n",
			wantErr: "delays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
