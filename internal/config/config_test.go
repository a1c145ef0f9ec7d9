package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Success(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cfgtest")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfgContent := `host: "localhost"
port: 8080
database:
  connection_string: "user:pass@/dbname"
auth:
  secret_key: "test-secret"
  token_expiry: 24
agent:
  provider: "anthropic"
  max_tool_hops: 5
  history_window: 50
anthropic:
  api_key: "sk-test"
  model: "claude-sonnet-4-5"
`
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfgContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Host != "localhost" || cfg.Port != 8080 {
		t.Errorf("unexpected host/port: %v:%v", cfg.Host, cfg.Port)
	}
	if cfg.Database.ConnectionString != "user:pass@/dbname" {
		t.Errorf("database connection incorrect: %v", cfg.Database.ConnectionString)
	}
	if cfg.Agent.MaxToolHops != 5 {
		t.Errorf("expected configured max_tool_hops to survive, got %d", cfg.Agent.MaxToolHops)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-5" {
		t.Errorf("unexpected anthropic model: %v", cfg.Anthropic.Model)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cfgtest")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("database:\n  connection_string: \"x\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Agent.MaxToolHops != 8 {
		t.Errorf("expected default max_tool_hops of 8, got %d", cfg.Agent.MaxToolHops)
	}
	if cfg.Agent.HistoryWindow != 100 {
		t.Errorf("expected default history_window of 100, got %d", cfg.Agent.HistoryWindow)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port of 8080, got %d", cfg.Port)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "bad.*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.WriteString("not: [invalid yaml"); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}
	tmpFile.Close()

	_, err = LoadConfig(tmpFile.Name())
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}
