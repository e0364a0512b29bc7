package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Headings.LevelLimit != 6 {
		t.Errorf("expected level limit 6, got %d", cfg.Headings.LevelLimit)
	}
	if !cfg.Strike.Linewise {
		t.Error("expected linewise strikethrough by default")
	}
	if cfg.Notice.Duration != 4*time.Second {
		t.Errorf("expected 4s notices, got %v", cfg.Notice.Duration)
	}
	if cfg.API.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.API.Port)
	}
	if cfg.Pipeline.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %v", cfg.Pipeline.JobTTL)
	}
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected server validation to require an API key")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headingkit.yaml")
	yaml := "headings:\n  level_limit: 3\nnotice:\n  duration: 10s\npipeline:\n  worker_count: 2\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HEADINGKIT_PIPELINE_WORKER_COUNT", "8")
	t.Setenv("HEADINGKIT_API_API_KEY", "secret-key-1234")
	t.Setenv("HEADINGKIT_EDITOR_VIM_MODE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Headings.LevelLimit != 3 {
		t.Errorf("expected level limit 3 from file, got %d", cfg.Headings.LevelLimit)
	}
	if cfg.Notice.Duration != 10*time.Second {
		t.Errorf("expected 10s from file, got %v", cfg.Notice.Duration)
	}
	if cfg.Pipeline.WorkerCount != 8 {
		t.Errorf("expected env to override file, got %d workers", cfg.Pipeline.WorkerCount)
	}
	if !cfg.Editor.VimMode {
		t.Error("expected vim mode from env")
	}
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	settings := cfg.Actions()
	if settings.LevelLimit != 3 || !settings.VimMode || settings.NoticeDuration != 10*time.Second {
		t.Errorf("unexpected action settings %+v", settings)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"level limit", func(c *Config) { c.Headings.LevelLimit = 7 }, "headings.level_limit"},
		{"workers", func(c *Config) { c.Pipeline.WorkerCount = 0 }, "pipeline.worker_count"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	t.Chdir(t.TempDir())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error mentioning %s, got %v", tt.field, err)
			}
		})
	}
}

func TestAPIConfig_StringMasksKey(t *testing.T) {
	s := APIConfig{Port: "1", APIKey: "abcdefghijkl"}.String()
	if strings.Contains(s, "efgh") {
		t.Errorf("expected masked key, got %s", s)
	}
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("unexpected output %q", buf.String())
	}
}
