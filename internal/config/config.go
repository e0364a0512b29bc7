package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/headingkit/internal/actions"
)

// EnvPrefix prefixes every environment variable, e.g. HEADINGKIT_API_PORT.
const EnvPrefix = "HEADINGKIT"

type Config struct {
	Headings HeadingsConfig `mapstructure:"headings"`
	Strike   StrikeConfig   `mapstructure:"strike"`
	Notice   NoticeConfig   `mapstructure:"notice"`
	Editor   EditorConfig   `mapstructure:"editor"`
	API      APIConfig      `mapstructure:"api"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type HeadingsConfig struct {
	LevelLimit int  `mapstructure:"level_limit"`
	Expand     bool `mapstructure:"expand"`
}

type StrikeConfig struct {
	Linewise bool `mapstructure:"linewise"`
}

type NoticeConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

type EditorConfig struct {
	VimMode bool `mapstructure:"vim_mode"`
}

type APIConfig struct {
	Port           string `mapstructure:"port"`
	APIKey         string `mapstructure:"api_key"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// String masks the API key.
func (c APIConfig) String() string {
	key := "***"
	if len(c.APIKey) > 8 {
		key = c.APIKey[:4] + "****" + c.APIKey[len(c.APIKey)-4:]
	}
	return fmt.Sprintf("APIConfig{Port:%s, APIKey:%s, MaxUploadBytes:%d}", c.Port, key, c.MaxUploadBytes)
}

type PipelineConfig struct {
	WorkerCount       int           `mapstructure:"worker_count"`
	MaxQueueSize      int           `mapstructure:"max_queue_size"`
	MaxConcurrentDocs int           `mapstructure:"max_concurrent_docs"`
	JobTTL            time.Duration `mapstructure:"job_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("headings.level_limit", 6)
	v.SetDefault("headings.expand", false)
	v.SetDefault("strike.linewise", true)
	v.SetDefault("notice.duration", 4*time.Second)
	v.SetDefault("editor.vim_mode", false)

	v.SetDefault("api.port", "8090")
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.max_upload_bytes", 10<<20) // 10MB

	v.SetDefault("pipeline.worker_count", 4)
	v.SetDefault("pipeline.max_queue_size", 100)
	v.SetDefault("pipeline.max_concurrent_docs", 4)
	v.SetDefault("pipeline.job_ttl", time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads defaults, then headingkit.yaml (from path when given, else the
// working directory), then HEADINGKIT_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("headingkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Headings.LevelLimit < 1 || c.Headings.LevelLimit > 6 {
		return fmt.Errorf("headings.level_limit must be between 1 and 6, got %d", c.Headings.LevelLimit)
	}
	if c.Notice.Duration < 0 {
		return fmt.Errorf("notice.duration must be >= 0")
	}
	if c.Pipeline.WorkerCount <= 0 {
		return fmt.Errorf("pipeline.worker_count must be greater than 0")
	}
	if c.Pipeline.MaxQueueSize <= 0 {
		return fmt.Errorf("pipeline.max_queue_size must be greater than 0")
	}
	if c.Pipeline.MaxConcurrentDocs <= 0 {
		return fmt.Errorf("pipeline.max_concurrent_docs must be greater than 0")
	}
	if c.Pipeline.JobTTL <= 0 {
		return fmt.Errorf("pipeline.job_ttl must be greater than 0")
	}
	if c.API.MaxUploadBytes <= 0 {
		return fmt.Errorf("api.max_upload_bytes must be greater than 0")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// ValidateServer additionally checks what the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.API.APIKey == "" {
		return fmt.Errorf("%s_API_API_KEY is required", EnvPrefix)
	}
	return nil
}

// SlogLevel parses Level.
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the logger described by c, writing to w.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Actions returns the settings of the editor commands.
func (c *Config) Actions() actions.Settings {
	return actions.Settings{
		LevelLimit:     c.Headings.LevelLimit,
		NoticeDuration: c.Notice.Duration,
		StrikeLinewise: c.Strike.Linewise,
		VimMode:        c.Editor.VimMode,
	}
}
