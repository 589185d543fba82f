package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deduction-ocr/api/internal/failover"
)

const (
	BackendVertex = "vertex"
	BackendStudio = "studio"
)

type Config struct {
	Port string

	APIKey string

	GeminiBackend   string
	VertexProjectID string
	VertexLocation  string
	VertexRegions   []string
	GeminiAPIKey    string
	GeminiModel     string

	MaxRetries     int
	MaxPDFPages    int
	PromptDir      string
	RequestTimeout time.Duration
	LogLevel       string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("gemini_backend", BackendVertex)
	v.SetDefault("vertex_ai_location", "asia-northeast1")
	v.SetDefault("vertex_ai_regions", strings.Join(failover.DefaultRegions, ","))
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("max_retries", failover.DefaultMaxRetries)
	v.SetDefault("max_pdf_pages", 20)
	v.SetDefault("prompt_dir", "prompts")
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("log_level", "info")
}

// Load reads the environment and, when cfgFile is set, a YAML file. Keys in
// the file are the lower-case env names (port, api_key, ...). Environment
// values win over the file.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("request_timeout")))
	if err != nil {
		return nil, fmt.Errorf("bad REQUEST_TIMEOUT: %w", err)
	}

	return &Config{
		Port: v.GetString("port"),

		APIKey: v.GetString("api_key"),

		GeminiBackend:   strings.ToLower(strings.TrimSpace(v.GetString("gemini_backend"))),
		VertexProjectID: v.GetString("vertex_ai_project_id"),
		VertexLocation:  v.GetString("vertex_ai_location"),
		VertexRegions:   splitList(v.GetString("vertex_ai_regions")),
		GeminiAPIKey:    v.GetString("gemini_api_key"),
		GeminiModel:     v.GetString("gemini_model"),

		MaxRetries:     v.GetInt("max_retries"),
		MaxPDFPages:    v.GetInt("max_pdf_pages"),
		PromptDir:      v.GetString("prompt_dir"),
		RequestTimeout: timeout,
		LogLevel:       v.GetString("log_level"),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("missing required env API_KEY"))
	}
	return errors.Join(append(errs, c.ValidateBackend())...)
}

// ValidateBackend checks everything except API_KEY, which only the
// network-facing binaries need.
func (c *Config) ValidateBackend() error {
	var errs []error
	switch c.GeminiBackend {
	case BackendVertex:
		if c.VertexProjectID == "" {
			errs = append(errs, errors.New("missing required env VERTEX_AI_PROJECT_ID"))
		}
	case BackendStudio:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("missing required env GEMINI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("GEMINI_BACKEND must be %q or %q, got %q", BackendVertex, BackendStudio, c.GeminiBackend))
	}
	if c.GeminiModel == "" {
		errs = append(errs, errors.New("GEMINI_MODEL must not be empty"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must be >= 0, got %d", c.MaxRetries))
	}
	if c.MaxPDFPages < 1 {
		errs = append(errs, fmt.Errorf("MAX_PDF_PAGES must be >= 1, got %d", c.MaxPDFPages))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// Regions is the rotation order: the configured location first, then the
// rest of the list.
func (c *Config) Regions() []string {
	regions := c.VertexRegions
	if len(regions) == 0 {
		regions = failover.DefaultRegions
	}
	return failover.OrderRegions(c.VertexLocation, regions)
}

// Logger builds the production JSON logger at LOG_LEVEL.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("bad LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
