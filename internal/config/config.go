package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. WEBRESEARCH_LOG_LEVEL.
const EnvPrefix = "WEBRESEARCH"

// Config holds the full application configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Tournament TournamentConfig `yaml:"tournament" mapstructure:"tournament"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// SearchConfig configures the result-page search client.
type SearchConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxResults  int     `yaml:"max_results" mapstructure:"max_results"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// Timeout returns the request timeout as a duration.
func (c SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// FetchConfig configures page fetching and summarization.
type FetchConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxLength    int    `yaml:"max_length" mapstructure:"max_length"`
}

// Timeout returns the request timeout as a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// TournamentConfig configures the knockout comparison.
type TournamentConfig struct {
	CandidateLimit int `yaml:"candidate_limit" mapstructure:"candidate_limit"`
	RoundWindow    int `yaml:"round_window" mapstructure:"round_window"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.base_url", "https://html.duckduckgo.com/html/")
	v.SetDefault("search.user_agent", "")
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.rate_per_sec", 1.0)
	v.SetDefault("search.burst", 2)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0")
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.max_body_bytes", 2<<20)
	v.SetDefault("fetch.max_length", 2000)
	v.SetDefault("tournament.candidate_limit", 8)
	v.SetDefault("tournament.round_window", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "research" for the
// search/fetch/ask/mcp commands and "serve" for the HTTP server.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Search.TimeoutSecs <= 0 {
		problems = append(problems, "search.timeout_secs must be > 0")
	}
	if c.Search.MaxResults < 1 || c.Search.MaxResults > 10 {
		problems = append(problems, "search.max_results must be between 1 and 10")
	}
	if c.Search.RatePerSec < 0 {
		problems = append(problems, "search.rate_per_sec must be >= 0")
	}
	if c.Fetch.TimeoutSecs <= 0 {
		problems = append(problems, "fetch.timeout_secs must be > 0")
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		problems = append(problems, "fetch.max_body_bytes must be > 0")
	}
	if c.Fetch.MaxLength <= 0 {
		problems = append(problems, "fetch.max_length must be > 0")
	}
	if c.Tournament.CandidateLimit < 1 {
		problems = append(problems, "tournament.candidate_limit must be >= 1")
	}
	if c.Tournament.RoundWindow < 2 {
		problems = append(problems, "tournament.round_window must be >= 2")
	}

	switch mode {
	case "research":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New(fmt.Sprintf("config: invalid: %s", strings.Join(problems, "; ")))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
