package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Decision DecisionConfig `yaml:"decision" mapstructure:"decision"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
}

// EngineConfig configures the normalization pipeline.
type EngineConfig struct {
	RateTablesPath   string   `yaml:"rate_tables_path" mapstructure:"rate_tables_path"`
	Workers          int      `yaml:"workers" mapstructure:"workers"`
	CurrencyKeywords []string `yaml:"currency_keywords" mapstructure:"currency_keywords"`
}

// DecisionConfig holds the underwriting rule thresholds. Completeness and
// claim ratio thresholds are percentages; risk thresholds are on the 0-10 scale.
type DecisionConfig struct {
	RequestInfoBelow     float64 `yaml:"request_info_below" mapstructure:"request_info_below"`
	AcceptAtOrBelow      float64 `yaml:"accept_at_or_below" mapstructure:"accept_at_or_below"`
	ConditionsAtOrBelow  float64 `yaml:"conditions_at_or_below" mapstructure:"conditions_at_or_below"`
	ReferAtOrBelow       float64 `yaml:"refer_at_or_below" mapstructure:"refer_at_or_below"`
	ConditionsAdjustment float64 `yaml:"conditions_adjustment" mapstructure:"conditions_adjustment"`
	ReferAdjustment      float64 `yaml:"refer_adjustment" mapstructure:"refer_adjustment"`
	ClaimRatioWarning    float64 `yaml:"claim_ratio_warning" mapstructure:"claim_ratio_warning"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
	// OpenAttempts bounds connection attempts when the store is opened.
	OpenAttempts int `yaml:"open_attempts" mapstructure:"open_attempts"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultDecisionConfig returns the standard underwriting thresholds.
func DefaultDecisionConfig() DecisionConfig {
	return DecisionConfig{
		RequestInfoBelow:     50,
		AcceptAtOrBelow:      3,
		ConditionsAtOrBelow:  5,
		ReferAtOrBelow:       7,
		ConditionsAdjustment: 15,
		ReferAdjustment:      25,
		ClaimRatioWarning:    80,
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RESURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := DefaultDecisionConfig()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("engine.rate_tables_path", "")
	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.currency_keywords", []string{"sum", "premium", "amount", "value", "limit"})
	v.SetDefault("decision.request_info_below", d.RequestInfoBelow)
	v.SetDefault("decision.accept_at_or_below", d.AcceptAtOrBelow)
	v.SetDefault("decision.conditions_at_or_below", d.ConditionsAtOrBelow)
	v.SetDefault("decision.refer_at_or_below", d.ReferAtOrBelow)
	v.SetDefault("decision.conditions_adjustment", d.ConditionsAdjustment)
	v.SetDefault("decision.refer_adjustment", d.ReferAdjustment)
	v.SetDefault("decision.claim_ratio_warning", d.ClaimRatioWarning)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "resure.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("store.open_attempts", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 10<<20)

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

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "score", "report":
		errs = append(errs, c.validateEngine()...)
	case "decide":
		errs = append(errs, decisionErrors(c.Decision)...)
	case "serve":
		errs = append(errs, c.validateEngine()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimit <= 0 {
			errs = append(errs, "server.rate_limit must be > 0")
		}
		if c.Server.RateBurst < 1 {
			errs = append(errs, "server.rate_burst must be >= 1")
		}
	case "runs":
		errs = append(errs, c.validateStore()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateEngine() []string {
	var errs []string
	if c.Engine.Workers < 1 || c.Engine.Workers > 64 {
		errs = append(errs, "engine.workers must be between 1 and 64")
	}
	errs = append(errs, decisionErrors(c.Decision)...)
	return errs
}

func (c *Config) validateStore() []string {
	var errs []string
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	return errs
}

// ValidateDecisionConfig checks that decision thresholds are ordered and in range.
func ValidateDecisionConfig(d DecisionConfig) error {
	if errs := decisionErrors(d); len(errs) > 0 {
		return eris.Errorf("config: decision validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func decisionErrors(d DecisionConfig) []string {
	var errs []string
	if d.RequestInfoBelow < 0 || d.RequestInfoBelow > 100 {
		errs = append(errs, "decision.request_info_below must be between 0 and 100")
	}
	if d.AcceptAtOrBelow < 0 {
		errs = append(errs, "decision.accept_at_or_below must be >= 0")
	}
	if d.ConditionsAtOrBelow < d.AcceptAtOrBelow {
		errs = append(errs, "decision.conditions_at_or_below must be >= accept_at_or_below")
	}
	if d.ReferAtOrBelow < d.ConditionsAtOrBelow {
		errs = append(errs, "decision.refer_at_or_below must be >= conditions_at_or_below")
	}
	if d.ReferAtOrBelow > 10 {
		errs = append(errs, "decision.refer_at_or_below must be <= 10")
	}
	if d.ConditionsAdjustment < 0 || d.ReferAdjustment < 0 {
		errs = append(errs, "decision adjustments must be >= 0")
	}
	if d.ClaimRatioWarning < 0 {
		errs = append(errs, "decision.claim_ratio_warning must be >= 0")
	}
	return errs
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
