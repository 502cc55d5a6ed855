package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "site-api"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultSiteURL      = "https://armadamd.com"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBPort       = 5432
	defaultDBName       = "site_api"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultAnalyzeModel = "gpt-4o-mini"
	defaultContentModel = "gpt-4o"
	defaultLLMTimeoutS  = 60

	defaultAdminUsername = "admin"

	defaultMaxEventsPerMinute = 120
	defaultWindowSeconds      = 60
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Admin     AdminConfig     `yaml:"admin"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	Port       int    `env:"SITE_API_PORT" yaml:"port"`
	Debug      bool   `env:"APP_DEBUG"     yaml:"debug"`
	SiteURL    string `env:"SITE_URL"      yaml:"site_url"`
	CronSecret string `env:"CRON_SECRET"   yaml:"cron_secret"`
}

// DatabaseConfig holds PostgreSQL database configuration.
// The database is optional: when Host is empty the service runs without
// persistence and analytics writes are skipped.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_SITE_API_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_SITE_API_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_SITE_API_USER"     yaml:"user"`
	Password string `env:"POSTGRES_SITE_API_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_SITE_API_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SITE_API_SSLMODE"  yaml:"sslmode"`
}

// Configured reports whether database credentials are present.
func (d *DatabaseConfig) Configured() bool {
	return d.Host != ""
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// OpenAIConfig holds LLM client configuration.
// An empty APIKey disables the SEO analyzer and content generator endpoints.
type OpenAIConfig struct {
	APIKey       string        `env:"OPENAI_API_KEY" yaml:"api_key"`
	AnalyzeModel string        `yaml:"analyze_model"`
	ContentModel string        `yaml:"content_model"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Configured reports whether LLM credentials are present.
func (o *OpenAIConfig) Configured() bool {
	return o.APIKey != ""
}

// AdminConfig holds the HTTP basic-auth credentials for /admin routes.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" yaml:"username"`
	Password string `env:"ADMIN_PASSWORD" yaml:"password"`
}

// RateLimitConfig holds rate limiting configuration for ingestion routes.
type RateLimitConfig struct {
	MaxEventsPerMinute int `yaml:"max_events_per_minute"`
	WindowSeconds      int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return LoadWithDefaults[Config](path, SetDefaults)
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setOpenAIDefaults(&cfg.OpenAI)
	setAdminDefaults(&cfg.Admin)
	setRateLimitDefaults(&cfg.RateLimit)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.SiteURL == "" {
		svc.SiteURL = defaultSiteURL
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	// Host is intentionally left empty: an unset host means "no database".
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setOpenAIDefaults(ai *OpenAIConfig) {
	if ai.AnalyzeModel == "" {
		ai.AnalyzeModel = defaultAnalyzeModel
	}
	if ai.ContentModel == "" {
		ai.ContentModel = defaultContentModel
	}
	if ai.Timeout == 0 {
		ai.Timeout = defaultLLMTimeoutS * time.Second
	}
}

func setAdminDefaults(admin *AdminConfig) {
	if admin.Username == "" {
		admin.Username = defaultAdminUsername
	}
}

func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxEventsPerMinute == 0 {
		rl.MaxEventsPerMinute = defaultMaxEventsPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Admin.Password == "" {
		return &ValidationError{
			Field:   "admin.password",
			Message: "is required",
		}
	}
	return nil
}
