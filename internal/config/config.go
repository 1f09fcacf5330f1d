package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Report data sources.
const (
	SourceDatabase = "database"
	SourceRemote   = "remote"
)

// Config holds runtime configuration values for the reporting service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	ReportSource    string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	SessionTTL      time.Duration
	ReportTitle     string
	DateLayout      string
	ExportRateLimit int
	ExportWindow    time.Duration
	NATSURL         string
	NATSSubject     string
	SeedEnabled     bool
	SeedToken       string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from CAMPUS_* environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Smart Campus MIS")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("report.source", SourceDatabase)
	v.SetDefault("report.upstream_timeout", "10s")
	v.SetDefault("report.session_ttl", "30m")
	v.SetDefault("report.title", "Smart Campus MIS Report")
	v.SetDefault("report.date_layout", "1/2/2006")
	v.SetDefault("report.export_rate_limit", 10)
	v.SetDefault("report.export_rate_window", "1m")
	v.SetDefault("nats.subject", "reports.exported")
	v.SetDefault("seed.enabled", false)

	upstreamTimeout, err := parseDuration(v, "report.upstream_timeout")
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := parseDuration(v, "report.session_ttl")
	if err != nil {
		return Config{}, err
	}
	exportWindow, err := parseDuration(v, "report.export_rate_window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		ReportSource:    strings.ToLower(strings.TrimSpace(v.GetString("report.source"))),
		UpstreamURL:     strings.TrimRight(v.GetString("report.upstream_url"), "/"),
		UpstreamTimeout: upstreamTimeout,
		SessionTTL:      sessionTTL,
		ReportTitle:     v.GetString("report.title"),
		DateLayout:      v.GetString("report.date_layout"),
		ExportRateLimit: v.GetInt("report.export_rate_limit"),
		ExportWindow:    exportWindow,
		NATSURL:         v.GetString("nats.url"),
		NATSSubject:     v.GetString("nats.subject"),
		SeedEnabled:     v.GetBool("seed.enabled"),
		SeedToken:       v.GetString("seed.token"),
	}

	switch cfg.ReportSource {
	case SourceDatabase:
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("jwt secret must be provided for the database report source")
		}
	case SourceRemote:
		if cfg.UpstreamURL == "" {
			return Config{}, fmt.Errorf("upstream url must be provided for the remote report source")
		}
	default:
		return Config{}, fmt.Errorf("unknown report source %q", cfg.ReportSource)
	}

	if cfg.SeedEnabled && cfg.SeedToken == "" {
		return Config{}, fmt.Errorf("seed token must be provided when seeding is enabled")
	}

	if cfg.ExportRateLimit <= 0 {
		cfg.ExportRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return value, nil
}
