// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/swatchbook/pantone-scraper/internal/catalog"
)

// Config captures all scraper configuration knobs loaded via Viper.
type Config struct {
	Site     SiteConfig     `mapstructure:"site"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Output   OutputConfig   `mapstructure:"output"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Store    StoreConfig    `mapstructure:"store"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SiteConfig governs how the colour finder is approached.
type SiteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	DelayMs        int    `mapstructure:"delay_ms"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RespectRobots  bool   `mapstructure:"respect_robots"`
}

// CatalogConfig selects which swatch pages a run visits. When Pages is set
// the run visits exactly those URLs instead of sweeping the book.
type CatalogConfig struct {
	FirstNumber int      `mapstructure:"first_number"`
	LastNumber  int      `mapstructure:"last_number"`
	Pages       []string `mapstructure:"pages"`
	Limit       int      `mapstructure:"limit"`
}

// ParserConfig holds the page selectors. The site's markup is not a stable
// contract, so the selectors are knobs rather than constants.
type ParserConfig struct {
	NameSelector string `mapstructure:"name_selector"`
	CodeSelector string `mapstructure:"code_selector"`
	HexSelector  string `mapstructure:"hex_selector"`
	RGBSelector  string `mapstructure:"rgb_selector"`
	CMYKSelector string `mapstructure:"cmyk_selector"`
}

// HeadlessConfig configures the headless browser fallback.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
}

// OutputConfig sets the artifact paths. The CSV is the primary artifact;
// the JSONL export is optional and off when the path is empty.
type OutputConfig struct {
	CSVPath   string `mapstructure:"csv_path"`
	JSONLPath string `mapstructure:"jsonl_path"`
}

// ArchiveConfig controls raw page archival.
type ArchiveConfig struct {
	Backend     string `mapstructure:"backend"`
	Dir         string `mapstructure:"dir"`
	GCSBucket   string `mapstructure:"gcs_bucket"`
	Prefix      string `mapstructure:"prefix"`
	ContentType string `mapstructure:"content_type"`
}

// StoreConfig controls optional persistence of records to Postgres.
type StoreConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int    `mapstructure:"max_conns"`
}

// PubSubConfig holds metadata for the run-completion notification.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// ServerConfig controls the optional status server.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Archive backends.
const (
	ArchiveNone   = "none"
	ArchiveLocal  = "local"
	ArchiveGCS    = "gcs"
	ArchiveMemory = "memory"
)

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PANTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", catalog.DefaultBaseURL)
	v.SetDefault("site.user_agent", "pantone-swatch-bot/0.1")
	v.SetDefault("site.delay_ms", 1000)
	v.SetDefault("site.timeout_seconds", 15)
	v.SetDefault("site.respect_robots", true)
	v.SetDefault("catalog.first_number", catalog.DefaultFirstNumber)
	v.SetDefault("catalog.last_number", catalog.DefaultLastNumber)
	v.SetDefault("catalog.limit", 0)
	v.SetDefault("parser.name_selector", ".pColorName")
	v.SetDefault("parser.code_selector", ".pColorCode")
	v.SetDefault("parser.hex_selector", "div[id$='divHEXValues']")
	v.SetDefault("parser.rgb_selector", "div[id$='divRGBValues']")
	v.SetDefault("parser.cmyk_selector", "div[id$='divCMYKValues']")
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("output.csv_path", "pantone_formula_guide_coated.csv")
	v.SetDefault("archive.backend", ArchiveNone)
	v.SetDefault("archive.prefix", "pages")
	v.SetDefault("archive.content_type", "text/html; charset=utf-8")
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.table", "swatches")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("pubsub.enabled", false)
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	if c.Site.TimeoutSeconds <= 0 {
		return fmt.Errorf("site.timeout_seconds must be > 0")
	}
	if c.Site.DelayMs < 0 {
		return fmt.Errorf("site.delay_ms must be >= 0")
	}
	if len(c.Catalog.Pages) == 0 {
		if c.Catalog.FirstNumber <= 0 || c.Catalog.LastNumber < c.Catalog.FirstNumber {
			return fmt.Errorf("catalog range %d..%d is invalid", c.Catalog.FirstNumber, c.Catalog.LastNumber)
		}
	}
	if c.Catalog.Limit < 0 {
		return fmt.Errorf("catalog.limit must be >= 0")
	}
	if c.Headless.Enabled && c.Headless.NavTimeoutSec <= 0 {
		return fmt.Errorf("headless.nav_timeout_seconds must be > 0 when headless is enabled")
	}
	if strings.TrimSpace(c.Output.CSVPath) == "" {
		return fmt.Errorf("output.csv_path must be set")
	}
	switch c.Archive.Backend {
	case ArchiveNone, ArchiveMemory:
	case ArchiveLocal:
		if c.Archive.Dir == "" {
			return fmt.Errorf("archive.dir must be set for the local backend")
		}
	case ArchiveGCS:
		if c.Archive.GCSBucket == "" {
			return fmt.Errorf("archive.gcs_bucket must be set for the gcs backend")
		}
	default:
		return fmt.Errorf("archive.backend %q is not one of none, local, gcs, memory", c.Archive.Backend)
	}
	if c.Store.Enabled {
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set when the store is enabled")
		}
		if c.Store.Table == "" {
			return fmt.Errorf("store.table must be set when the store is enabled")
		}
	}
	if c.PubSub.Enabled {
		if c.PubSub.ProjectID == "" || c.PubSub.TopicName == "" {
			return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set when pubsub is enabled")
		}
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set when the status server is enabled")
	}
	return nil
}

// Delay is the politeness pause between page fetches.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Site.DelayMs) * time.Millisecond
}

// Timeout bounds a single static fetch.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Site.TimeoutSeconds) * time.Second
}

// NavTimeout bounds a single headless navigation.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Headless.NavTimeoutSec) * time.Second
}
