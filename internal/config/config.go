package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "NEWSHOOKS_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	llmAPIKeyEnv      = "LLM_API_KEY"
	llmModelEnv       = "LLM_MODEL"
	searchAPIKeyEnv   = "SEARCH_API_KEY"
	logLevelEnv       = "LOG_LEVEL"
	writeModeEnv      = "WRITE_MODE"
	classifierModeEnv = "CLASSIFIER_MODE"
)

// Selectivity modes supported by the classifier prompt templates.
const (
	ModeInclusive = "inclusive"
	ModeStrict    = "strict"
	ModeRanked    = "ranked"
)

// Write disciplines supported by the store writer.
const (
	WriteReplace = "replace"
	WriteMerge   = "merge"
)

// Fetch strategies resolvable from the source registry.
const (
	StrategyRSS        = "rss"
	StrategySearch     = "search"
	StrategyNewsletter = "newsletter"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Search     SearchConfig     `yaml:"search"`
	Store      StoreConfig      `yaml:"store"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Sources    []SourceConfig   `yaml:"sources"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ClassifierConfig defines how to contact the LLM completion endpoint and
// which selectivity rubric to apply.
type ClassifierConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"apiKey"`
	Mode      string `yaml:"mode"`
	MaxBatch  int    `yaml:"maxBatch"`
	MaxPicks  int    `yaml:"maxPicks"`
	MaxTokens int    `yaml:"maxTokens"`
}

// SearchConfig wires the keyword news-search API used by search sources.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// StoreConfig selects the write discipline and retention window.
type StoreConfig struct {
	WriteMode     string `yaml:"writeMode"`
	RetentionDays int    `yaml:"retentionDays"`
}

// ScheduleConfig defines the optional in-process cron schedule.
type ScheduleConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourceConfig describes a single candidate source with its fetch strategy.
type SourceConfig struct {
	Name       string            `yaml:"name"`
	Strategy   string            `yaml:"strategy"`
	Feeds      map[string]string `yaml:"feeds"`   // outlet domain -> feed URL (rss)
	Queries    []string          `yaml:"queries"` // topical queries (search)
	Outlets    []string          `yaml:"outlets"` // outlet allow-list (search)
	URL        string            `yaml:"url"`     // newsletter archive base
	WindowDays int               `yaml:"windowDays"`
	MaxItems   int               `yaml:"maxItems"`
	FetchBody  bool              `yaml:"fetchBody"`
}

// Load reads YAML configuration (if present), applies environment
// overrides, and validates the result. Missing required credentials fail
// here, before any network I/O.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate enforces the fail-fast configuration contract.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database DSN is required (set %s)", databaseDSNEnv)
	}
	if c.Classifier.APIKey == "" {
		return fmt.Errorf("config: LLM API key is required (set %s)", llmAPIKeyEnv)
	}
	if c.Classifier.Endpoint == "" || c.Classifier.Model == "" {
		return fmt.Errorf("config: classifier endpoint and model are required")
	}
	switch c.Classifier.Mode {
	case ModeInclusive, ModeStrict, ModeRanked:
	default:
		return fmt.Errorf("config: unknown classifier mode %q", c.Classifier.Mode)
	}
	switch c.Store.WriteMode {
	case WriteReplace, WriteMerge:
	default:
		return fmt.Errorf("config: unknown write mode %q", c.Store.WriteMode)
	}
	if c.Store.RetentionDays <= 0 {
		return fmt.Errorf("config: retentionDays must be positive")
	}
	for _, src := range c.Sources {
		switch src.Strategy {
		case StrategyRSS:
			if len(src.Feeds) == 0 {
				return fmt.Errorf("config: source %s: rss strategy needs feeds", src.Name)
			}
		case StrategySearch:
			if c.Search.APIKey == "" || c.Search.Endpoint == "" {
				return fmt.Errorf("config: source %s: search strategy needs search endpoint and API key (set %s)", src.Name, searchAPIKeyEnv)
			}
			if len(src.Queries) == 0 {
				return fmt.Errorf("config: source %s: search strategy needs queries", src.Name)
			}
		case StrategyNewsletter:
			if src.URL == "" {
				return fmt.Errorf("config: source %s: newsletter strategy needs url", src.Name)
			}
		default:
			return fmt.Errorf("config: source %s: unknown strategy %q", src.Name, src.Strategy)
		}
	}
	return nil
}

// Window converts the per-source trailing window to a duration.
func (s SourceConfig) Window() time.Duration {
	days := s.WindowDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// Retention converts the configured retention window to a duration.
func (c StoreConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.Classifier.Model = v
	}
	if v := os.Getenv(searchAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(writeModeEnv); v != "" {
		c.Store.WriteMode = v
	}
	if v := os.Getenv(classifierModeEnv); v != "" {
		c.Classifier.Mode = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Schedule.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.MaxOpenConns > 0 {
		base.Database.MaxOpenConns = override.Database.MaxOpenConns
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Classifier.Endpoint != "" {
		base.Classifier.Endpoint = override.Classifier.Endpoint
	}
	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.Mode != "" {
		base.Classifier.Mode = override.Classifier.Mode
	}
	if override.Classifier.MaxBatch > 0 {
		base.Classifier.MaxBatch = override.Classifier.MaxBatch
	}
	if override.Classifier.MaxPicks > 0 {
		base.Classifier.MaxPicks = override.Classifier.MaxPicks
	}
	if override.Classifier.MaxTokens > 0 {
		base.Classifier.MaxTokens = override.Classifier.MaxTokens
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}

	if override.Store.WriteMode != "" {
		base.Store.WriteMode = override.Store.WriteMode
	}
	if override.Store.RetentionDays > 0 {
		base.Store.RetentionDays = override.Store.RetentionDays
	}

	if override.Schedule.CronExpression != "" {
		base.Schedule.CronExpression = override.Schedule.CronExpression
	}
	if override.Schedule.Timezone != "" {
		base.Schedule.Timezone = override.Schedule.Timezone
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{DSN: "", MaxOpenConns: 10},
		Logging:  LoggingConfig{Level: "info"},
		Classifier: ClassifierConfig{
			Endpoint:  "https://api.openai.com/v1/chat/completions",
			Model:     "gpt-4o-mini",
			Mode:      ModeInclusive,
			MaxBatch:  40,
			MaxPicks:  15,
			MaxTokens: 4000,
		},
		Store:    StoreConfig{WriteMode: WriteReplace, RetentionDays: 30},
		Schedule: ScheduleConfig{Timezone: defaultTimezone, location: tz},
		Sources: []SourceConfig{
			{
				Name:     "tech-rss",
				Strategy: StrategyRSS,
				Feeds: map[string]string{
					"techcrunch.com":  "https://techcrunch.com/feed/",
					"theverge.com":    "https://www.theverge.com/rss/index.xml",
					"venturebeat.com": "https://venturebeat.com/feed/",
					"wired.com":       "https://www.wired.com/feed/rss",
				},
				WindowDays: 7,
				MaxItems:   10,
			},
		},
	}
}
