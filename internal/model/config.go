package model

import "time"

// Config holds the full platewatch configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Dispatch DispatchConfig `yaml:"dispatch" mapstructure:"dispatch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Advisor  AdvisorConfig  `yaml:"advisor" mapstructure:"advisor"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls the outbound HTTP clients used by source collaborators.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// SourcesConfig points at the upstream data sets.
type SourcesConfig struct {
	RecallsBaseURL  string  `yaml:"recalls_base_url" mapstructure:"recalls_base_url"`
	ProductBaseURL  string  `yaml:"product_base_url" mapstructure:"product_base_url"`
	AdvisoryBaseURL string  `yaml:"advisory_base_url" mapstructure:"advisory_base_url"`
	RatePerHost     float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"` // Requests per second per upstream host
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls caching of upstream lookups.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SearchConfig bounds the keyword fan-out engine.
type SearchConfig struct {
	PerKeywordLimit   int `yaml:"per_keyword_limit" mapstructure:"per_keyword_limit"`
	RecencyWindowDays int `yaml:"recency_window_days" mapstructure:"recency_window_days"`
	Limit             int `yaml:"limit" mapstructure:"limit"` // Overall result cap across all keywords
	Workers           int `yaml:"workers" mapstructure:"workers"`
}

// DispatchConfig controls the debounced query dispatcher.
type DispatchConfig struct {
	QuietInterval time.Duration `yaml:"quiet_interval" mapstructure:"quiet_interval"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// AdvisorConfig configures the optional LLM advisor. Disabled unless an
// API key is present.
type AdvisorConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never serialized into config files
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in defaults. Flags, environment variables
// and the config file layer on top of these.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "Platewatch/0.1 (+https://github.com/platewatch/platewatch)",
			MaxBodyBytes: 2_000_000,
		},
		Sources: SourcesConfig{
			RecallsBaseURL:  "https://api.fda.gov/food/enforcement.json",
			ProductBaseURL:  "https://world.openfoodfacts.org/api/v2",
			AdvisoryBaseURL: "",
			RatePerHost:     4,
			Burst:           5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Search: SearchConfig{
			PerKeywordLimit:   20,
			RecencyWindowDays: 90,
			Limit:             10,
			Workers:           6,
		},
		Dispatch: DispatchConfig{
			QuietInterval: 500 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Advisor: AdvisorConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 1000,
			Timeout:   30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
