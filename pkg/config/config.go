package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Feeds      FeedsConfig      `yaml:"feeds" json:"feeds" jsonschema:"description=Feed polling configuration"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for paper enrichment"`
	Pipeline   PipelineConfig   `yaml:"pipeline" json:"pipeline" jsonschema:"description=Curation pipeline settings"`
	Snapshot   SnapshotConfig   `yaml:"snapshot" json:"snapshot" jsonschema:"description=Daily snapshot storage"`
	SMTP       SMTPConfig       `yaml:"smtp" json:"smtp" jsonschema:"description=Digest delivery over SMTP"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Abstract extraction fallback"`
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Preview server configuration"`
}

// Feed describes a single topic feed
type Feed struct {
	Name string `yaml:"name" json:"name" jsonschema:"description=Feed name used in logs"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=RSS/Atom feed URL"`
}

// FeedsConfig holds the list of polled feeds and fetch settings
type FeedsConfig struct {
	Sources     []Feed        `yaml:"sources" json:"sources" jsonschema:"description=Feeds to poll, arXiv categories by default"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Fetch timeout per feed"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Paperscope/1.0,description=User agent for feed requests"`
	Concurrency int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=1,minimum=1,description=Number of feeds fetched in parallel"`
}

// LLMConfig holds configuration of the OpenAI-compatible enrichment service
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://dashscope.aliyuncs.com/compatible-mode/v1,description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable), enrichment disabled if empty"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=qwen3-max-preview,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=2000,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=2m,description=Request timeout"`
	Language     string        `yaml:"language" json:"language" jsonschema:"default=Chinese,description=Language the abstract is translated to"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
}

// PipelineConfig holds curation pipeline settings
type PipelineConfig struct {
	Delay   time.Duration `yaml:"delay" json:"delay" jsonschema:"default=5s,description=Pause between successive enrichment calls"`
	Domain  string        `yaml:"domain" json:"domain" jsonschema:"default=autonomous driving,description=Target domain label used for relevance scoring"`
	Subject string        `yaml:"subject" json:"subject" jsonschema:"default=arxiv Daily,description=Digest email subject"`
}

// SnapshotConfig selects and configures the per-day snapshot store
type SnapshotConfig struct {
	Backend string `yaml:"backend" json:"backend" jsonschema:"default=file,enum=file,enum=sqlite,description=Snapshot storage backend"`
	Dir     string `yaml:"dir" json:"dir" jsonschema:"default=papers,description=Directory for YAML snapshots (file backend)"`
	DSN     string `yaml:"dsn" json:"dsn" jsonschema:"default=file:paperscope.db?cache=shared&mode=rwc,description=Database connection string (sqlite backend)"`
}

// SMTPConfig holds mail server settings, credentials come from the command line
type SMTPConfig struct {
	Host    string        `yaml:"host" json:"host" jsonschema:"default=smtp.qq.com,description=SMTP server host"`
	Port    int           `yaml:"port" json:"port" jsonschema:"default=465,description=SMTP server port"`
	TLS     bool          `yaml:"tls" json:"tls" jsonschema:"default=true,description=Use implicit TLS (SMTPS)"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=SMTP timeout"`
}

// ExtractionConfig holds abstract extraction settings
type ExtractionConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract abstract from the paper page if a feed item has none"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per item"`
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
}

// default arXiv categories polled when no sources configured
var defaultSources = []Feed{
	{Name: "AI", URL: "https://export.arxiv.org/rss/cs.AI"},
	{Name: "CV", URL: "https://export.arxiv.org/rss/cs.CV"},
	{Name: "CG", URL: "https://export.arxiv.org/rss/cs.CG"},
	{Name: "CL", URL: "https://export.arxiv.org/rss/cs.CL"},
	{Name: "ML", URL: "https://export.arxiv.org/rss/stat.ML"},
}

// Load reads configuration from a YAML file. Empty path means defaults only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// api key falls back to the environment, like the hosted service docs suggest
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// set defaults for feeds
	if len(c.Feeds.Sources) == 0 {
		c.Feeds.Sources = append([]Feed{}, defaultSources...)
	}
	for i := range c.Feeds.Sources {
		if c.Feeds.Sources[i].Name == "" {
			c.Feeds.Sources[i].Name = c.Feeds.Sources[i].URL
		}
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = 30 * time.Second
	}
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = "Paperscope/1.0"
	}
	if c.Feeds.Concurrency == 0 {
		c.Feeds.Concurrency = 1
	}

	// set defaults for LLM
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "qwen3-max-preview"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 2 * time.Minute
	}
	if c.LLM.Language == "" {
		c.LLM.Language = "Chinese"
	}

	// set defaults for pipeline
	if c.Pipeline.Delay == 0 {
		c.Pipeline.Delay = 5 * time.Second
	}
	if c.Pipeline.Domain == "" {
		c.Pipeline.Domain = "autonomous driving"
	}
	if c.Pipeline.Subject == "" {
		c.Pipeline.Subject = "arxiv Daily"
	}

	// set defaults for snapshot
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "file"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "papers"
	}
	if c.Snapshot.DSN == "" {
		c.Snapshot.DSN = "file:paperscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	// set defaults for smtp
	if c.SMTP.Host == "" {
		c.SMTP.Host = "smtp.qq.com"
		c.SMTP.TLS = true
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 465
	}
	if c.SMTP.Timeout == 0 {
		c.SMTP.Timeout = 30 * time.Second
	}

	// set defaults for extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}

	// set defaults for server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	for i, f := range cfg.Feeds.Sources {
		if f.URL == "" {
			return fmt.Errorf("feeds.sources[%d].url is required", i)
		}
	}
	if cfg.Feeds.Concurrency < 1 {
		return fmt.Errorf("feeds.concurrency must be at least 1")
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	if cfg.Pipeline.Delay < 0 {
		return fmt.Errorf("pipeline.delay must be non-negative")
	}

	switch cfg.Snapshot.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("snapshot.backend must be file or sqlite, got %q", cfg.Snapshot.Backend)
	}

	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 1 and 65535")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFeeds returns configured feed sources
func (c *Config) GetFeeds() []Feed {
	return c.Feeds.Sources
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}
