package config

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// SchedulerConfig configures date inference, batching and classification
type SchedulerConfig struct {
	Location         *time.Location
	Timeout          time.Duration
	ClassifyTimeout  time.Duration
	MaxNameLength    int
	BatchStrategy    string
	BatchConcurrency int
	BatchCallTimeout time.Duration
}

// StoreConfig configures the event store
type StoreConfig struct {
	Type             string
	Retention        time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// SMTPConfig configures outgoing reminder mail
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLS is one of starttls, tls or none
	TLS string
}

// ServerConfig configures the HTTP frontend
type ServerConfig struct {
	ListenAddress   string
	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// RateLimitPerMin caps requests per client IP; zero disables limiting
	RateLimitPerMin int
	// TrustedProxies lists the peer addresses or CIDRs whose forwarding headers are honored
	TrustedProxies []string
}

// RemindersConfig configures the daily reminder run
type RemindersConfig struct {
	Enabled  bool
	Interval time.Duration
	// Subject prefixes every reminder subject line
	Subject  string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		BaseURL:     c.GetString("openai.base_url"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetScheduler returns the scheduler configuration
func (c *Config) GetScheduler() (SchedulerConfig, error) {
	loc, err := time.LoadLocation(c.GetString("scheduler.timezone"))
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("invalid scheduler timezone: %w", err)
	}
	timeout, err := c.GetDuration("scheduler.timeout")
	if err != nil {
		return SchedulerConfig{}, err
	}
	classifyTimeout, err := c.GetDuration("scheduler.classify_timeout")
	if err != nil {
		return SchedulerConfig{}, err
	}
	callTimeout, err := c.GetDuration("scheduler.batch.call_timeout")
	if err != nil {
		return SchedulerConfig{}, err
	}

	return SchedulerConfig{
		Location:         loc,
		Timeout:          timeout,
		ClassifyTimeout:  classifyTimeout,
		MaxNameLength:    c.GetInt("scheduler.max_name_length"),
		BatchStrategy:    c.GetString("scheduler.batch.strategy"),
		BatchConcurrency: c.GetInt("scheduler.batch.concurrency"),
		BatchCallTimeout: callTimeout,
	}, nil
}

// GetStore returns the event store configuration
func (c *Config) GetStore() (StoreConfig, error) {
	retention, err := c.GetDuration("store.retention")
	if err != nil {
		return StoreConfig{}, err
	}
	cleanupFreq, err := c.GetDuration("store.cleanup_frequency")
	if err != nil {
		return StoreConfig{}, err
	}

	return StoreConfig{
		Type:             c.GetString("store.type"),
		Retention:        retention,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("store.sqlite_path"),
		MySQLDSN:         c.GetString("store.mysql_dsn"),
	}, nil
}

// GetSMTP returns the SMTP configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     c.GetString("smtp.host"),
		Port:     c.GetInt("smtp.port"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		TLS:      c.GetString("smtp.tls"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	shutdownTimeout, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		MaxUploadBytes:  c.GetInt64("server.max_upload_bytes"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ShutdownTimeout: shutdownTimeout,
		RateLimitPerMin: c.GetInt("server.rate_limit_per_min"),
		TrustedProxies:  c.GetStringSlice("server.trusted_proxies"),
	}, nil
}

// GetReminders returns the reminder configuration
func (c *Config) GetReminders() (RemindersConfig, error) {
	interval, err := c.GetDuration("reminders.interval")
	if err != nil {
		return RemindersConfig{}, err
	}

	return RemindersConfig{
		Enabled:  c.GetBool("reminders.enabled"),
		Interval: interval,
		Subject:  c.GetString("reminders.subject"),
	}, nil
}
