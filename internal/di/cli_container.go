package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/eco-scheduler/internal/adapters/cli"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string
	OpenAIBaseURL   string

	// Scheduling flags
	Timezone    string
	Strategy    string
	Concurrency int

	// Input flags
	InputFile string
	Name      string
	ImageFile string
	Classify  bool

	// Output flags
	JSONOutput bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	flag.StringVar(&flags.Provider, "provider", "gemini", "LLM provider (bedrock, gemini, openai)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1024, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.2, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", os.Getenv("GEMINI_API_KEY"), "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", os.Getenv("OPENAI_API_KEY"), "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")
	flag.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "OpenAI-compatible API base URL")

	// Scheduling flags
	flag.StringVar(&flags.Timezone, "timezone", "UTC", "Timezone defining today")
	flag.StringVar(&flags.Strategy, "strategy", "sampled", "Batch strategy (sampled, engine)")
	flag.IntVar(&flags.Concurrency, "concurrency", 4, "Rows processed at once")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input CSV file (use stdin if not specified)")
	flag.StringVar(&flags.Name, "name", "", "Single waste item name")
	flag.StringVar(&flags.ImageFile, "image", "", "Single waste item image")
	flag.BoolVar(&flags.Classify, "classify", false, "Classify the single item instead of dating it")

	// Output flags
	flag.BoolVar(&flags.JSONOutput, "json", false, "Print results as JSON")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// SingleItem reports whether the flags select single-item mode
func (f *CLIFlags) SingleItem() bool {
	return f.Name != "" || f.ImageFile != ""
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewWithFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register runner
	if err := container.Provide(func(
		flags *CLIFlags,
		engine *core.DateInferenceEngine,
		batch *core.BatchDateProcessor,
		classifier *core.WasteClassifier,
		resolver core.ColumnResolver,
		logger *zap.Logger,
	) *cli.Runner {
		return cli.NewRunner(engine, batch, classifier, resolver, logger, os.Stdout, flags.JSONOutput)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.base_url", flags.OpenAIBaseURL)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	// Set scheduling options
	v.Set("scheduler.timezone", flags.Timezone)
	v.Set("scheduler.batch.strategy", flags.Strategy)
	v.Set("scheduler.batch.concurrency", flags.Concurrency)

	return config.NewFromViper(v)
}
