package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Index  IndexConfig  `yaml:"index" mapstructure:"index"`
	Qdrant QdrantConfig `yaml:"qdrant" mapstructure:"qdrant"`
	Model  ModelConfig  `yaml:"model" mapstructure:"model"`
	Agent  AgentConfig  `yaml:"agent" mapstructure:"agent"`
	Usage  UsageConfig  `yaml:"usage" mapstructure:"usage"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	Backend     string `yaml:"backend" mapstructure:"backend"` // "qdrant" or "pgvector"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// QdrantConfig holds Qdrant connection settings.
type QdrantConfig struct {
	URL        string `yaml:"url" mapstructure:"url"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	Collection string `yaml:"collection" mapstructure:"collection"`
	VectorName string `yaml:"vector_name" mapstructure:"vector_name"`
}

// ModelConfig holds text-client settings for both supported providers.
type ModelConfig struct {
	Provider            string  `yaml:"provider" mapstructure:"provider"` // "azure" or "anthropic"
	AzureKey            string  `yaml:"azure_key" mapstructure:"azure_key"`
	AzureEndpoint       string  `yaml:"azure_endpoint" mapstructure:"azure_endpoint"`
	APIVersion          string  `yaml:"api_version" mapstructure:"api_version"`
	ChatDeployment      string  `yaml:"chat_deployment" mapstructure:"chat_deployment"`
	EmbeddingDeployment string  `yaml:"embedding_deployment" mapstructure:"embedding_deployment"`
	AnthropicKey        string  `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel      string  `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	MaxTokens           int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond   float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// AgentConfig tunes the answer pipeline. Defaults preserve the behavior the
// pipeline shipped with; they are exposed here because the config layer makes
// tunability free.
type AgentConfig struct {
	TopK           int     `yaml:"top_k" mapstructure:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold" mapstructure:"score_threshold"`
	MaxAttempts    int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	ScrollPageSize int     `yaml:"scroll_page_size" mapstructure:"scroll_page_size"`
}

// UsageConfig configures the token-usage audit trail.
type UsageConfig struct {
	LogPath string `yaml:"log_path" mapstructure:"log_path"`
	DBPath  string `yaml:"db_path" mapstructure:"db_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int `yaml:"port" mapstructure:"port"`
	RequestTimeout int `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
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
	v.SetEnvPrefix("ALEXUPPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so env-only values survive Unmarshal.
	v.SetDefault("index.backend", "qdrant")
	v.SetDefault("index.database_url", "")
	v.SetDefault("index.table", "product_points")
	v.SetDefault("qdrant.url", "")
	v.SetDefault("qdrant.api_key", "")
	v.SetDefault("qdrant.collection", "data_collection")
	v.SetDefault("qdrant.vector_name", "questionText")
	v.SetDefault("model.provider", "azure")
	v.SetDefault("model.azure_key", "")
	v.SetDefault("model.azure_endpoint", "")
	v.SetDefault("model.api_version", "2023-05-15")
	v.SetDefault("model.chat_deployment", "")
	v.SetDefault("model.embedding_deployment", "")
	v.SetDefault("model.anthropic_key", "")
	v.SetDefault("model.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("model.max_tokens", 500)
	v.SetDefault("model.requests_per_second", 2)
	v.SetDefault("agent.top_k", 10)
	v.SetDefault("agent.score_threshold", 0.5)
	v.SetDefault("agent.max_attempts", 5)
	v.SetDefault("agent.scroll_page_size", 256)
	v.SetDefault("usage.log_path", "tokens_count/total_tokens.txt")
	v.SetDefault("usage.db_path", "tokens_count/usage.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_secs", 120)
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

// Validate checks that every setting required at startup is present. Missing
// credentials are a startup error, never a runtime one.
func (c *Config) Validate() error {
	switch c.Index.Backend {
	case "qdrant":
		if c.Qdrant.URL == "" {
			return eris.New("config: qdrant.url is required")
		}
		if c.Qdrant.Collection == "" {
			return eris.New("config: qdrant.collection is required")
		}
		if c.Qdrant.VectorName == "" {
			return eris.New("config: qdrant.vector_name is required")
		}
	case "pgvector":
		if c.Index.DatabaseURL == "" {
			return eris.New("config: index.database_url is required for the pgvector backend")
		}
	default:
		return eris.Errorf("config: unknown index backend %q", c.Index.Backend)
	}

	// The Azure embedding deployment is required for every provider: Anthropic
	// exposes no embedding API.
	if c.Model.AzureKey == "" {
		return eris.New("config: model.azure_key is required")
	}
	if c.Model.AzureEndpoint == "" {
		return eris.New("config: model.azure_endpoint is required")
	}
	if c.Model.APIVersion == "" {
		return eris.New("config: model.api_version is required")
	}
	if c.Model.EmbeddingDeployment == "" {
		return eris.New("config: model.embedding_deployment is required")
	}

	switch c.Model.Provider {
	case "azure":
		if c.Model.ChatDeployment == "" {
			return eris.New("config: model.chat_deployment is required")
		}
	case "anthropic":
		if c.Model.AnthropicKey == "" {
			return eris.New("config: model.anthropic_key is required")
		}
	default:
		return eris.Errorf("config: unknown model provider %q", c.Model.Provider)
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
