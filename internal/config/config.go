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
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Matcher  MatcherConfig  `yaml:"matcher" mapstructure:"matcher"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	DocIntel DocIntelConfig `yaml:"docintel" mapstructure:"docintel"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the metric catalog. An empty path uses the
// embedded default catalog; extensions merge over the base in order.
type CatalogConfig struct {
	Path       string   `yaml:"path" mapstructure:"path"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
}

// MatcherConfig bounds the partial-match confidence scaling. The scaling
// curve is deliberately configuration rather than code.
type MatcherConfig struct {
	MinPartialConfidence float64 `yaml:"min_partial_confidence" mapstructure:"min_partial_confidence"`
	MaxPartialConfidence float64 `yaml:"max_partial_confidence" mapstructure:"max_partial_confidence"`
}

// IngestConfig controls field collection from analysis payloads.
type IngestConfig struct {
	MinKVConfidence float64 `yaml:"min_kv_confidence" mapstructure:"min_kv_confidence"`
}

// DocIntelConfig holds the external document-analysis service settings.
type DocIntelConfig struct {
	Endpoint          string  `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxFileSizeMB     int     `yaml:"max_file_size_mb" mapstructure:"max_file_size_mb"`
}

// BatchConfig configures batch document processing.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("ESG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("matcher.min_partial_confidence", 0.4)
	v.SetDefault("matcher.max_partial_confidence", 0.95)
	v.SetDefault("ingest.min_kv_confidence", 0.5)
	v.SetDefault("batch.max_concurrent_documents", 4)
	v.SetDefault("docintel.timeout_secs", 300)
	v.SetDefault("docintel.max_retries", 3)
	v.SetDefault("docintel.requests_per_second", 2)
	v.SetDefault("docintel.max_file_size_mb", 50)

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
