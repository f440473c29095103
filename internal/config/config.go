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
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Areas  AreasConfig  `yaml:"areas" mapstructure:"areas"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the two source tables.
type DataConfig struct {
	ParcelsCSV      string `yaml:"parcels_csv" mapstructure:"parcels_csv"`
	CoordinatesPath string `yaml:"coordinates_path" mapstructure:"coordinates_path"`
}

// AreasConfig locates the named-area definitions for batch mode. An empty
// file path means the built-in defaults.
type AreasConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// BatchConfig tunes batch-mode evaluation and export.
type BatchConfig struct {
	BufferSegments int    `yaml:"buffer_segments" mapstructure:"buffer_segments"`
	Parallelism    int    `yaml:"parallelism" mapstructure:"parallelism"`
	ExportDir      string `yaml:"export_dir" mapstructure:"export_dir"`
	ExportFormat   string `yaml:"export_format" mapstructure:"export_format"`
}

// ServerConfig tunes the interactive HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	TimeoutSecs    int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxResultsHeld int      `yaml:"max_results_held" mapstructure:"max_results_held"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and PARCELSCOPE_*
// environment variables, applying defaults for everything unset.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PARCELSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.parcels_csv", "ITSPE_View.csv")
	v.SetDefault("data.coordinates_path", "Address_Points.csv")
	v.SetDefault("batch.buffer_segments", 64)
	v.SetDefault("batch.parallelism", 4)
	v.SetDefault("batch.export_dir", ".")
	v.SetDefault("batch.export_format", "csv")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_secs", 30)
	v.SetDefault("server.max_results_held", 16)
	v.SetDefault("server.allowed_origins", []string{"*"})
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
