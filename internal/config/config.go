package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration, loaded from configs/app.env and
// overridable through environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	GinMode       string `mapstructure:"GIN_MODE"`

	DataDir    string `mapstructure:"DATA_DIR"`
	GeoJSONDir string `mapstructure:"GEOJSON_DIR"`

	MapProviderURL string `mapstructure:"MAP_PROVIDER_URL"`
	ChromeBin      string `mapstructure:"CHROME_BIN"`

	EnrichBatchSize    int `mapstructure:"ENRICH_BATCH_SIZE"`
	EnrichBatchPauseMs int `mapstructure:"ENRICH_BATCH_PAUSE_MS"`
	EnrichTimeoutSec   int `mapstructure:"ENRICH_TIMEOUT_SEC"`

	PrintTimeoutSec     int `mapstructure:"PRINT_TIMEOUT_SEC"`
	ExportTimeoutSec    int `mapstructure:"EXPORT_TIMEOUT_SEC"`
	ExportAllTimeoutSec int `mapstructure:"EXPORT_ALL_TIMEOUT_SEC"`
}

// EnrichBatchPause returns the pause between enrichment batches.
func (c Config) EnrichBatchPause() time.Duration {
	return time.Duration(c.EnrichBatchPauseMs) * time.Millisecond
}

// EnrichTimeout returns the per-call map fetch timeout.
func (c Config) EnrichTimeout() time.Duration {
	return time.Duration(c.EnrichTimeoutSec) * time.Second
}

// PrintTimeout returns the headless-browser print deadline.
func (c Config) PrintTimeout() time.Duration {
	return time.Duration(c.PrintTimeoutSec) * time.Second
}

// ExportTimeout returns the single country/state export deadline.
func (c Config) ExportTimeout() time.Duration {
	return time.Duration(c.ExportTimeoutSec) * time.Second
}

// ExportAllTimeout returns the all-international export deadline, which is
// longer since every country is aggregated.
func (c Config) ExportAllTimeout() time.Duration {
	return time.Duration(c.ExportAllTimeoutSec) * time.Second
}

// LoadConfig reads configuration from app.env in the given path, falling back
// to environment variables for any value set there.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("GIN_MODE", "release")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("GEOJSON_DIR", "./data/geojson")
	viper.SetDefault("MAP_PROVIDER_URL", "https://www.mapito.net/staticmap/")
	viper.SetDefault("CHROME_BIN", "")
	viper.SetDefault("ENRICH_BATCH_SIZE", 5)
	viper.SetDefault("ENRICH_BATCH_PAUSE_MS", 200)
	viper.SetDefault("ENRICH_TIMEOUT_SEC", 10)
	viper.SetDefault("PRINT_TIMEOUT_SEC", 120)
	viper.SetDefault("EXPORT_TIMEOUT_SEC", 300)
	viper.SetDefault("EXPORT_ALL_TIMEOUT_SEC", 600)

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
