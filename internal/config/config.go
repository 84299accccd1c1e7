package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	UI      UIConfig
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend string // "file" or "sqlite"
	Dir     string // data dir for the file backend
	DBPath  string `mapstructure:"db_path"` // database file for the sqlite backend
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DateFormat     string `mapstructure:"date_format"`
	Timezone       string
}

// Load reads configuration from file and env. Env var overrides use
// prefix SPENDTRACK_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "spendtrack")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", dataDir)
	v.SetDefault("storage.db_path", filepath.Join(dataDir, "spendtrack.db"))
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.timezone", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SPENDTRACK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "spendtrack"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SPENDTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory
// if needed.
func Save(cfg Config) error {
	path := os.Getenv("SPENDTRACK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "spendtrack", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("storage.db_path", cfg.Storage.DBPath)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
