package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Environment
	Environment string `mapstructure:"ENV"`

	// Server
	HTTPAddr  string `mapstructure:"HTTP_ADDR"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Database
	DBDSN         string `mapstructure:"DB_DSN"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// Photo workflow
	SourceRoot   string `mapstructure:"SOURCE_ROOT"`
	TargetRoot   string `mapstructure:"TARGET_ROOT"`
	RelocateMode string `mapstructure:"RELOCATE_MODE"`
	ImportInbox  string `mapstructure:"IMPORT_INBOX"`
	ImportSheet  string `mapstructure:"IMPORT_SHEET"`

	// Workflow states offered by the UI; comma-separated in the environment.
	StatusOptions []string
}

// Load loads configuration from environment variables and an optional .env
// file in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	viper.SetDefault("ENV", "development")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("RELOCATE_MODE", "copy")
	viper.SetDefault("STATUS_OPTIONS", "neu,in Bearbeitung,abgeschlossen,wartet,storniert")
	viper.AutomaticEnv()

	cfg := &Config{
		Environment:   viper.GetString("ENV"),
		HTTPAddr:      viper.GetString("HTTP_ADDR"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		DBDSN:         viper.GetString("DB_DSN"),
		DBAutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		SourceRoot:    viper.GetString("SOURCE_ROOT"),
		TargetRoot:    viper.GetString("TARGET_ROOT"),
		RelocateMode:  viper.GetString("RELOCATE_MODE"),
		ImportInbox:   viper.GetString("IMPORT_INBOX"),
		ImportSheet:   viper.GetString("IMPORT_SHEET"),
	}
	for _, s := range strings.Split(viper.GetString("STATUS_OPTIONS"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.StatusOptions = append(cfg.StatusOptions, s)
		}
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	if cfg.RelocateMode != "copy" && cfg.RelocateMode != "move" {
		return nil, fmt.Errorf("RELOCATE_MODE must be copy or move, got %q", cfg.RelocateMode)
	}

	return cfg, nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
