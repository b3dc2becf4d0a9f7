package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps configuration keys to the environment variables that set
// them, in order of precedence.
var envBindings = map[string][]string{
	"server.port":                 {"PORT"},
	"server.log_level":            {"LOG_LEVEL"},
	"server.cors_allowed_origins": {"CORS_ALLOWED_ORIGINS"},
	"database.driver":             {"DB_DRIVER"},
	"database.url":                {"DATABASE_URL", "MONGODB_URI"},
	"database.user":               {"DB_USER"},
	"database.password":           {"DB_PASS"},
	"database.cluster":            {"DB_CLUSTER"},
	"database.app_name":           {"DB_APP_NAME"},
	"database.name":               {"DB_NAME"},
}

// Load configuration from environment variables and optionally .env files.
// Variables already present in the environment take precedence over .env
// values. Missing .env files are ignored. Returns a populated Config struct or
// an error if loading/validation fails.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	v := viper.New()

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", "*")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.cluster", "cluster0.owhyi.mongodb.net")
	v.SetDefault("database.app_name", "Cluster0")
	v.SetDefault("database.name", "taskMartDB")

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct-level rules and the driver-specific connection
// requirements.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Database.Driver {
	case DriverMongo:
		if cfg.Database.ConnectionURL() == "" {
			return fmt.Errorf(
				"config validation failed: mongo driver needs DATABASE_URL, MONGODB_URI or DB_USER and DB_PASS",
			)
		}
	case DriverPostgres:
		if cfg.Database.URL == "" {
			return fmt.Errorf("config validation failed: postgres driver needs DATABASE_URL")
		}
	}
	return nil
}
