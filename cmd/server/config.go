package main

import (
	"fmt"

	"github.com/phrazzld/taskmart-api/internal/config"
)

// loadAppConfig loads the application configuration from the dotenv file and
// environment variables.
func loadAppConfig(envFile string) (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
