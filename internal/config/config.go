package config

import (
	"net/url"
	"strings"
)

// Supported storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins is a comma-separated origin list; "*" allows any origin.
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins" validate:"required"`
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=mongo postgres memory"`
	// URL is the full connection string. For the mongo driver it may be left
	// empty and derived from the Atlas parts below.
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Cluster  string `mapstructure:"cluster" validate:"required_if=Driver mongo"`
	AppName  string `mapstructure:"app_name"`
	Name     string `mapstructure:"name" validate:"required_if=Driver mongo"`
}

// ConnectionURL returns URL, or for the mongo driver an Atlas SRV URI built
// from the credential and cluster settings.
func (c DatabaseConfig) ConnectionURL() string {
	if c.URL != "" || c.Driver != DriverMongo {
		return c.URL
	}
	if c.User == "" && c.Password == "" {
		return ""
	}

	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Cluster,
		Path:   "/",
	}
	if c.AppName != "" {
		u.RawQuery = url.Values{"appName": {c.AppName}}.Encode()
	}
	return u.String()
}
