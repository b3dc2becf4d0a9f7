// Package config loads application settings from the environment (and an
// optional .env file) into a validated Config.
package config
