package config

import (
	"fmt"
	"os"
	"strconv"

	"sheetload/internal/errors"
)

// Config represents the complete application configuration. It is loaded
// once at startup and passed into the orchestrators; business logic never
// reads the environment directly.
type Config struct {
	Database     DatabaseConfig
	Graph        GraphConfig
	BindingsFile string
}

// DatabaseConfig holds relational store connection settings. Either a full
// URL or discrete parts; the URL wins when both are present.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string for the postgres driver
func (db DatabaseConfig) DSN() string {
	if db.URL != "" {
		return db.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode,
	)
}

// GraphConfig holds the Azure AD application and SharePoint site settings
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteID       string
	DriveName    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvIntOrDefault("POSTGRES_PORT", 5432),
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		Graph: GraphConfig{
			TenantID:     os.Getenv("AZURE_TENANT_ID"),
			ClientID:     os.Getenv("AZURE_CLIENT_ID"),
			ClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
			SiteID:       os.Getenv("GRAPH_SITE_ID"),
			DriveName:    getEnvOrDefault("GRAPH_DRIVE_NAME", "Documents"),
		},
		BindingsFile: getEnvOrDefault("BINDINGS_FILE", "bindings.yaml"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		if config.Database.Name == "" {
			return errors.ConfigInvalid("DATABASE_URL or POSTGRES_DB is required")
		}
		if config.Database.Password == "" {
			return errors.ConfigInvalid("POSTGRES_PASSWORD is required")
		}
	}
	for name, value := range map[string]string{
		"AZURE_TENANT_ID":     config.Graph.TenantID,
		"AZURE_CLIENT_ID":     config.Graph.ClientID,
		"AZURE_CLIENT_SECRET": config.Graph.ClientSecret,
		"GRAPH_SITE_ID":       config.Graph.SiteID,
	} {
		if value == "" {
			return errors.ConfigInvalid(name + " is required")
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
