// Package config loads configuration from an optional YAML file plus
// environment variables. Environment variables override YAML values;
// secrets come from the environment only.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the custom fields engine.
type Config struct {
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	Database DatabaseConfig `yaml:"database"`

	CustomFields CustomFieldsConfig `yaml:"custom_fields"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"customfields"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"customfields"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// URL builds the connection string for pgx and database/sql.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// CustomFieldsConfig holds engine-level custom fields settings.
type CustomFieldsConfig struct {
	// DefaultLocale selects which entry of localized display metadata to
	// render when the caller does not specify one.
	DefaultLocale string `yaml:"default_locale" env:"CUSTOM_FIELDS_DEFAULT_LOCALE" env-default:"en"`

	// ModelTypesStr is a comma-separated list of type=label pairs naming
	// the entity types admin tooling may build definitions for.
	// Format: "partner=Partner,invoice=Invoice"
	ModelTypesStr string `yaml:"-" env:"CUSTOM_FIELDS_MODEL_TYPES" env-default:""`

	// ModelTypes is the parsed map. YAML may set it directly; the env
	// string overrides it when present.
	ModelTypes map[string]string `yaml:"model_types" env:"-"`
}

// Load reads configuration from configPath (if the file exists) and the
// environment.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		} else {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, fmt.Errorf("failed to read environment: %w", err)
			}
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.CustomFields.ModelTypesStr != "" {
		parsed, err := parseModelTypes(cfg.CustomFields.ModelTypesStr)
		if err != nil {
			return nil, err
		}
		cfg.CustomFields.ModelTypes = parsed
	}
	if cfg.CustomFields.ModelTypes == nil {
		cfg.CustomFields.ModelTypes = map[string]string{}
	}

	return &cfg, nil
}

// parseModelTypes parses "type=Label,type2=Label2" into a map.
func parseModelTypes(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		modelType, label, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(modelType) == "" || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("invalid model type entry %q, expected type=label", pair)
		}
		out[strings.TrimSpace(modelType)] = strings.TrimSpace(label)
	}
	return out, nil
}
