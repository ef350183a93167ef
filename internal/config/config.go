// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env` file
// when one is present), loads them into structured Go types, applies the
// documented defaults and validates the result so the application fails fast
// on bad or missing configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Honor the plain AWS_REGION / TABLE_NAME variables used by Lambda deployments.
//   - Validate required values and cross-field rules (postgres needs a database block).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix USERS_. Keys are lowercased, the prefix
	is removed and a double underscore marks nesting:

		USERS_SERVER__PORT        -> server.port        -> Config.Server.Port
		USERS_AWS__TABLE_NAME     -> aws.table_name     -> Config.AWS.TableName
		USERS_STORE__DRIVER       -> store.driver       -> Config.Store.Driver

	A single underscore stays part of the key, so snake_case field names survive.
*/

const (
	// EnvPrefix is the prefix every application env var carries.
	EnvPrefix = "USERS_"

	DefaultRegion    = "us-east-1"
	DefaultTableName = "Users"
	DefaultPort      = "8080"
	DefaultEnv       = "local"

	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
//
// Database and Observability are pointers because they are optional. Database
// is only needed for the postgres store driver; Observability gets defaults
// injected when missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	AWS           AWSConfig            `koanf:"aws" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      *DatabaseConfig      `koanf:"database"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`
}

// AWSConfig locates the DynamoDB table holding user records.
//
// Endpoint is empty in real deployments; set it to point at DynamoDB Local
// (e.g. http://localhost:8000) during development.
type AWSConfig struct {
	Region    string `koanf:"region" validate:"required"`
	TableName string `koanf:"table_name" validate:"required"`
	Endpoint  string `koanf:"endpoint" validate:"omitempty,url"`
}

// StoreConfig selects the backing store implementation.
type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=dynamodb postgres memory"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, applies defaults, validates it and returns the result.
//
// Behavior summary:
//   - Loads AWS_REGION, TABLE_NAME and AWS_ENDPOINT_URL_DYNAMODB verbatim
//   - Loads env vars with prefix USERS_ on top (prefixed values win)
//   - Unmarshals into Config and fills in defaults for anything unset
//   - Validates struct tags, the database block and observability settings
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// Plain variables first. The callback returns "" for everything else,
	// which tells koanf to skip the variable.
	err := k.Load(env.Provider("", ".", func(s string) string {
		switch s {
		case "AWS_REGION":
			return "aws.region"
		case "TABLE_NAME":
			return "aws.table_name"
		case "AWS_ENDPOINT_URL_DYNAMODB":
			return "aws.endpoint"
		}
		return ""
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load aws env variables: %w", err)
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// applyDefaults fills every optional value that was left empty.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = DefaultEnv
	}

	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	if c.AWS.TableName == "" {
		c.AWS.TableName = DefaultTableName
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverDynamoDB
	}
	c.Store.Driver = strings.ToLower(c.Store.Driver)

	if c.Database != nil {
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
		if c.Database.MaxOpenConns == 0 {
			c.Database.MaxOpenConns = 10
		}
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment follows Primary.Env so logs and
	// traces always agree with the runtime environment.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = c.Observability.GetLogLevel()
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "json"
	}
	if c.Observability.HealthChecks.Timeout == 0 {
		c.Observability.HealthChecks.Timeout = 5 * time.Second
	}
}

// Validate checks struct tags plus the rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Store.Driver == DriverPostgres && c.Database == nil {
		return fmt.Errorf("database config is required for store driver %q", DriverPostgres)
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}

// IsLocal reports whether the app runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == DefaultEnv
}
