package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable LoadConfig reads so the host environment
// cannot leak into a test. t.Setenv restores the old values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AWS_REGION",
		"TABLE_NAME",
		"AWS_ENDPOINT_URL_DYNAMODB",
		"USERS_PRIMARY__ENV",
		"USERS_SERVER__PORT",
		"USERS_AWS__REGION",
		"USERS_AWS__TABLE_NAME",
		"USERS_STORE__DRIVER",
		"USERS_DATABASE__HOST",
		"USERS_DATABASE__USER",
		"USERS_DATABASE__NAME",
		"USERS_OBSERVABILITY__LOGGING__LEVEL",
		"USERS_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultEnv, cfg.Primary.Env)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, 60, cfg.Server.IdleTimeout)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, "Users", cfg.AWS.TableName)
	assert.Empty(t, cfg.AWS.Endpoint)
	assert.Equal(t, DriverDynamoDB, cfg.Store.Driver)
	assert.Nil(t, cfg.Database)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, DefaultEnv, cfg.Observability.Environment)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
	assert.True(t, cfg.IsLocal())
}

func TestLoadConfig_PlainAWSVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("TABLE_NAME", "Members")
	t.Setenv("AWS_ENDPOINT_URL_DYNAMODB", "http://localhost:8000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "Members", cfg.AWS.TableName)
	assert.Equal(t, "http://localhost:8000", cfg.AWS.Endpoint)
}

func TestLoadConfig_PrefixedVariablesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("USERS_AWS__REGION", "ap-south-1")
	t.Setenv("USERS_SERVER__PORT", "9090")
	t.Setenv("USERS_STORE__DRIVER", "MEMORY")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ap-south-1", cfg.AWS.Region)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
}

func TestLoadConfig_PartialObservabilityGetsDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("USERS_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("USERS_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown store driver",
			env:  map[string]string{"USERS_STORE__DRIVER": "redis"},
		},
		{
			name: "postgres without database block",
			env:  map[string]string{"USERS_STORE__DRIVER": "postgres"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"USERS_OBSERVABILITY__LOGGING__LEVEL": "loud"},
		},
		{
			name: "endpoint is not a url",
			env:  map[string]string{"AWS_ENDPOINT_URL_DYNAMODB": "not a url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("USERS_STORE__DRIVER", "postgres")
	t.Setenv("USERS_DATABASE__HOST", "localhost")
	t.Setenv("USERS_DATABASE__USER", "users")
	t.Setenv("USERS_DATABASE__NAME", "users")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.NotNil(t, cfg.Database)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.True(t, cfg.IsProduction())

	cfg.Logging.Level = "error"
	assert.Equal(t, "error", cfg.GetLogLevel())
}
