package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 20*time.Minute, cfg.SessionTokenTTL)
				assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
				assert.Equal(t, CredentialStoreSQL, cfg.CredentialStore)
				assert.False(t, cfg.EventsEnabled)
				assert.Equal(t, "wemakepass.credentials", cfg.EventsTopic)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 5.0, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 10, cfg.RateLimitBurst)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "wemakepass", cfg.MetricsNamespace)
				assert.Equal(t, 8081, cfg.MetricsPort)
				assert.Empty(t, cfg.KMSKeyURI)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/wemakepass",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/wemakepass", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load key material and token lifetimes",
			envVars: map[string]string{
				"JWT_SECRET_KEY":            "c2lnbmluZy1rZXk=",
				"AES_SECRET_KEY":            "0123456789abcdef0123456789abcdef",
				"AES_IV":                    "abcdef9876543210",
				"SESSION_TOKEN_TTL_MINUTES": "5",
				"REFRESH_TOKEN_TTL_DAYS":    "7",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "c2lnbmluZy1rZXk=", cfg.JWTSecretKey)
				assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.AESSecretKey)
				assert.Equal(t, "abcdef9876543210", cfg.AESIV)
				assert.Equal(t, 5*time.Minute, cfg.SessionTokenTTL)
				assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
			},
		},
		{
			name: "non-positive token lifetimes fall back to defaults",
			envVars: map[string]string{
				"SESSION_TOKEN_TTL_MINUTES": "0",
				"REFRESH_TOKEN_TTL_DAYS":    "-3",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 20*time.Minute, cfg.SessionTokenTTL)
				assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
			},
		},
		{
			name: "load redis store and events",
			envVars: map[string]string{
				"CREDENTIAL_STORE": "redis",
				"REDIS_URL":        "redis://cache:6379/2",
				"EVENTS_ENABLED":   "true",
				"EVENTS_TOPIC":     "audit.credentials",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, CredentialStoreRedis, cfg.CredentialStore)
				assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
				assert.True(t, cfg.EventsEnabled)
				assert.Equal(t, "audit.credentials", cfg.EventsTopic)
				assert.True(t, cfg.UsesRedis())
			},
		},
		{
			name: "load debug log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestConfig_GetGinMode(t *testing.T) {
	for _, level := range []string{"info", "warn", "error", "unknown"} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, "release", cfg.GetGinMode(), level)
	}
}

func TestConfig_UsesRedis(t *testing.T) {
	assert.False(t, (&Config{CredentialStore: CredentialStoreSQL}).UsesRedis())
	assert.True(t, (&Config{CredentialStore: CredentialStoreRedis}).UsesRedis())
	assert.True(t, (&Config{CredentialStore: CredentialStoreSQL, EventsEnabled: true}).UsesRedis())
}
