package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotinafit/entitlement-api/internal/infrastructure/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-test-secret-test-1234")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FIRESTORE_PROJECT_ID", "rotinafit-test")
	t.Setenv("IAP_APPLE_SHARED_SECRET", "apple-shared-secret")
	t.Setenv("IAP_GOOGLE_KEY_JSON", `{"type": "service_account"}`)
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret-test-secret-test-1234", cfg.JWT.Secret)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "rotinafit-test", cfg.Firestore.ProjectID)
	assert.Equal(t, "apple-shared-secret", cfg.IAP.AppleSharedSecret)
	assert.Equal(t, `{"type": "service_account"}`, cfg.IAP.GoogleKeyJSON)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "rotinafit", cfg.JWT.Issuer)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "production", cfg.Sentry.Environment)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("SENTRY_ENVIRONMENT", "development")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "development", cfg.Sentry.Environment)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"jwt secret", "JWT_SECRET"},
		{"redis url", "REDIS_URL"},
		{"firestore project", "FIRESTORE_PROJECT_ID"},
		{"apple shared secret", "IAP_APPLE_SHARED_SECRET"},
		{"google key json", "IAP_GOOGLE_KEY_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.omit)
		})
	}
}
