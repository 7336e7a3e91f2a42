package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_EMAIL", "admin@city.example")
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_EMAIL")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "civic-portal", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.False(t, cfg.App.Production())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, "civic_portal", cfg.Mongo.Database)
	assert.True(t, cfg.Mongo.EnsureIndexes)

	assert.Equal(t, 168, cfg.Auth.CitizenTokenTTLHours)
	assert.Equal(t, 24, cfg.Auth.AdminTokenTTLHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 10, cfg.Auth.LoginAttemptLimit)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LoginAttemptWindow)

	assert.Equal(t, "ticket-images", cfg.Storage.Bucket)
	assert.Equal(t, "ticket_events", cfg.Notification.QueueName)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_CITIZEN_TOKEN_TTL_HOURS", "48")
	t.Setenv("AUTH_BCRYPT_COST", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.Production())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 48, cfg.Auth.CitizenTokenTTLHours)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestInvalidIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_ADMIN_TOKEN_TTL_HOURS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Auth.AdminTokenTTLHours)
}
