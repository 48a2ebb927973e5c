package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CartTTL)
	assert.False(t, cfg.Redis.Enabled())
	// devでは仮のsecretが入る
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_EMAILS", "a@example.com,b@example.com")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.App.AdminEmails)
	assert.True(t, cfg.Redis.Enabled())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			App: AppConfig{GoEnv: "dev"},
			DB:  DBConfig{Driver: "postgres"},
			JWT: JWTConfig{Secret: "x", AccessTTL: time.Hour},
		}
	}

	c := base()
	require.NoError(t, c.validate())

	c = base()
	c.DB.Driver = "mysql"
	assert.Error(t, c.validate())

	c = base()
	c.App.GoEnv = "prod"
	c.JWT.Secret = ""
	assert.Error(t, c.validate())

	c = base()
	c.JWT.AccessTTL = 0
	assert.Error(t, c.validate())

	c = base()
	c.MinIO.Endpoint = "localhost:9000"
	assert.Error(t, c.validate())
	c.MinIO.AccessKey, c.MinIO.SecretKey = "ak", "sk"
	assert.NoError(t, c.validate())
}
