package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("PASSWORD_RESET_TTL_MIN", "")
	t.Setenv("NOTIFY_TIMEOUT", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("AUTH_RATE_PER_MIN", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 720*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 30*time.Minute, cfg.PasswordResetTTL)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 10, cfg.AuthRatePerMin)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("PASSWORD_RESET_TTL_MIN", "15")
	t.Setenv("FRONTEND_URL", "https://me.dev/")
	t.Setenv("CORS_ORIGINS", "https://me.dev, https://admin.me.dev,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 15*time.Minute, cfg.PasswordResetTTL)
	assert.Equal(t, "https://me.dev", cfg.FrontendURL)
	assert.Equal(t, []string{"https://me.dev", "https://admin.me.dev"}, cfg.CORSOrigins)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	for _, v := range []string{"soon", "0s", "-1h", "0d", "xd"} {
		t.Setenv("JWT_EXPIRES_IN", v)

		_, err := LoadConfig()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "JWT_EXPIRES_IN")
	}
}

func TestLoadConfig_ExpiresInDays(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "30d")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiresIn)
}

func TestLoadConfig_BadResetTTL(t *testing.T) {
	t.Setenv("PASSWORD_RESET_TTL_MIN", "-5")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DbHost: "db", DbUser: "u", DbName: "portfolio"}
	_, err := cfg.Validate()
	require.Error(t, err, "пустой JWT_SECRET должен быть фатальным")

	cfg.JWTSecret = "s3cret"
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)

	_, err = (&Config{JWTSecret: "x"}).Validate()
	require.Error(t, err)
}

func TestGetDSN_EscapesPassword(t *testing.T) {
	cfg := &Config{DbUser: "u", DbPass: "p@ss/w#rd", DbHost: "h", DbPort: "5432", DbName: "n", DbSSLMode: "disable"}

	dsn, err := url.Parse(cfg.GetDSN())
	require.NoError(t, err)
	pass, _ := dsn.User.Password()
	assert.Equal(t, "p@ss/w#rd", pass)
	assert.Equal(t, "h:5432", dsn.Host)
	assert.Equal(t, "/n", dsn.Path)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
}

func TestGetDSNSafe_HidesPassword(t *testing.T) {
	cfg := &Config{DbUser: "u", DbPass: "p@ss", DbHost: "h", DbPort: "5432", DbName: "n", DbSSLMode: "disable"}
	assert.NotContains(t, cfg.GetDSNSafe(), "p@ss")
	assert.NotContains(t, cfg.GetDSNSafe(), "p%40ss")
	assert.Contains(t, cfg.GetDSNSafe(), "h:5432/n")
}
