package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultConsentCookieName, cfg.Cookie.Name)
	assert.Equal(t, "/", cfg.Cookie.Path)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, 5*time.Minute, cfg.Redis.RegistryTTL)
	assert.Equal(t, "consent.decisions", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Database.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONSENT_COOKIE_NAME", "siteConsent")
	t.Setenv("CONSENT_COOKIE_SECURE", "false")
	t.Setenv("REGISTRY_CACHE_TTL", "30s")
	t.Setenv("CONSENT_LOG_RETENTION", "720h")
	t.Setenv("MAX_BODY_BYTES", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,192.168.0.1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "siteConsent", cfg.Cookie.Name)
	assert.False(t, cfg.Cookie.Secure)
	assert.Equal(t, 30*time.Second, cfg.Redis.RegistryTTL)
	assert.Equal(t, 720*time.Hour, cfg.Retention.Period)
	assert.Equal(t, int64(64*1024), cfg.MaxBodyBytes, "unparsable values fall back to defaults")
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.1"}, cfg.TrustedProxies)
}

func TestValidate(t *testing.T) {
	valid := func() Server {
		return Server{
			Cookie:    CookieConfig{Name: "felixCookies", SameSite: "lax"},
			Retention: RetentionConfig{Period: time.Hour},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Cookie.SameSite = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Environment = "production"
	assert.Error(t, cfg.Validate(), "production requires an admin token")

	cfg.AdminAPIToken = "secret"
	assert.NoError(t, cfg.Validate())
}
