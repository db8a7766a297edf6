package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: "+secret+"\n")
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "memory", c.Revocation.Kind)
	assert.Equal(t, "token", c.Auth.CookieName)
	assert.False(t, c.Auth.Secure)
	assert.Equal(t, 24*time.Hour, c.JWTTTL())
	assert.Equal(t, 5*time.Minute, c.RevocationGrace())
	assert.Equal(t, DefaultPublicPaths, c.Auth.PublicPaths)
	assert.Equal(t, 8, c.Security.PasswordPolicy.MinLength)
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeYAML(t, `
server:
  addr: ":9000"
jwt:
  secret: `+secret+`
  ttl: 2h
auth:
  cookie_name: rp
`)
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("AUTH_PUBLIC_PATHS", "/a, /b/*")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, 30*time.Minute, c.JWTTTL())
	assert.Equal(t, "rp", c.Auth.CookieName)
	assert.True(t, c.Auth.Secure)
	assert.Equal(t, []string{"/a", "/b/*"}, c.Auth.PublicPaths)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, c.Server.TrustedProxies)
}

func TestLoad_BlacklistPathRelativeToYAML(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: "+secret+"\nsecurity:\n  password_blacklist_path: common.txt\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(p), "common.txt"), c.Security.PasswordBlacklistPath)
}

func TestValidate_Errors(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: postgres
revocation:
  kind: redis
server:
  trusted_proxies: ["10.0.0.0/8", "not-an-ip"]
jwt:
  secret: short
  ttl: forever
`)
	_, err := Load(p)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "storage.dsn")
	assert.Contains(t, msg, "redis.addr")
	assert.Contains(t, msg, "jwt.secret")
	assert.Contains(t, msg, "jwt.ttl")
	assert.Contains(t, msg, `server.trusted_proxies: invalid entry "not-an-ip"`)
	assert.NotContains(t, msg, "10.0.0.0/8")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("REVOCATION_KIND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	c, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, "postgres://u:p@localhost/db", c.Storage.DSN)
	assert.Equal(t, "redis", c.Revocation.Kind)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
