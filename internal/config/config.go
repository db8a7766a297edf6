// Package config carga la configuración del servicio: YAML opcional, defaults
// y overrides por variables de entorno, en ese orden.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
		ShutdownTimeout    string   `yaml:"shutdown_timeout"`
		TrustedProxies     []string `yaml:"trusted_proxies"` // CIDRs o IPs cuyo X-Forwarded-For se acepta
	} `yaml:"server"`

	Storage struct {
		Driver      string `yaml:"driver"` // memory | postgres
		DSN         string `yaml:"dsn"`
		AutoMigrate bool   `yaml:"auto_migrate"`
		Postgres    struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	// Revocation backend del blacklist de tokens. Con "redis" también el
	// rate limiter pasa a Redis.
	Revocation struct {
		Kind  string `yaml:"kind"` // memory | redis
		Grace string `yaml:"grace"`
	} `yaml:"revocation"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    string `yaml:"ttl"`
		Issuer string `yaml:"issuer"`
		Method string `yaml:"method"` // HS256 | HS384 | HS512
	} `yaml:"jwt"`

	Auth struct {
		CookieName  string   `yaml:"cookie_name"`
		Domain      string   `yaml:"domain"`
		SameSite    string   `yaml:"samesite"`
		Secure      bool     `yaml:"secure"`
		PublicPaths []string `yaml:"public_paths"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Security struct {
		PasswordHash   string `yaml:"password_hash"` // bcrypt | argon2id
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			MaxLength     int  `yaml:"max_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
		PasswordBlacklistPath string `yaml:"password_blacklist_path"`
	} `yaml:"security"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultPublicPaths registro y login de ambos tipos, más health y métricas.
var DefaultPublicPaths = []string{
	"/api/auth/user/register",
	"/api/auth/user/login",
	"/api/auth/captains/register",
	"/api/auth/captains/login",
	"/healthz",
	"/metrics",
}

// Load lee el YAML en path y aplica defaults, env y validación.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.finalize(); err != nil {
		return nil, err
	}

	// Normalizar ruta de blacklist (si relativa) respecto al directorio del YAML
	if p := strings.TrimSpace(c.Security.PasswordBlacklistPath); p != "" && !filepath.IsAbs(p) {
		c.Security.PasswordBlacklistPath = filepath.Clean(filepath.Join(filepath.Dir(path), p))
	}
	return &c, nil
}

// LoadFromEnv arma la config solo con defaults y variables de entorno.
func LoadFromEnv() (*Config, error) {
	var c Config
	if err := c.finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) finalize() error {
	c.applyDefaults()
	c.applyEnvOverrides()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "15s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Revocation.Kind == "" {
		c.Revocation.Kind = "memory"
	}
	if c.Revocation.Grace == "" {
		c.Revocation.Grace = "5m"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "ridepass"
	}
	if c.JWT.TTL == "" {
		c.JWT.TTL = "24h"
	}
	if c.JWT.Method == "" {
		c.JWT.Method = "HS256"
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "token"
	}
	if c.Auth.SameSite == "" {
		c.Auth.SameSite = "Lax"
	}
	if len(c.Auth.PublicPaths) == 0 {
		c.Auth.PublicPaths = append([]string(nil), DefaultPublicPaths...)
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Security.PasswordHash == "" {
		c.Security.PasswordHash = "bcrypt"
	}
	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 8
	}
	if c.Security.PasswordPolicy.MaxLength == 0 {
		c.Security.PasswordPolicy.MaxLength = 72
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// MinJWTSecretLen coincide con el mínimo del codec.
const MinJWTSecretLen = 32

// Validate junta todos los problemas en un único error.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	switch strings.ToLower(c.Storage.Driver) {
	case "memory":
	case "postgres", "pg":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			add("storage.dsn is required for driver %q", c.Storage.Driver)
		}
	default:
		add("storage.driver: unknown driver %q", c.Storage.Driver)
	}

	switch strings.ToLower(c.Revocation.Kind) {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			add("redis.addr is required when revocation.kind=redis")
		}
	default:
		add("revocation.kind: unknown kind %q", c.Revocation.Kind)
	}

	if len(c.JWT.Secret) < MinJWTSecretLen {
		add("jwt.secret must be at least %d bytes", MinJWTSecretLen)
	}
	switch strings.ToUpper(c.JWT.Method) {
	case "HS256", "HS384", "HS512":
	default:
		add("jwt.method: unsupported %q", c.JWT.Method)
	}

	switch strings.ToLower(c.Security.PasswordHash) {
	case "bcrypt", "argon2id", "argon2":
	default:
		add("security.password_hash: unknown algorithm %q", c.Security.PasswordHash)
	}

	for _, p := range c.Server.TrustedProxies {
		if !validProxyEntry(p) {
			add("server.trusted_proxies: invalid entry %q", p)
		}
	}

	if c.Rate.Enabled && c.Rate.Login.Limit < 0 {
		add("rate.login.limit must be positive")
	}

	for name, v := range map[string]string{
		"server.read_timeout":                c.Server.ReadTimeout,
		"server.write_timeout":               c.Server.WriteTimeout,
		"server.shutdown_timeout":            c.Server.ShutdownTimeout,
		"revocation.grace":                   c.Revocation.Grace,
		"jwt.ttl":                            c.JWT.TTL,
		"rate.login.window":                  c.Rate.Login.Window,
		"storage.postgres.conn_max_lifetime": c.Storage.Postgres.ConnMaxLifetime,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			add("%s: invalid duration %q", name, v)
		}
	}

	return errors.Join(errs...)
}

// IsProd indica si app_env es prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// Las durations ya pasaron por Validate; un valor vacío vale 0.
func dur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func (c *Config) JWTTTL() time.Duration          { return dur(c.JWT.TTL) }
func (c *Config) RevocationGrace() time.Duration { return dur(c.Revocation.Grace) }
func (c *Config) LoginWindow() time.Duration     { return dur(c.Rate.Login.Window) }
func (c *Config) ReadTimeout() time.Duration     { return dur(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration    { return dur(c.Server.WriteTimeout) }
func (c *Config) ShutdownTimeout() time.Duration { return dur(c.Server.ShutdownTimeout) }
func (c *Config) ConnMaxLifetime() time.Duration { return dur(c.Storage.Postgres.ConnMaxLifetime) }

func validProxyEntry(v string) bool {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "/") {
		_, err := netip.ParsePrefix(v)
		return err == nil
	}
	_, err := netip.ParseAddr(v)
	return err == nil
}
