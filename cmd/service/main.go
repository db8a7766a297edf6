package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/ridepass/internal/bootstrap"
	"github.com/dropDatabas3/ridepass/internal/config"
	"github.com/dropDatabas3/ridepass/internal/http/server"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvOnly    = flag.Bool("env", false, "usar SOLO env (y .env si existe)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime config efectiva y termina")
	)
	flag.Parse()

	if fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: cargado %s", *flagEnvFile)
		}
	}

	cfg, mode, err := loadConfig(*flagConfigPath, *flagEnvOnly)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "ridepass",
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, lg)

	app, err := server.Build(ctx, cfg)
	if err != nil {
		lg.Fatal("build failed", logger.Err(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			lg.Warn("close failed", logger.Err(err))
		}
	}()

	// ─── Admin inicial (solo por env, sin prompt) ───
	created, err := bootstrap.CheckAndCreateAdmin(ctx, bootstrap.AdminBootstrapConfig{
		Riders:        app.Stores.Riders,
		Hasher:        app.Hasher,
		Policy:        server.PasswordPolicy(cfg),
		SkipPrompt:    true,
		AdminEmail:    strings.TrimSpace(os.Getenv("RIDEPASS_ADMIN_EMAIL")),
		AdminPassword: os.Getenv("RIDEPASS_ADMIN_PASSWORD"),
	})
	switch {
	case errors.Is(err, bootstrap.ErrMissingCredentials):
		lg.Warn("no admin user exists; set RIDEPASS_ADMIN_EMAIL and RIDEPASS_ADMIN_PASSWORD or run ridepassctl admin create")
	case err != nil:
		lg.Fatal("admin bootstrap failed", logger.Err(err))
	case created:
		lg.Info("admin user created")
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		lg.Fatal("listen failed", logger.String("addr", cfg.Server.Addr), logger.Err(err))
	}
	lg.Info("service up",
		logger.String("mode", mode),
		logger.String("env", cfg.App.Env),
		logger.String("storage", cfg.Storage.Driver),
		logger.String("revocation", cfg.Revocation.Kind))

	if err := server.Run(ctx, app, ln); err != nil {
		lg.Error("http server stopped", logger.Err(err))
		return
	}
	lg.Info("service stopped")
}

func loadConfig(path string, envOnly bool) (*config.Config, string, error) {
	if envOnly {
		cfg, err := config.LoadFromEnv()
		return cfg, "env", err
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" && fileExists("configs/config.yaml") {
		path = "configs/config.yaml"
	}
	if path == "" {
		cfg, err := config.LoadFromEnv()
		return cfg, "env", err
	}
	cfg, err := config.Load(path)
	return cfg, "yaml", err
}

func printConfigSummary(c *config.Config) {
	secret := "(unset)"
	if c.JWT.Secret != "" {
		secret = fmt.Sprintf("(%d bytes)", len(c.JWT.Secret))
	}
	fmt.Printf(`CONFIG:
  app.env=%s version=%s
  server.addr=%s cors=%v trusted_proxies=%v
  storage.driver=%s auto_migrate=%t
  revocation.kind=%s grace=%s redis.addr=%s
  jwt.method=%s ttl=%s issuer=%s secret=%s
  auth.cookie=%s samesite=%s secure=%t public_paths=%v
  rate.enabled=%t login=%d/%s
  security.password_hash=%s blacklist=%s
  log.level=%s
`,
		c.App.Env, c.App.Version,
		c.Server.Addr, c.Server.CORSAllowedOrigins, c.Server.TrustedProxies,
		c.Storage.Driver, c.Storage.AutoMigrate,
		c.Revocation.Kind, c.Revocation.Grace, c.Redis.Addr,
		c.JWT.Method, c.JWT.TTL, c.JWT.Issuer, secret,
		c.Auth.CookieName, c.Auth.SameSite, c.Auth.Secure, c.Auth.PublicPaths,
		c.Rate.Enabled, c.Rate.Login.Limit, c.Rate.Login.Window,
		c.Security.PasswordHash, c.Security.PasswordBlacklistPath,
		c.Log.Level)
}
