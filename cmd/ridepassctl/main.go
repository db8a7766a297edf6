package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dropDatabas3/ridepass/internal/bootstrap"
	"github.com/dropDatabas3/ridepass/internal/config"
	"github.com/dropDatabas3/ridepass/internal/http/server"
	"github.com/dropDatabas3/ridepass/internal/jwt"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/security/password"
	"github.com/dropDatabas3/ridepass/internal/store"
	"github.com/dropDatabas3/ridepass/internal/store/pg"
	"github.com/dropDatabas3/ridepass/migrations/postgres"
)

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		configPath = envOr("CONFIG_PATH", "")
		envFile    = ".env"
		out        = envOr("RIDEPASS_OUT", "text")
	)

	root := &cobra.Command{
		Use:           "ridepassctl",
		Short:         "Herramientas de operación para ridepass",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "ruta a config.yaml (env CONFIG_PATH); vacío = solo env")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "ruta a .env (si existe, se carga)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	loadCfg := func() (*config.Config, error) {
		if configPath == "" {
			return config.LoadFromEnv()
		}
		return config.Load(configPath)
	}
	printOut := func(w io.Writer, text string, v any) {
		if out == "json" {
			b, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintln(w, string(b))
			return
		}
		fmt.Fprintln(w, text)
	}

	// ─── migrate ───
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL embebidas (storage.driver=postgres)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			if d := strings.ToLower(cfg.Storage.Driver); d != "postgres" && d != "pg" {
				return fmt.Errorf("migrate requiere storage.driver=postgres (actual %q)", cfg.Storage.Driver)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			pool, err := pg.Connect(ctx, pg.PoolConfig{DSN: cfg.Storage.DSN, MaxConns: 2, MinConns: 1})
			if err != nil {
				return err
			}
			defer pool.Close()
			res, err := pg.NewMigrator(postgres.FS, postgres.Dir).Run(ctx, pool)
			if err != nil {
				return err
			}
			printOut(cmd.OutOrStdout(),
				fmt.Sprintf("applied=%v skipped=%d took=%s", res.Applied, len(res.Skipped), res.Duration.Round(time.Millisecond)),
				res)
			return nil
		},
	}

	// ─── hash-password ───
	var algo string
	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hashea una contraseña leída de stdin (sin eco en terminal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := password.New(algo)
			if err != nil {
				return err
			}
			plain, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}
			if plain == "" {
				return errors.New("password vacía")
			}
			hash, err := h.Hash(plain)
			if err != nil {
				return err
			}
			printOut(cmd.OutOrStdout(), hash, map[string]string{"algorithm": algo, "hash": hash})
			return nil
		},
	}
	hashCmd.Flags().StringVar(&algo, "algo", "bcrypt", "bcrypt|argon2id")

	// ─── token ───
	tokenCmd := &cobra.Command{Use: "token", Short: "Emitir e inspeccionar tokens con el secreto configurado"}
	newCodec := func() (*jwt.Codec, error) {
		cfg, err := loadCfg()
		if err != nil {
			return nil, err
		}
		return jwt.NewCodec(jwt.CodecConfig{
			Secret: []byte(cfg.JWT.Secret),
			TTL:    cfg.JWTTTL(),
			Issuer: cfg.JWT.Issuer,
			Method: cfg.JWT.Method,
		})
	}

	var subject string
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Firma un token para --subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(subject) == "" {
				return errors.New("falta --subject")
			}
			codec, err := newCodec()
			if err != nil {
				return err
			}
			tok, exp, err := codec.Issue(principal.NormalizeIdentifier(subject))
			if err != nil {
				return err
			}
			printOut(cmd.OutOrStdout(), tok, map[string]any{"token": tok, "expires_at": exp})
			return nil
		},
	}
	issueCmd.Flags().StringVar(&subject, "subject", "", "email del principal")

	inspectCmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Valida un token y muestra subject y expiración",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := newCodec()
			if err != nil {
				return err
			}
			sub, err := codec.SubjectOf(args[0])
			if err != nil {
				reason := jwt.RejectionReason(err)
				printOut(cmd.OutOrStdout(), "invalid: "+reason, map[string]any{"valid": false, "reason": reason})
				return nil
			}
			exp, _ := codec.ExpiryOf(args[0])
			printOut(cmd.OutOrStdout(),
				fmt.Sprintf("valid subject=%s expires_at=%s (in %s)", sub, exp.Format(time.RFC3339), time.Until(exp).Round(time.Second)),
				map[string]any{"valid": true, "subject": sub, "expires_at": exp})
			return nil
		},
	}
	tokenCmd.AddCommand(issueCmd, inspectCmd)

	// ─── admin ───
	adminCmd := &cobra.Command{Use: "admin", Short: "Operaciones administrativas"}
	var adminEmail string
	createAdminCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea el primer rider con ROLE_ADMIN si no existe ninguno",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			stores, err := store.Open(ctx, store.Config{
				Driver:      cfg.Storage.Driver,
				DSN:         cfg.Storage.DSN,
				AutoMigrate: cfg.Storage.AutoMigrate,
				Pool:        pg.PoolConfig{MaxConns: 2, MinConns: 1},
			})
			if err != nil {
				return err
			}
			defer stores.Close()
			if strings.EqualFold(cfg.Storage.Driver, "memory") {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: storage.driver=memory, the admin will not survive this process")
			}

			hasher, err := password.New(cfg.Security.PasswordHash)
			if err != nil {
				return err
			}
			created, err := bootstrap.CheckAndCreateAdmin(ctx, bootstrap.AdminBootstrapConfig{
				Riders:        stores.Riders,
				Hasher:        hasher,
				Policy:        server.PasswordPolicy(cfg),
				AdminEmail:    adminEmail,
				AdminPassword: os.Getenv("RIDEPASS_ADMIN_PASSWORD"),
				In:            cmd.InOrStdin(),
				Out:           cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if !created {
				printOut(cmd.OutOrStdout(), "an admin already exists, nothing to do", map[string]bool{"created": false})
				return nil
			}
			printOut(cmd.OutOrStdout(), "admin created", map[string]bool{"created": true})
			return nil
		},
	}
	createAdminCmd.Flags().StringVar(&adminEmail, "email", envOr("RIDEPASS_ADMIN_EMAIL", ""), "email del admin (env RIDEPASS_ADMIN_EMAIL)")
	adminCmd.AddCommand(createAdminCmd)

	root.AddCommand(migrateCmd, hashCmd, tokenCmd, adminCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// readSecret lee sin eco si in es una terminal; si no, la primera línea.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
