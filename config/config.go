// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configDir      = pflag.StringP("config", "c", ".", "Directory containing config.toml")
	port           = pflag.IntP("port", "p", 0, "Port to listen on")
	logLevel       = pflag.String("log-level", "", "Log level (debug, info, warn, error, fatal)")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres", "mongo"}
)

var ErrNoSecret = errors.New("no JWT secret configured")

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses the command line and loads the configuration. A missing JWT
// secret prints a freshly generated one and exits, everything else that is
// wrong is returned as an error.
func Setup() error {
	pflag.Parse()

	v.BindPFlag("host.port", pflag.Lookup("port"))
	v.BindPFlag("app.log_level", pflag.Lookup("log-level"))

	err := Load(*configDir)
	if errors.Is(err, ErrNoSecret) {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	return err
}

// Load reads .env, config.toml from dir (optional) and the environment,
// applies defaults and validates the result.
func Load(dir string) error {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read .env file, %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")
	v.BindEnv("app.metrics", "APP_METRICS")

	v.BindEnv("host.port", "HOST_PORT", "PORT")
	v.BindEnv("host.cors_origins", "HOST_CORS_ORIGINS")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.uri", "DB_URI")
	v.BindEnv("db.name", "DB_NAME")

	v.BindEnv("jwt.secret", "JWT_SECRET", "SECRET_TOKEN")

	v.BindEnv("auth.signup_token", "TEST_TOKEN")
	v.BindEnv("auth.admin_emails", "AUTH_ADMIN_EMAILS")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("security.body_limit", "SECURITY_BODY_LIMIT")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.metrics", true)

	v.SetDefault("host.port", 3000)
	v.SetDefault("host.cors_origins", []string{"*"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")
	v.SetDefault("db.uri", "mongodb://localhost:27017")
	v.SetDefault("db.name", "goals")

	v.SetDefault("auth.signup_token", "")
	v.SetDefault("auth.admin_emails", []string{})

	v.SetDefault("security.rate_limit", 0)
	v.SetDefault("security.body_limit", 1<<20)

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	// Lists coming from the environment are comma separated.
	v.Set("host.cors_origins", splitList(v.Get("host.cors_origins")))

	admins := splitList(v.Get("auth.admin_emails"))
	for i, e := range admins {
		admins[i] = strings.ToLower(e)
	}
	v.Set("auth.admin_emails", admins)

	return validate()
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if p := v.GetInt("host.port"); p <= 0 || p > 65535 {
		return errors.New("invalid port provided")
	}

	switch v.GetString("db.driver") {
	case "sqlite", "postgres":
		if v.GetString("db.dsn") == "" {
			return errors.New("db.dsn can't be empty")
		}
	case "mongo":
		if v.GetString("db.uri") == "" {
			return errors.New("db.uri can't be empty")
		}

		if v.GetString("db.name") == "" {
			return errors.New("db.name can't be empty")
		}
	default:
		return fmt.Errorf("invalid database driver provided, must be one of %s", strings.Join(validDrivers, ", "))
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if v.GetInt64("security.body_limit") <= 0 {
		return errors.New("security.body_limit must be bigger than 0")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoSecret
	}

	return nil
}

func splitList(val any) []string {
	var parts []string

	switch t := val.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []string:
		parts = t
	case []any:
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
