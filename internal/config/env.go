package config

import (
	"errors"
	"os"
	"strings"
)

const (
	DefaultListenAddr = ":8080"
	DefaultDBPath     = "sellerbot.db"
)

type Env struct {
	BotToken      string
	ListenAddr    string
	DBPath        string
	WebhookSecret string

	// Admin API; the API is disabled when AdminUser is empty.
	AdminUser     string
	AdminPassHash string
	JWTSecret     string
}

func LoadEnv() (Env, error) {
	env := Env{
		BotToken:      os.Getenv("BOT_TOKEN"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		DBPath:        os.Getenv("DB_PATH"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		AdminUser:     os.Getenv("ADMIN_USER"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if env.ListenAddr == "" {
		env.ListenAddr = DefaultListenAddr
	}
	if env.DBPath == "" {
		env.DBPath = DefaultDBPath
	}

	var errs []string
	if strings.TrimSpace(env.BotToken) == "" {
		errs = append(errs, "BOT_TOKEN is required")
	}
	if env.AdminUser != "" {
		if env.AdminPassHash == "" {
			errs = append(errs, "ADMIN_PASS_HASH is required when ADMIN_USER is set")
		}
		if env.JWTSecret == "" {
			errs = append(errs, "JWT_SECRET is required when ADMIN_USER is set")
		}
	}
	if len(errs) > 0 {
		return Env{}, errors.New(strings.Join(errs, "; "))
	}

	return env, nil
}

// AdminEnabled reports whether the administrative API should be
// served.
func (e Env) AdminEnabled() bool {
	return e.AdminUser != ""
}
