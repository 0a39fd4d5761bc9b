package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the sync engine and daemon.
type Config struct {
	AppName              string
	AppEnv               string
	AppPort              string
	ScriptURL            string
	RedisURL             string
	SessionSecret        string
	GardenAutosaveWindow time.Duration
	ProxyRateLimit       int
	ProxyRateWindow      time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Edge Sync")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("garden.autosave_window", "5s")
	v.SetDefault("proxy.rate_limit", 30)
	v.SetDefault("proxy.rate_window", "1s")

	window, err := time.ParseDuration(v.GetString("garden.autosave_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid garden autosave window: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("proxy.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid proxy rate window: %w", err)
	}

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		ScriptURL:            v.GetString("script.url"),
		RedisURL:             v.GetString("redis.url"),
		SessionSecret:        v.GetString("session.secret"),
		GardenAutosaveWindow: window,
		ProxyRateLimit:       v.GetInt("proxy.rate_limit"),
		ProxyRateWindow:      rateWindow,
	}

	if cfg.ScriptURL == "" {
		return Config{}, fmt.Errorf("script url must be provided")
	}

	if cfg.ProxyRateLimit <= 0 {
		cfg.ProxyRateLimit = 30
	}

	return cfg, nil
}
