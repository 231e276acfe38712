package commands

import (
	"fmt"
	"grantsync-backend/internal/components/chrono"
	"grantsync-backend/lib/configutil"
	"grantsync-backend/lib/notify"
	"grantsync-backend/lib/scrapers/oursg"
	"grantsync-backend/lib/sqliteutil"
	"math"
	"time"
)

type DelayConfig struct {
	MinSeconds float64 `json:"min_seconds"`
	MaxSeconds float64 `json:"max_seconds"`
	// if specified, requests are paced by a rate limiter instead of
	// random delays
	RequestsPerSecond float64 `json:"requests_per_second"`
}

type Config struct {
	BaseUrl  string            `json:"base_url"`
	Output   string            `json:"output"`
	Database sqliteutil.Config `json:"database"`
	Delay    DelayConfig       `json:"delay"`
	// zero means requests never time out
	TimeoutSeconds float64 `json:"timeout_seconds"`
	// route requests through a transport that mimics a browser's tls
	// fingerprint
	CloudflareBypass bool `json:"cloudflare_bypass"`
	// directory full http messages are written to when running verbose
	RestyOutput string            `json:"resty_output"`
	Smtp        notify.SmtpConfig `json:"smtp"`
}

var defaultConfig = Config{
	BaseUrl: oursg.DefaultBaseUrl,
	Output:  "grants.json",
	Database: sqliteutil.Config{
		Path: "grants.db",
	},
	Delay: DelayConfig{
		MinSeconds: 0.5,
		MaxSeconds: 2,
	},
	RestyOutput: "<dev_state>/resty/grantsync",
	Smtp: notify.SmtpConfig{
		Port: 587,
	},
}

const configFile = "config.json5"

func readConfig() (Config, error) {
	return configutil.ReadConfigWithDefaults(configFile, defaultConfig)
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func (c DelayConfig) build(seed int64) (chrono.DelayAPI, error) {
	if c.RequestsPerSecond > 0 {
		return chrono.NewLimiterDelay(c.RequestsPerSecond)
	}
	delay, err := chrono.NewRandomDelay(seconds(c.MinSeconds), seconds(c.MaxSeconds), seed)
	if err != nil {
		return nil, fmt.Errorf("delay config: %w", err)
	}
	return delay, nil
}
