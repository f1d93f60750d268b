package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL     string
	HTTPAddr       string
	StatePath      string
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
	StageDwell     time.Duration // dwell between simulated progress stages
	SuccessClear   time.Duration // success banner lifetime before navigation
	SearchDebounce time.Duration
	RefdataRefresh time.Duration
}

func Load() (*Config, error) {
	dwell, err := getms("STAGE_DWELL_MS", 2000)
	if err != nil {
		return nil, err
	}
	clear, err := getms("SUCCESS_CLEAR_MS", 1500)
	if err != nil {
		return nil, err
	}
	debounce, err := getms("SEARCH_DEBOUNCE_MS", 500)
	if err != nil {
		return nil, err
	}
	refresh, err := getint("REFDATA_REFRESH_MIN", 15)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:     getenv("API_BASE_URL", "http://localhost:3000/api"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		StatePath:      getenv("STATE_PATH", "front_state.db"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		StageDwell:     dwell,
		SuccessClear:   clear,
		SearchDebounce: debounce,
		RefdataRefresh: time.Duration(refresh) * time.Minute,
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getms(k string, def int) (time.Duration, error) {
	n, err := getint(k, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}
