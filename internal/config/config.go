package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port      int
	LogLevel  string
	NatsURL   string
	NatsToken string
	APIToken  string
	RulesFile string
	NameSeed  int64
}

func Load() Config {
	return Config{
		Port:      envInt("PERSONALAB_PORT", 8760),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		NatsURL:   envStr("NATS_URL", ""),
		NatsToken: envStr("NATS_TOKEN", ""),
		APIToken:  envStr("PERSONALAB_API_TOKEN", ""),
		RulesFile: envStr("PERSONALAB_RULES_FILE", ""),
		NameSeed:  envInt64("PERSONALAB_NAME_SEED", 0),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
