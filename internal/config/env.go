package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RESUMATCH_"

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with RESUMATCH_* environment variables.
// Recognized: HOST, PORT, DEBUG, LLM_PROVIDER, LLM_MODEL, LLM_BASE_URL.
func ApplyEnv(cfg *Config) error {
	if v := lookup("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := lookup("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid %sPORT %q", EnvPrefix, v)
		}
		cfg.Server.Port = port
	}
	if v := lookup("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBUG %q", EnvPrefix, v)
		}
		cfg.Debug = debug
	}
	if v := lookup("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := lookup("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := lookup("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	return nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}
