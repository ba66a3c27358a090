package logger

import (
	"io"
	"os"
	"strconv"
)

const defaultServiceName = "arbitrage-analyzer"

// EnvConfig is logger configuration read from the environment.
type EnvConfig struct {
	Level       string
	Format      string
	Output      io.Writer // overrides the file/stderr selection when set
	ServiceName string
	Environment string // local, dev, prod

	LogFile     string
	LogFileOnly bool
	Rotation    Rotation
}

// Rotation controls the lumberjack file writer.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoadFromEnv reads LOG_*, SERVICE_NAME and APP_ENV. Unset or malformed
// values fall back to defaults.
func LoadFromEnv() *EnvConfig {
	return &EnvConfig{
		Level:       envString("LOG_LEVEL", "info"),
		Format:      envString("LOG_FORMAT", "json"),
		ServiceName: envString("SERVICE_NAME", defaultServiceName),
		Environment: envString("APP_ENV", "local"),
		LogFile:     envString("LOG_FILE", "/var/log/arbitrage/analyzer.log"),
		LogFileOnly: envParse("LOG_FILE_ONLY", false, strconv.ParseBool),
		Rotation: Rotation{
			MaxSizeMB:  envParse("LOG_MAX_SIZE", 100, strconv.Atoi),
			MaxBackups: envParse("LOG_MAX_BACKUPS", 7, strconv.Atoi),
			MaxAgeDays: envParse("LOG_MAX_AGE", 30, strconv.Atoi),
			Compress:   envParse("LOG_COMPRESS", true, strconv.ParseBool),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envParse[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}
