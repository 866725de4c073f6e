package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Encoding      string
	WriteBOM      bool
	AutodetectBOM bool
	WorkerCount   int
	LogLevel      string
	Language      string
	Codepage      string
	PreviewLen    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Encoding:      getEnv("TFS_ENCODING", "utf16"),
		WriteBOM:      getEnvBool("TFS_WRITE_BOM", true),
		AutodetectBOM: getEnvBool("TFS_AUTODETECT_BOM", true),
		WorkerCount:   getEnvInt("TFS_WORKER_COUNT", 1),
		LogLevel:      getEnv("TFS_LOG_LEVEL", "info"),
		Language:      getEnv("TFS_LANGUAGE", "e"),
		Codepage:      getEnv("TFS_CODEPAGE", "shift_jis"),
		PreviewLen:    getEnvInt("TFS_PREVIEW_LEN", 40),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid boolean, using default")
		return fallback
	}
	return b
}
