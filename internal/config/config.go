package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"crimedash/internal/incident"
	"crimedash/internal/stats"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	CacheDir            string
	DataSource          string
	DispositionTable    string
	HTTPAddr            string
	GinMode             string
	YearDomain          stats.YearDomain
	FetchTimeout        time.Duration
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	domain := stats.YearDomain{
		Start: getEnvInt("YEAR_DOMAIN_START", stats.DefaultYearDomain.Start),
		End:   getEnvInt("YEAR_DOMAIN_END", stats.DefaultYearDomain.End),
	}
	if domain.End < domain.Start {
		return nil, fmt.Errorf("YEAR_DOMAIN_END (%d) is before YEAR_DOMAIN_START (%d)", domain.End, domain.Start)
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		DataSource:          getEnv("DATA_SOURCE", "cleaned_data.csv"),
		DispositionTable:    getEnv("DISPOSITION_TABLE", ""),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		GinMode:             getEnv("GIN_MODE", "release"),
		YearDomain:          domain,
		FetchTimeout:        time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

// Classifier builds the disposition classifier, reading DispositionTable
// when one is configured.
func (c *AppConfig) Classifier() (*incident.Classifier, error) {
	if c.DispositionTable == "" {
		return incident.NewClassifier(nil), nil
	}
	table, err := incident.LoadDispositionTable(c.DispositionTable)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", c.DispositionTable).Int("entries", len(table)).Msg("Loaded disposition table")
	return incident.NewClassifier(table), nil
}

// ResolveSource picks the dataset source: override when set, DataSource
// otherwise. A relative path missing from the working directory is looked up
// under DataPath.
func (c *AppConfig) ResolveSource(override string) string {
	source := c.DataSource
	if override != "" {
		source = override
	}
	if source == "" || strings.Contains(source, "://") || filepath.IsAbs(source) {
		return source
	}
	if _, err := os.Stat(source); err == nil {
		return source
	}
	candidate := filepath.Join(c.DataPath, source)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return source
}

// OutputPath returns out when set, otherwise name under CacheDir.
func (c *AppConfig) OutputPath(out, name string) string {
	if out != "" {
		return out
	}
	return filepath.Join(c.CacheDir, name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
