package common

import (
	"os"
	"runtime"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig
	Batch  BatchConfig
	Output OutputConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Language         string
	FallbackLanguage string
	TessdataDir      string
	DPI              int
	Pdftoppm         string
	PoolSize         int
}

// BatchConfig holds directory/batch processing configuration
type BatchConfig struct {
	Workers     int
	PageTimeout time.Duration
}

// OutputConfig holds output-writing configuration
type OutputConfig struct {
	IncludeSummary bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Language:         getEnv("OCR_LANG", "spa"),
			FallbackLanguage: getEnv("OCR_FALLBACK_LANG", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			DPI:              getEnvAsInt("OCR_DPI", 300),
			Pdftoppm:         getEnv("PDFTOPPM_PATH", "pdftoppm"),
			PoolSize:         getEnvAsInt("OCR_POOL_SIZE", runtime.NumCPU()),
		},
		Batch: BatchConfig{
			Workers:     getEnvAsInt("BATCH_WORKERS", 4),
			PageTimeout: getEnvAsDuration("PAGE_TIMEOUT", 2*time.Minute),
		},
		Output: OutputConfig{
			IncludeSummary: getEnvAsBool("OUTPUT_INCLUDE_SUMMARY", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.OCR.Language == "" {
		return NewAppError(CodeConfigError, "OCR_LANG is required", ErrInvalidInput)
	}
	if c.OCR.DPI < 72 {
		return NewAppError(CodeConfigError, "OCR_DPI must be at least 72", ErrInvalidInput)
	}
	if c.Batch.Workers < 1 {
		return NewAppError(CodeConfigError, "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
