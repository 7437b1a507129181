package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	Database DatabaseConfig
	Export   ExportConfig
}

// OCRConfig holds text-resolution configuration
type OCRConfig struct {
	Tesseract          string
	Pdftoppm           string
	TesseractLang      string
	TessdataDir        string
	DPI                int
	MaxPages           int
	TextLayerThreshold int
	ContrastFactor     float64
	ProcessTimeout     time.Duration
}

// DatabaseConfig holds the optional results-store configuration
type DatabaseConfig struct {
	DSN           string
	DialTimeout   time.Duration
	HealthTimeout time.Duration
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	OutputDir string
	Workers   int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:          getEnv("TESSERACT_PATH", "tesseract"),
			Pdftoppm:           getEnv("PDFTOPPM_PATH", "pdftoppm"),
			TesseractLang:      getEnv("OCR_LANG", "eng"),
			TessdataDir:        getEnv("TESSDATA_PREFIX", ""),
			DPI:                getEnvAsInt("OCR_DPI", 300),
			MaxPages:           getEnvAsInt("OCR_MAX_PAGES", 0),
			TextLayerThreshold: getEnvAsInt("TEXT_LAYER_THRESHOLD", 100),
			ContrastFactor:     getEnvAsFloat64("CONTRAST_FACTOR", 2.0),
			ProcessTimeout:     getEnvAsDuration("OCR_PROCESS_TIMEOUT", 2*time.Minute),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DB_URL", ""),
			DialTimeout:   getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			HealthTimeout: getEnvAsDuration("DB_HEALTH_TIMEOUT", 3*time.Second),
		},
		Export: ExportConfig{
			OutputDir: getEnv("EXPORT_DIR", "."),
			Workers:   getEnvAsInt("WORKERS", 1),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.OCR.TesseractLang == "" {
		return NewAppError("CONFIG_ERROR", "OCR_LANG must not be empty", ErrInvalidInput)
	}
	if c.OCR.DPI < 72 || c.OCR.DPI > 1200 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be between 72 and 1200", ErrInvalidInput)
	}
	if c.OCR.TextLayerThreshold < 0 {
		return NewAppError("CONFIG_ERROR", "TEXT_LAYER_THRESHOLD must be >= 0", ErrInvalidInput)
	}
	if c.OCR.ContrastFactor <= 0 {
		return NewAppError("CONFIG_ERROR", "CONTRAST_FACTOR must be > 0", ErrInvalidInput)
	}
	if c.Export.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "WORKERS must be >= 1", ErrInvalidInput)
	}
	return nil
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

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
