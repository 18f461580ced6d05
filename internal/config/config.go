package config

import (
	"os"
	"strconv"
)

// OCRConfig holds the fixed configuration of the OCR engine.
type OCRConfig struct {
	// Language is the Tesseract trained-data language code.
	Language string
	// OrientationDetect enables orientation-aware page segmentation
	// (the angle-classification analogue of the recognition pipeline).
	OrientationDetect bool
}

// PDFConfig holds PDF rasterization settings.
type PDFConfig struct {
	GhostscriptPath string
	// DPI is the rendering resolution for PDF pages.
	DPI int
}

// AIConfig holds generative-language-model client settings.
// APIKey is read at startup but not validated before first use.
type AIConfig struct {
	Provider string
	Model    string
	APIKey   string
	// OllamaHost is only consulted when Provider is "ollama".
	OllamaHost string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port string
	// ScratchDir is the transient directory uploads and derived page
	// images live in for the duration of one request.
	ScratchDir string
	// BodyLimitBytes caps upload size at the framework level.
	BodyLimitBytes int
	OCR            OCRConfig
	PDF            PDFConfig
	AI             AIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "5000"),
		ScratchDir:     getEnv("SCRATCH_DIR", "uploads"),
		BodyLimitBytes: getEnvInt("MAX_UPLOAD_BYTES", 16*1024*1024),
		OCR: OCRConfig{
			Language:          getEnv("OCR_LANGUAGE", "eng"),
			OrientationDetect: getEnvBool("OCR_ORIENTATION_DETECT", true),
		},
		PDF: PDFConfig{
			GhostscriptPath: getEnv("GHOSTSCRIPT_PATH", "gs"),
			DPI:             getEnvInt("PDF_RENDER_DPI", 300),
		},
		AI: AIConfig{
			Provider:   getEnv("LLM_PROVIDER", "googleai"),
			Model:      getEnv("LLM_MODEL", "gemini-1.5-pro"),
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			OllamaHost: getEnv("OLLAMA_HOST", "http://127.0.0.1:11434"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
