package main

import (
	"time"

	"github.com/cardapio-project/cardapio/grpc/impl/documentai"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/grpc/impl/style"
	"github.com/cardapio-project/cardapio/pkg/env"
)

// Config is read once at startup. Adapters receive the parts they need by value.
type Config struct {
	GRPCPort int
	WebPort  int
	// Origins allowed to call the service through gRPC-web.
	UIOrigins []string
	// Directory holding the built web client. Empty disables it.
	StaticFileDir string
	// Directory of <family>.ttf files used by the renderer.
	FontDir string

	LogLevel  string
	LogFormat string

	GCPProjectID string

	// Either a key or the name of a Secret Manager secret holding it.
	OpenAIKey           string
	OpenAIKeySecretName string
	GeminiKey           string
	GeminiKeySecretName string

	Auth       AuthConfig
	Storage    StorageConfig
	OCR        OCRConfig
	Style      StyleConfig
	Inpaint    InpaintConfig
	Background BackgroundConfig
}

type AuthConfig struct {
	Enabled bool
	// E.g., cardapio.app. Empty accepts any verified email.
	AllowedDomains []string
}

type StorageConfig struct {
	// filesystem, gcs or memory.
	Backend string
	// Root directory of the filesystem backend.
	Dir    string
	Bucket string
	Prefix string
	// Artifacts older than TTL are deleted every SweepInterval. Zero keeps them forever.
	TTL           time.Duration
	SweepInterval time.Duration
}

type OCRConfig struct {
	// tesseract or vision.
	Backend string
	Engine  ocr.Config
}

type StyleConfig struct {
	// none, openai, gemini or documentai.
	Backend string
	Model   string
	Timeout time.Duration

	DocumentAIEndpoint string
	DocumentAI         documentai.Spec
}

type InpaintConfig struct {
	// telea, opencv or lama.
	Backend    string
	LamaURL    string
	LamaAPIKey string
}

type BackgroundConfig struct {
	// gemini, openai or none.
	Backend string
	Model   string
}

func loadConfig() Config {
	return Config{
		GRPCPort:      env.IntVariable("GRPC_PORT", 50051),
		WebPort:       env.IntVariable("WEB_PORT", 8080),
		UIOrigins:     env.ListVariable("CARDAPIO_UI_URL"),
		StaticFileDir: env.StringVariable("CARDAPIO_STATIC_FILE_DIR", ""),
		FontDir:       env.StringVariable("FONT_DIR", "fonts"),

		LogLevel:  env.StringVariable("LOG_LEVEL", "info"),
		LogFormat: env.StringVariable("LOG_FORMAT", "json"),

		GCPProjectID: env.StringVariable("GCP_PROJECT_ID", ""),

		OpenAIKey:           env.StringVariable("OPENAI_API_KEY", ""),
		OpenAIKeySecretName: env.StringVariable("OPENAI_KEY_SECRET_NAME", ""),
		GeminiKey:           env.StringVariable("GEMINI_API_KEY", ""),
		GeminiKeySecretName: env.StringVariable("GEMINI_API_KEY_SECRET_NAME", ""),

		Auth: AuthConfig{
			Enabled:        env.BoolVariable("AUTH_ENABLED", false),
			AllowedDomains: env.ListVariable("AUTH_ALLOWED_DOMAINS"),
		},
		Storage: StorageConfig{
			Backend:       env.StringVariable("STORAGE_BACKEND", "filesystem"),
			Dir:           env.StringVariable("STORAGE_DIR", "storage"),
			Bucket:        env.StringVariable("GCS_BUCKET", ""),
			Prefix:        env.StringVariable("GCS_PREFIX", ""),
			TTL:           env.DurationVariable("ARTIFACT_TTL", 72*time.Hour),
			SweepInterval: env.DurationVariable("ARTIFACT_SWEEP_INTERVAL", time.Hour),
		},
		OCR: OCRConfig{
			Backend: env.StringVariable("OCR_BACKEND", "tesseract"),
			Engine: ocr.Config{
				EnginePath:   env.StringVariable("TESSDATA_PREFIX", ""),
				Credentials:  env.StringVariable("GOOGLE_APPLICATION_CREDENTIALS", ""),
				LanguageHint: env.StringVariable("OCR_LANGUAGE", ""),
			},
		},
		Style: StyleConfig{
			Backend:            env.StringVariable("STYLE_BACKEND", "none"),
			Model:              env.StringVariable("STYLE_MODEL", ""),
			Timeout:            env.DurationVariable("STYLE_TIMEOUT", style.DefaultTimeout),
			DocumentAIEndpoint: env.StringVariable("DOCUMENTAI_ENDPOINT", "us-documentai.googleapis.com:443"),
			DocumentAI: documentai.Spec{
				ProjectID:   env.StringVariable("GCP_PROJECT_ID", ""),
				Location:    env.StringVariable("DOCUMENTAI_LOCATION", "us"),
				ProcessorID: env.StringVariable("DOCUMENTAI_PROCESSOR_ID", ""),
			},
		},
		Inpaint: InpaintConfig{
			Backend:    env.StringVariable("INPAINT_BACKEND", "telea"),
			LamaURL:    env.StringVariable("LAMA_URL", ""),
			LamaAPIKey: env.StringVariable("LAMA_API_KEY", ""),
		},
		Background: BackgroundConfig{
			Backend: env.StringVariable("BACKGROUND_BACKEND", "gemini"),
			Model:   env.StringVariable("BACKGROUND_MODEL", ""),
		},
	}
}
