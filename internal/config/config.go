package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	App       AppConfig
	Bot       BotConfig
	Files     FilesConfig
	Session   SessionConfig
	Tools     ToolsConfig
	RateLimit RateLimitConfig
	Features  FeatureFlags
	Database  DatabaseConfig
	Infra     InfraConfig
	SMTP      SMTPConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Port               string `validate:"required"`
	BaseURL            string
	Environment        string
	LogFilePath        string `validate:"required"`
	FeedLogFilePath    string
	CorsAllowedOrigins string
	DefaultLanguage    string `validate:"oneof=en fa"`
}

type BotConfig struct {
	Token           string `validate:"required"`
	Mode            string `validate:"oneof=polling webhook"`
	WebhookURL      string `validate:"required_if=Mode webhook,omitempty,url"`
	WebhookPath     string `validate:"startswith=/"`
	WebhookSecret   string
	AdminIDs        []int64
	SupportUsername string
}

type FilesConfig struct {
	TempDir         string `validate:"required"`
	MaxFileSizeMB   int    `validate:"min=1"`
	MaxImagesPerPDF int    `validate:"min=1"`
	MaxPDFsToMerge  int    `validate:"min=2"`
	TempMaxAge      time.Duration
	SweepInterval   time.Duration
}

type SessionConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

type ToolsConfig struct {
	OCRLanguage     string
	OCRTimeout      time.Duration
	ToolTimeout     time.Duration
	SofficePath     string
	WkhtmltopdfPath string
	PdftoppmPath    string
	GhostscriptPath string
	JPGDPI          int `validate:"min=36,max=600"`
	Workers         int `validate:"min=1"`
}

type RateLimitConfig struct {
	Enabled              bool
	MaxOperationsPerHour int `validate:"min=1"`
}

// FeatureFlags switches optional features on or off. ComingSoon lists
// menu entries that only offer a subscription.
type FeatureFlags struct {
	OCR        bool
	PDFToWord  bool
	HTMLToPDF  bool
	ComingSoon []string
}

type DatabaseConfig struct {
	Connection string
}

type InfraConfig struct {
	NatsURL  string
	RedisURL string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertTo    []string
}

type AdminConfig struct {
	JWTSecret    string
	PasswordHash string
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsAdmin reports whether a Telegram user id is configured as admin.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MaxFileSize returns the upload limit in bytes.
func (c *Config) MaxFileSize() int64 {
	return int64(c.Files.MaxFileSizeMB) * 1024 * 1024
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8080"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "bot.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "operations.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "en"),
		},
		Bot: BotConfig{
			Token:           getEnv("BOT_TOKEN", ""),
			Mode:            getEnv("BOT_MODE", ModePolling),
			WebhookURL:      getEnv("WEBHOOK_URL", ""),
			WebhookPath:     getEnv("WEBHOOK_PATH", "/webhook"),
			WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),
			AdminIDs:        getEnvAsInt64List("ADMIN_IDS"),
			SupportUsername: getEnv("SUPPORT_USERNAME", ""),
		},
		Files: FilesConfig{
			TempDir:         getEnv("TEMP_DIR", os.TempDir()+"/pdf-toolbox-bot"),
			MaxFileSizeMB:   getEnvAsInt("MAX_FILE_SIZE_MB", 20),
			MaxImagesPerPDF: getEnvAsInt("MAX_IMAGES_PER_PDF", 100),
			MaxPDFsToMerge:  getEnvAsInt("MAX_PDFS_TO_MERGE", 20),
			TempMaxAge:      getEnvAsDuration("TEMP_MAX_AGE", 24*time.Hour),
			SweepInterval:   getEnvAsDuration("TEMP_SWEEP_INTERVAL", time.Hour),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", time.Hour),
			PurgeInterval: getEnvAsDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
		},
		Tools: ToolsConfig{
			OCRLanguage:     getEnv("OCR_LANGUAGE", "eng"),
			OCRTimeout:      getEnvAsDuration("OCR_TIMEOUT", 5*time.Minute),
			ToolTimeout:     getEnvAsDuration("TOOL_TIMEOUT", 3*time.Minute),
			SofficePath:     getEnv("SOFFICE_PATH", "soffice"),
			WkhtmltopdfPath: getEnv("WKHTMLTOPDF_PATH", "wkhtmltopdf"),
			PdftoppmPath:    getEnv("PDFTOPPM_PATH", "pdftoppm"),
			GhostscriptPath: getEnv("GHOSTSCRIPT_PATH", "gs"),
			JPGDPI:          getEnvAsInt("PDF_TO_JPG_DPI", 150),
			Workers:         getEnvAsInt("CONVERSION_WORKERS", 2),
		},
		RateLimit: RateLimitConfig{
			Enabled:              getEnvAsBool("RATE_LIMIT_ENABLED", false),
			MaxOperationsPerHour: getEnvAsInt("MAX_OPERATIONS_PER_HOUR", 30),
		},
		Features: FeatureFlags{
			OCR:        getEnvAsBool("FEATURE_OCR", true),
			PDFToWord:  getEnvAsBool("FEATURE_PDF_TO_WORD", true),
			HTMLToPDF:  getEnvAsBool("FEATURE_HTML_TO_PDF", true),
			ComingSoon: getEnvAsList("COMING_SOON_FEATURES", "sign,redact,compare,crop"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Infra: InfraConfig{
			NatsURL:  getEnv("NATS_URL", ""),
			RedisURL: getEnv("REDIS_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "PDF Toolbox Bot"),
			AlertTo:    getEnvAsList("ALERT_EMAILS", ""),
		},
		Admin: AdminConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
	}
}

// Validate checks the loaded values. It joins every violation into one error.
func (c *Config) Validate() error {
	v := validator.New()
	var errs []error
	for name, section := range map[string]interface{}{
		"App":       c.App,
		"Bot":       c.Bot,
		"Files":     c.Files,
		"Tools":     c.Tools,
		"RateLimit": c.RateLimit,
	} {
		if err := v.Struct(section); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					errs = append(errs, fmt.Errorf("%s.%s failed %q", name, fe.Field(), fe.Tag()))
				}
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.Admin.PasswordHash != "" && c.Admin.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt64List(key string) []int64 {
	var out []int64
	for _, part := range getEnvAsList(key, "") {
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}
