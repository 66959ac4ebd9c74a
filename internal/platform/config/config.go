package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Upload backends.
const (
	UploadBackendLocal = "local"
	UploadBackendDrive = "drive"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	AuthEnabled        bool
	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter format, e.g. "300-M"

	// Attachments
	UploadBackend              string
	UploadDir                  string
	UploadBaseURL              string
	MaxUploadBytes             int64
	GoogleDriveCredentialsFile string
	GoogleDriveFolderID        string

	// Outbound email
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	NATSURL         string
	PosthogAPIKey   string
	PosthogEndpoint string

	// DefaultTaxRate is the percentage applied to new invoices and estimates.
	DefaultTaxRate decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("AUTH_ENABLED", true)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("UPLOAD_BACKEND", UploadBackendLocal)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("UPLOAD_BASE_URL", "http://localhost:8080/files")
	viper.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	viper.SetDefault("GOOGLE_DRIVE_CREDENTIALS_FILE", "")
	viper.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "billing@localhost")
	viper.SetDefault("NATS_URL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")
	viper.SetDefault("DEFAULT_TAX_RATE", "0")

	// Environment variables override .env values, which override the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.AuthEnabled = viper.GetBool("AUTH_ENABLED")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if !cfg.AuthEnabled {
		log.Println("Warning: AUTH_ENABLED is false. Requests will be recorded as 'anonymous'.")
	}

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.UploadBackend = strings.ToLower(viper.GetString("UPLOAD_BACKEND"))
	if cfg.UploadBackend != UploadBackendLocal && cfg.UploadBackend != UploadBackendDrive {
		log.Printf("Warning: Invalid value for UPLOAD_BACKEND ('%s'). Defaulting to %s.\n", cfg.UploadBackend, UploadBackendLocal)
		cfg.UploadBackend = UploadBackendLocal
	}
	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.UploadBaseURL = strings.TrimRight(viper.GetString("UPLOAD_BASE_URL"), "/")
	cfg.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")
	cfg.GoogleDriveCredentialsFile = viper.GetString("GOOGLE_DRIVE_CREDENTIALS_FILE")
	cfg.GoogleDriveFolderID = viper.GetString("GOOGLE_DRIVE_FOLDER_ID")
	if cfg.UploadBackend == UploadBackendDrive && cfg.GoogleDriveCredentialsFile == "" {
		log.Println("Warning: GOOGLE_DRIVE_CREDENTIALS_FILE not set. Drive uploads will fail.")
	}

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPFrom = viper.GetString("SMTP_FROM")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Invoices cannot be emailed.")
	}

	cfg.NATSURL = viper.GetString("NATS_URL")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	taxStr := viper.GetString("DEFAULT_TAX_RATE")
	taxRate, err := decimal.NewFromString(taxStr)
	if err != nil || taxRate.IsNegative() {
		log.Printf("Warning: Invalid value for DEFAULT_TAX_RATE ('%s'). Defaulting to 0.\n", taxStr)
		taxRate = decimal.Zero
	}
	cfg.DefaultTaxRate = taxRate

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
