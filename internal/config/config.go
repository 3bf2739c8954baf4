package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PolicyAnyCaller = "any"
	PolicyOwnerOnly = "owner"
)

var defaultOrigins = []string{
	"http://localhost:4200",
	"https://kuchblog.pl",
	"https://www.kuchblog.pl",
	"https://blog-murex-delta-27.vercel.app",
}

type Config struct {
	Port    string
	BaseURL string
	GinMode string

	JWTSecret    string
	JWTExpiresIn time.Duration

	DBDriver    string
	DatabaseURL string
	DBPath      string
	DBLogLevel  string

	UploadsDir         string
	SupportedPostCount int
	PostDeletePolicy   string
	VerificationTTL    time.Duration

	ResendAPIKey string
	MailFrom     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins []string
}

// Load reads the given dotenv files (.env when none are given), if present,
// and then the process environment. Variables already set are not overridden.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getenv("PORT", "3100"),
		BaseURL:            strings.TrimRight(getenv("BASE_URL", "http://localhost:3100"), "/"),
		GinMode:            os.Getenv("GIN_MODE"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		DBDriver:           getenv("DB_DRIVER", "postgres"),
		DBPath:             getenv("DB_PATH", "blog.db"),
		DBLogLevel:         getenv("DB_LOG_LEVEL", "warn"),
		UploadsDir:         os.Getenv("UPLOADS_DIR"),
		PostDeletePolicy:   getenv("POST_DELETE_POLICY", PolicyAnyCaller),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		MailFrom:           getenv("MAIL_FROM", "Blog <onboarding@resend.dev>"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		SupportedPostCount: 15,
		CORSOrigins:        defaultOrigins,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing env var: JWT_SECRET")
	}

	var err error
	if cfg.JWTExpiresIn, err = durationEnv("JWT_EXPIRES_IN", time.Hour); err != nil {
		return nil, err
	}
	if cfg.VerificationTTL, err = durationEnv("VERIFICATION_TTL", time.Hour); err != nil {
		return nil, err
	}

	if v := os.Getenv("SUPPORTED_POST_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SUPPORTED_POST_COUNT must be a positive integer, got %q", v)
		}
		cfg.SupportedPostCount = n
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	switch cfg.PostDeletePolicy {
	case PolicyAnyCaller, PolicyOwnerOnly:
	default:
		return nil, fmt.Errorf("POST_DELETE_POLICY must be %q or %q, got %q", PolicyAnyCaller, PolicyOwnerOnly, cfg.PostDeletePolicy)
	}

	switch cfg.DBDriver {
	case "postgres":
		cfg.DatabaseURL = postgresDSN()
	case "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	if cfg.UploadsDir == "" {
		cfg.UploadsDir = defaultUploadsDir()
	}

	return cfg, nil
}

func postgresDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	sslmode := getenv("DB_SSLMODE", "disable")
	return fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=%s password=%s",
		getenv("DB_HOST", "localhost"), os.Getenv("DB_USER"), os.Getenv("DB_NAME"),
		getenv("DB_PORT", "5432"), sslmode, os.Getenv("DB_PASSWORD"))
}

// defaultUploadsDir prefers a mounted /uploads volume and falls back to a
// directory next to the working directory.
func defaultUploadsDir() string {
	const mount = "/uploads"
	if st, err := os.Stat(mount); err == nil && st.IsDir() {
		return mount
	}
	wd, err := os.Getwd()
	if err != nil {
		return "uploads"
	}
	return filepath.Join(wd, "uploads")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
