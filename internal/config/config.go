package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	// Подпись сессий. Смена секрета инвалидирует все выданные токены.
	JWTSecret    string
	JWTExpiresIn time.Duration

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AdminEmail   string

	FrontendURL      string
	PasswordResetTTL time.Duration
	NotifyTimeout    time.Duration

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
	S3Folder    string

	CORSOrigins    []string
	AuthRatePerMin int
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Вызывается один раз при старте; дальше *Config передаётся в конструкторы.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "5000"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromEmail:    def(os.Getenv("FROM_EMAIL"), os.Getenv("SMTP_USER")),
		FromName:     def(os.Getenv("FROM_NAME"), "Portfolio"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		FrontendURL: strings.TrimRight(def(os.Getenv("FRONTEND_URL"), "http://localhost:3000"), "/"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    def(os.Getenv("S3_REGION"), "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		S3Folder:    strings.Trim(def(os.Getenv("S3_FOLDER"), "portfolio"), "/"),

		CORSOrigins: parseCSV(def(os.Getenv("CORS_ORIGINS"), "*")),
	}

	var err error
	if cfg.JWTExpiresIn, err = parseDuration(def(os.Getenv("JWT_EXPIRES_IN"), "30d")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	if cfg.JWTExpiresIn <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: must be positive")
	}
	if cfg.NotifyTimeout, err = time.ParseDuration(def(os.Getenv("NOTIFY_TIMEOUT"), "10s")); err != nil {
		return nil, fmt.Errorf("NOTIFY_TIMEOUT: %w", err)
	}

	ttlMin, err := strconv.Atoi(def(os.Getenv("PASSWORD_RESET_TTL_MIN"), "30"))
	if err != nil || ttlMin <= 0 {
		return nil, fmt.Errorf("PASSWORD_RESET_TTL_MIN: must be a positive integer")
	}
	cfg.PasswordResetTTL = time.Duration(ttlMin) * time.Minute

	rate, err := strconv.Atoi(def(os.Getenv("AUTH_RATE_PER_MIN"), "10"))
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_PER_MIN: must be a positive integer")
	}
	cfg.AuthRatePerMin = rate

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД и секрет подписи
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, password reset mails will fail")
	}
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is empty, contact form notifications are disabled")
	}
	if c.S3Bucket == "" {
		warnings = append(warnings, "S3_BUCKET is empty, project images cannot be uploaded")
	}
	if c.NotifyTimeout <= 0 {
		warnings = append(warnings, "NOTIFY_TIMEOUT is not positive, mail delivery is unbounded")
	}

	return warnings, nil
}

// GetDSN: полная DSN (с паролем). Логин и пароль экранируются.
func (c *Config) GetDSN() string {
	return c.dsn().String()
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return c.dsn().Redacted()
}

func (c *Config) dsn() *url.URL {
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DbUser, c.DbPass),
		Host:     net.JoinHostPort(c.DbHost, c.DbPort),
		Path:     "/" + c.DbName,
		RawQuery: url.Values{"sslmode": {c.DbSSLMode}}.Encode(),
	}
}

func def(v, d string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return d
	}
	return v
}

// parseDuration понимает формат time.ParseDuration и дни: "30d".
func parseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func parseCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
