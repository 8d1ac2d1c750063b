package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver  string
	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string
	// PostgresDSN is used as-is when DBDriver is "postgres".
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs int
	CacheTTLSecs int

	JWTSecret string

	StorageBackend string
	UploadDir      string
	GCSBucket      string
	MaxUploadBytes int64

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// RecomputeEstimates makes the server overwrite client-supplied
	// estimated rate/payment with its own simulation.
	RecomputeEstimates bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, after merging an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "mysql")),
		MySQLHost:   getenv("MYSQL_HOST", "mysql"),
		MySQLPort:   getenv("MYSQL_PORT", "3306"),
		MySQLDB:     getenv("MYSQL_DB", "loans"),
		MySQLUser:   getenv("MYSQL_USER", "loans"),
		MySQLPass:   getenv("MYSQL_PASS", "loans"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),
		IdempTTLSecs:  getint("IDEMPOTENCY_TTL_SECONDS", 300),
		CacheTTLSecs:  getint("CACHE_TTL_SECONDS", 60),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", "local")),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
		MaxUploadBytes: int64(getint("MAX_UPLOAD_BYTES", 10<<20)),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getint("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
	}
	if v, err := strconv.ParseBool(os.Getenv("RECOMPUTE_ESTIMATES")); err == nil {
		c.RecomputeEstimates = v
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.StorageBackend {
	case "local":
		if c.UploadDir == "" {
			return errors.New("missing UPLOAD_DIR")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("missing GCS_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) MailEnabled() bool { return c.SMTPHost != "" && c.SMTPFrom != "" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN
	}
	return c.MySQLDSN()
}
