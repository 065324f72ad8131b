// Package config loads the service configuration from a YAML file, an
// optional .env file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/companyemployees/internal/company/auth"
	"github.com/gartstein/companyemployees/internal/company/db"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look for the YAML file.
const DefaultPath = "internal/company/config/config.yaml"

// Config struct for YAML configuration
type Config struct {
	HTTPPort       int      `yaml:"HTTP_PORT"`
	AllowedOrigins []string `yaml:"ALLOWED_ORIGINS"`
	LogLevel       string   `yaml:"LOG_LEVEL"`

	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string `yaml:"TRUSTED_PROXIES"`

	DBDriver   string `yaml:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBPath     string `yaml:"DB_PATH"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	GroupID      string   `yaml:"KAFKA_GROUP_ID"`

	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"REDIS_DB"`

	// CacheMaxEntries bounds the in-memory output cache.
	CacheMaxEntries int `yaml:"CACHE_MAX_ENTRIES"`

	JWTSecret      string        `yaml:"JWT_SECRET"`
	JWTIssuer      string        `yaml:"JWT_ISSUER"`
	JWTAudience    string        `yaml:"JWT_AUDIENCE"`
	JWTExpires     time.Duration `yaml:"JWT_EXPIRES"`
	RefreshTTL     time.Duration `yaml:"REFRESH_TOKEN_TTL"`
	StartupTimeout time.Duration `yaml:"STARTUP_TIMEOUT"`
}

// Default returns the settings used for keys absent from every source.
func Default() Config {
	return Config{
		HTTPPort:       5000,
		LogLevel:       "info",
		DBDriver:       db.DriverPostgres,
		DBHost:         "localhost",
		DBPort:         5432,
		DBSSLMode:      "disable",
		Topic:          "company_events",
		GroupID:        "company-employees",
		JWTIssuer:      "CompanyEmployeesAPI",
		JWTAudience:    "https://localhost:5001",
		JWTExpires:     60 * time.Minute,
		RefreshTTL:     7 * 24 * time.Hour,
		StartupTimeout: time.Minute,

		CacheMaxEntries: 10000,
	}
}

// Load reads the YAML file at path, when it exists, and applies environment
// overrides on top. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults and environment only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv exports the variables of the given .env files (default ".env")
// without overriding ones already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_HOST", &c.DBHost)
	str("DB_USER", &c.DBUser)
	str("DB_PASSWORD", &c.DBPassword)
	str("DB_NAME", &c.DBName)
	str("DB_SSLMODE", &c.DBSSLMode)
	str("DB_PATH", &c.DBPath)
	str("TOPIC", &c.Topic)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	str("JWT_SECRET", &c.JWTSecret)
	str("JWT_ISSUER", &c.JWTIssuer)
	str("JWT_AUDIENCE", &c.JWTAudience)
	list("KAFKA_BROKERS", &c.KafkaBrokers)
	list("ALLOWED_ORIGINS", &c.AllowedOrigins)
	list("TRUSTED_PROXIES", &c.TrustedProxies)

	for key, dst := range map[string]*int{
		"HTTP_PORT":         &c.HTTPPort,
		"DB_PORT":           &c.DBPort,
		"REDIS_DB":          &c.RedisDB,
		"CACHE_MAX_ENTRIES": &c.CacheMaxEntries,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate fails fast on settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return auth.ErrMissingSecret
	}
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	for _, proxy := range c.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy)
		}
	}
	if _, err := c.Database().DSN(); err != nil {
		return err
	}
	return nil
}

func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, err := netip.ParsePrefix(proxy)
		return err == nil
	}
	_, err := netip.ParseAddr(proxy)
	return err == nil
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

// Auth returns the token manager settings.
func (c *Config) Auth() auth.Config {
	return auth.Config{
		Secret:     c.JWTSecret,
		Issuer:     c.JWTIssuer,
		Audience:   c.JWTAudience,
		Expires:    c.JWTExpires,
		RefreshTTL: c.RefreshTTL,
	}
}
