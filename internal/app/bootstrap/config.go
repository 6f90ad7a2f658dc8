package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendAuto     = "auto"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config carries the settings shared by the API, the worker and storectl.
type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"environment"`
	LogLevel     string `yaml:"log_level"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	StoreBackend  string `yaml:"store_backend"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	TemporalAddress   string `yaml:"temporal_address"`
	TemporalNamespace string `yaml:"temporal_namespace"`
	TemporalDisabled  bool   `yaml:"temporal_disabled"`

	JWTSecret       string `yaml:"jwt_secret"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
	CookieSecure    bool   `yaml:"cookie_secure"`
	AdminEmail      string `yaml:"admin_email"`
	AdminPassword   string `yaml:"admin_password"`
	// SessionPurgeIntervalMinutes enables the in-process expired session sweep; 0 disables it.
	SessionPurgeIntervalMinutes int `yaml:"session_purge_interval_minutes"`

	RazorpayKeyID     string `yaml:"razorpay_key_id"`
	RazorpayKeySecret string `yaml:"razorpay_key_secret"`
	Currency          string `yaml:"currency"`
}

// LoadConfig layers defaults, the optional YAML file named by CONFIG_FILE, a
// local .env file and the process environment, then validates the result.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Port:              "8080",
		Environment:       "local",
		LogLevel:          "info",
		StoreBackend:      BackendAuto,
		TemporalAddress:   client.DefaultHostPort,
		TemporalNamespace: client.DefaultNamespace,
		SessionTTLHours:   7 * 24,
		Currency:          "INR",
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.StoreBackend, "STORE_BACKEND")
	setString(&cfg.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.MongoURI, "MONGO_URI")
	setString(&cfg.MongoDatabase, "MONGO_DATABASE")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.TemporalAddress, "TEMPORAL_ADDRESS")
	setString(&cfg.TemporalNamespace, "TEMPORAL_NAMESPACE")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.RazorpayKeyID, "RAZORPAY_KEY_ID")
	setString(&cfg.RazorpayKeySecret, "RAZORPAY_KEY_SECRET")
	setString(&cfg.Currency, "CURRENCY")
	if raw, ok := lookup("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	if raw, ok := lookup("COOKIE_SECURE"); ok {
		cfg.CookieSecure = isTruthy(raw)
	}
	if raw, ok := lookup("REDIS_DB"); ok {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return fmt.Errorf("REDIS_DB must be a non-negative integer")
		}
		cfg.RedisDB = db
	}
	if raw, ok := lookup("SESSION_TTL_HOURS"); ok {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTLHours = hours
	}
	if raw, ok := lookup("SESSION_PURGE_INTERVAL_MINUTES"); ok {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.SessionPurgeIntervalMinutes = minutes
	}
	return nil
}

// Validate enforces the constraints every process relies on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.SessionTTLHours <= 0 {
		errs = append(errs, errors.New("session TTL must be positive"))
	}
	if c.SessionPurgeIntervalMinutes < 0 {
		errs = append(errs, errors.New("session purge interval must not be negative"))
	}
	switch c.StoreBackend {
	case BackendAuto, BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("STORE_BACKEND=postgres requires POSTGRES_DSN"))
		}
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("STORE_BACKEND=mongo requires MONGO_URI"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if (c.RazorpayKeyID == "") != (c.RazorpayKeySecret == "") {
		errs = append(errs, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set together"))
	}
	return errors.Join(errs...)
}

// Backend resolves auto to the first configured store.
func (c Config) Backend() string {
	if c.StoreBackend != BackendAuto && c.StoreBackend != "" {
		return c.StoreBackend
	}
	switch {
	case c.PostgresDSN != "":
		return BackendPostgres
	case c.MongoURI != "":
		return BackendMongo
	default:
		return BackendMemory
	}
}

func setString(target *string, key string) {
	if value, ok := lookup(key); ok {
		*target = value
	}
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
