package config

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Log       LogConfig       `json:"log"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Firebase  FirebaseConfig  `json:"firebase"`
	Auth      AuthConfig      `json:"auth"`
	Orders    OrdersConfig    `json:"orders"`
	Pricing   PricingConfig   `json:"pricing"`
	Catalog   CatalogConfig   `json:"catalog"`
	Sessions  SessionsConfig  `json:"sessions"`
	Mail      MailConfig      `json:"mail"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type ServerConfig struct {
	Host           string   `json:"host" env:"STOREFRONT_HOST"`
	Port           int      `json:"port" env:"STOREFRONT_PORT"`
	AllowedOrigins []string `json:"allowed_origins" env:"STOREFRONT_ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level string `json:"level" env:"STOREFRONT_LOG_LEVEL"`
}

type DatabaseConfig struct {
	// Driver is "postgres" (lib/pq) or "pgx" (pgx stdlib).
	Driver         string `json:"driver" env:"DB_DRIVER"`
	Host           string `json:"host" env:"DB_HOST"`
	Port           int    `json:"port" env:"DB_PORT"`
	User           string `json:"user" env:"DB_USER"`
	Password       string `json:"password" env:"DB_PASSWORD"`
	DBName         string `json:"dbname" env:"DB_NAME"`
	SSLMode        string `json:"sslmode" env:"DB_SSLMODE"`
	MigrationsPath string `json:"migrations_path" env:"DB_MIGRATIONS_PATH"`
}

// RedisConfig points at the cart blob store. Several instances may share it:
// cart saves are conditional and replay on conflict, but a cart read on one
// instance can lag a write made on another until its next edit or checkout.
type RedisConfig struct {
	Host         string `json:"host" env:"REDIS_HOST"`
	Port         int    `json:"port" env:"REDIS_PORT"`
	Password     string `json:"password" env:"REDIS_PASSWORD"`
	DB           int    `json:"db" env:"REDIS_DB"`
	CartTTLHours int    `json:"cart_ttl_hours" env:"REDIS_CART_TTL_HOURS"`
}

type FirebaseConfig struct {
	Enabled         bool   `json:"enabled" env:"FIREBASE_ENABLED"`
	ProjectID       string `json:"project_id" env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `json:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type AuthConfig struct {
	// StaticTokens maps bearer tokens to user ids when Firebase is disabled.
	StaticTokens map[string]string `json:"static_tokens"`
}

type OrdersConfig struct {
	// Backend is "postgres", "firestore" or "memory".
	Backend string `json:"backend" env:"ORDERS_BACKEND"`
}

// PricingConfig amounts are in major currency units.
type PricingConfig struct {
	TaxRate               float64 `json:"tax_rate" env:"PRICING_TAX_RATE"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold" env:"PRICING_FREE_SHIPPING_THRESHOLD"`
	ShippingFee           float64 `json:"shipping_fee" env:"PRICING_SHIPPING_FEE"`
}

type CatalogConfig struct {
	Path string `json:"path" env:"CATALOG_PATH"`
}

type SessionsConfig struct {
	IdleTTLMinutes  int    `json:"idle_ttl_minutes" env:"SESSIONS_IDLE_TTL_MINUTES"`
	JanitorSchedule string `json:"janitor_schedule" env:"SESSIONS_JANITOR_SCHEDULE"`
	CookieSecure    bool   `json:"cookie_secure" env:"SESSIONS_COOKIE_SECURE"`
}

type MailConfig struct {
	SendGridAPIKey string `json:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	From           string `json:"from" env:"MAIL_FROM"`
	FromName       string `json:"from_name" env:"MAIL_FROM_NAME"`
}

type RateLimitConfig struct {
	CheckoutPerSecond float64 `json:"checkout_per_second" env:"RATE_LIMIT_CHECKOUT_PER_SECOND"`
	CheckoutBurst     int     `json:"checkout_burst" env:"RATE_LIMIT_CHECKOUT_BURST"`
}

// LoadConfig reads the JSON file at path, then applies .env and environment
// overrides, then fills defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := envdecode.Decode(&config); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, err
	}

	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}
	if c.Redis.CartTTLHours == 0 {
		c.Redis.CartTTLHours = 24 * 30
	}
	if c.Orders.Backend == "" {
		c.Orders.Backend = "postgres"
	}
	if c.Pricing.TaxRate == 0 {
		c.Pricing.TaxRate = 0.18
	}
	if c.Pricing.FreeShippingThreshold == 0 {
		c.Pricing.FreeShippingThreshold = 2000
	}
	if c.Pricing.ShippingFee == 0 {
		c.Pricing.ShippingFee = 100
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "catalog.json"
	}
	if c.Sessions.IdleTTLMinutes == 0 {
		c.Sessions.IdleTTLMinutes = 30
	}
	if c.Sessions.JanitorSchedule == "" {
		c.Sessions.JanitorSchedule = "@every 5m"
	}
	if c.Mail.FromName == "" {
		c.Mail.FromName = "Storefront"
	}
	if c.RateLimit.CheckoutPerSecond == 0 {
		c.RateLimit.CheckoutPerSecond = 5
	}
	if c.RateLimit.CheckoutBurst == 0 {
		c.RateLimit.CheckoutBurst = 10
	}
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
