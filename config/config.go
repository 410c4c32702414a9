package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Media    MediaConfig    `mapstructure:"media"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // postgres, mysql, mongo or memory
	DSN    string `mapstructure:"dsn"`
	Name   string `mapstructure:"name"` // mongo database name
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	AdminEmail string        `mapstructure:"admin_email"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type CurrencyConfig struct {
	Rate float64 `mapstructure:"rate"`
	Code string  `mapstructure:"code"`
}

type SeedConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

type MediaConfig struct {
	Provider       string        `mapstructure:"provider"` // local or cloudinary
	UploadDir      string        `mapstructure:"upload_dir"`
	PublicPath     string        `mapstructure:"public_path"`
	CloudinaryURL  string        `mapstructure:"cloudinary_url"`
	Folder         string        `mapstructure:"folder"`
	BackupDir      string        `mapstructure:"backup_dir"`
	BackupHour     int           `mapstructure:"backup_hour"`
	BackupRetain   time.Duration `mapstructure:"backup_retain"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

type ClientConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	DataDir string        `mapstructure:"data_dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable")
	v.SetDefault("db.name", "ecommerce-store")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.admin_email", "admin@store.com")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("currency.rate", 83.0)
	v.SetDefault("currency.code", "INR")

	v.SetDefault("seed.url", "https://fakestoreapi.com/products")
	v.SetDefault("seed.api_key", "")

	v.SetDefault("media.provider", "local")
	v.SetDefault("media.upload_dir", "./uploads")
	v.SetDefault("media.public_path", "/uploads")
	v.SetDefault("media.folder", "storefront/products")
	v.SetDefault("media.backup_dir", "")
	v.SetDefault("media.backup_hour", 2)
	v.SetDefault("media.backup_retain", 4*24*time.Hour)
	v.SetDefault("media.max_upload_bytes", int64(8<<20))

	v.SetDefault("client.api_url", "http://localhost:5000/api")
	v.SetDefault("client.data_dir", defaultDataDir())
	v.SetDefault("client.timeout", 10*time.Second)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

// Load reads .env, then an optional config.yaml, then STOREFRONT_* environment
// variables, in increasing precedence.
func Load() (*Config, error) {
	// Load environment variables
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.storefront/")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ValidateServer checks the settings the API server cannot start without.
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (STOREFRONT_AUTH_JWT_SECRET) must be set")
	}
	if c.Currency.Rate <= 0 {
		return errors.New("currency.rate must be positive")
	}
	switch c.DB.Driver {
	case "postgres", "mysql", "mongo", "memory":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	return nil
}
