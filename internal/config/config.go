package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
)

const (
	defaultConfigPath      = "config/config.yaml"
	defaultAddress         = ":4001"
	defaultListingPrice    = 15.00
	defaultExpirationDays  = 30
	defaultAccessTokenTTL  = 60 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret             string `yaml:"jwt_secret"`
		AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
		RefreshTokenTTLHours  int    `yaml:"refresh_token_ttl_hours"`
	} `yaml:"auth"`
	Listing ListingConfig `yaml:"listing"`
}

// ListingConfig drives payment gating. It is passed into the visibility and
// payment code at call time.
type ListingConfig struct {
	RequirePayment bool    `yaml:"require_payment"`
	Price          float64 `yaml:"price"`
	ExpirationDays int     `yaml:"expiration_days"`
}

func (l ListingConfig) Terms() lifecycle.Terms {
	return lifecycle.Terms{Price: l.Price, ExpiryDays: l.ExpirationDays}
}

func (c Config) AccessTokenTTL() time.Duration {
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		return defaultAccessTokenTTL
	}
	return time.Duration(c.Auth.AccessTokenTTLMinutes) * time.Minute
}

func (c Config) RefreshTokenTTL() time.Duration {
	if c.Auth.RefreshTokenTTLHours <= 0 {
		return defaultRefreshTokenTTL
	}
	return time.Duration(c.Auth.RefreshTokenTTLHours) * time.Hour
}

func defaults() Config {
	var cfg Config
	cfg.Server.Address = defaultAddress
	cfg.Database.Driver = "mysql"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Listing.Price = defaultListingPrice
	cfg.Listing.ExpirationDays = defaultExpirationDays
	return cfg
}

// LoadConfig reads the YAML file named by CONFIG_PATH (a missing file is fine),
// then applies environment overrides and validates the result.
func LoadConfig() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return Load(path)
}

func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Address = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	if v, err := readBoolEnv("REQUIRE_LISTING_PAYMENT"); err != nil {
		return fmt.Errorf("parse REQUIRE_LISTING_PAYMENT: %w", err)
	} else if v != nil {
		cfg.Listing.RequirePayment = *v
	}

	if v := os.Getenv("PROPERTY_LISTING_PRICE"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse PROPERTY_LISTING_PRICE: %w", err)
		}
		cfg.Listing.Price = price
	}

	if v, err := readIntEnv("LISTING_EXPIRATION_DAYS"); err != nil {
		return fmt.Errorf("parse LISTING_EXPIRATION_DAYS: %w", err)
	} else if v != nil {
		cfg.Listing.ExpirationDays = *v
	}

	if v, err := readIntEnv("ACCESS_TOKEN_TTL_MINUTES"); err != nil {
		return fmt.Errorf("parse ACCESS_TOKEN_TTL_MINUTES: %w", err)
	} else if v != nil {
		cfg.Auth.AccessTokenTTLMinutes = *v
	}

	if v, err := readIntEnv("REFRESH_TOKEN_TTL_HOURS"); err != nil {
		return fmt.Errorf("parse REFRESH_TOKEN_TTL_HOURS: %w", err)
	} else if v != nil {
		cfg.Auth.RefreshTokenTTLHours = *v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required (DATABASE_URL)")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	if err := c.Listing.Terms().Validate(); err != nil {
		return fmt.Errorf("listing config: %w", err)
	}
	return nil
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readBoolEnv(name string) (*bool, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
