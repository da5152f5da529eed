package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string
	Environment   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string
	SessionSecret string
	CORSOrigins   []string
}

// Production reports whether the app runs with production cookie settings
// (secure, SameSite=None).
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables, loading a .env file
// first when not in production. MONGO_URI wins when set; otherwise the URI is
// composed from DB_USER/DB_PASS the way the original deployment did.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:   env,
		Port:          os.Getenv("PORT"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDB:       os.Getenv("MONGO_DB"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "eventDB"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.MongoURI == "" {
		user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS")
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost:27017"
		}
		if user != "" {
			cfg.MongoURI = fmt.Sprintf("mongodb://%s:%s@%s/?retryWrites=true&w=majority", user, pass, host)
		} else {
			cfg.MongoURI = "mongodb://" + host
		}
	}
	if cfg.SessionSecret == "" {
		if cfg.Production() {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		cfg.SessionSecret = "your-secret-key-here"
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}

	return cfg, nil
}
