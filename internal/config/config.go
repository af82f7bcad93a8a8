package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey      string        `env:"GEMINI_API_KEY,required,notEmpty"`
	GeminiModel       string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	HTTPPort          string        `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"json"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"60s"`
}

var AppConfig Config

// LoadConfig reads an optional .env file and then the process environment.
// It reports whether a .env file was found so the caller can log it once a
// logger exists.
func LoadConfig() (bool, error) {
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return dotenv, fmt.Errorf("parsing env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return dotenv, err
	}

	AppConfig = cfg
	return dotenv, nil
}

func (c Config) validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive, got %s", c.GenerationTimeout)
	}
	return nil
}
