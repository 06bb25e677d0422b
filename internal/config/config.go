package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the soak service configuration.
type Config struct {
	Env  string `validate:"required,oneof=dev prod"`
	Soak struct {
		Schedule     string        `validate:"required"`
		Workers      int           `validate:"min=1,max=1024"`
		Iterations   int           `validate:"min=1"`
		RoundTimeout time.Duration `validate:"min=0"`
	}
	HTTP struct {
		Addr string `validate:"required"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and an optional .env
// file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	var err error
	c.Env = getenv("ENV", "prod")
	c.Soak.Schedule = getenv("SOAK_SCHEDULE", "@every 30s")
	if c.Soak.Workers, err = getint("SOAK_WORKERS", 8); err != nil {
		return Config{}, err
	}
	if c.Soak.Iterations, err = getint("SOAK_ITERATIONS", 1000); err != nil {
		return Config{}, err
	}
	if c.Soak.RoundTimeout, err = getduration("SOAK_ROUND_TIMEOUT", 20*time.Second); err != nil {
		return Config{}, err
	}
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = os.Getenv("LOG_FILE")

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getduration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
