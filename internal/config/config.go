package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/animalrescue/rescue-connect/internal/ai"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Notify  NotifyConfig  `yaml:"notify"`
	Log     LogConfig     `yaml:"log"`
}

type HTTPConfig struct {
	Port           string        `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SubmitRate     float64       `yaml:"submit_rate"`
	SubmitBurst    int           `yaml:"submit_burst"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type AIConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

type NotifyConfig struct {
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	WebhookURL   string   `yaml:"webhook_url"`
	WebhookToken string   `yaml:"webhook_token"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:           "8080",
			RequestTimeout: 60 * time.Second,
			AllowedOrigins: []string{"*"},
			SubmitRate:     5,
			SubmitBurst:    20,
		},
		Storage: StorageConfig{
			Driver:        DriverPostgres,
			MongoDatabase: "rescue_connect",
		},
		AI: AIConfig{
			Provider:    ai.ProviderOpenAI,
			Temperature: 0.2,
		},
		Notify: NotifyConfig{
			KafkaTopic: "urgent-reports",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the config from defaults, then the YAML file at path (if it
// exists), then the environment. A .env file in the working directory is
// loaded into the environment first and never overrides variables that are
// already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString("PORT", &c.HTTP.Port)
	setList("CORS_ALLOWED_ORIGINS", &c.HTTP.AllowedOrigins)
	if err := setDuration("HTTP_REQUEST_TIMEOUT", &c.HTTP.RequestTimeout); err != nil {
		return err
	}
	if err := setFloat("SUBMIT_RATE", &c.HTTP.SubmitRate); err != nil {
		return err
	}
	if err := setInt("SUBMIT_BURST", &c.HTTP.SubmitBurst); err != nil {
		return err
	}

	setString("STORAGE_DRIVER", &c.Storage.Driver)
	setString("DATABASE_URL", &c.Storage.PostgresDSN)
	setString("MONGO_URI", &c.Storage.MongoURI)
	setString("MONGO_DATABASE", &c.Storage.MongoDatabase)

	setString("AI_PROVIDER", &c.AI.Provider)
	setString("OPENAI_MODEL", &c.AI.Model)
	setString("AI_MODEL", &c.AI.Model)
	setString("OPENAI_BASE_URL", &c.AI.BaseURL)
	if err := setFloat("AI_TEMPERATURE", &c.AI.Temperature); err != nil {
		return err
	}
	switch c.AI.Provider {
	case ai.ProviderGemini:
		setString("GEMINI_API_KEY", &c.AI.APIKey)
	default:
		setString("OPENAI_API_KEY", &c.AI.APIKey)
	}

	setList("KAFKA_BROKERS", &c.Notify.KafkaBrokers)
	setString("KAFKA_URGENT_TOPIC", &c.Notify.KafkaTopic)
	setString("NGO_WEBHOOK_URL", &c.Notify.WebhookURL)
	setString("NGO_WEBHOOK_TOKEN", &c.Notify.WebhookToken)

	setString("LOG_LEVEL", &c.Log.Level)
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_DEVELOPMENT: %w", err)
		}
		c.Log.Development = b
	}
	return nil
}

// Validate reports configuration the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is not set"))
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if err := c.ValidateAI(); err != nil {
		errs = append(errs, err)
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("http.request_timeout must be positive"))
	}

	return errors.Join(errs...)
}

// ValidateAI checks only the backend settings; the CLI needs nothing else.
func (c *Config) ValidateAI() error {
	switch c.AI.Provider {
	case ai.ProviderOpenAI, ai.ProviderGemini:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("api key for %s is not set", c.AI.Provider)
	}
	return nil
}

// Backend converts the AI section for ai.New.
func (c *Config) Backend() ai.Config {
	return ai.Config{
		Provider:    c.AI.Provider,
		Model:       c.AI.Model,
		APIKey:      c.AI.APIKey,
		BaseURL:     c.AI.BaseURL,
		Temperature: c.AI.Temperature,
	}
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(key string, dst *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func setDuration(key string, dst *time.Duration) error {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

func setFloat(key string, dst *float64) error {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
	}
	return nil
}

func setInt(key string, dst *int) error {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}
