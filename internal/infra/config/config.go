package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig describes the service configuration.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	News struct {
		APIKey  string        `envconfig:"NEWS_API_KEY"`
		BaseURL string        `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2"`
		Timeout time.Duration `envconfig:"NEWS_API_TIMEOUT" default:"15s"`
	} `envconfig:""`

	OpenAI struct {
		APIKey  string        `envconfig:"OPENAI_API_KEY"`
		BaseURL string        `envconfig:"OPENAI_BASE_URL"`
		Model   string        `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
		Timeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
	} `envconfig:""`

	Ergast struct {
		BaseURL string        `envconfig:"ERGAST_BASE_URL" default:"https://ergast.com/api/f1"`
		Timeout time.Duration `envconfig:"ERGAST_TIMEOUT" default:"15s"`
	} `envconfig:""`

	Datasets struct {
		BLSAPIKey    string        `envconfig:"BLS_API_KEY"`
		StocksAPIKey string        `envconfig:"STOCKS_API_KEY"`
		Timeout      time.Duration `envconfig:"DATASETS_TIMEOUT" default:"30s"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Cache struct {
		EnrichmentTTL time.Duration `envconfig:"ENRICHMENT_CACHE_TTL" default:"600s"`
		DatasetTTL    time.Duration `envconfig:"DATASET_CACHE_TTL" default:"3600s"`
	} `envconfig:""`
}

// Load reads the config from the environment.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
