package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	News struct {
		APIKey   string        `envconfig:"NEWS_API_KEY"`
		BaseURL  string        `envconfig:"NEWS_API_BASE_URL"`
		Timeout  time.Duration `envconfig:"NEWS_API_TIMEOUT" default:"10s"`
		CacheTTL time.Duration `envconfig:"NEWS_CACHE_TTL" default:"5m"`
	} `envconfig:""`

	OpenAI struct {
		APIKey  string        `envconfig:"OPENAI_API_KEY"`
		BaseURL string        `envconfig:"OPENAI_BASE_URL"`
		Model   string        `envconfig:"OPENAI_MODEL" default:"gpt-4.1-mini"`
		Timeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Limits struct {
		TweetLength   int `envconfig:"DEFAULT_TWEET_LENGTH" default:"280"`
		MaxResults    int `envconfig:"DEFAULT_MAX_RESULTS" default:"5"`
		MaxResultsCap int `envconfig:"MAX_RESULTS_CAP" default:"20"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения. Файл .env, если он есть, подхватывается.
func Load() AppConfig {
	_ = godotenv.Load()
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
