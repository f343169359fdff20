package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`
	GinMode string `envconfig:"GIN_MODE"`

	DBDSN      string `envconfig:"DB_DSN"`
	DBUser     string `envconfig:"DB_USER" default:"root"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBHost     string `envconfig:"DB_HOST" default:"127.0.0.1:3306"`
	DBName     string `envconfig:"DB_NAME" default:"intercity"`

	AutoMigrate  bool `envconfig:"AUTO_MIGRATE" default:"false"`
	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"false"`

	EmbeddingAPIKey     string        `envconfig:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string        `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string        `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingTimeout    time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"300ms"`
	EmbeddingCacheSize  int           `envconfig:"EMBEDDING_CACHE_SIZE" default:"1000"`
	EmbeddingRatePerSec float64       `envconfig:"EMBEDDING_RATE_PER_SEC" default:"5"`
	EmbeddingBurst      int           `envconfig:"EMBEDDING_BURST" default:"10"`

	SuggestionLimit         int     `envconfig:"SUGGESTION_LIMIT" default:"10"`
	SuggestionMinSimilarity float64 `envconfig:"SUGGESTION_MIN_SIMILARITY" default:"0.3"`
	SearchRatePerMin        int     `envconfig:"SEARCH_RATE_PER_MIN" default:"120"`

	RedisURL string `envconfig:"REDIS_URL"`

	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file found, using process environment")
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("load env: %w", err)
	}
	env.AppAddr = strings.TrimSpace(env.AppAddr)
	if env.AppAddr == "" {
		env.AppAddr = ":8080"
	}
	if env.SuggestionLimit <= 0 {
		env.SuggestionLimit = 10
	}
	if env.EmbeddingCacheSize <= 0 {
		env.EmbeddingCacheSize = 1000
	}
	return env, nil
}

// DSN returns DB_DSN when set, otherwise builds one from the parts.
func (e Env) DSN() string {
	if dsn := strings.TrimSpace(e.DBDSN); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBName,
	)
}

// EmbeddingsEnabled reports whether an embedding credential is configured.
func (e Env) EmbeddingsEnabled() bool {
	return strings.TrimSpace(e.EmbeddingAPIKey) != ""
}
