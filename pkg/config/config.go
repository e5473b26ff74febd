package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Redis          RedisConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// RecommendationConfig carries the tunables of the recommendation engine.
// The defaults are the values the marketplace has always shipped with.
type RecommendationConfig struct {
	IdentifiedLimit   int
	AnonymousLimit    int
	SparseThreshold   int
	SparseBackfill    bool
	TopRatedMinRating float64
	RecencyWindow     time.Duration
	RecencyMultiplier float64
	JitterScale       float64
	VectorMathEnabled bool
	TrendingCacheTTL  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MarketReco API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "market_reco"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnvBool("REDIS_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Recommendation: RecommendationConfig{
			IdentifiedLimit:   getEnvInt("RECO_IDENTIFIED_LIMIT", 10),
			AnonymousLimit:    getEnvInt("RECO_ANONYMOUS_LIMIT", 12),
			SparseThreshold:   getEnvInt("RECO_SPARSE_THRESHOLD", 2),
			SparseBackfill:    getEnvBool("RECO_SPARSE_BACKFILL", true),
			TopRatedMinRating: getEnvFloat("RECO_TOP_RATED_MIN_RATING", 4),
			RecencyWindow:     time.Duration(getEnvInt("RECO_RECENCY_WINDOW_DAYS", 30)) * 24 * time.Hour,
			RecencyMultiplier: getEnvFloat("RECO_RECENCY_MULTIPLIER", 2),
			JitterScale:       getEnvFloat("RECO_JITTER_SCALE", 2),
			VectorMathEnabled: getEnvBool("VECMATH_ENABLED", true),
			TrendingCacheTTL:  time.Duration(getEnvInt("RECO_TRENDING_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Recommendation.IdentifiedLimit <= 0 || cfg.Recommendation.AnonymousLimit <= 0 {
		return nil, errors.New("recommendation limits must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}

	return defaultVal
}
