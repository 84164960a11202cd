package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	MediaRoot      string
	MediaBaseURL   string
	BackgroundsDir string

	SegmenterURL   string
	InpainterURL   string
	ModelTimeout   time.Duration
	DefaultLang    string

	OpenAIAPIKey   string
	OpenAIModel    string
	MockGeneration bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StashTTL time.Duration

	RateLimit RateLimitConfig
}

// RateLimitConfig controls the per-user invoke limiter.
type RateLimitConfig struct {
	Enabled bool
	Rate    float64
	Burst   int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "pixomat"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,

		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "pixomat"),
		DBUser:            getenv("DATABASE_USER", "pixomat"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		MediaRoot:      getenv("MEDIA_ROOT", "./media"),
		MediaBaseURL:   getenv("MEDIA_BASE_URL", "/media"),
		BackgroundsDir: getenv("BACKGROUNDS_DIR", "./assets/backgrounds"),

		SegmenterURL: strings.TrimSpace(getenv("SEGMENTER_URL", "")),
		InpainterURL: strings.TrimSpace(getenv("INPAINTER_URL", "")),
		ModelTimeout: getenvDuration("MODEL_TIMEOUT", 60*time.Second),
		DefaultLang:  getenv("DEFAULT_LABEL_LANG", "eng"),

		OpenAIAPIKey:   strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
		MockGeneration: getenvBool("MOCK_GENERATION", false),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:       getenvInt("REDIS_DB", 0),

		StashTTL: getenvDuration("STASH_TTL", 30*time.Minute),

		RateLimit: RateLimitConfig{
			Enabled: getenvBool("RATE_LIMIT_ENABLED", false),
			Rate:    getenvFloat("RATE_LIMIT_RATE", 2),
			Burst:   getenvInt("RATE_LIMIT_BURST", 10),
		},
	}
}

// Module provides the configuration to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
