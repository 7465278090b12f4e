package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Completion service.
	CompletionProvider    string        `mapstructure:"COMPLETION_PROVIDER"`
	GeminiAPIKey          string        `mapstructure:"GEMINI_API_KEY"`
	OpenAIAPIKey          string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL         string        `mapstructure:"OPENAI_BASE_URL"`
	ExtractionModel       string        `mapstructure:"EXTRACTION_MODEL"`
	SynthesisModel        string        `mapstructure:"SYNTHESIS_MODEL"`
	ExtractionTemperature float64       `mapstructure:"EXTRACTION_TEMPERATURE"`
	SynthesisTemperature  float64       `mapstructure:"SYNTHESIS_TEMPERATURE"`
	ExtractionTimeout     time.Duration `mapstructure:"EXTRACTION_TIMEOUT"`
	SynthesisTimeout      time.Duration `mapstructure:"SYNTHESIS_TIMEOUT"`

	// Flight search provider.
	FlightSearchURL     string        `mapstructure:"FLIGHT_SEARCH_URL"`
	ApifyAPIToken       string        `mapstructure:"APIFY_API_TOKEN"`
	FlightTimeout       time.Duration `mapstructure:"FLIGHT_TIMEOUT"`
	FlightOrigin        string        `mapstructure:"FLIGHT_ORIGIN"`
	FallbackFlightPrice float64       `mapstructure:"FALLBACK_FLIGHT_PRICE"`

	// Cost estimation.
	DefaultHotelBudget float64 `mapstructure:"DEFAULT_HOTEL_BUDGET"`
	DefaultTripDays    int     `mapstructure:"DEFAULT_TRIP_DAYS"`
	ActivityEstimate   float64 `mapstructure:"ACTIVITY_ESTIMATE"`

	// Redis configuration (run snapshots and the async plan queue).
	RedisEnabled      bool          `mapstructure:"REDIS_ENABLED"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisRunDB        int           `mapstructure:"REDIS_RUN_DB"`
	RedisQueueDB      int           `mapstructure:"REDIS_QUEUE_DB"`
	RunTTL            time.Duration `mapstructure:"RUN_TTL"`
	WorkerConcurrency int           `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	viper.SetDefault("COMPLETION_PROVIDER", "gemini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("EXTRACTION_MODEL", "")
	viper.SetDefault("SYNTHESIS_MODEL", "")
	viper.SetDefault("EXTRACTION_TEMPERATURE", 0.3)
	viper.SetDefault("SYNTHESIS_TEMPERATURE", 0.7)
	viper.SetDefault("EXTRACTION_TIMEOUT", 30*time.Second)
	viper.SetDefault("SYNTHESIS_TIMEOUT", 120*time.Second)

	viper.SetDefault("FLIGHT_SEARCH_URL", "https://api.apify.com/v2/acts/jupri~skyscanner-flight/run-sync-get-dataset-items")
	viper.SetDefault("APIFY_API_TOKEN", "")
	viper.SetDefault("FLIGHT_TIMEOUT", 60*time.Second)
	viper.SetDefault("FLIGHT_ORIGIN", "San Francisco")
	viper.SetDefault("FALLBACK_FLIGHT_PRICE", 650)

	viper.SetDefault("DEFAULT_HOTEL_BUDGET", 200)
	viper.SetDefault("DEFAULT_TRIP_DAYS", 7)
	viper.SetDefault("ACTIVITY_ESTIMATE", 500)

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_RUN_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("RUN_TTL", 30*time.Minute)
	viper.SetDefault("WORKER_CONCURRENCY", 5)
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
