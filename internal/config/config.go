package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	StoreDriver string // "mongo" (default), "memory"

	GeminiAPIKey          string
	GeminiModel           string
	GeminiTemperature     float64
	GeminiTier            string
	GoogleEmbeddingsModel string
	EmbedBatchSize        int

	Port        string
	GinMode     string
	CORSOrigins []string

	// Ingestion
	DocumentPath string
	ChunkSize    int
	ChunkOverlap int
	RetrievalK   int

	// Prompting
	PromptVariant string // "basic" (default), "ranked"
	PromptsFile   string

	// Quota and history
	QuotaEnabled    bool
	QuotaLimit      int
	HistoryLimit    int
	RefundOnFailure bool

	// Rate limiting (Redis)
	RateLimitEnabled bool
	RateLimitReqs    int
	RateLimitWindow  int
	RedisURL         string
	RedisPassword    string
	RedisDB          int

	// OpenTelemetry
	TracingEnabled   bool
	OTLPEndpoint     string
	TraceSampleRatio float64

	HealthCheckInterval int
}

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	PromptVariantBasic  = "basic"
	PromptVariantRanked = "ranked"
)

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "docqa"),
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverMongo),

		// GOOGLE_API_KEY is what the langchain deployments used; GEMINI_API_KEY wins when both are set
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTemperature:     getEnvFloat64("GEMINI_TEMPERATURE", 0.2),
		GeminiTier:            getEnv("GEMINI_TIER", "free"),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		EmbedBatchSize:        getEnvInt("EMBED_BATCH_SIZE", 100),

		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		DocumentPath: getEnv("DOCUMENT_PATH", "./data/doc.pdf"),
		ChunkSize:    getEnvInt("CHUNK_SIZE", 10000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 1000),
		RetrievalK:   getEnvInt("RETRIEVAL_K", 5),

		PromptVariant: getEnv("PROMPT_VARIANT", PromptVariantBasic),
		PromptsFile:   getEnv("PROMPTS_FILE", ""),

		QuotaEnabled:    getEnvBool("QUOTA_ENABLED", true),
		QuotaLimit:      getEnvInt("QUOTA_LIMIT", 5),
		HistoryLimit:    getEnvInt("HISTORY_LIMIT", 5),
		RefundOnFailure: getEnvBool("REFUND_ON_FAILURE", true),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimitReqs:    getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:  getEnvInt("RATE_LIMIT_WINDOW", 60),
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),

		TracingEnabled:   getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
		TraceSampleRatio: getEnvFloat64("TRACE_SAMPLE_RATIO", 0.1),

		HealthCheckInterval: getEnvInt("HEALTH_CHECK_INTERVAL", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY (or GOOGLE_API_KEY) is required - set it in .env file")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("RETRIEVAL_K must be positive, got %d", c.RetrievalK)
	}

	if c.QuotaLimit < 1 {
		return fmt.Errorf("QUOTA_LIMIT must be at least 1, got %d", c.QuotaLimit)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", c.HistoryLimit)
	}

	switch c.PromptVariant {
	case PromptVariantBasic, PromptVariantRanked:
	default:
		return fmt.Errorf("unknown PROMPT_VARIANT: %s", c.PromptVariant)
	}

	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %s", c.StoreDriver)
	}

	for _, origin := range c.CORSOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must be \"*\" or start with http:// or https://", origin)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
