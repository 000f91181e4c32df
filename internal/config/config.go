package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by SENSEI_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("SENSEI_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the process environment still applies.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	return intEnv("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is optional. When empty the knowledge base is kept in memory.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

func TavilyAPIKey() string {
	return os.Getenv("TAVILY_API_KEY")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, gemini, cerebras, mock
func LLMProvider() string {
	return stringEnv("LLM_PROVIDER", "openai")
}

// LLMModel overrides the provider's default model when set.
func LLMModel() string {
	return os.Getenv("LLM_MODEL")
}

// EmbeddingProvider returns the configured embedding provider.
// Valid values: openai, mock
func EmbeddingProvider() string {
	return stringEnv("EMBEDDING_PROVIDER", "openai")
}

// EmbeddingModel overrides the embedding provider's default model when set.
func EmbeddingModel() string {
	return os.Getenv("EMBEDDING_MODEL")
}

// SearchProvider returns the configured web search provider.
// Valid values: tavily, duckduckgo, mock
func SearchProvider() string {
	return stringEnv("SEARCH_PROVIDER", "tavily")
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// SearchAPIKey returns the API key for the configured search provider.
// DuckDuckGo and mock need none.
func SearchAPIKey() string {
	if SearchProvider() == "tavily" {
		return TavilyAPIKey()
	}
	return ""
}

// SearchMaxResults is the number of web results per fetch, capped at 20.
func SearchMaxResults() int {
	n := intEnv("SEARCH_MAX_RESULTS", 5)
	if n > 20 {
		return 20
	}
	return n
}

// SearchCacheTTL of zero disables the search cache.
func SearchCacheTTL() time.Duration {
	return durationEnv("SEARCH_CACHE_TTL", 0)
}

func SearchCacheSize() int {
	return intEnv("SEARCH_CACHE_SIZE", 256)
}

func CorpusPath() string {
	return stringEnv("CORPUS_PATH", "data/documents.json")
}

func OntologyPath() string {
	return stringEnv("ONTOLOGY_PATH", "data/ontology.json")
}

func RetrievalTopK() int {
	return intEnv("RETRIEVAL_TOP_K", 3)
}

func SessionTTL() time.Duration {
	d := durationEnv("SESSION_TTL", 30*time.Minute)
	if d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// APIKeys returns the accepted API keys. An empty list disables auth.
func APIKeys() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv("API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return intEnv("RATE_LIMIT_BURST", 20)
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	return stringEnv("LOG_LEVEL", "info")
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intEnv returns def for unset, malformed or non-positive values.
func intEnv(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}
