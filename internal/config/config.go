package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LLMConfig holds settings for the Groq (OpenAI-compatible) chat endpoint.
type LLMConfig struct {
	APIKey              string  `yaml:"api_key"`
	APIURL              string  `yaml:"api_url"`
	Model               string  `yaml:"model"`
	ClauseTemperature   float64 `yaml:"clause_temperature"`
	AnalysisTemperature float64 `yaml:"analysis_temperature"`
	TimeoutSec          int     `yaml:"timeout_sec"`
	MaxRetries          int     `yaml:"max_retries"`
	RequestsPerMinute   int     `yaml:"requests_per_minute"`
	MaxInputChars       int     `yaml:"max_input_chars"`
}

// BaseURL derives the API base from the full chat completions URL.
// GROQCLOUD_API_URL historically points at .../chat/completions.
func (c LLMConfig) BaseURL() string {
	u := strings.TrimSpace(c.APIURL)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	return u + "/"
}

// EmbeddingConfig selects the embedding provider used for similarity search.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Dim      int    `yaml:"dim"`
}

// DefaultEmbeddingDim is the vector size of each provider's default model.
// Other models need an explicit EMBEDDING_DIM.
func DefaultEmbeddingDim(provider string) int {
	switch provider {
	case "ollama":
		return 768 // nomic-embed-text
	case "openai":
		return 1536 // text-embedding-3-small
	case "gemini":
		return 3072 // gemini-embedding-001
	default:
		return 384
	}
}

func (c *EmbeddingConfig) fillDim() {
	if c.Dim <= 0 {
		c.Dim = DefaultEmbeddingDim(c.Provider)
	}
}

// VectorConfig selects the vector store backend holding reference contracts.
type VectorConfig struct {
	Backend     string `yaml:"backend"`
	Collection  string `yaml:"collection"`
	ChromemPath string `yaml:"chromem_path"`
}

// DatasetConfig points at the reference contract CSV used for seeding.
type DatasetConfig struct {
	Path            string `yaml:"path"`
	SeedConcurrency int    `yaml:"seed_concurrency"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost          string          `yaml:"app_host"`
	Port             string          `yaml:"port"`
	LogLevel         string          `yaml:"log_level"`
	LogTimezone      string          `yaml:"log_timezone"`
	CORSAllowOrigins string          `yaml:"cors_allow_origins"`
	UploadMaxBytes   int64           `yaml:"upload_max_bytes"`
	Database         DatabaseConfig  `yaml:"database"`
	MinIO            MinIOConfig     `yaml:"minio"`
	LLM              LLMConfig       `yaml:"llm"`
	Embedding        EmbeddingConfig `yaml:"embedding"`
	Vector           VectorConfig    `yaml:"vector"`
	Dataset          DatasetConfig   `yaml:"dataset"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	cfg := Defaults()
	applyEnv(cfg)
	cfg.Embedding.fillDim()
	return cfg
}

// Defaults returns the configuration used when neither a file nor the environment set a value.
func Defaults() *AppConfig {
	return &AppConfig{
		AppHost:          "localhost:8000",
		Port:             "8000",
		LogLevel:         "info",
		LogTimezone:      "UTC",
		CORSAllowOrigins: "*",
		UploadMaxBytes:   10 << 20,
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
		LLM: LLMConfig{
			APIURL:              "https://api.groq.com/openai/v1/chat/completions",
			Model:               "llama3-8b-8192",
			ClauseTemperature:   0,
			AnalysisTemperature: 0.1,
			TimeoutSec:          60,
			MaxRetries:          2,
			RequestsPerMinute:   30,
			MaxInputChars:       24000,
		},
		Embedding: EmbeddingConfig{
			Provider: "hash",
		},
		Vector: VectorConfig{
			Backend:    "chromem",
			Collection: "DatasetEx",
		},
		Dataset: DatasetConfig{
			Path:            "dataset.csv",
			SeedConcurrency: 4,
		},
	}
}

func applyEnv(c *AppConfig) {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogTimezone = getEnv("LOG_TIMEZONE", c.LogTimezone)
	c.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", c.CORSAllowOrigins)
	c.UploadMaxBytes = int64(getEnvInt("UPLOAD_MAX_BYTES", int(c.UploadMaxBytes)))

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetimeSec = getEnvInt("DB_CONN_MAX_LIFETIME_SEC", c.Database.ConnMaxLifetimeSec)

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIO.AccessKey)
	c.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.MinIO.SecretKey)
	c.MinIO.Bucket = getEnv("MINIO_BUCKET", c.MinIO.Bucket)
	c.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.MinIO.UseSSL)

	c.LLM.APIKey = getEnv("GROQCLOUD_API_KEY", c.LLM.APIKey)
	c.LLM.APIURL = getEnv("GROQCLOUD_API_URL", c.LLM.APIURL)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.ClauseTemperature = getEnvFloat("LLM_CLAUSE_TEMPERATURE", c.LLM.ClauseTemperature)
	c.LLM.AnalysisTemperature = getEnvFloat("LLM_ANALYSIS_TEMPERATURE", c.LLM.AnalysisTemperature)
	c.LLM.TimeoutSec = getEnvInt("LLM_TIMEOUT_SEC", c.LLM.TimeoutSec)
	c.LLM.MaxRetries = getEnvInt("LLM_MAX_RETRIES", c.LLM.MaxRetries)
	c.LLM.RequestsPerMinute = getEnvInt("LLM_REQUESTS_PER_MINUTE", c.LLM.RequestsPerMinute)
	c.LLM.MaxInputChars = getEnvInt("LLM_MAX_INPUT_CHARS", c.LLM.MaxInputChars)

	c.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", c.Embedding.Provider)
	c.Embedding.Model = getEnv("EMBEDDING_MODEL", c.Embedding.Model)
	c.Embedding.BaseURL = getEnv("EMBEDDING_BASE_URL", c.Embedding.BaseURL)
	c.Embedding.APIKey = getEnv("EMBEDDING_API_KEY", c.Embedding.APIKey)
	c.Embedding.Dim = getEnvInt("EMBEDDING_DIM", c.Embedding.Dim)

	c.Vector.Backend = getEnv("VECTOR_BACKEND", c.Vector.Backend)
	c.Vector.Collection = getEnv("VECTOR_COLLECTION", c.Vector.Collection)
	c.Vector.ChromemPath = getEnv("CHROMEM_PATH", c.Vector.ChromemPath)

	c.Dataset.Path = getEnv("DATASET_PATH", c.Dataset.Path)
	c.Dataset.SeedConcurrency = getEnvInt("SEED_CONCURRENCY", c.Dataset.SeedConcurrency)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
