package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Logger    LoggerConfig
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Cache     CacheConfig
	JWT       JWTConfig
	AI        AIConfig
	Embedding EmbeddingConfig
	Concepts  ConceptConfig
	Simulado  SimuladoConfig
}

type LoggerConfig struct {
	Level string
	Env   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	PerformanceTTL time.Duration
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

// AIConfig selects the text generation backend used for concepts, dosage notes
// and simulado question generation.
type AIConfig struct {
	Provider  string // gemini, ollama or openai
	Model     string
	APIKey    string
	ServerURL string
	Timeout   time.Duration
}

type EmbeddingConfig struct {
	Source    string // ollama, openai or none
	Model     string
	ServerURL string
	APIKey    string
	CacheTTL  time.Duration
}

type ConceptConfig struct {
	SimilarityThreshold float64
	ShortQueryWords     int
}

type SimuladoConfig struct {
	TargetSize int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.sqlite_path", "medstudent.db")
	v.SetDefault("cache.performance_ttl", 10*time.Minute)
	v.SetDefault("jwt.access_token_ttl", 24*time.Hour)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("embedding.source", "none")
	v.SetDefault("embedding.cache_ttl", 24*time.Hour)
	v.SetDefault("concepts.similarity_threshold", 0.9)
	v.SetDefault("concepts.short_query_words", 5)
	v.SetDefault("simulado.target_size", 20)
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("env"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		DB: DBConfig{
			Driver:     strings.ToLower(v.GetString("db.driver")),
			URL:        v.GetString("db.url"),
			Host:       v.GetString("db.host"),
			Port:       v.GetInt("db.port"),
			User:       v.GetString("db.user"),
			Password:   v.GetString("db.password"),
			DBName:     v.GetString("db.name"),
			SSLMode:    v.GetString("db.sslmode"),
			SQLitePath: v.GetString("db.sqlite_path"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			PerformanceTTL: v.GetDuration("cache.performance_ttl"),
		},
		JWT: JWTConfig{
			SecretKey:      v.GetString("jwt.secret_key"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		AI: AIConfig{
			Provider:  strings.ToLower(v.GetString("ai.provider")),
			Model:     v.GetString("ai.model"),
			APIKey:    v.GetString("ai.api_key"),
			ServerURL: v.GetString("ai.server_url"),
			Timeout:   v.GetDuration("ai.timeout"),
		},
		Embedding: EmbeddingConfig{
			Source:    strings.ToLower(v.GetString("embedding.source")),
			Model:     v.GetString("embedding.model"),
			ServerURL: v.GetString("embedding.server_url"),
			APIKey:    v.GetString("embedding.api_key"),
			CacheTTL:  v.GetDuration("embedding.cache_ttl"),
		},
		Concepts: ConceptConfig{
			SimilarityThreshold: v.GetFloat64("concepts.similarity_threshold"),
			ShortQueryWords:     v.GetInt("concepts.short_query_words"),
		},
		Simulado: SimuladoConfig{
			TargetSize: v.GetInt("simulado.target_size"),
		},
	}

	// Secrets commonly arrive under their conventional names.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = key
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DB.URL = url
	}

	return cfg, nil
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.URL != "" {
			return c.DB.URL
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
			c.DB.SSLMode,
		)
	default:
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.DB.SQLitePath)
	}
}
