package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all environment-driven settings. Credentials are read once
// here and injected into components at construction time; nothing re-reads
// the environment afterwards.
type Config struct {
	AppPort          int    `mapstructure:"APP_PORT"`
	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `mapstructure:"OPENAI_BASE_URL"`
	EmbeddingModel   string `mapstructure:"EMBEDDING_MODEL"`
	ChatModel        string `mapstructure:"CHAT_MODEL"`
	QdrantHost       string `mapstructure:"QDRANT_HOST"`
	QdrantPort       int    `mapstructure:"QDRANT_PORT"`
	QdrantCollection string `mapstructure:"QDRANT_COLLECTION"`
	DatabasePath     string `mapstructure:"DATABASE_PATH"`
	TMDBAPIKey       string `mapstructure:"TMDB_API_KEY"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("EMBEDDING_MODEL", "text-embedding-3-small")
	viper.SetDefault("CHAT_MODEL", "gpt-4o-mini")
	viper.SetDefault("QDRANT_HOST", "localhost")
	viper.SetDefault("QDRANT_PORT", 6334)
	viper.SetDefault("QDRANT_COLLECTION", "movies")
	viper.SetDefault("DATABASE_PATH", "./data/movies.db")
	viper.SetDefault("TMDB_API_KEY", "")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
