package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Minio  MinioConfig
	Upload UploadConfig
	Public PublicConfig

	// Workers is the number of verification dispatcher workers.
	Workers int `env:"VERIFICATION_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kyc_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY, default=minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY, default=minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
	Bucket    string `env:"MINIO_BUCKET,     default=kyc-documents"`
}

type UploadConfig struct {
	// MaxSize is the largest accepted document in bytes (default 10 MiB).
	MaxSize int64 `env:"UPLOAD_MAX_SIZE, default=10485760"`
}

// PublicConfig tunes the rate limiter on the unauthenticated onboarding endpoints.
type PublicConfig struct {
	RPS   float64 `env:"PUBLIC_RATE_RPS,   default=5"`
	Burst int     `env:"PUBLIC_RATE_BURST, default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
