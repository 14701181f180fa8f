package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Minio     MinioConfig     `yaml:"minio"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Worker    WorkerConfig    `yaml:"worker"`
	Retry     RetryConfig     `yaml:"retry"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Watermark WatermarkConfig `yaml:"watermark"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"5m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type MongoConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"gallery"`
}

type MinioConfig struct {
	Endpoint      string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey     string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket        string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"gallery"`
	UseSSL        bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	PublicBaseURL string `yaml:"public_base_url" env:"MINIO_PUBLIC_BASE_URL" env-default:"http://localhost:9000"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	JobsTopic    string   `yaml:"jobs_topic" env-default:"watermark-jobs"`
	ResultsTopic string   `yaml:"results_topic" env-default:"watermark-results"`
	GroupID      string   `yaml:"group_id" env-default:"watermark-worker-group"`
}

type WorkerConfig struct {
	Concurrency int `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"4"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env-default:"500ms"`
	Backoff  float64       `yaml:"backoff" env-default:"2"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

type WatermarkConfig struct {
	DefaultText string `yaml:"default_text" env-default:"© Photo Gallery"`
}

func MustLoad() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
