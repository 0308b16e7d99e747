package cmd

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/order"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"

	BrokerNone     = "none"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	HTTPPort string `mapstructure:"HTTP_PORT" validate:"required,numeric"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER" validate:"oneof=memory postgres mongo"`
	DBHost        string `mapstructure:"DB_HOST" validate:"required_if=StorageDriver postgres"`
	DBPort        string `mapstructure:"DB_PORT" validate:"required_if=StorageDriver postgres"`
	DBUser        string `mapstructure:"DB_USER" validate:"required_if=StorageDriver postgres"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME" validate:"required_if=StorageDriver postgres"`
	DBSslMode     string `mapstructure:"DB_SSLMODE"`
	MongoURI      string `mapstructure:"MONGO_URI" validate:"required_if=StorageDriver mongo"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE" validate:"required_if=StorageDriver mongo"`

	StatusPolicy string `mapstructure:"STATUS_POLICY"`

	Broker                string `mapstructure:"BROKER" validate:"oneof=none kafka rabbitmq"`
	KafkaBrokers          string `mapstructure:"KAFKA_BROKERS" validate:"required_if=Broker kafka"`
	KafkaOrderEventsTopic string `mapstructure:"KAFKA_ORDER_EVENTS_TOPIC" validate:"required_if=Broker kafka"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL" validate:"required_if=Broker rabbitmq"`
	RabbitMQExchange      string `mapstructure:"RABBITMQ_EXCHANGE" validate:"required_if=Broker rabbitmq"`

	// S3 is optional; without a bucket multipart trip reports are refused.
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3Region          string `mapstructure:"S3_REGION" validate:"required_with=S3Bucket"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3PublicDomain    string `mapstructure:"S3_PUBLIC_DOMAIN"`

	OutboxSchedule  string `mapstructure:"OUTBOX_SCHEDULE" validate:"required"`
	OutboxBatchSize int    `mapstructure:"OUTBOX_BATCH_SIZE" validate:"gte=0"`
	GaugesSchedule  string `mapstructure:"GAUGES_SCHEDULE" validate:"required"`
}

var configKeys = []string{
	"ENV", "HTTP_PORT",
	"STORAGE_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"MONGO_URI", "MONGO_DATABASE",
	"STATUS_POLICY",
	"BROKER", "KAFKA_BROKERS", "KAFKA_ORDER_EVENTS_TOPIC", "RABBITMQ_URL", "RABBITMQ_EXCHANGE",
	"S3_BUCKET", "S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_ENDPOINT", "S3_PUBLIC_DOMAIN",
	"OUTBOX_SCHEDULE", "OUTBOX_BATCH_SIZE", "GAUGES_SCHEDULE",
}

// LoadConfig reads config.yaml from path when it exists and lets environment
// variables override it.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("ENV", "local")
	v.SetDefault("HTTP_PORT", "8082")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STATUS_POLICY", order.StrictPolicy.String())
	v.SetDefault("BROKER", BrokerNone)
	v.SetDefault("OUTBOX_SCHEDULE", "@every 2s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("GAUGES_SCHEDULE", "@every 30s")

	// Unmarshal skips environment variables that were never bound.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := order.ParseTransitionPolicy(c.StatusPolicy); err != nil {
		return err
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaBrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c Config) TransitionPolicy() order.TransitionPolicy {
	p, err := order.ParseTransitionPolicy(c.StatusPolicy)
	if err != nil {
		return order.StrictPolicy
	}
	return p
}
