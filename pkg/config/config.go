package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP        HTTP
	Logger      Logger
	Postgres    Postgres
	Kafka       Kafka
	Auth        Auth
	GoogleDrive GoogleDrive
	Jobs        Jobs
}

type HTTP struct {
	Port          int    `env:"HTTP_PORT" envDefault:"8080"`
	APIKeyEnabled bool   `env:"HTTP_API_KEY_ENABLED" envDefault:"false"`
	APIKey        string `env:"HTTP_API_KEY" envDefault:"dev"`
}

type Logger struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type Postgres struct {
	DSN     string `env:"POSTGRES_DSN"`
	MaxConn int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
}

type Kafka struct {
	Enabled            bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers            []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	RecordChangedTopic string   `env:"KAFKA_RECORD_CHANGED_TOPIC" envDefault:"bizdesk.record-changed"`
	LowStockTopic      string   `env:"KAFKA_LOW_STOCK_TOPIC" envDefault:"bizdesk.low-stock"`
}

type Auth struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

type GoogleDrive struct {
	ClientID      string        `env:"GDRIVE_CLIENT_ID"`
	ClientSecret  string        `env:"GDRIVE_CLIENT_SECRET"`
	RedirectURL   string        `env:"GDRIVE_REDIRECT_URL"`
	StateSecret   string        `env:"GDRIVE_STATE_SECRET"`
	Timeout       time.Duration `env:"GDRIVE_TIMEOUT" envDefault:"15s"`
	RetryAttempts int           `env:"GDRIVE_RETRY_ATTEMPTS" envDefault:"3"`
}

type Jobs struct {
	LowStockEnabled  bool          `env:"JOB_LOW_STOCK_ENABLED" envDefault:"true"`
	LowStockInterval time.Duration `env:"JOB_LOW_STOCK_INTERVAL" envDefault:"1h"`
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAsWithOptions[Config](env.Options{
		RequiredIfNoDef: true,
	})
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
