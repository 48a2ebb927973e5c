package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Configはアプリ全体の設定
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	MinIO    MinIOConfig
}

type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GoEnv    string `envconfig:"GO_ENV" default:"dev"` // dev/prod
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	FEURL    string `envconfig:"FE_URL" default:"http://localhost:3000"` // CORS
	// 登録時にADMINにするメール（カンマ区切り）
	AdminEmails []string `envconfig:"ADMIN_EMAILS"`
}

type DBConfig struct {
	// postgres / sqlite
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	Name     string `envconfig:"POSTGRES_DB" default:"storefront"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	// sqlite のときのファイル
	SQLitePath string `envconfig:"SQLITE_PATH" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type JWTConfig struct {
	Secret    string        `envconfig:"JWT_SECRET"`
	AccessTTL time.Duration `envconfig:"JWT_ACCESS_TTL" default:"24h"`
}

// URL/Addrが空ならキャッシュ無し
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Address      string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
	CartTTL      time.Duration `envconfig:"REDIS_CART_TTL" default:"10m"`
}

func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Address != ""
}

// URLが空ならイベントは捨てる
type RabbitMQConfig struct {
	URL      string `envconfig:"RABBITMQ_URL"`
	Exchange string `envconfig:"RABBITMQ_EXCHANGE" default:"storefront.events"`
}

// Endpointが空ならアップロード無効
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"storefront"`
	Secure    bool   `envconfig:"MINIO_SECURE" default:"false"`
	// 返却URLのベース（空ならendpointから組み立て）
	PublicURL string `envconfig:"MINIO_PUBLIC_URL"`
}

// Loadは.env → 環境変数の順に読む
func Load() (Config, error) {
	// .envは無くてもいい
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", c.DB.Driver)
	}

	if strings.TrimSpace(c.JWT.Secret) == "" {
		if c.IsProd() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWT.Secret = "dev_secret_change_me"
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if c.MinIO.Endpoint != "" && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.App.GoEnv == "prod"
}

// :8080 の形にそろえる
func (c Config) Addr() string {
	if strings.HasPrefix(c.App.Port, ":") {
		return c.App.Port
	}
	return ":" + c.App.Port
}
