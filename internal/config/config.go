package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 保存先の種類
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（:8080）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	StoreDriver string // postgres/mongo/memory

	DatabaseURL      string // あれば最優先
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MongoURI      string
	MongoDatabase string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期限

	TaxRate         decimal.Decimal
	SeedProducts    bool
	ShutdownTimeout time.Duration
}

// Loadは環境変数から読む
func Load() (Config, error) {
	pgPort, err := atoiEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := durationEnv("JWT_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	taxRate, err := decimalEnv("TAX_RATE", "0.08")
	if err != nil {
		return Config{}, err
	}
	seed, err := boolEnv("SEED_PRODUCTS", true)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     normalizePort(getenv("PORT", "8080")),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "app"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getenv("MONGODB_DATABASE", "storefront"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    jwtTTL,

		TaxRate:         taxRate,
		SeedProducts:    seed,
		ShutdownTimeout: shutdownTimeout,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.StoreDriver {
	case DriverPostgres, DriverMemory:
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGODB_URI is required")
		}
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be one of postgres, mongo, memory: %q", cfg.StoreDriver)
	}
	if cfg.TaxRate.IsNegative() {
		return Config{}, fmt.Errorf("TAX_RATE must be >= 0")
	}

	return cfg, nil
}

// PostgresDSN は DATABASE_URL が無ければ個別の値から組み立てる
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func normalizePort(v string) string {
	if v[0] != ':' {
		return ":" + v
	}
	return v
}

func atoiEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalEnv(key string, def string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getenv(key, def))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s must be decimal: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
