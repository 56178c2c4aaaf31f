package config

import (
	"fmt"
	"os"
	"time"

	pkgcfg "github.com/capstore/online_shop/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string
	CORSOrigins []string

	DatabaseURL string

	JWTSecret []byte
	JWTExpire time.Duration

	UploadDir       string
	UploadURLPrefix string

	BankDestinationAccount string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CheckoutLockTTL time.Duration

	JaegerEndpoint string

	SeedOnStart       bool
	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() Config {
	return Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "capshop"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		CORSOrigins: pkgcfg.CSV(os.Getenv("CORS_ORIGINS")),

		DatabaseURL: databaseURL(),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTExpire: pkgcfg.EnvDurationDefault("JWT_EXPIRE", 30*24*time.Hour),

		UploadDir:       pkgcfg.EnvDefault("UPLOAD_DIR", "./public/img"),
		UploadURLPrefix: pkgcfg.EnvDefault("UPLOAD_URL_PREFIX", "/img"),

		BankDestinationAccount: pkgcfg.EnvDefault("BANK_DESTINATION_ACCOUNT", "0123456789"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "gorras"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         pkgcfg.EnvIntDefault("REDIS_DB", 0),
		CheckoutLockTTL: pkgcfg.EnvDurationDefault("CHECKOUT_LOCK_TTL", 10*time.Second),

		JaegerEndpoint: os.Getenv("JAEGER_ENDPOINT"),

		SeedOnStart:       pkgcfg.EnvBoolDefault("SEED_ON_START", false),
		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// Validate stops startup when a required setting is missing.
func (c Config) Validate() {
	pkgcfg.MustHave(
		pkgcfg.NonEmpty("DATABASE_URL", c.DatabaseURL),
		pkgcfg.NonEmptyBytes("JWT_SECRET", c.JWTSecret),
	)
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// discrete DB_* variables.
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host,
		pkgcfg.EnvDefault("DB_PORT", "5432"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		pkgcfg.EnvDefault("DB_SSLMODE", "disable"),
	)
}
