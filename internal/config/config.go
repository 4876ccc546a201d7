package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// DriverMySQL selects the MySQL backend.
	DriverMySQL = "mysql"
	// DriverSQLite selects the embedded SQLite backend.
	DriverSQLite = "sqlite"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Env         string
	DBDriver    string
	MySQLDSN    string
	SQLitePath  string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	DefaultCountry  string
	DefaultState    string
	DefaultDistrict string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		DBDriver:        getEnv("DB_DRIVER", DriverSQLite),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/hyperlocal?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath:      getEnv("SQLITE_PATH", "hyperlocal.db"),
		ResetDB:         getEnvBool("RESET_DB", false),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		DefaultCountry:  getEnv("DEFAULT_COUNTRY", "India"),
		DefaultState:    getEnv("DEFAULT_STATE", "Maharashtra"),
		DefaultDistrict: getEnv("DEFAULT_DISTRICT", "Mumbai Suburban"),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
