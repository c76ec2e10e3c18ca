package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBConnStr     string
	MigrationsDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CFAPIBaseURL      string
	CFRequestTimeout  time.Duration
	CFCacheTTL        time.Duration
	CatalogSyncEvery  time.Duration
	ContestSyncEvery  time.Duration
	ContestSyncGrace  time.Duration
	SuggestionLimit   int
	VerifyContestID   int
	VerifyProblemIdx  string
	VerifyFetchCount  int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:       getEnv("API_PORT", "8080"),
		JWTKey:        []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:        time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "user"),
		DBPassword:    getEnv("DB_PASSWORD", "password"),
		DBName:        getEnv("DB_NAME", "devbits_db"),
		DBSslMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		CFAPIBaseURL:     getEnv("CF_API_BASE_URL", "https://codeforces.com/api"),
		CFRequestTimeout: time.Duration(getEnvAsInt("CF_REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		CFCacheTTL:       time.Duration(getEnvAsInt("CF_CACHE_TTL_MINUTES", 30)) * time.Minute,
		CatalogSyncEvery: time.Duration(getEnvAsInt("CATALOG_SYNC_MINUTES", 30)) * time.Minute,
		ContestSyncEvery: time.Duration(getEnvAsInt("CONTEST_SYNC_SECONDS", 60)) * time.Second,
		ContestSyncGrace: time.Duration(getEnvAsInt("CONTEST_SYNC_GRACE_MINUTES", 10)) * time.Minute,
		SuggestionLimit:  getEnvAsInt("SUGGESTION_LIMIT", 100),
		VerifyContestID:  getEnvAsInt("VERIFY_CONTEST_ID", 1800),
		VerifyProblemIdx: getEnv("VERIFY_PROBLEM_INDEX", "A"),
		VerifyFetchCount: getEnvAsInt("VERIFY_FETCH_COUNT", 5),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
