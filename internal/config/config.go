package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	App        AppConfig
	Source     SourceConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Insight    InsightConfig
	FileServer FileServerConfig
	Drive      DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	DataDir string
}

// SourceConfig selects where the dashboard reads the treated tables from.
type SourceConfig struct {
	Backend       string // dir, http, s3 or postgres
	SalesFormat   string // parquet or csv
	HTTPBaseURL   string
	HTTPUserAgent string
	HTTPTimeout   int
}

type StorageConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type CacheConfig struct {
	Enabled           bool
	Backend           string // redis or memory
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	InsightTTLSeconds int
}

type InsightConfig struct {
	FetchTimeoutSeconds int
}

type FileServerConfig struct {
	Port string
}

type DriveConfig struct {
	CredentialsJSON string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "tabloide")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("APP_DATA_DIR", "./files/tratado")
		viper.SetDefault("SOURCE_BACKEND", "dir")
		viper.SetDefault("SOURCE_SALES_FORMAT", "parquet")
		viper.SetDefault("SOURCE_HTTP_BASE_URL", "")
		viper.SetDefault("SOURCE_HTTP_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
		viper.SetDefault("SOURCE_HTTP_TIMEOUT_SECONDS", 30)
		viper.SetDefault("S3_DRIVER", "minio")
		viper.SetDefault("S3_ENDPOINT", "")
		viper.SetDefault("S3_ACCESS_KEY", "")
		viper.SetDefault("S3_SECRET_KEY", "")
		viper.SetDefault("S3_BUCKET", "")
		viper.SetDefault("S3_REGION", "us-east-1")
		viper.SetDefault("S3_PREFIX", "")
		viper.SetDefault("S3_USE_SSL", true)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("CACHE_BACKEND", "redis")
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_INSIGHT_TTL_SECONDS", 60)
		viper.SetDefault("INSIGHT_FETCH_TIMEOUT_SECONDS", 60)
		viper.SetDefault("FILESERVER_PORT", "8090")
		viper.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")

		// Read from environment variables
		viper.AutomaticEnv()

		if strings.EqualFold(viper.GetString("SOURCE_BACKEND"), "dir") {
			ensureDir(viper.GetString("APP_DATA_DIR"))
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				DataDir: viper.GetString("APP_DATA_DIR"),
			},
			Source: SourceConfig{
				Backend:       strings.ToLower(viper.GetString("SOURCE_BACKEND")),
				SalesFormat:   strings.ToLower(viper.GetString("SOURCE_SALES_FORMAT")),
				HTTPBaseURL:   viper.GetString("SOURCE_HTTP_BASE_URL"),
				HTTPUserAgent: viper.GetString("SOURCE_HTTP_USER_AGENT"),
				HTTPTimeout:   viper.GetInt("SOURCE_HTTP_TIMEOUT_SECONDS"),
			},
			Storage: StorageConfig{
				Driver:    viper.GetString("S3_DRIVER"),
				Endpoint:  viper.GetString("S3_ENDPOINT"),
				AccessKey: viper.GetString("S3_ACCESS_KEY"),
				SecretKey: viper.GetString("S3_SECRET_KEY"),
				Bucket:    viper.GetString("S3_BUCKET"),
				Region:    viper.GetString("S3_REGION"),
				Prefix:    viper.GetString("S3_PREFIX"),
				UseSSL:    viper.GetBool("S3_USE_SSL"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				Backend:           strings.ToLower(viper.GetString("CACHE_BACKEND")),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				InsightTTLSeconds: viper.GetInt("CACHE_INSIGHT_TTL_SECONDS"),
			},
			Insight: InsightConfig{
				FetchTimeoutSeconds: viper.GetInt("INSIGHT_FETCH_TIMEOUT_SECONDS"),
			},
			FileServer: FileServerConfig{
				Port: viper.GetString("FILESERVER_PORT"),
			},
			Drive: DriveConfig{
				CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
