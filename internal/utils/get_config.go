package utils

import (
	"os"

	"foodgram/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Server
	AppURL      string `yaml:"APP_URL"`
	AppPort     string `yaml:"APP_PORT"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`
	LogLevel    string `yaml:"LOG_LEVEL"`
	LogFormat   string `yaml:"LOG_FORMAT"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

const configFile = "config.yaml"

// LoadConfig reads config.yaml and then a .env file if present. Environment
// variables always win over the yaml values.
func LoadConfig() {
	LoadConfigFrom(configFile)
}

func LoadConfigFrom(path string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn().Err(err).Msg("failed to load .env file")
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", path).Msg("error reading yaml file")
		}
		return
	}

	var loaded Config
	if err := yaml.Unmarshal(file, &loaded); err != nil {
		logging.Error().Err(err).Str("path", path).Msg("error parsing yaml file")
		return
	}
	config = loaded
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "APP_PORT":
		return withDefault(config.AppPort, "8080")
	case "CORS_ORIGINS":
		return withDefault(config.CORSOrigins, "*")
	case "LOG_LEVEL":
		return withDefault(config.LogLevel, "info")
	case "LOG_FORMAT":
		return withDefault(config.LogFormat, "json")
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
