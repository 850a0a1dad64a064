package utils

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort string `yaml:"APP_PORT"`
	LogFile string `yaml:"LOG_FILE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT and OTP
	JWTSecret     string `yaml:"JWT_SECRET"`
	OTPMode       string `yaml:"OTP_MODE"`
	OTPTTLMinutes string `yaml:"OTP_TTL_MINUTES"`

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

	// Gemini API configuration
	GeminiAPIKey             string `yaml:"GEMINI_API_KEY"`
	GeminiModel              string `yaml:"GEMINI_MODEL"`
	GeminiBaseURL            string `yaml:"GEMINI_BASE_URL"`
	ClassifierTimeoutSeconds string `yaml:"CLASSIFIER_TIMEOUT_SECONDS"`
	ClassifierMaxRetries     string `yaml:"CLASSIFIER_MAX_RETRIES"`
}

var config Config

// LoadConfig reads ./config.yaml. Keys the file leaves empty fall back to the
// process environment in GetConfig.
func LoadConfig() {
	LoadConfigFrom("config.yaml")
}

func LoadConfigFrom(path string) {
	config = Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Warnw("config file not loaded, using environment", "path", path, "error", err)
		return
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		log.Errorw("error parsing YAML file", "path", path, "error", err)
		config = Config{}
	}
}

func GetConfig(key string) string {
	if v := fromFile(key); v != "" {
		return v
	}
	return os.Getenv(key)
}

// GetConfigInt returns the integer value of key, or def when unset or malformed.
func GetConfigInt(key string, def int) int {
	v := GetConfig(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnw("ignoring malformed integer config", "key", key, "value", v)
		return def
	}
	return n
}

func fromFile(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "LOG_FILE":
		return config.LogFile
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
	case "OTP_MODE":
		return config.OTPMode
	case "OTP_TTL_MINUTES":
		return config.OTPTTLMinutes
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
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		return config.GeminiModel
	case "GEMINI_BASE_URL":
		return config.GeminiBaseURL
	case "CLASSIFIER_TIMEOUT_SECONDS":
		return config.ClassifierTimeoutSeconds
	case "CLASSIFIER_MAX_RETRIES":
		return config.ClassifierMaxRetries
	default:
		return ""
	}
}
