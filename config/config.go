package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Development fallbacks. Both are unsafe for production and LoadConfig
// warns whenever one of them is in effect.
const (
	devAdminSecretKey = "church2024!"
	devEncryptionKey  = "church-secret-key-32chars-very-secure!"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string
	BaseURL     string

	// AccessSecret signs session tokens.
	AccessSecret string
	// AdminSecretKey is the enrollment code that grants ADMIN on register.
	AdminSecretKey string
	// EncryptionKey encrypts resident registration numbers at rest.
	EncryptionKey string

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	cfg := Config{
		ServerPort:     os.Getenv("SERVER_PORT"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		BaseURL:        os.Getenv("BASE_URL"),
		AccessSecret:   os.Getenv("ACCESS_SECRET"),
		AdminSecretKey: os.Getenv("ADMIN_SECRET_KEY"),
		EncryptionKey:  os.Getenv("ENCRYPTION_KEY"),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		KafkaTopic:     os.Getenv("KAFKA_TOPIC"),
		KafkaUsername:  os.Getenv("KAFKA_USERNAME"),
		KafkaPassword:  os.Getenv("KAFKA_PASSWORD"),
	}

	if cfg.AdminSecretKey == "" {
		log.Println("Warning: ADMIN_SECRET_KEY not set, using development fallback (NOT safe for production)")
		cfg.AdminSecretKey = devAdminSecretKey
	}
	if cfg.EncryptionKey == "" {
		log.Println("Warning: ENCRYPTION_KEY not set, using development fallback (NOT safe for production)")
		cfg.EncryptionKey = devEncryptionKey
	}

	return cfg
}
