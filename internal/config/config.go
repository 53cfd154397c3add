package config

import (
	"fmt"
	"log"
	"os"

	"github.com/emgimbal/shop/internal/models"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	PORT             string
	DB_HOST          string
	DB_PORT          string
	DB_USER          string
	DB_PASSWORD      string
	DB_NAME          string
	JWT_SECRET       string
	EMAIL_API_URL    string
	EMAIL_SENDER_KEY string
	EMAIL_SENDER     string
	STRIPE_API_URL   string
	STRIPE_SECRET    string
	KAFKA_ADDRESS    string
	ES_URL           string
	ES_USER          string
	ES_PASSWORD      string
	LOG_LEVEL        string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:             os.Getenv("PORT"),
		DB_HOST:          os.Getenv("DB_HOST"),
		DB_PORT:          os.Getenv("DB_PORT"),
		DB_USER:          os.Getenv("DB_USER"),
		DB_PASSWORD:      os.Getenv("DB_PASSWORD"),
		DB_NAME:          os.Getenv("DB_NAME"),
		JWT_SECRET:       os.Getenv("JWT_SECRET"),
		EMAIL_API_URL:    os.Getenv("EMAIL_API_URL"),
		EMAIL_SENDER_KEY: os.Getenv("EMAIL_SENDER_KEY"),
		EMAIL_SENDER:     os.Getenv("EMAIL_SENDER"),
		STRIPE_API_URL:   os.Getenv("STRIPE_API_URL"),
		STRIPE_SECRET:    os.Getenv("STRIPE_SECRET_KEY"),
		KAFKA_ADDRESS:    os.Getenv("KAFKA_ADDRESS"),
		ES_URL:           os.Getenv("ES_URL"),
		ES_USER:          os.Getenv("ES_USER"),
		ES_PASSWORD:      os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:        os.Getenv("LOG_LEVEL"),
	}

	if config.PORT == "" {
		config.PORT = "5000"
	}

	return config, nil
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	host := configuration.DB_HOST
	port := configuration.DB_PORT
	user := configuration.DB_USER
	password := configuration.DB_PASSWORD
	dbname := configuration.DB_NAME

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Purchase{}, &models.Payment{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
