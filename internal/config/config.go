package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Hostella/service-admin/internal/platform/database"
)

const envPrefix = "HOSTELLA"

// KafkaConfig holds broker and topic settings.
type KafkaConfig struct {
	Brokers       []string
	GroupPrefix   string
	PaymentTopic  string
	BookingTopic  string
	EventsEnabled bool
}

// ServiceConfig holds all configuration for the admin service.
type ServiceConfig struct {
	Port   string
	AppEnv string

	APIBaseURL     string
	RequestTimeout time.Duration

	SocketURL string
	AdminID   string

	RedisURL string

	NotificationPollInterval time.Duration

	CORSOrigins       []string
	ProtectedPrefixes []string

	DBConfig    database.Config
	KafkaConfig KafkaConfig
}

// Load reads configuration from HOSTELLA_* environment variables, pulling in a .env
// file first when APP_ENV is development.
func Load() (*ServiceConfig, error) {
	if env := os.Getenv("APP_ENV"); env == "" || env == "development" {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	appEnv := v.GetString("APP_ENV")
	if raw := os.Getenv("APP_ENV"); raw != "" {
		appEnv = raw
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:                     port,
		AppEnv:                   appEnv,
		APIBaseURL:               strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		RequestTimeout:           v.GetDuration("REQUEST_TIMEOUT"),
		SocketURL:                v.GetString("SOCKET_URL"),
		AdminID:                  v.GetString("ADMIN_ID"),
		RedisURL:                 v.GetString("REDIS_URL"),
		NotificationPollInterval: v.GetDuration("NOTIFICATION_POLL_INTERVAL"),
		CORSOrigins:              splitList(v.GetString("CORS_ORIGINS")),
		ProtectedPrefixes:        splitList(v.GetString("PROTECTED_PREFIXES")),
		DBConfig: database.Config{
			Driver:       v.GetString("DB_DRIVER"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			Path:         v.GetString("DB_PATH"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:       splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix:   v.GetString("KAFKA_GROUP_PREFIX"),
			PaymentTopic:  v.GetString("KAFKA_PAYMENT_TOPIC"),
			BookingTopic:  v.GetString("KAFKA_BOOKING_TOPIC"),
			EventsEnabled: v.GetBool("KAFKA_ENABLED"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SOCKET_URL", "")
	v.SetDefault("ADMIN_ID", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("NOTIFICATION_POLL_INTERVAL", 2*time.Minute)
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("PROTECTED_PREFIXES", "/dashboard,/api/v1/admin")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hostella_admin")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "hostella-admin.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "hostella-")
	v.SetDefault("KAFKA_PAYMENT_TOPIC", "payment.events")
	v.SetDefault("KAFKA_BOOKING_TOPIC", "admin.booking.events")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
