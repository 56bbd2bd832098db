package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "OAS_CONFIG"

type Config struct {
	// Server
	ServerPort     string        `yaml:"serverPort"`
	ServerHost     string        `yaml:"serverHost"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	MaxRequestBody int64         `yaml:"maxRequestBody"`

	// Database
	PostgresHost     string `yaml:"postgresHost"`
	PostgresPort     string `yaml:"postgresPort"`
	PostgresUser     string `yaml:"postgresUser"`
	PostgresPassword string `yaml:"postgresPassword"`
	PostgresDB       string `yaml:"postgresDB"`
	PostgresSSLMode  string `yaml:"postgresSSLMode"`

	// Redis
	RedisHost     string `yaml:"redisHost"`
	RedisPort     string `yaml:"redisPort"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`

	// Kafka
	KafkaBrokers        []string `yaml:"kafkaBrokers"`
	KafkaGroupID        string   `yaml:"kafkaGroupID"`
	PublishedTopic      string   `yaml:"publishedTopic"`
	BroadcastEventTopic string   `yaml:"broadcastEventTopic"`

	// OA Switchboard
	SwitchboardURL        string        `yaml:"switchboardURL"`
	SwitchboardSandboxURL string        `yaml:"switchboardSandboxURL"`
	SwitchboardTimeout    time.Duration `yaml:"switchboardTimeout"`

	// Settings cache
	SettingsCacheTTL time.Duration `yaml:"settingsCacheTTL"`

	// Editor/staff tokens
	JWTSecret   string        `yaml:"jwtSecret"`
	JWTIssuer   string        `yaml:"jwtIssuer"`
	JWTAudience string        `yaml:"jwtAudience"`
	JWTTTL      time.Duration `yaml:"jwtTTL"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// OAS_CONFIG, and finally environment variables. A named file that cannot be
// read or parsed is an error.
func Load() (*Config, error) {
	if path := os.Getenv(configPathEnv); path != "" {
		return LoadFile(path)
	}
	cfg := defaults()
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile is Load with an explicit YAML path instead of OAS_CONFIG.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:     "8080",
		ServerHost:     "0.0.0.0",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   90 * time.Second,
		MaxRequestBody: 4 * 1024 * 1024,

		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresUser:    "oas",
		PostgresDB:      "oas",
		PostgresSSLMode: "disable",

		RedisHost: "localhost",
		RedisPort: "6379",

		KafkaBrokers:        []string{"localhost:9092"},
		KafkaGroupID:        "oas-broadcaster",
		PublishedTopic:      "article.published",
		BroadcastEventTopic: "oas.broadcast",

		SwitchboardURL:        "https://api.oaswitchboard.org/v2/",
		SwitchboardSandboxURL: "https://sandbox.oaswitchboard.org/v2/",
		SwitchboardTimeout:    30 * time.Second,

		SettingsCacheTTL: 5 * time.Minute,

		JWTIssuer:   "oas-broadcaster",
		JWTAudience: "oas-editors",
		JWTTTL:      time.Hour,
	}
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.ServerHost = getEnv("SERVER_HOST", c.ServerHost)
	c.ReadTimeout = getDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.MaxRequestBody = int64(getIntEnv("MAX_REQUEST_BODY_BYTES", int(c.MaxRequestBody)))

	c.PostgresHost = getEnv("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = getEnv("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = getEnv("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = getEnv("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresDB = getEnv("POSTGRES_DB", c.PostgresDB)
	c.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", c.PostgresSSLMode)

	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnv("REDIS_PORT", c.RedisPort)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getIntEnv("REDIS_DB", c.RedisDB)

	c.KafkaBrokers = getStringSliceEnv("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaGroupID = getEnv("KAFKA_GROUP_ID", c.KafkaGroupID)
	c.PublishedTopic = getEnv("KAFKA_PUBLISHED_TOPIC", c.PublishedTopic)
	c.BroadcastEventTopic = getEnv("KAFKA_BROADCAST_TOPIC", c.BroadcastEventTopic)

	c.SwitchboardURL = getEnv("OAS_URL", c.SwitchboardURL)
	c.SwitchboardSandboxURL = getEnv("OAS_SANDBOX_URL", c.SwitchboardSandboxURL)
	c.SwitchboardTimeout = getDuration("OAS_TIMEOUT", c.SwitchboardTimeout)

	c.SettingsCacheTTL = getDuration("SETTINGS_CACHE_TTL", c.SettingsCacheTTL)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTAudience = getEnv("JWT_AUDIENCE", c.JWTAudience)
	c.JWTTTL = getDuration("JWT_TTL", c.JWTTTL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		brokers := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				brokers = append(brokers, trimmed)
			}
		}
		if len(brokers) > 0 {
			return brokers
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
