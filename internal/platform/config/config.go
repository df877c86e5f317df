package config

import (
	"os"
	"strings"
	"time"
)

// ProfileCacheTTL bounds staleness of cached profile lookups.
var ProfileCacheTTL = 5 * time.Minute

// Server captures process-level configuration.
type Server struct {
	Addr         string
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
	Production   bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SLATED_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "slated.audit-log"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:         addr,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		KafkaBrokers: brokers,
		KafkaTopic:   topic,
		Production:   os.Getenv("APP_ENV") == "production",
	}
}
