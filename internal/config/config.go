package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/storeops/posdesk-backend/internal/modules/lookup"
	"github.com/storeops/posdesk-backend/internal/modules/reprint"
	"github.com/storeops/posdesk-backend/internal/modules/storedb"
)

// Config is everything the process reads from its environment. A .env file
// is honored when present; every key has a working default except the
// database credentials and the auth secret.
type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DB         storedb.Config

	PrintAPIURL     string
	PrintAPITimeout time.Duration
	Reprint         reprint.Config

	PoolCapacity int

	AuthSecret    string
	AuthOperators map[string]string
}

func Load() (*Config, error) {
	// Missing .env is fine in provisioned environments.
	_ = godotenv.Load()

	cfg := &Config{
		Port:       envString("APP_PORT", "8080"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DB: storedb.Config{
			ConnectTimeout:     envDuration("DB_CONNECT_TIMEOUT", 15*time.Second),
			QueryTimeout:       envDuration("DB_QUERY_TIMEOUT", 30*time.Second),
			SlowQueryThreshold: envDuration("DB_SLOW_QUERY_THRESHOLD", 3*time.Second),
			MaxRetries:         envInt("DB_MAX_RETRIES", 2),
			BackoffStep:        envDuration("DB_BACKOFF_STEP", 2*time.Second),
		},
		PrintAPIURL:     envString("PRINT_API_URL", "http://192.168.101.96:5000/api/ImpresionTickets/Impresion"),
		PrintAPITimeout: envDuration("PRINT_API_TIMEOUT", 30*time.Second),
		PoolCapacity:    envInt("WORKER_POOL_CAPACITY", 64),
		AuthSecret:      os.Getenv("AUTH_SECRET"),
		AuthOperators:   parseOperators(os.Getenv("AUTH_OPERATORS")),
	}

	cfg.Reprint = reprint.DefaultConfig()
	cfg.Reprint.Limits = map[lookup.DocumentType]int{
		lookup.DocumentInvoice:       envInt("REPRINT_LIMIT_INVOICE", 1),
		lookup.DocumentCreditNote:    envInt("REPRINT_LIMIT_CREDIT_NOTE", 1),
		lookup.DocumentKitchenTicket: envInt("REPRINT_LIMIT_KITCHEN_TICKET", 2),
	}
	if v := os.Getenv("PRINT_PAYLOAD_ROUTINE"); v != "" {
		cfg.Reprint.PayloadRoutine = v
	}
	if v := os.Getenv("PRINT_BILLING_ROUTINE"); v != "" {
		cfg.Reprint.BillingRoutine = v
	}
	if v := os.Getenv("PRINT_KITCHEN_ROUTINE"); v != "" {
		cfg.Reprint.KitchenRoutine = v
	}
	if v := os.Getenv("PRINT_FINAL_ROUTINE"); v != "" {
		cfg.Reprint.FinalRoutine = v
	}

	if cfg.DBUser == "" || cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_USER and DB_PASSWORD are required")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	return cfg, nil
}

// parseOperators reads "id:bcrypt-hash,id:bcrypt-hash" pairs.
func parseOperators(raw string) map[string]string {
	operators := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, hash, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		operators[id] = hash
	}
	return operators
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
