package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
)

type Config struct {
	Env         string
	LogLevel    string
	DataFile    string
	Store       string
	PostgresDSN string
	HTTPAddr    string
	KafkaBroker []string
	KafkaTopic  string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	cfg := Config{
		Env:         getenv("LEDGER_ENV", "production"),
		LogLevel:    getenv("LEDGER_LOG_LEVEL", ""),
		DataFile:    getenv("LEDGER_DATA_FILE", "accounts.csv"),
		Store:       strings.ToLower(getenv("LEDGER_STORE", StoreCSV)),
		PostgresDSN: os.Getenv("LEDGER_POSTGRES_DSN"),
		HTTPAddr:    getenv("LEDGER_HTTP_ADDR", ":8080"),
		KafkaBroker: splitList(os.Getenv("LEDGER_KAFKA_BROKERS")),
		KafkaTopic:  getenv("LEDGER_KAFKA_TOPIC", "ledger.events"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreCSV:
		if c.DataFile == "" {
			return errors.New("LEDGER_DATA_FILE must not be empty")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("LEDGER_POSTGRES_DSN is required when LEDGER_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown LEDGER_STORE %q", c.Store)
	}
	return nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
