// Package config loads dashboard settings from the environment and an
// optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
)

const defaultRecordsBaseURL = "https://my.living-apps.de/rest"

// appIDEnv names the variable holding each entity's app identifier.
var appIDEnv = map[model.EntityType]string{
	model.EntityInstructors:  "APP_ID_DOZENTEN",
	model.EntityParticipants: "APP_ID_TEILNEHMER",
	model.EntityRooms:        "APP_ID_RAEUME",
	model.EntityCourses:      "APP_ID_KURSE",
	model.EntityEnrollments:  "APP_ID_ANMELDUNGEN",
}

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	RecordsBaseURL string
	RecordsAPIKey  string
	AppIDs         reference.AppIDs
	DBDSN          string
	CSRFKey        []byte
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults and
// checking required values.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:           withDefault(getenv("PORT"), "8080"),
		Environment:    withDefault(getenv("ENV"), "development"),
		LogLevel:       getenv("LOG_LEVEL"),
		RecordsBaseURL: withDefault(getenv("RECORDS_BASE_URL"), defaultRecordsBaseURL),
		RecordsAPIKey:  getenv("RECORDS_API_KEY"),
		DBDSN:          getenv("DB_DSN"),
		AppIDs:         make(reference.AppIDs, len(appIDEnv)),
	}

	for _, e := range model.Entities {
		key := appIDEnv[e]
		id := getenv(key)
		if id == "" {
			return nil, fmt.Errorf("%s is required but not set", key)
		}
		cfg.AppIDs[e] = id
	}

	key, err := csrfKey(getenv("CSRF_KEY"), cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	cfg.CSRFKey = key

	return cfg, nil
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// JournalEnabled reports whether a database is configured for the audit journal.
func (c *Config) JournalEnabled() bool {
	return c.DBDSN != ""
}

// CSRF_KEY is either 32 raw bytes or 64 hex characters. Outside production a
// random key is generated when it is unset.
func csrfKey(raw string, production bool) ([]byte, error) {
	switch {
	case len(raw) == 64:
		key, err := hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("CSRF_KEY: %w", err)
		}
		return key, nil
	case len(raw) == 32:
		return []byte(raw), nil
	case raw != "":
		return nil, fmt.Errorf("CSRF_KEY must be 32 bytes or 64 hex characters")
	case production:
		return nil, fmt.Errorf("CSRF_KEY is required in production")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}

func withDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
