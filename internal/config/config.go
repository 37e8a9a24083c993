// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is everything the server needs at startup.
type Config struct {
	Addr        string
	DatabaseURL string
	TokenKey    string
	CertFile    string
	KeyFile     string

	ReinforcementModelPath string
	StructuralModelPath    string

	AllowableSettlementMM float64
	BearingCapacityKPa    float64
	SpacingIncrementMM    float64
	MinSpacingMM          float64
	MaxSpacingMM          float64
}

// Load reads the environment. A missing .env file is fine; missing
// required keys are not.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:                   getString("ADDR", ":8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		TokenKey:               os.Getenv("TOKEN_KEY"),
		CertFile:               os.Getenv("TLS_CERT_FILE"),
		KeyFile:                os.Getenv("TLS_KEY_FILE"),
		ReinforcementModelPath: getString("REINFORCEMENT_MODEL_PATH", "models/reinforcement.json"),
		StructuralModelPath:    getString("STRUCTURAL_MODEL_PATH", "models/structural.json"),
	}

	var err error
	if cfg.AllowableSettlementMM, err = getFloat("ALLOWABLE_SETTLEMENT_MM", 50); err != nil {
		return Config{}, err
	}
	if cfg.BearingCapacityKPa, err = getFloat("BEARING_CAPACITY_KPA", 200); err != nil {
		return Config{}, err
	}
	if cfg.SpacingIncrementMM, err = getFloat("SPACING_INCREMENT_MM", 25); err != nil {
		return Config{}, err
	}
	if cfg.MinSpacingMM, err = getFloat("MIN_SPACING_MM", 75); err != nil {
		return Config{}, err
	}
	if cfg.MaxSpacingMM, err = getFloat("MAX_SPACING_MM", 300); err != nil {
		return Config{}, err
	}

	if cfg.TokenKey == "" {
		return Config{}, fmt.Errorf("TOKEN_KEY environment variable is not set")
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
