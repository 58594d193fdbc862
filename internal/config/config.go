// Package config loads workflow settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	defaultSTACEndpoint = "https://staging.eodatahub.org.uk/api/catalogue/stac"
	defaultTokenURL     = "https://services.sentinel-hub.com/auth/realms/main/protocol/openid-connect/token"
	defaultOutputDir    = "stac-output"
)

// ErrMissingCredentials is returned when a component requiring the
// Sentinel Hub OAuth2 client is used without SH_CLIENT_ID/SH_CLIENT_SECRET.
var ErrMissingCredentials = errors.New("config: SH_CLIENT_ID and SH_CLIENT_SECRET must be set")

// ErrMissingADES is returned when ADES commands run without EODH_ADES_URL.
var ErrMissingADES = errors.New("config: EODH_ADES_URL must be set")

// SentinelHub holds the OAuth2 client-credentials configuration for the
// Sentinel-Hub-compatible catalogue.
type SentinelHub struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// ADES holds the execution-service endpoint and credentials.
type ADES struct {
	URL      string
	Token    string
	Username string
}

// Settings is the resolved runtime configuration.
type Settings struct {
	Environment string
	STACURL     string
	OutputDir   string
	SentinelHub SentinelHub
	ADES        ADES
}

// Load reads settings from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Settings, error) {
	// godotenv.Load does not override variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	s := &Settings{
		Environment: getenv("EODH_ENVIRONMENT", "local"),
		STACURL:     getenv("EODH_STAC_URL", defaultSTACEndpoint),
		OutputDir:   getenv("EODH_OUTPUT_DIR", filepath.Join(".", defaultOutputDir)),
		SentinelHub: SentinelHub{
			ClientID:     os.Getenv("SH_CLIENT_ID"),
			ClientSecret: os.Getenv("SH_CLIENT_SECRET"),
			TokenURL:     getenv("SH_TOKEN_URL", defaultTokenURL),
		},
		ADES: ADES{
			URL:      os.Getenv("EODH_ADES_URL"),
			Token:    os.Getenv("EODH_ADES_TOKEN"),
			Username: os.Getenv("EODH_USERNAME"),
		},
	}
	return s, nil
}

// RequireSentinelHub validates that the OAuth2 client is configured.
func (s *Settings) RequireSentinelHub() error {
	if s.SentinelHub.ClientID == "" || s.SentinelHub.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}

// RequireADES validates that the execution service is configured.
func (s *Settings) RequireADES() error {
	if s.ADES.URL == "" {
		return ErrMissingADES
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
