package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"EODH_ENVIRONMENT", "EODH_STAC_URL", "EODH_OUTPUT_DIR",
		"SH_CLIENT_ID", "SH_CLIENT_SECRET", "SH_TOKEN_URL",
		"EODH_ADES_URL", "EODH_ADES_TOKEN", "EODH_USERNAME",
	} {
		t.Setenv(key, "")
	}

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", s.Environment)
	assert.Equal(t, "https://staging.eodatahub.org.uk/api/catalogue/stac", s.STACURL)
	assert.Equal(t, "stac-output", s.OutputDir)
	assert.Equal(t, "https://services.sentinel-hub.com/auth/realms/main/protocol/openid-connect/token", s.SentinelHub.TokenURL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("EODH_ENVIRONMENT", "prod")
	t.Setenv("EODH_STAC_URL", "https://eodatahub.org.uk/api/catalogue/stac")
	t.Setenv("EODH_OUTPUT_DIR", "/tmp/out")
	t.Setenv("SH_CLIENT_ID", "id")
	t.Setenv("SH_CLIENT_SECRET", "secret")
	t.Setenv("EODH_ADES_URL", "https://ades.example.com/workspace/ogc-api")
	t.Setenv("EODH_ADES_TOKEN", "tok")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", s.Environment)
	assert.Equal(t, "https://eodatahub.org.uk/api/catalogue/stac", s.STACURL)
	assert.Equal(t, "/tmp/out", s.OutputDir)
	assert.Equal(t, "id", s.SentinelHub.ClientID)
	assert.Equal(t, "tok", s.ADES.Token)
}

func TestRequireSentinelHub(t *testing.T) {
	s := &Settings{}
	assert.ErrorIs(t, s.RequireSentinelHub(), ErrMissingCredentials)

	s.SentinelHub.ClientID = "id"
	assert.ErrorIs(t, s.RequireSentinelHub(), ErrMissingCredentials)

	s.SentinelHub.ClientSecret = "secret"
	assert.NoError(t, s.RequireSentinelHub())
}

func TestRequireADES(t *testing.T) {
	s := &Settings{}
	assert.ErrorIs(t, s.RequireADES(), ErrMissingADES)

	s.ADES.URL = "https://ades.example.com/workspace/ogc-api"
	assert.NoError(t, s.RequireADES())
}
