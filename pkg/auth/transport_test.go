package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func echoAuthServer(t *testing.T, header string) (*httptest.Server, *string) {
	t.Helper()
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(header)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestAPIKeyTransport(t *testing.T) {
	server, got := echoAuthServer(t, "X-Api-Key")

	httpClient := &http.Client{Transport: &APIKeyTransport{Key: "k-123", Header: "X-Api-Key"}}
	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "k-123", *got)
}

func TestAPIKeyTransport_DefaultHeader(t *testing.T) {
	server, got := echoAuthServer(t, "Authorization")

	httpClient := &http.Client{Transport: &APIKeyTransport{Key: "k-123"}}
	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "k-123", *got)
}

func TestBearerTokenTransport(t *testing.T) {
	server, got := echoAuthServer(t, "Authorization")

	httpClient := &http.Client{Transport: &BearerTokenTransport{Token: "offline-token"}}
	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer offline-token", *got)
}

func TestBearerTokenTransport_EmptyToken(t *testing.T) {
	server, got := echoAuthServer(t, "Authorization")

	httpClient := &http.Client{Transport: &BearerTokenTransport{}}
	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, *got)
}

func TestBearerTokenTransport_DoesNotMutateRequest(t *testing.T) {
	server, _ := echoAuthServer(t, "Authorization")

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	httpClient := &http.Client{Transport: &BearerTokenTransport{Token: "tok"}}
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestTokenSourceTransport(t *testing.T) {
	server, got := echoAuthServer(t, "Authorization")

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "minted", TokenType: "Bearer"})
	httpClient := &http.Client{Transport: &TokenSourceTransport{Source: source}}
	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer minted", *got)
}

func TestClientCredentialsSource(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostFormValue("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"issued","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	source := ClientCredentialsSource("id", "secret", server.URL)

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "issued", token.AccessToken)

	// A still-valid token is reused, not re-minted.
	_, err = source.Token()
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}
