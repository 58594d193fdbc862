// Package auth provides http.RoundTripper implementations that attach
// credentials to outgoing catalogue and execution-service requests.
package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// APIKeyTransport injects an API key header into outgoing requests.
type APIKeyTransport struct {
	Key    string
	Header string
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *APIKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	header := t.Header
	if header == "" {
		header = "Authorization"
	}
	if t.Key != "" {
		clone.Header.Set(header, t.Key)
	}
	return base(t.Base).RoundTrip(clone)
}

// BearerTokenTransport injects a static bearer token. This is the transport
// used against the ADES, which expects platform-issued offline tokens.
type BearerTokenTransport struct {
	Token string
	Base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.Token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.Token)
	}
	return base(t.Base).RoundTrip(clone)
}

// TokenSourceTransport injects tokens minted by an oauth2.TokenSource,
// refreshing them as they expire.
type TokenSourceTransport struct {
	Source oauth2.TokenSource
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *TokenSourceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Source.Token()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	token.SetAuthHeader(clone)
	return base(t.Base).RoundTrip(clone)
}

// ClientCredentialsSource builds a reusable token source for the
// client-credentials grant used by Sentinel-Hub-compatible catalogues.
func ClientCredentialsSource(clientID, clientSecret, tokenURL string) oauth2.TokenSource {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return cfg.TokenSource(context.Background())
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
