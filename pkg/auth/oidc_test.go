package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverJWKSURI_Success(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":   server.URL,
			"jwks_uri": server.URL + "/jwks.json",
		})
	}))
	defer server.Close()

	issuer, _ := url.Parse(server.URL)
	jwksURI, err := DiscoverJWKSURI(context.Background(), issuer)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/jwks.json", jwksURI.String())
}

func TestDiscoverJWKSURI_IssuerMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":   "https://wrong-issuer.example.com",
			"jwks_uri": "https://wrong-issuer.example.com/jwks.json",
		})
	}))
	defer server.Close()

	issuer, _ := url.Parse(server.URL)
	_, err := DiscoverJWKSURI(context.Background(), issuer)
	assert.Error(t, err)
}

func TestDiscoverJWKSURI_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	issuer, _ := url.Parse(server.URL)
	_, err := DiscoverJWKSURI(context.Background(), issuer)
	assert.Error(t, err)
}
