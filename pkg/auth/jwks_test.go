package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rsaJWK(t *testing.T, kid string) jwk {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	n := base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes())
	eBytes := []byte{0x01, 0x00, 0x01} // 65537
	e := base64.RawURLEncoding.EncodeToString(eBytes)

	return jwk{Kid: kid, Kty: "RSA", Alg: "RS256", N: n, E: e}
}

func jwksServer(t *testing.T, keys []jwk) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwkSet{Keys: keys})
	}))
}

func TestJWKSCache_RefreshAndGetKey(t *testing.T) {
	key := rsaJWK(t, "key1")
	server := jwksServer(t, []jwk{key})
	defer server.Close()

	uri, _ := url.Parse(server.URL)
	cache := NewJWKSCache(uri, time.Hour)

	require.NoError(t, cache.Refresh(context.Background()))
	assert.Equal(t, 1, cache.keysCount())

	decoded, err := cache.GetKey(context.Background(), "key1", "RS256")
	require.NoError(t, err)
	assert.NotNil(t, decoded)
}

func TestJWKSCache_UnknownKid(t *testing.T) {
	server := jwksServer(t, []jwk{rsaJWK(t, "key1")})
	defer server.Close()

	uri, _ := url.Parse(server.URL)
	cache := NewJWKSCache(uri, time.Hour)
	require.NoError(t, cache.Refresh(context.Background()))

	_, err := cache.GetKey(context.Background(), "unknown", "RS256")
	assert.Error(t, err)
}

func TestJWKSCache_RefreshOnMiss(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwkSet{Keys: []jwk{rsaJWK(t, "key1")}})
	}))
	defer server.Close()

	uri, _ := url.Parse(server.URL)
	cache := NewJWKSCache(uri, time.Hour)

	_, err := cache.GetKey(context.Background(), "key1", "RS256")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestJWKSCache_UnsupportedKeyTypeSkipped(t *testing.T) {
	server := jwksServer(t, []jwk{{Kid: "oct1", Kty: "oct"}})
	defer server.Close()

	uri, _ := url.Parse(server.URL)
	cache := NewJWKSCache(uri, time.Hour)
	require.NoError(t, cache.Refresh(context.Background()))
	assert.Equal(t, 0, cache.keysCount())
}

func TestJWKSCache_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	uri, _ := url.Parse(server.URL)
	cache := NewJWKSCache(uri, time.Hour)
	assert.Error(t, cache.Refresh(context.Background()))
}
