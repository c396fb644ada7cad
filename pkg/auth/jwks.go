package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/url"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// jwk is a single JSON Web Key, covering the RSA and EC fields this
// gateway supports.
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// jwkSet is the JSON Web Key Set document served at a JWKS endpoint.
type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwkEntry struct {
	key any // *rsa.PublicKey or *ecdsa.PublicKey
	alg string
}

const jwksNamedCacheSize = 64

// JWKSCache fetches and caches a remote JWKS document, keyed by `kid`,
// with a background refresh loop and an on-demand refresh whenever the
// cached set has never been fetched or is older than the TTL. A lookup
// for an unknown kid on a fresh cache does not trigger a refetch.
// Named keys live in an expirable LRU (one fixed TTL for the whole
// cache, exactly what that type is for); unnamed keys are a small slice
// refreshed alongside it, since an LRU keyed by `kid` has nowhere to put
// a key that has none.
type JWKSCache struct {
	uri    *url.URL
	client *http.Client
	ttl    time.Duration

	named *lru.LRU[string, jwkEntry]

	mu             sync.RWMutex
	unnamed        []jwkEntry
	lastRefresh    time.Time
	lastRefreshSet bool

	refreshMu sync.Mutex
}

// NewJWKSCache builds an empty cache that fetches from uri on first use.
func NewJWKSCache(uri *url.URL, ttl time.Duration) *JWKSCache {
	return &JWKSCache{
		uri:    uri,
		client: &http.Client{Timeout: 10 * time.Second},
		ttl:    ttl,
		named:  lru.NewLRU[string, jwkEntry](jwksNamedCacheSize, nil, ttl),
	}
}

// GetKey returns a decoding key suitable for alg, refreshing the cache
// first if it looks stale.
func (c *JWKSCache) GetKey(ctx context.Context, kid, alg string) (any, error) {
	if c.needsRefresh() {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	if kid != "" {
		if entry, ok := c.named.Get(kid); ok && entry.alg == alg {
			return entry.key, nil
		}
		return nil, errs.New(errs.KindAuthentication, fmt.Sprintf("key not found: %s", kid)).
			WithDetail("kid", kid)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, entry := range c.unnamed {
		if entry.alg == alg {
			return entry.key, nil
		}
	}
	for _, kid := range c.named.Keys() {
		if entry, ok := c.named.Peek(kid); ok && entry.alg == alg {
			return entry.key, nil
		}
	}
	return nil, errs.New(errs.KindAuthentication, "no matching key for algorithm").WithDetail("alg", alg)
}

// Refresh fetches the JWKS document and repopulates the cache.
func (c *JWKSCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	slog.Debug("refreshing jwks", "jwks_uri", c.uri.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri.String(), nil)
	if err != nil {
		return errs.Wrap(errs.KindAuthentication, "build jwks request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Wrap(errs.KindAuthentication, "jwks fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.New(errs.KindAuthentication, fmt.Sprintf("jwks endpoint returned HTTP %d", resp.StatusCode)).
			WithDetail("body", string(body))
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return errs.Wrap(errs.KindAuthentication, "jwks parse failed", err)
	}

	unnamed := make([]jwkEntry, 0)
	named := make(map[string]jwkEntry, len(set.Keys))

	for _, k := range set.Keys {
		entry, ok, err := decodeJWK(k)
		if err != nil {
			return err
		}
		if !ok {
			slog.Debug("skipping unsupported jwk", "kty", k.Kty)
			continue
		}
		if k.Kid != "" {
			named[k.Kid] = entry
		} else {
			unnamed = append(unnamed, entry)
		}
	}

	c.named.Purge()
	for kid, entry := range named {
		c.named.Add(kid, entry)
	}

	c.mu.Lock()
	c.unnamed = unnamed
	c.lastRefresh = time.Now()
	c.lastRefreshSet = true
	c.mu.Unlock()

	slog.Info("jwks refreshed", "keys_count", len(named)+len(unnamed))
	return nil
}

func (c *JWKSCache) needsRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.lastRefreshSet || time.Since(c.lastRefresh) > c.ttl
}

// keysCount reports the total number of cached keys, for tests.
func (c *JWKSCache) keysCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.named.Len() + len(c.unnamed)
}

func decodeJWK(k jwk) (jwkEntry, bool, error) {
	alg := k.Alg
	if alg == "" {
		switch k.Kty {
		case "RSA":
			alg = "RS256"
		case "EC":
			switch k.Crv {
			case "P-256":
				alg = "ES256"
			case "P-384":
				alg = "ES384"
			default:
				return jwkEntry{}, false, nil
			}
		default:
			return jwkEntry{}, false, nil
		}
	}

	switch k.Kty {
	case "RSA":
		if k.N == "" || k.E == "" {
			return jwkEntry{}, false, errs.New(errs.KindAuthentication, "jwks parse failed: missing n/e in RSA key")
		}
		n, err := base64urlBigInt(k.N)
		if err != nil {
			return jwkEntry{}, false, errs.Wrap(errs.KindAuthentication, "invalid RSA modulus", err)
		}
		e, err := base64urlInt(k.E)
		if err != nil {
			return jwkEntry{}, false, errs.Wrap(errs.KindAuthentication, "invalid RSA exponent", err)
		}
		return jwkEntry{key: &rsa.PublicKey{N: n, E: e}, alg: alg}, true, nil

	case "EC":
		if k.X == "" || k.Y == "" {
			return jwkEntry{}, false, errs.New(errs.KindAuthentication, "jwks parse failed: missing x/y in EC key")
		}
		curve, err := ecCurve(k.Crv)
		if err != nil {
			return jwkEntry{}, false, err
		}
		x, err := base64urlBigInt(k.X)
		if err != nil {
			return jwkEntry{}, false, errs.Wrap(errs.KindAuthentication, "invalid EC x coordinate", err)
		}
		y, err := base64urlBigInt(k.Y)
		if err != nil {
			return jwkEntry{}, false, errs.Wrap(errs.KindAuthentication, "invalid EC y coordinate", err)
		}
		return jwkEntry{key: &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, alg: alg}, true, nil

	default:
		return jwkEntry{}, false, nil
	}
}

func ecCurve(crv string) (elliptic.Curve, error) {
	switch crv {
	case "P-256":
		return elliptic.P256(), nil
	case "P-384":
		return elliptic.P384(), nil
	default:
		return nil, errs.New(errs.KindAuthentication, fmt.Sprintf("unsupported EC curve: %s", crv))
	}
}

func base64urlBigInt(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

func base64urlInt(s string) (int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, err
	}
	n := new(big.Int).SetBytes(b)
	return int(n.Int64()), nil
}

// RefreshLoop runs Refresh on a ticker until ctx is cancelled, matching
// the background-refresh half of the original's JwksRefreshTask.
func (c *JWKSCache) RefreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				slog.Warn("background jwks refresh failed", "error", err)
			}
		case <-ctx.Done():
			slog.Debug("jwks refresh loop shutting down")
			return
		}
	}
}
