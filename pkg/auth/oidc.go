package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// discoveryDocument is the subset of an OIDC provider's
// /.well-known/openid-configuration document this gateway needs. No OIDC
// client library is available in this module's dependency set, so
// discovery is a plain HTTP GET + JSON decode rather than a dedicated
// client type.
type discoveryDocument struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// DiscoverJWKSURI fetches issuer's discovery document and returns its
// jwks_uri, verifying the document's own issuer matches.
func DiscoverJWKSURI(ctx context.Context, issuer *url.URL) (*url.URL, error) {
	discoveryURL := strings.TrimSuffix(issuer.String(), "/") + "/.well-known/openid-configuration"

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuthentication, "build discovery request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuthentication, "OIDC discovery failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindAuthentication, "OIDC discovery failed: unexpected status").
			WithDetail("status", resp.StatusCode)
	}

	var doc discoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.KindAuthentication, "OIDC discovery failed: invalid document", err)
	}

	expectedIssuer := strings.TrimSuffix(issuer.String(), "/")
	if strings.TrimSuffix(doc.Issuer, "/") != expectedIssuer {
		return nil, errs.New(errs.KindAuthentication, "OIDC discovery failed: issuer mismatch").
			WithDetail("expected", expectedIssuer).WithDetail("got", doc.Issuer)
	}

	jwksURI, err := url.Parse(doc.JWKSURI)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuthentication, "OIDC discovery failed: invalid jwks_uri", err)
	}
	return jwksURI, nil
}
