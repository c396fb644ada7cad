package auth

import "os"

// envHTTPBearerToken mirrors the original HTTP transport's HttpConfig::from_env,
// which reads only MCP_HTTP_BEARER_TOKEN into AuthConfig::new(bearer_token) —
// the richer JWT/tenant/RBAC settings have no environment-loading counterpart
// in the original either, so LoadFromEnv leaves them at their defaults and
// callers that need JWT mode construct it programmatically.
const envHTTPBearerToken = "MCP_HTTP_BEARER_TOKEN"

// LoadFromEnv builds a Config the way the original's HTTP transport does:
// a bearer token from MCP_HTTP_BEARER_TOKEN enables ModeBearerToken, its
// absence leaves authentication disabled. Use the Config fields directly
// (or a Config literal) to configure JWT/tenant/RBAC instead.
func LoadFromEnv() Config {
	cfg := DefaultConfig()
	if token, ok := os.LookupEnv(envHTTPBearerToken); ok && token != "" {
		cfg.Mode = ModeBearerToken
		cfg.BearerToken = token
	}
	return cfg
}
