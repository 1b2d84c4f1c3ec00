// internal/vault/vault.go
//
// Vault client wrapper for Formgate.
//
// Context
// -------
//   - Thin, concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Exists so configuration values can reference secrets as
//     "vault:<mount>/<path>#<key>" instead of carrying credentials in flat
//     files; the config loader resolves those references through Lookup.
//   - Resolved values are cached per reference for the process lifetime,
//     which is fine for boot-time configuration.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// Client is safe for concurrent use.  Zero value is invalid; construct via
// New.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]string // reference → resolved value
}

// New constructs a Vault client from the process environment.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{api: apiCli, cache: make(map[string]string)}, nil
}

// IsRef reports whether a config value is a Vault reference.
func IsRef(v string) bool { return strings.HasPrefix(v, Prefix) }

// Lookup resolves a "vault:<mount>/<path>#<key>" reference against KV v2.
func (c *Client) Lookup(ctx context.Context, ref string) (string, error) {
	if !IsRef(ref) {
		return "", fmt.Errorf("not a vault reference: %q", ref)
	}

	c.cacheMu.RLock()
	if v, ok := c.cache[ref]; ok {
		c.cacheMu.RUnlock()
		return v, nil
	}
	c.cacheMu.RUnlock()

	spec := strings.TrimPrefix(ref, Prefix)
	pathPart, key, ok := strings.Cut(spec, "#")
	if !ok || key == "" {
		return "", fmt.Errorf("vault reference %q: want <mount>/<path>#<key>", ref)
	}
	mount, rel, ok := strings.Cut(pathPart, "/")
	if !ok || rel == "" {
		return "", fmt.Errorf("vault reference %q: missing secret path", ref)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", pathPart, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, pathPart)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", errors.New("vault value at " + ref + " is not a string")
	}

	c.cacheMu.Lock()
	c.cache[ref] = sval
	c.cacheMu.Unlock()
	return sval, nil
}
