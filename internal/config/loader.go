// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/gateway.yaml`.
  3. Environment variables prefixed `FORMGATE_`, where `__` maps to “.”
     (e.g., `FORMGATE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, any string value beginning with `vault:` is resolved through
the Vault client, defaults are applied, the tree is unmarshalled into
strongly-typed structs, validated, enriched with the runtime root path, and
cached in an `atomic.Pointer` for lock-free reads.  `Reload()` simply calls
`Load()` again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/gateway.yaml`;
    this lets `go run ./cmd/gateway` work from any sub-directory.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/joffcom/formgate/internal/vault"
)

var current atomic.Pointer[Config]

// Fallback defaults applied when neither YAML nor env supplies a value.
const (
	defaultListenAddr   = ":8080"
	defaultFormsDir     = "forms"
	defaultMaxBodyBytes = 16 << 20 // 16 MiB
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves FORMGATE_ROOT or climbs directories until
// conf/gateway.yaml is found.  Falls back to executable heuristic for
// production layout.
func rootDir() string {
	if r := os.Getenv("FORMGATE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "gateway.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	// The YAML file is optional; env overrides plus defaults are enough for
	// a minimal install.
	yamlPath := filepath.Join(root, "conf", "gateway.yaml")
	if _, statErr := os.Stat(yamlPath); statErr == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
	}

	// Env overrides: FORMGATE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("FORMGATE_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, "FORMGATE_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(k); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"forms_dir", cfg.Forms.Dir,
		"max_body_bytes", cfg.Ingest.MaxBodyBytes,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets swaps every `vault:` reference in the merged tree for its
// secret value.  The Vault client is constructed lazily, so installs without
// Vault never touch it.
func resolveSecrets(k *koanf.Koanf) error {
	var cli *vault.Client
	for key, val := range k.All() {
		ref, ok := val.(string)
		if !ok || !vault.IsRef(ref) {
			continue
		}
		if cli == nil {
			var err error
			if cli, err = vault.New(); err != nil {
				return err
			}
		}
		resolved, err := cli.Lookup(context.Background(), ref)
		if err != nil {
			return err
		}
		if err := k.Set(key, resolved); err != nil {
			return err
		}
	}
	return nil
}

// applyDefaults fills the gaps the overlays left.  Absence falls back to a
// documented default, never to a zero that validation would reject.
func applyDefaults(cfg *Config) {
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = defaultListenAddr
	}
	if cfg.Forms.Dir == "" {
		cfg.Forms.Dir = defaultFormsDir
	}
	if cfg.Ingest.MaxBodyBytes == 0 {
		cfg.Ingest.MaxBodyBytes = defaultMaxBodyBytes
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
