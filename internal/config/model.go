// internal/config/model.go
//
// Typed configuration model for Formgate.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/gateway.yaml`                        – primary static file,
//   • `FORMGATE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client before unmarshalling, so the model never stores
// Vault references—only plain strings.
//
// Validation happens immediately after unmarshal; the gateway fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.  PublicURL is the externally reachable
// base the gateway registers with the webhook bookkeeping store; leave it
// empty to skip registration.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	PublicURL  string `koanf:"public_url"  validate:"omitempty,url"`
}

//
// Forms section
//

// Forms locates the YAML form definitions loaded at boot.
type Forms struct {
	Dir string `koanf:"dir" validate:"required"`
}

//
// Ingest section
//

// Ingest bounds the submission path.  MaxBodyBytes caps the accepted POST
// body, uploads included.
type Ingest struct {
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`
}

//
// Trigger section
//

// Trigger selects the event downstream.  An empty WebhookURL keeps the log
// emitter.
type Trigger struct {
	WebhookURL string `koanf:"webhook_url" validate:"omitempty,url"`
}

//
// Database section
//

// Database configures the optional webhook-registration store.  The DSN may
// be a `vault:` reference; it arrives here already resolved.  Empty DSN
// disables registration bookkeeping entirely.
type Database struct {
	DSN string `koanf:"dsn"`
}

//
// Geo section
//

// Geo points at an optional MaxMind database for request enrichment.  Empty
// path disables geo lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or FORMGATE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the process lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Forms    Forms    `koanf:"forms"`
	Ingest   Ingest   `koanf:"ingest"`
	Trigger  Trigger  `koanf:"trigger"`
	Database Database `koanf:"database"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
