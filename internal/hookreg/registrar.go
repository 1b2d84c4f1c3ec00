// internal/hookreg/registrar.go
//
// Formgate – Webhook registration bookkeeping.
//
// Context
//   Some workflow hosts want to know which public form endpoints exist so
//   they can route events and tear endpoints down with the workflow.  That
//   bookkeeping is a collaborator concern with three operations: check
//   whether a target is already registered, register it, and unregister by
//   id.  The gateway calls these around its own lifecycle (register at boot,
//   unregister on shutdown); it never keeps registration state of its own.
//
// Workflow
//   •  Registrar is the interface handlers and main depend on.
//   •  SQLRegistrar is the bundled implementation, one row per registration
//      in the webhook_registration table, ids minted as UUIDs.
//
//------------------------------------------------------------------------------

package hookreg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Registrar is the webhook-registration collaborator.
type Registrar interface {
	// CheckExisting reports whether target is already registered.
	CheckExisting(ctx context.Context, target string) (bool, error)
	// Register records target and returns the new registration id.
	Register(ctx context.Context, target string) (string, error)
	// Unregister removes the registration.  The boolean is false when the
	// id was unknown.
	Unregister(ctx context.Context, id string) (bool, error)
}

// SQLRegistrar persists registrations through a sqlx pool.
type SQLRegistrar struct{ db *sqlx.DB }

// New wraps an open pool.  Callers own the pool's lifecycle.
func New(db *sqlx.DB) *SQLRegistrar { return &SQLRegistrar{db: db} }

// CheckExisting implements Registrar.
func (r *SQLRegistrar) CheckExisting(ctx context.Context, target string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM webhook_registration WHERE target = ? LIMIT 1`, target)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Register implements Registrar.
func (r *SQLRegistrar) Register(ctx context.Context, target string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO webhook_registration (id, target, created_at) VALUES (?, ?, ?)`,
		id, target, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

// Unregister implements Registrar.
func (r *SQLRegistrar) Unregister(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM webhook_registration WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
