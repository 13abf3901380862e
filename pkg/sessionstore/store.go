package sessionstore

import (
	"Eventra/internal/entity"
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions with get-or-create semantics. Loads return
// an isolated copy and mutations become visible only through Save, so
// a turn that fails midway never corrupts the stored session.
//
// The store does not serialize concurrent turns for the same session
// id; the voice service holds a per-session lock for the whole turn
// (concurrent requests wait, none are rejected).
type Store interface {
	GetOrCreate(ctx context.Context, id string) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
}
