package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"summaryplus/internal/models"
)

// ErrNotFound reports an unknown (or expired) session identifier.
var ErrNotFound = errors.New("session not found")

const DefaultTTL = 24 * time.Hour

// Store is the session registry behind the upload and question flows.
// Implementations must apply each mutation atomically; callers receive
// snapshots and never share mutable state with the store.
type Store interface {
	// GetOrCreate returns the session for id, minting a fresh identifier
	// and an empty session when id is blank or unknown. Never fails on an
	// unknown id.
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)
	// Get returns the session for id or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)
	// AddFile stores one uploaded file under the session.
	AddFile(ctx context.Context, sessionID string, file *models.StoredFile) error
	// AppendTurns appends chat turns, in order, to the session history.
	AppendTurns(ctx context.Context, sessionID string, turns ...models.ChatTurn) error
}

// NewID mints an opaque 128-bit session identifier.
func NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
