// Package session keeps the aggregation state of each quoting session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/flowshift/quoter/common/aggregation"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Session is one user's quoting workspace
type Session struct {
	ID        string             `json:"id"`
	State     *aggregation.State `json:"state"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Store persists sessions. Implementations must apply Update atomically:
// either every change made by fn is stored or none is, and concurrent
// updates of one session never interleave.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*aggregation.State) error) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func (s *Session) clone() *Session {
	cp := *s
	cp.State = s.State.Clone()
	return &cp
}
