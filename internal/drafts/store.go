// Package drafts keeps route drafts between requests. Drafts are scoped to a company and
// expire; they are never a system of record.
package drafts

import (
	"context"
	"errors"
	"time"

	"farelink_admin/internal/routebuilder"
)

var ErrDraftNotFound = errors.New("draft not found")

// submitGuardTTL bounds how long a crashed save can block retries.
const submitGuardTTL = 2 * time.Minute

// Store persists drafts and the per-draft submit guard.
type Store interface {
	Get(ctx context.Context, companyID, id string) (routebuilder.Draft, error)
	Put(ctx context.Context, draft routebuilder.Draft) error
	Delete(ctx context.Context, companyID, id string) error

	// AcquireSubmit reports false if a save of this draft is already in flight.
	AcquireSubmit(ctx context.Context, companyID, id string) (bool, error)
	ReleaseSubmit(ctx context.Context, companyID, id string) error
}
