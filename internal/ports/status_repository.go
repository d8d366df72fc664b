package ports

import (
	"context"

	"github.com/bft-labs/ooqd/internal/domain"
)

// StatusRepository persists the summary of the most recent drain.
type StatusRepository interface {
	// Load retrieves the last saved summary.
	// Returns an empty summary and nil error if none exists.
	Load(ctx context.Context) (domain.DrainStats, error)

	// Save persists the summary atomically.
	Save(ctx context.Context, stats domain.DrainStats) error
}
