package source

import (
	"context"

	"github.com/timmy/arbitrage/internal/domain"
)

// Source defines where a manifest comes from.
type Source interface {
	// GetSourceID returns a stable identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: identifier with a kind prefix, e.g. "file:pallet.csv".
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	// Parameters: none.
	// Returns:
	//   - string: display-friendly source name.
	GetDisplayName() string

	// Read loads the manifest.
	// Parameters:
	//   - ctx: context for cancellation.
	// Returns:
	//   - domain.Manifest: manifest ready for submission.
	//   - error: non-nil if the manifest cannot be read.
	Read(ctx context.Context) (domain.Manifest, error)
}
