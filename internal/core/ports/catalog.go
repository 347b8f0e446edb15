package ports

import (
	"context"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

// CatalogProvider is the outbound port to the external music catalog.
// Implementations own token lifecycle, throttling and timeouts; callers
// only see tracks or an error.
type CatalogProvider interface {
	// SearchTracks returns the provider's results for a free-text query,
	// in provider relevance order.
	SearchTracks(ctx context.Context, query string) ([]domain.Track, error)

	// GetTrack fetches current metadata (including artwork) for one track.
	GetTrack(ctx context.Context, externalID string) (domain.Track, error)
}
