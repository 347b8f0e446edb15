package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
	"github.com/ewilliams-labs/woodshed/internal/core/ports"
)

// Enricher augments stored profile songs with live artwork pulled from the
// catalog at read time. A failed fetch degrades to nil artwork; enrichment
// never fails the surrounding read.
type Enricher struct {
	catalog ports.CatalogProvider
	log     *logrus.Logger
}

// NewEnricher constructs an Enricher.
func NewEnricher(catalog ports.CatalogProvider, log *logrus.Logger) *Enricher {
	if log == nil {
		log = logrus.New()
	}
	return &Enricher{catalog: catalog, log: log}
}

// Enrich resolves artwork for a single row.
func (e *Enricher) Enrich(ctx context.Context, row domain.ProfileSongDetail) domain.EnrichedProfileSong {
	out := domain.EnrichedProfileSong{
		ProfileSong: row.ProfileSong,
		Song:        domain.EnrichedSong{Song: row.Song},
	}
	if row.Song.ExternalID == "" {
		return out
	}

	track, err := e.catalog.GetTrack(ctx, row.Song.ExternalID)
	if err != nil {
		e.log.WithError(err).WithField("spotify_track_id", row.Song.ExternalID).
			Warn("artwork lookup failed, serving row without it")
		return out
	}

	out.Song.AlbumImageURL = pickArtwork(track.ArtworkURLs)
	return out
}

// EnrichAll enriches every row concurrently. Output order matches input
// order regardless of per-row fetch latency or failure.
func (e *Enricher) EnrichAll(ctx context.Context, rows []domain.ProfileSongDetail) []domain.EnrichedProfileSong {
	enriched := make([]domain.EnrichedProfileSong, len(rows))

	var wg sync.WaitGroup
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row domain.ProfileSongDetail) {
			defer wg.Done()
			enriched[i] = e.Enrich(ctx, row)
		}(i, row)
	}
	wg.Wait()

	return enriched
}

// pickArtwork selects the second-highest-resolution image when available.
// The largest image is oversized for list views; the provider orders
// images by descending resolution.
func pickArtwork(urls []string) *string {
	switch {
	case len(urls) > 1:
		return &urls[1]
	case len(urls) == 1:
		return &urls[0]
	default:
		return nil
	}
}
