// Package metadata defines the external metadata provider boundary and a
// cache for provider responses.
//
// One provider exists per media type (a MusicBrainz-like service for music,
// a TMDB-like service for video, an OpenLibrary-like service for books). All
// provider calls may fail or time out; callers must degrade to "no match"
// rather than failing the surrounding scan.
package metadata

import "context"

// Candidate is one search result from a provider.
type Candidate struct {
	ExternalID string
	Title      string
	Artist     string // artist/author/show, depending on media type
	Year       int
}

// Record is the full detail for one external ID.
type Record struct {
	ExternalID string
	Title      string
	Artist     string
	Year       int
	Tracks     []TrackRecord // music only
}

// TrackRecord is one track in a provider's release listing.
type TrackRecord struct {
	DiscNumber  int
	TrackNumber int
	Title       string
}

// Provider looks up external metadata.
type Provider interface {
	// SearchByTitle returns candidates for a title, optionally narrowed by
	// year (0 means any year).
	SearchByTitle(ctx context.Context, title string, year int) ([]Candidate, error)

	// GetDetailsByID returns the full record for an external ID, or nil
	// when the provider has no such record.
	GetDetailsByID(ctx context.Context, id string) (*Record, error)
}
