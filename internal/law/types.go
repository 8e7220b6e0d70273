// Package law defines the domain types and interfaces shared by the
// refresh pipeline and the HTTP API.
package law

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no record exists for a law type.
var ErrNotFound = errors.New("law not found")

// Record is the persisted state for one law type: the cleaned markup and
// the moment it was last refreshed.
type Record struct {
	LawType   string    `json:"law_type"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogEntry binds a law type to the upstream page it is refreshed from.
type CatalogEntry struct {
	LawType string `mapstructure:"law_type" json:"law_type"`
	URL     string `mapstructure:"url" json:"url"`
}

// Store persists law records keyed by law type.
type Store interface {
	// Upsert writes the content for lawType, replacing any previous record.
	Upsert(ctx context.Context, lawType, content string) error
	// GetLatest returns the freshest record for lawType or ErrNotFound.
	GetLatest(ctx context.Context, lawType string) (Record, error)
	// ListLaws returns the known law types with their freshness timestamps,
	// ordered by law type.
	ListLaws(ctx context.Context) ([]Record, error)
	// Ping reports whether the backing medium is reachable.
	Ping(ctx context.Context) error
}

// Fetcher retrieves a source page and returns its decoded text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Normalizer turns raw decoded markup into cleaned, entity-decoded markup.
type Normalizer interface {
	Normalize(markup string) string
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
