// Package cache stores rendered export artifacts keyed by document content.
//
// An artifact key combines the SHA-256 of the document's canonical JSON with
// the export options that influence the output, so editing a document or
// changing an option always produces a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(docJSON), cache.ArtifactKeyOpts{Format: "svg", DPI: 96})
//
// [FileCache] backs the CLI; [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a cached export.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts holds the export options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format           string  `json:"format"`
	DPI              float64 `json:"dpi,omitempty"`
	IncludeInvisible bool    `json:"include_invisible,omitempty"`
	Transparent      bool    `json:"transparent,omitempty"`
	Detailed         bool    `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
