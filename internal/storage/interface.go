// Package storage defines the durable named-blob store that persists the
// habit tracker and town state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a blob or settings record does not exist
var ErrNotFound = errors.New("not found")

// ErrNotInitialized is returned by Load when the store has not been created
var ErrNotInitialized = errors.New("storage not initialized, run 'habitown init' first")

// Blob is a named, versioned JSON document
type Blob struct {
	Name      string
	Version   int
	Data      []byte
	UpdatedAt time.Time
}

// Settings are user preferences persisted alongside the blobs
type Settings struct {
	Timezone string `json:"timezone"` // IANA name or "Local"
}

// DefaultSettings returns the settings written by Init.
func DefaultSettings() Settings {
	return Settings{Timezone: "Local"}
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Blobs
	GetBlob(ctx context.Context, name string) (Blob, error)
	// PutBlobs writes every blob or none of them.
	PutBlobs(ctx context.Context, blobs ...Blob) error
	// ListBlobs returns blob metadata; Data is left nil.
	ListBlobs(ctx context.Context) ([]Blob, error)
	DeleteBlobs(ctx context.Context, names ...string) error

	// Utils
	GetConfigPath() string
}
