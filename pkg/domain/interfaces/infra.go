package interfaces

import (
	"context"

	"github.com/rtxtools/remixer/pkg/domain/model"
)

// Fetcher streams a remote file to a local path
type Fetcher interface {
	// Fetch downloads url into dest and calls progress after every chunk written
	Fetch(ctx context.Context, url, dest string, progress model.ProgressFunc) error
}

// RegistryStore persists installed game records
type RegistryStore interface {
	// Load returns the persisted records. A store that was never written yields an empty set.
	Load(ctx context.Context) (model.GameRecords, error)
	// Save rewrites the persisted records in full
	Save(ctx context.Context, records model.GameRecords) error
}

// DirectoryOpener shows a directory in the desktop file browser
type DirectoryOpener interface {
	Open(ctx context.Context, dir string) error
}
