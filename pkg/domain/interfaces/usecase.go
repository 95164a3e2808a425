package interfaces

import (
	"context"

	"github.com/rtxtools/remixer/pkg/domain/model"
)

// ResolverUseCase resolves the package download URL. It never fails.
type ResolverUseCase interface {
	Resolve(ctx context.Context, owner, repo string) *model.ReleaseResolution
}

// DownloadJob is a handle on a running download
type DownloadJob interface {
	// ID returns the job id
	ID() string
	// Events yields progress events in production order and is closed after the terminal event
	Events() <-chan model.ProgressEvent
	// Cancel aborts the transfer
	Cancel()
	// Wait blocks until the job is finished and returns its final snapshot
	Wait() model.DownloadJob
}

// DownloadUseCase runs at most one download at a time
type DownloadUseCase interface {
	// Start begins downloading url into dest. It fails with types.ErrDownloadInProgress
	// while another job is active.
	Start(ctx context.Context, url, dest string) (DownloadJob, error)
	// Current returns the latest job snapshot, nil if no job was started
	Current() *model.DownloadJob
}

// ExtractUseCase unpacks the package archive
type ExtractUseCase interface {
	Extract(ctx context.Context, archivePath, outDir string) (*model.ExtractResult, error)
}

// InstallUseCase copies the extracted payload into state.GameDirectory and records it
type InstallUseCase interface {
	Install(ctx context.Context, state *model.AppState, extractedRoot string) (*model.InstallResult, error)
}

// RegistryUseCase manages installed games and discovered candidates
type RegistryUseCase interface {
	Load(ctx context.Context, state *model.AppState) error
	Scan(ctx context.Context, state *model.AppState, root string) ([]model.Candidate, error)
	Select(state *model.AppState, name string) error
}
