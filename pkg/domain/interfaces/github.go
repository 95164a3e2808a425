package interfaces

import (
	"context"

	"github.com/rtxtools/remixer/pkg/domain/model"
)

// ReleaseClient defines operations for querying a release-hosting API
type ReleaseClient interface {
	// GetLatestRelease returns the latest published release of owner/repo
	GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error)
}
