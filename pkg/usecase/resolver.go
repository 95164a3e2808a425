package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
)

const (
	// DefaultExcludeMarker filters out debug symbol archives
	DefaultExcludeMarker = "symbols"
	// DefaultAssetName is the conventional package name used by the fallback URL
	DefaultAssetName = "remix.zip"
)

// FallbackURL returns the conventional "latest" download URL of owner/repo
func FallbackURL(owner, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/latest/download/%s", owner, repo, DefaultAssetName)
}

type resolverUseCase struct {
	client        interfaces.ReleaseClient
	excludeMarker string
	fallbackURL   string
}

// ResolverOption is a functional option for the release resolver
type ResolverOption func(*resolverUseCase)

// WithExcludeMarker skips assets whose name contains marker
func WithExcludeMarker(marker string) ResolverOption {
	return func(uc *resolverUseCase) {
		uc.excludeMarker = marker
	}
}

// WithFallbackURL replaces the conventional fallback URL
func WithFallbackURL(url string) ResolverOption {
	return func(uc *resolverUseCase) {
		uc.fallbackURL = url
	}
}

// NewResolver creates a new instance of ResolverUseCase
func NewResolver(client interfaces.ReleaseClient, opts ...ResolverOption) interfaces.ResolverUseCase {
	uc := &resolverUseCase{
		client:        client,
		excludeMarker: DefaultExcludeMarker,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Resolve returns the download URL of the first qualifying asset of the latest
// release, or the fallback URL when the query fails or nothing qualifies.
func (uc *resolverUseCase) Resolve(ctx context.Context, owner, repo string) *model.ReleaseResolution {
	logger := ctxlog.From(ctx)

	release, err := uc.client.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return uc.fallback(ctx, owner, repo, nil, err.Error())
	}

	for _, asset := range release.Assets {
		if uc.excludeMarker != "" && strings.Contains(asset.Name, uc.excludeMarker) {
			continue
		}
		if asset.URL == "" {
			continue
		}

		logger.Info("Resolved latest release asset",
			"owner", owner,
			"repo", repo,
			"tag_name", release.TagName,
			"asset", asset.Name,
		)
		return &model.ReleaseResolution{
			URL:       asset.URL,
			AssetName: asset.Name,
			TagName:   release.TagName,
		}
	}

	return uc.fallback(ctx, owner, repo, release, "no qualifying asset in latest release")
}

func (uc *resolverUseCase) fallback(ctx context.Context, owner, repo string, release *model.Release, reason string) *model.ReleaseResolution {
	url := uc.fallbackURL
	if url == "" {
		url = FallbackURL(owner, repo)
	}

	ctxlog.From(ctx).Warn("Using fallback download URL",
		"owner", owner,
		"repo", repo,
		"url", url,
		"reason", reason,
	)

	resolution := &model.ReleaseResolution{
		URL:          url,
		AssetName:    path.Base(url),
		FallbackUsed: true,
		Reason:       reason,
	}
	if release != nil {
		resolution.TagName = release.TagName
	}
	return resolution
}
