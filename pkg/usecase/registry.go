package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

const (
	// GameMarker identifies a directory holding a DirectX 9 game executable
	GameMarker = "d3d9.dll"
)

type registryUseCase struct {
	store         interfaces.RegistryStore
	excludeMarker string
}

// RegistryOption is a functional option for the game registry
type RegistryOption func(*registryUseCase)

// WithScanExcludeMarker skips scanned directories whose relative path contains marker
func WithScanExcludeMarker(marker string) RegistryOption {
	return func(uc *registryUseCase) {
		uc.excludeMarker = marker
	}
}

// NewRegistry creates a new instance of RegistryUseCase
func NewRegistry(store interfaces.RegistryStore, opts ...RegistryOption) interfaces.RegistryUseCase {
	uc := &registryUseCase{
		store:         store,
		excludeMarker: DefaultExcludeMarker,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load replaces state.Records with the persisted records
func (uc *registryUseCase) Load(ctx context.Context, state *model.AppState) error {
	records, err := uc.store.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load game registry")
	}

	state.Records = records
	for name := range records {
		delete(state.Candidates, name)
	}

	ctxlog.From(ctx).Debug("Game registry loaded", "games", len(records))
	return nil
}

// Scan looks for the first directory under root holding the game marker and keeps it
// as the only candidate unless that game is already recorded. Previous candidates
// are discarded.
func (uc *registryUseCase) Scan(ctx context.Context, state *model.AppState, root string) ([]model.Candidate, error) {
	logger := ctxlog.From(ctx)

	if root == "" {
		return nil, goerr.Wrap(types.ErrUsage, "no directory to scan")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, goerr.Wrap(types.WithKind(err, types.ErrUsage), "invalid scan directory",
			goerr.V("root", root))
	}

	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return nil, goerr.Wrap(types.ErrUsage, "scan directory does not exist", goerr.V("root", absRoot))
	}

	var skip func(string) bool
	if uc.excludeMarker != "" {
		skip = func(rel string) bool {
			return strings.Contains(rel, uc.excludeMarker)
		}
	}

	rel, err := findDirContaining(ctx, os.DirFS(absRoot), GameMarker, skip)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan game directories", goerr.V("root", absRoot))
	}

	state.Candidates = map[string]model.Candidate{}
	candidates := []model.Candidate{}

	if rel == "" {
		logger.Info("No game found", "root", absRoot)
		return candidates, nil
	}
	found := filepath.Join(absRoot, filepath.FromSlash(rel))

	candidate := model.Candidate{Name: filepath.Base(found), Path: found}
	if state.Records.Has(candidate.Name) {
		logger.Info("Found game is already installed", "name", candidate.Name, "path", found)
		return candidates, nil
	}

	state.Candidates[candidate.Name] = candidate
	candidates = append(candidates, candidate)
	logger.Info("Found game", "name", candidate.Name, "path", found)

	return candidates, nil
}

// Select makes the named candidate or installed game the target game directory
func (uc *registryUseCase) Select(state *model.AppState, name string) error {
	if candidate, ok := state.Candidates[name]; ok {
		state.GameDirectory = candidate.Path
		return nil
	}
	if record, ok := state.Records[name]; ok && record.Path != "" {
		state.GameDirectory = record.Path
		return nil
	}
	return goerr.Wrap(types.ErrUsage, "unknown game", goerr.V("name", name))
}
