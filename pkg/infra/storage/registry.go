package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
)

const (
	// GamesFile maps game name to installed flag
	GamesFile = "installed_games.json"
	// PathsFile maps game name to installation path
	PathsFile = "installed_paths.json"
)

// FileRegistry keeps game records in two JSON documents keyed by game name.
// The split layout is kept so files written by earlier releases stay readable.
type FileRegistry struct {
	gamesPath string
	pathsPath string
	mu        sync.Mutex
}

// NewFileRegistry creates a registry storing its documents in dir
func NewFileRegistry(dir string) *FileRegistry {
	return &FileRegistry{
		gamesPath: filepath.Join(dir, GamesFile),
		pathsPath: filepath.Join(dir, PathsFile),
	}
}

var _ interfaces.RegistryStore = (*FileRegistry)(nil)

// Load reads both documents and merges them into one record set.
// A missing document is an empty mapping.
func (s *FileRegistry) Load(ctx context.Context) (model.GameRecords, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var games map[string]bool
	if err := readDocument(s.gamesPath, &games); err != nil {
		return nil, err
	}
	var paths map[string]string
	if err := readDocument(s.pathsPath, &paths); err != nil {
		return nil, err
	}

	records := model.GameRecords{}
	for name, installed := range games {
		records[name] = model.GameRecord{Name: name, Installed: installed, Path: paths[name]}
	}
	for name, path := range paths {
		if _, ok := records[name]; ok {
			continue
		}
		ctxlog.From(ctx).Warn("game path recorded without install status", "name", name, "path", path)
		records[name] = model.GameRecord{Name: name, Path: path}
	}

	return records, nil
}

// Save rewrites both documents in full
func (s *FileRegistry) Save(ctx context.Context, records model.GameRecords) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := make(map[string]bool, len(records))
	paths := make(map[string]string, len(records))
	for name, record := range records {
		games[name] = record.Installed
		paths[name] = record.Path
	}

	if err := writeDocument(s.gamesPath, games); err != nil {
		return err
	}
	if err := writeDocument(s.pathsPath, paths); err != nil {
		return err
	}

	ctxlog.From(ctx).Debug("Saved game registry",
		"games_path", s.gamesPath,
		"paths_path", s.pathsPath,
		"count", len(records),
	)
	return nil
}

func readDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to read registry document", goerr.V("path", path))
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to decode registry document", goerr.V("path", path))
	}
	return nil
}

func writeDocument(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create registry directory", goerr.V("path", path))
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode registry document", goerr.V("path", path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write registry document", goerr.V("path", path))
	}
	return nil
}
