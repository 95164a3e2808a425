package usecase

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

// PayloadMarker is the file identifying the directory to copy into a game
const PayloadMarker = "CRC.txt"

type installUseCase struct {
	store interfaces.RegistryStore
}

// NewInstall creates a new instance of InstallUseCase
func NewInstall(store interfaces.RegistryStore) interfaces.InstallUseCase {
	return &installUseCase{store: store}
}

// Install copies the payload found under extractedRoot into state.GameDirectory and
// records the game. On a copy failure the returned result lists what was copied.
func (uc *installUseCase) Install(ctx context.Context, state *model.AppState, extractedRoot string) (*model.InstallResult, error) {
	logger := ctxlog.From(ctx)

	if state == nil || state.GameDirectory == "" {
		return nil, goerr.Wrap(types.ErrUsage, "no game directory selected")
	}
	info, err := os.Stat(extractedRoot)
	if err != nil || !info.IsDir() {
		return nil, goerr.Wrap(types.ErrUsage, "extracted package not found, extract it first",
			goerr.V("extracted_root", extractedRoot))
	}

	dest, err := filepath.Abs(state.GameDirectory)
	if err != nil {
		return nil, goerr.Wrap(types.WithKind(err, types.ErrUsage), "invalid game directory",
			goerr.V("game_directory", state.GameDirectory))
	}

	source, err := FindPayloadRoot(ctx, extractedRoot)
	if err != nil {
		return nil, err
	}

	result := &model.InstallResult{
		GameName:    filepath.Base(dest),
		Source:      source,
		Destination: dest,
	}

	logger.Info("Installing package", "source", source, "dest", dest)
	if err := copyTree(source, dest, result); err != nil {
		logger.Error("Install aborted", "dest", dest, "copied", len(result.Copied), "error", err)
		return result, err
	}

	if state.Records == nil {
		state.Records = model.GameRecords{}
	}
	state.Records[result.GameName] = model.GameRecord{
		Name:      result.GameName,
		Installed: true,
		Path:      dest,
	}
	delete(state.Candidates, result.GameName)

	if err := uc.store.Save(ctx, state.Records); err != nil {
		return result, goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to record installed game",
			goerr.V("game", result.GameName))
	}

	logger.Info("Package installed", "game", result.GameName, "dest", dest, "files", len(result.Copied))
	return result, nil
}

// FindPayloadRoot returns the first directory under root that directly holds the
// payload marker. Directories are checked before their children, siblings in
// lexical order.
func FindPayloadRoot(ctx context.Context, root string) (string, error) {
	found, err := findDirContaining(ctx, os.DirFS(root), PayloadMarker, nil)
	if err != nil {
		return "", goerr.Wrap(types.WithKind(err, types.ErrPayloadNotFound), "failed to walk extracted package",
			goerr.V("root", root))
	}
	if found == "" {
		return "", goerr.Wrap(types.ErrPayloadNotFound, "no payload marker in extracted package",
			goerr.V("root", root), goerr.V("marker", PayloadMarker))
	}
	return filepath.Join(root, filepath.FromSlash(found)), nil
}

// findDirContaining walks fsys in pre-order and stops at the first directory holding
// a regular file named marker. It returns the slash separated path of that
// directory, "" if none. skip, if set, excludes directories by their path.
// Unreadable directories below the root are skipped.
func findDirContaining(ctx context.Context, fsys fs.FS, marker string, skip func(rel string) bool) (string, error) {
	logger := ctxlog.From(ctx)

	var found string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			logger.Debug("Skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skip != nil && skip(p) {
			return nil
		}

		info, err := fs.Stat(fsys, path.Join(p, marker))
		if err == nil && !info.IsDir() {
			found = p
			return fs.SkipAll
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Failed to check marker", "path", p, "marker", marker, "error", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return found, nil
}

// copyTree mirrors every file under source into dest, overwriting existing files.
// Copied files are appended to result as they complete.
func copyTree(source, dest string, result *model.InstallResult) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to create game directory",
			goerr.V("dest", dest))
	}

	return filepath.WalkDir(source, func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to read payload",
				goerr.V("path", src))
		}

		rel, err := filepath.Rel(source, src)
		if err != nil {
			return goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to resolve payload path",
				goerr.V("path", src))
		}
		target := filepath.Join(dest, rel)

		info, err := d.Info()
		if err != nil {
			return goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to stat payload entry",
				goerr.V("path", src))
		}

		if d.IsDir() {
			if err := os.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
				return goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to create directory",
					goerr.V("path", target))
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		if err := copyFile(src, target, info.Mode().Perm()); err != nil {
			return goerr.Wrap(types.WithKind(err, types.ErrInstall), "failed to copy file",
				goerr.V("source", src), goerr.V("dest", target))
		}
		result.Copied = append(result.Copied, rel)
		return nil
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile keeps the mode of an existing file
	return os.Chmod(dst, mode)
}
