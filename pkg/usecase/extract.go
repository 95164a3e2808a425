package usecase

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

type extractUseCase struct{}

// NewExtract creates a new instance of ExtractUseCase
func NewExtract() interfaces.ExtractUseCase {
	return &extractUseCase{}
}

// Extract unpacks every entry of the zip archive at archivePath into outDir.
// Entries written before a failure are left in place.
func (uc *extractUseCase) Extract(ctx context.Context, archivePath, outDir string) (*model.ExtractResult, error) {
	logger := ctxlog.From(ctx)

	if archivePath == "" || outDir == "" {
		return nil, goerr.Wrap(types.ErrUsage, "extract requires an archive and an output directory",
			goerr.V("archive", archivePath), goerr.V("out_dir", outDir))
	}

	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, goerr.Wrap(types.WithKind(err, types.ErrExtraction), "failed to open zip archive",
			goerr.V("archive", archivePath))
	}
	defer zipReader.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, goerr.Wrap(types.WithKind(err, types.ErrExtraction), "failed to create output directory",
			goerr.V("out_dir", outDir))
	}

	logger.Info("Extracting archive", "archive", archivePath, "out_dir", outDir, "entries", len(zipReader.File))

	result := &model.ExtractResult{Directory: outDir}
	for _, file := range zipReader.File {
		if err := extractFile(file, outDir); err != nil {
			return nil, goerr.Wrap(types.WithKind(err, types.ErrExtraction), "failed to extract entry",
				goerr.V("archive", archivePath),
				goerr.V("entry", file.Name))
		}

		result.Files = append(result.Files, file.Name)
		result.Size += int64(file.UncompressedSize64)
	}

	logger.Info("Archive extracted", "out_dir", outDir, "files", len(result.Files), "size", result.Size)
	return result, nil
}

// extractFile writes a single zip entry below destDir
func extractFile(file *zip.File, destDir string) error {
	destPath := filepath.Join(destDir, file.Name)
	if err := ensureWithinRoot(destDir, destPath); err != nil {
		return err
	}

	info := file.FileInfo()
	if filepath.Clean(destPath) == filepath.Clean(destDir) {
		// "./" entry, destDir already exists
		return nil
	}
	if info.IsDir() {
		return os.MkdirAll(destPath, dirMode(info.Mode()))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("dir", filepath.Dir(destPath)))
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open entry in zip", goerr.V("entry", file.Name))
	}
	defer rc.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode(info.Mode()))
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("path", destPath))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy entry content", goerr.V("path", destPath))
	}

	return nil
}

// ensureWithinRoot rejects targets outside root. root itself is accepted.
func ensureWithinRoot(root, target string) error {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return goerr.Wrap(err, "invalid file path detected", goerr.V("target", target))
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return goerr.New("invalid file path detected", goerr.V("target", target))
	}
	return nil
}

// Archives written on Windows often carry no permission bits
func fileMode(mode os.FileMode) os.FileMode {
	if mode.Perm() == 0 {
		return 0644
	}
	return mode.Perm()
}

func dirMode(mode os.FileMode) os.FileMode {
	if mode.Perm() == 0 {
		return 0755
	}
	return mode.Perm() | 0700
}
