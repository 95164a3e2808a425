package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
	"github.com/rtxtools/remixer/pkg/usecase"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755)).Required()
		gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	return string(data)
}

func TestInstall_Success(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{
		"aaa/readme.txt":                    "not the payload",
		"pkg/remix/CRC.txt":                 "crc",
		"pkg/remix/d3d9.dll":                "bridge",
		"pkg/remix/.trex/NvRemixBridge.exe": "exe",
	})

	game := filepath.Join(dir, "Games", "Portal")
	writeTree(t, game, map[string]string{"d3d9.dll": "original"})

	store := &mockStore{}
	state := model.NewAppState()
	state.GameDirectory = game
	state.Candidates["Portal"] = model.Candidate{Name: "Portal", Path: game}

	result, err := usecase.NewInstall(store).Install(context.Background(), state, extracted)
	gt.NoError(t, err).Required()

	gt.Value(t, result.GameName).Equal("Portal")
	gt.Value(t, result.Source).Equal(filepath.Join(extracted, "pkg", "remix"))
	gt.Value(t, result.Destination).Equal(game)
	gt.Number(t, len(result.Copied)).Equal(3)

	gt.Value(t, readFile(t, filepath.Join(game, "d3d9.dll"))).Equal("bridge")
	gt.Value(t, readFile(t, filepath.Join(game, ".trex", "NvRemixBridge.exe"))).Equal("exe")
	_, err = os.Stat(filepath.Join(game, "aaa"))
	gt.True(t, errors.Is(err, os.ErrNotExist))

	gt.Value(t, state.Records["Portal"]).Equal(model.GameRecord{Name: "Portal", Installed: true, Path: game})
	gt.Number(t, len(state.Candidates)).Equal(0)
	gt.Value(t, store.saves).Equal(1)
	gt.Value(t, store.records["Portal"].Path).Equal(game)
}

func TestInstall_CreatesDestination(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{"CRC.txt": "crc"})

	state := model.NewAppState()
	state.GameDirectory = filepath.Join(dir, "new", "HL2")

	result, err := usecase.NewInstall(&mockStore{}).Install(context.Background(), state, extracted)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Copied).Equal([]string{"CRC.txt"})
	gt.Value(t, readFile(t, filepath.Join(dir, "new", "HL2", "CRC.txt"))).Equal("crc")
}

func TestInstall_PreservesFileMode(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{"CRC.txt": "crc", "launch.sh": "#!/bin/sh"})
	gt.NoError(t, os.Chmod(filepath.Join(extracted, "launch.sh"), 0755)).Required()

	game := filepath.Join(dir, "game")
	writeTree(t, game, map[string]string{"launch.sh": "old"})

	state := model.NewAppState()
	state.GameDirectory = game

	_, err := usecase.NewInstall(&mockStore{}).Install(context.Background(), state, extracted)
	gt.NoError(t, err).Required()

	info, err := os.Stat(filepath.Join(game, "launch.sh"))
	gt.NoError(t, err).Required()
	gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0755))
	gt.Value(t, readFile(t, filepath.Join(game, "launch.sh"))).Equal("#!/bin/sh")
}

func TestFindPayloadRoot(t *testing.T) {
	t.Run("directory is checked before its children", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"CRC.txt": "outer", "inner/CRC.txt": "inner"})

		found, err := usecase.FindPayloadRoot(context.Background(), root)
		gt.NoError(t, err).Required()
		gt.Value(t, found).Equal(root)
	})

	t.Run("siblings are visited in lexical order", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a/deep/CRC.txt": "a", "b/CRC.txt": "b"})

		found, err := usecase.FindPayloadRoot(context.Background(), root)
		gt.NoError(t, err).Required()
		gt.Value(t, found).Equal(filepath.Join(root, "a", "deep"))
	})

	t.Run("directory named like the marker does not count", func(t *testing.T) {
		root := t.TempDir()
		gt.NoError(t, os.MkdirAll(filepath.Join(root, "x", "CRC.txt"), 0755)).Required()

		_, err := usecase.FindPayloadRoot(context.Background(), root)
		gt.True(t, errors.Is(err, types.ErrPayloadNotFound))
	})
}

func TestInstall_PayloadNotFound(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{"readme.txt": "no marker here"})

	game := filepath.Join(dir, "game")
	store := &mockStore{}
	state := model.NewAppState()
	state.GameDirectory = game

	result, err := usecase.NewInstall(store).Install(context.Background(), state, extracted)
	gt.True(t, errors.Is(err, types.ErrPayloadNotFound))
	gt.Value(t, result).Nil()
	gt.Value(t, store.saves).Equal(0)

	_, err = os.Stat(game)
	gt.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInstall_Usage(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{"CRC.txt": "crc"})

	store := &mockStore{}
	uc := usecase.NewInstall(store)

	t.Run("no game directory", func(t *testing.T) {
		_, err := uc.Install(context.Background(), model.NewAppState(), extracted)
		gt.True(t, errors.Is(err, types.ErrUsage))
	})

	t.Run("not extracted yet", func(t *testing.T) {
		state := model.NewAppState()
		state.GameDirectory = filepath.Join(dir, "game")

		_, err := uc.Install(context.Background(), state, filepath.Join(dir, "missing"))
		gt.True(t, errors.Is(err, types.ErrUsage))
		_, err = os.Stat(state.GameDirectory)
		gt.True(t, errors.Is(err, os.ErrNotExist))
	})

	gt.Value(t, store.saves).Equal(0)
}

func TestInstall_PartialCopyOnFailure(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{
		"CRC.txt":        "crc",
		"a.txt":          "a",
		"sub/nested.txt": "nested",
	})

	// A regular file where the payload has a directory makes the copy fail midway
	game := filepath.Join(dir, "game")
	writeTree(t, game, map[string]string{"sub": "in the way"})

	store := &mockStore{}
	state := model.NewAppState()
	state.GameDirectory = game

	result, err := usecase.NewInstall(store).Install(context.Background(), state, extracted)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrInstall))

	gt.Value(t, result).NotNil()
	gt.Value(t, result.Copied).Equal([]string{"CRC.txt", "a.txt"})
	gt.Value(t, readFile(t, filepath.Join(game, "a.txt"))).Equal("a")

	gt.False(t, state.Records.Has("game"))
	gt.Value(t, store.saves).Equal(0)
}

func TestInstall_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	extracted := filepath.Join(dir, "rtx_remix")
	writeTree(t, extracted, map[string]string{"CRC.txt": "crc"})

	store := &mockStore{saveErr: errors.New("disk full")}
	state := model.NewAppState()
	state.GameDirectory = filepath.Join(dir, "game")

	_, err := usecase.NewInstall(store).Install(context.Background(), state, extracted)
	gt.True(t, errors.Is(err, types.ErrInstall))
}
