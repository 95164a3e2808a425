package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remixer.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	return path
}

func TestFile_Load(t *testing.T) {
	path := writeConfig(t, `
owner = "example"
inactivity-timeout = "30s"
log-level = "debug"
`)

	file := config.File{Path: path}
	values, err := file.Load()
	gt.NoError(t, err).Required()
	gt.Value(t, values).Equal(map[string]string{
		"owner":              "example",
		"inactivity-timeout": "30s",
		"log-level":          "debug",
	})
}

func TestFile_LoadWithoutPath(t *testing.T) {
	file := config.File{}
	values, err := file.Load()
	gt.NoError(t, err)
	gt.Number(t, len(values)).Equal(0)
}

func TestFile_LoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		file := config.File{Path: filepath.Join(t.TempDir(), "missing.toml")}
		_, err := file.Load()
		gt.Error(t, err)
	})

	t.Run("broken toml", func(t *testing.T) {
		file := config.File{Path: writeConfig(t, "owner = ")}
		_, err := file.Load()
		gt.Error(t, err)
	})

	t.Run("table value", func(t *testing.T) {
		file := config.File{Path: writeConfig(t, "[release]\nowner = \"x\"\n")}
		_, err := file.Load()
		gt.Error(t, err)
	})
}

func TestFile_ApplyKeepsCommandLine(t *testing.T) {
	path := writeConfig(t, `
owner = "file-owner"
repo = "file-repo"
inactivity-timeout = "45s"
addr = "0.0.0.0:9999"
`)

	var (
		file     config.File
		release  config.Release
		download config.Download
	)
	flags := append(file.Flags(), release.Flags()...)
	flags = append(flags, download.Flags()...)

	cmd := &cli.Command{
		Name:  "remixer",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return file.Apply(c)
		},
	}

	err := cmd.Run(context.Background(), []string{"remixer", "--config", path, "--owner", "cli-owner"})
	gt.NoError(t, err).Required()

	gt.Value(t, release.Owner).Equal("cli-owner")
	gt.Value(t, release.Repo).Equal("file-repo")
	gt.Value(t, download.InactivityTimeout).Equal(45 * time.Second)
}

func TestFile_ApplyInvalidValue(t *testing.T) {
	path := writeConfig(t, `inactivity-timeout = "soon"`)

	var (
		file     config.File
		download config.Download
	)

	cmd := &cli.Command{
		Name:  "remixer",
		Flags: append(file.Flags(), download.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			return file.Apply(c)
		},
	}

	err := cmd.Run(context.Background(), []string{"remixer", "--config", path})
	gt.Error(t, err)
}
