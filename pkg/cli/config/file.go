package config

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File holds the path of an optional TOML configuration file. Its keys are flag
// names; a value applies only when the flag was not given on the command line or
// through the environment.
//
//	owner = "NVIDIAGameWorks"
//	log-level = "debug"
//	inactivity-timeout = "30s"
type File struct {
	Path string
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("REMIXER_CONFIG"),
		},
	}
}

// Load reads the file into a flag name to value map. An unset path yields no values.
func (c *File) Load() (map[string]string, error) {
	if c.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}

	values := make(map[string]string, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case map[string]any, []any:
			return nil, goerr.New("config value must be a scalar", goerr.V("path", c.Path), goerr.V("key", key))
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// Apply sets flags declared by cmd from the file unless they were already set.
// Keys of flags declared by other commands are ignored.
func (c *File) Apply(cmd *cli.Command) error {
	values, err := c.Load()
	if err != nil {
		return err
	}

	declared := map[string]bool{}
	for _, flag := range cmd.Flags {
		for _, name := range flag.Names() {
			declared[name] = true
		}
	}

	for name, value := range values {
		if !declared[name] || cmd.IsSet(name) {
			continue
		}
		if err := cmd.Set(name, value); err != nil {
			return goerr.Wrap(err, "invalid config file entry",
				goerr.V("path", c.Path), goerr.V("key", name))
		}
	}
	return nil
}
