// Package config loads the silica.toml project file that drives the CLI.
package config

import (
	"errors"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the project file name looked up next to an archive.
const DefaultFile = "silica.toml"

// Project is the [project] section.
type Project struct {
	// Top overrides the archive's top module when set.
	Top string `toml:"top"`
	// Output is the directory generated files are written to.
	Output string `toml:"output"`
}

// Codegen is the [codegen] section.
type Codegen struct {
	// Indent is the number of spaces per nesting level.
	Indent int `toml:"indent"`
}

// Config is the whole project file.
type Config struct {
	Project Project `toml:"project"`
	Codegen Codegen `toml:"codegen"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Project: Project{Output: "."},
		Codegen: Codegen{Indent: 2},
	}
}

// Load reads path, falling back to defaults when the file does not exist.
// Unset fields take their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	if cfg.Codegen.Indent <= 0 {
		cfg.Codegen.Indent = 2
	}
	if cfg.Project.Output == "" {
		cfg.Project.Output = "."
	}
	return cfg, nil
}
