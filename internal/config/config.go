// Package config loads Clot's ambient settings: command-line defaults
// overridable by an optional project-local clot.toml.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Configuration holds the immutable settings the CLI driver resolves
// before constructing an interpreter. Default returns the hard-coded
// defaults; Load overlays a project-local clot.toml, if present.
type Configuration struct {
	// RootDir is the directory import statements resolve relative to
	// when no module is currently executing.
	RootDir string
	// LogLevel is one of "trace", "debug", "info", "warn", "error", "none".
	LogLevel string
	// LogFile is a path to log to, or "" for stderr.
	LogFile string
	// DumpAST, when true, prints the parsed program before running it.
	DumpAST bool
	// Language selects the diagnostic message language (currently only
	// "en" ships; the field exists so a clot.toml can name one).
	Language string
	// AsyncWorkers bounds how many async builtins may run concurrently;
	// 0 means unbounded (the task registry spawns one goroutine per call).
	AsyncWorkers int
}

// Default returns the hard-coded configuration used when no clot.toml
// is present.
func Default() Configuration {
	return Configuration{
		RootDir:      ".",
		LogLevel:     "info",
		LogFile:      "",
		DumpAST:      false,
		Language:     "en",
		AsyncWorkers: 0,
	}
}

// fileConfig mirrors the subset of Configuration a clot.toml may
// override; every field is optional.
type fileConfig struct {
	RootDir      *string `toml:"root_dir"`
	Language     *string `toml:"language"`
	AsyncWorkers *int    `toml:"async_workers"`
}

// Load starts from Default and overlays path's contents, if it exists.
// A missing file is not an error; a malformed one is.
func Load(path string) (Configuration, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return cfg, err
	}
	if fc.RootDir != nil {
		cfg.RootDir = *fc.RootDir
	}
	if fc.Language != nil {
		cfg.Language = *fc.Language
	}
	if fc.AsyncWorkers != nil {
		cfg.AsyncWorkers = *fc.AsyncWorkers
	}
	return cfg, nil
}
