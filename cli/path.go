package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/konst/cli/cmd/repl"
	"github.com/ardnew/konst/pkg"
)

// baseConfig is the base name of the configuration files. The JSON and YAML
// loaders append their own extension.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// Environment variables that override the configuration and cache
// directories, e.g. KONST_CONFIG_DIR.
var (
	configDirEnv = envName("config", "dir")
	cacheDirEnv  = envName("cache", "dir")
)

// debugBin matches the executable name produced by the dlv debugger.
var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

// envName returns the environment variable named by pkg.Name and parts, in
// upper snake case.
func envName(parts ...string) string {
	return strings.ToUpper(strings.Join(append([]string{pkg.Name}, parts...), "_"))
}

// exeName returns the name that qualifies the configuration and cache
// directories: the executable's base name without extension or leading dots.
// Debugger builds use [pkg.Name].
var exeName = sync.OnceValue(
	func() string {
		path := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			path = exe
		}

		return baseName(path)
	},
)

func baseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimLeft(name, ".")

	if name == "" || debugBin.MatchString(name) {
		return pkg.Name
	}

	return name
}

// userDir returns the directory named by env, if set. Otherwise it returns
// the directory from base (or $HOME/fallback, or the working directory)
// qualified by name.
func userDir(env string, base func() (string, error), fallback, name string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, name)
}

var configDir = sync.OnceValue(
	func() string {
		return userDir(configDirEnv, os.UserConfigDir, ".config", exeName())
	},
)

// cacheDir holds the REPL history and profiles.
var cacheDir = sync.OnceValue(
	func() string {
		return userDir(cacheDirEnv, os.UserCacheDir, ".cache", exeName())
	},
)

// configPath returns the path of the configuration files without extension.
func configPath() string {
	return filepath.Join(configDir(), baseConfig)
}

// historyPath returns the default REPL history file.
func historyPath() string {
	return filepath.Join(cacheDir(), repl.HistoryFile)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
