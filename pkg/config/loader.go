package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
)

var (
	localCandidates = []string{
		filepath.Join(".sqlsrv", "config.yaml"),
		filepath.Join(".sqlsrv", "config.yml"),
	}

	globalCandidates = []string{
		filepath.Join("sqlsrv", "config.yaml"),
		filepath.Join("sqlsrv", "config.yml"),
	}
)

// Loader locates and loads the configuration file.
type Loader struct {
	Env     Env
	WorkDir string
	HomeDir string
}

// NewLoader returns a Loader for the current process environment, with any .env
// file in the working directory layered underneath it.
func NewLoader() *Loader {
	wd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return &Loader{
		Env:     DotEnv(os.LookupEnv, filepath.Join(wd, ".env")),
		WorkDir: wd,
		HomeDir: home,
	}
}

// DotEnv returns an Env that falls back to the variables in the dotenv file at path
// when base doesn't set a key. Variables already in base always win. A missing or
// unreadable file leaves base unchanged.
func DotEnv(base Env, path string) Env {
	vars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Ignoring env file", "path", path, "err", err)
		}
		return base
	}

	return func(key string) (string, bool) {
		if base != nil {
			if v, ok := base(key); ok {
				return v, true
			}
		}
		v, ok := vars[key]
		return v, ok
	}
}

// Load reads the configuration, searching in order:
//
//  1. explicit, when non-empty (usually --config)
//  2. $SQL_SERVER_CONFIG or $SQLSRV_CONFIG
//  3. .sqlsrv/config.yaml in the working directory and its parents, stopping at the home directory
//  4. $XDG_CONFIG_HOME/sqlsrv/config.yaml (or ~/.config)
//
// An explicit path that doesn't exist is an error. When nothing is found Load
// returns an empty Config so profiles resolve from defaults and the environment.
func (l *Loader) Load(explicit string) (*Config, error) {
	path, err := l.find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return &Config{Profiles: make(map[string]Profile)}, nil
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.Config, err, "")
	}
	return cfg, nil
}

func (l *Loader) find(explicit string) (string, error) {
	if explicit == "" {
		explicit, _ = lookupAny(l.Env, "SQL_SERVER_CONFIG", "SQLSRV_CONFIG")
	}

	if explicit != "" {
		if !isFile(explicit) {
			return "", apperr.Wrap(apperr.Config, errors.Errorf("config file not found: %s", explicit), "")
		}
		return explicit, nil
	}

	if l.WorkDir != "" {
		for dir := filepath.Clean(l.WorkDir); ; dir = filepath.Dir(dir) {
			for _, c := range localCandidates {
				if p := filepath.Join(dir, c); isFile(p) {
					return p, nil
				}
			}

			if dir == l.HomeDir || dir == filepath.Dir(dir) {
				break
			}
		}
	}

	base, _ := lookup(l.Env, "XDG_CONFIG_HOME")
	if base == "" && l.HomeDir != "" {
		base = filepath.Join(l.HomeDir, ".config")
	}

	if base != "" {
		for _, c := range globalCandidates {
			if p := filepath.Join(base, c); isFile(p) {
				return p, nil
			}
		}
	}

	return "", nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
