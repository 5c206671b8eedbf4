package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/filesystem"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Store loads and saves the persisted configuration file. The file may be
// shared with other tools: top-level keys other than "thoughts" are carried
// through saves untouched.
type Store struct {
	path string
	fs   types.FS
}

// NewStore creates a Store for the given file path. An empty path uses the
// default per-user location, an empty fs the OS filesystem.
func NewStore(path string, fs types.FS) *Store {
	if path == "" {
		path = paths.ConfigFilePath()
	}
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return &Store{path: path, fs: fs}
}

// Path returns the config file path this store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a persisted configuration is present.
func (s *Store) Exists() bool {
	_, err := s.fs.Stat(s.path)
	return err == nil
}

// Load reads the persisted configuration, applying defaults for missing
// fields. A missing file is ErrNotFound; an unreadable file is
// ErrConfigUnreadable; an unparsable file is ErrConfigCorrupt.
func (s *Store) Load() (*Config, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "no configuration found at %s", s.path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigUnreadable, "cannot open config file %s", s.path)
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigCorrupt, "cannot parse config file %s", s.path)
	}
	if file.Thoughts == nil {
		return nil, errors.Newf(errors.ErrConfigCorrupt, "no thoughts configuration in %s", s.path)
	}

	cfg := file.Thoughts
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault reads the persisted configuration, or returns the defaults
// when no file exists yet.
func (s *Store) LoadOrDefault() (*Config, error) {
	cfg, err := s.Load()
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Save persists the configuration atomically (write-to-temp-then-rename) so
// a crash mid-write never leaves a half-written file. Top-level keys other
// than "thoughts" already present in the file survive the save.
func (s *Store) Save(cfg *Config) error {
	logger := logging.GetLogger("config")

	doc := make(map[string]json.RawMessage)
	if data, err := s.fs.ReadFile(s.path); err == nil {
		// A corrupt file is overwritten rather than propagated here; Load
		// is where corruption is surfaced to the user.
		_ = json.Unmarshal(data, &doc)
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "cannot encode configuration")
	}
	doc["thoughts"] = raw

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "cannot encode configuration")
	}
	out = append(out, '\n')

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create config directory %s", dir)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp.%d", paths.ConfigFileName, os.Getpid()))
	if err := s.fs.WriteFile(tmp, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot write config file %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot replace config file %s", s.path)
	}

	logger.Debug().Str("path", s.path).Msg("Configuration saved")
	return nil
}
