// Package configcmd backs the config command: inspect the persisted
// configuration, dump its raw JSON, or locate it for editing.
package configcmd

import (
	"encoding/json"
	"os"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/filesystem"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Options configures the config query.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string

	// FS defaults to the OS filesystem.
	FS types.FS
}

// Result is the loaded configuration plus its location and any orphaned
// mappings worth flagging.
type Result struct {
	Path     string
	Exists   bool
	Config   *config.Config
	Orphaned []string
}

// Show loads the configuration for display. A missing file is not an
// error here; Exists is false and Config nil.
func Show(opts Options) (*Result, error) {
	cfgStore := config.NewStore(opts.ConfigPath, opts.FS)
	result := &Result{Path: cfgStore.Path()}

	cfg, err := cfgStore.Load()
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			return result, nil
		}
		return nil, err
	}

	result.Exists = true
	result.Config = cfg
	result.Orphaned = cfg.FindOrphanedMappings()
	return result, nil
}

// RawJSON returns the persisted file re-indented, exactly as stored
// (including any sibling top-level keys).
func RawJSON(opts Options) ([]byte, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	cfgStore := config.NewStore(opts.ConfigPath, fsys)

	data, err := fsys.ReadFile(cfgStore.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "no configuration found at %s", cfgStore.Path())
		}
		return nil, errors.Wrapf(err, errors.ErrConfigUnreadable, "cannot open config file %s", cfgStore.Path())
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigCorrupt, "cannot parse config file %s", cfgStore.Path())
	}
	return json.MarshalIndent(doc, "", "  ")
}
