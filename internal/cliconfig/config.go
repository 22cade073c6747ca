// Package cliconfig loads default CLI flag values from an optional
// JSONC file, layered the way the teacher's internal/ticket/config.go
// layers ticket-directory configuration: built-in defaults, then a
// global user file, then a project file, then an explicit --config
// file, with CLI flags always winning last (applied by the caller,
// not here).
package cliconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Defaults holds the subset of flag values a config file may override.
// Zero values mean "not set by this layer".
type Defaults struct {
	WindowSize        int    `json:"window_size,omitempty"`
	SkipChars         int    `json:"skip_chars,omitempty"`
	Inverse           bool   `json:"inverse,omitempty"`
	TrackPattern      string `json:"track,omitempty"`
	BypassPattern     string `json:"bypass,omitempty"`
	HashTransform     string `json:"hash_transform,omitempty"`
	Delimiter         string `json:"delimiter,omitempty"`
	DelimiterHex      string `json:"delimiter_hex,omitempty"`
	ByteMode          bool   `json:"byte_mode,omitempty"`
	MaxCandidates     int    `json:"max_candidates,omitempty"`
	MaxTrackedWindows int    `json:"max_tracked_windows,omitempty"`
	Quiet             bool   `json:"quiet,omitempty"`
}

// ConfigFileName is the project-local config file name.
const ConfigFileName = ".uniqseq.json"

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir      string            // project directory to look for ConfigFileName in
	ExplicitPath string            // --config flag value, if any
	Env          map[string]string // environment, for XDG_CONFIG_HOME / HOME
}

// Load layers built-in defaults (the zero value), then the global user
// config, then the project config, then an explicit --config file.
// Later layers overwrite any field they set; missing files are not an
// error, but an explicit --config file that doesn't exist is.
func Load(in LoadInput) (Defaults, error) {
	var cfg Defaults

	if path := globalConfigPath(in.Env); path != "" {
		layer, loaded, err := loadFile(path, false)
		if err != nil {
			return Defaults{}, err
		}
		if loaded {
			cfg = merge(cfg, layer)
		}
	}

	projectPath := filepath.Join(in.WorkDir, ConfigFileName)
	layer, loaded, err := loadFile(projectPath, false)
	if err != nil {
		return Defaults{}, err
	}
	if loaded {
		cfg = merge(cfg, layer)
	}

	if in.ExplicitPath != "" {
		path := in.ExplicitPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(in.WorkDir, path)
		}
		layer, loaded, err := loadFile(path, true)
		if err != nil {
			return Defaults{}, err
		}
		if loaded {
			cfg = merge(cfg, layer)
		}
	}

	return cfg, nil
}

func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "uniqseq", "config.json")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "uniqseq", "config.json")
	}
	return ""
}

// loadFile reads and parses path as JSONC. If mustExist is false, a
// missing file is reported as (zero, false, nil) rather than an error.
func loadFile(path string, mustExist bool) (Defaults, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Defaults{}, false, nil
		}
		return Defaults{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Defaults{}, false, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var cfg Defaults
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Defaults{}, false, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	return cfg, true, nil
}

// merge overlays every non-zero field of overlay onto base.
func merge(base, overlay Defaults) Defaults {
	if overlay.WindowSize != 0 {
		base.WindowSize = overlay.WindowSize
	}
	if overlay.SkipChars != 0 {
		base.SkipChars = overlay.SkipChars
	}
	if overlay.Inverse {
		base.Inverse = true
	}
	if overlay.TrackPattern != "" {
		base.TrackPattern = overlay.TrackPattern
	}
	if overlay.BypassPattern != "" {
		base.BypassPattern = overlay.BypassPattern
	}
	if overlay.HashTransform != "" {
		base.HashTransform = overlay.HashTransform
	}
	if overlay.Delimiter != "" {
		base.Delimiter = overlay.Delimiter
	}
	if overlay.DelimiterHex != "" {
		base.DelimiterHex = overlay.DelimiterHex
	}
	if overlay.ByteMode {
		base.ByteMode = true
	}
	if overlay.MaxCandidates != 0 {
		base.MaxCandidates = overlay.MaxCandidates
	}
	if overlay.MaxTrackedWindows != 0 {
		base.MaxTrackedWindows = overlay.MaxTrackedWindows
	}
	if overlay.Quiet {
		base.Quiet = true
	}
	return base
}
