package cliconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreyurban/uniqseq/internal/cliconfig"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// Contract: with no config files present, Load returns the zero value.
func Test_Load_ReturnsZeroValue_When_NoConfigFilesExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := cliconfig.Load(cliconfig.LoadInput{WorkDir: dir, Env: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, cliconfig.Defaults{}, cfg)
}

// Contract: a project .uniqseq.json file is read and parsed, including
// JSONC comments via hujson.
func Test_Load_ReadsProjectConfig_When_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, cliconfig.ConfigFileName), `{
		// window size for this project
		"window_size": 4,
		"inverse": true,
	}`)

	cfg, err := cliconfig.Load(cliconfig.LoadInput{WorkDir: dir, Env: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.WindowSize)
	assert.True(t, cfg.Inverse)
}

// Contract: a global config under $XDG_CONFIG_HOME/uniqseq/config.json
// is loaded, and the project file overrides it where both set a field.
func Test_Load_ProjectOverridesGlobal_When_BothSetSameField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()

	writeFile(t, filepath.Join(xdg, "uniqseq", "config.json"), `{"window_size": 2, "max_candidates": 10}`)
	writeFile(t, filepath.Join(dir, cliconfig.ConfigFileName), `{"window_size": 7}`)

	cfg, err := cliconfig.Load(cliconfig.LoadInput{
		WorkDir: dir,
		Env:     map[string]string{"XDG_CONFIG_HOME": xdg},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.WindowSize, "project config should win")
	assert.Equal(t, 10, cfg.MaxCandidates, "unset-by-project field should fall back to global")
}

// Contract: an explicit --config file takes precedence over both the
// global and project files.
func Test_Load_ExplicitConfigOverridesProjectAndGlobal_When_AllThreeSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()

	writeFile(t, filepath.Join(xdg, "uniqseq", "config.json"), `{"window_size": 2}`)
	writeFile(t, filepath.Join(dir, cliconfig.ConfigFileName), `{"window_size": 3}`)
	writeFile(t, filepath.Join(dir, "explicit.json"), `{"window_size": 9}`)

	cfg, err := cliconfig.Load(cliconfig.LoadInput{
		WorkDir:      dir,
		ExplicitPath: "explicit.json",
		Env:          map[string]string{"XDG_CONFIG_HOME": xdg},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.WindowSize)
}

// Contract: a missing explicit --config file is an error, unlike a
// missing global or project file.
func Test_Load_ReturnsError_When_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := cliconfig.Load(cliconfig.LoadInput{
		WorkDir:      dir,
		ExplicitPath: "nonexistent.json",
		Env:          map[string]string{},
	})
	require.Error(t, err)
}

// Contract: malformed JSON in a config file is reported as an error.
func Test_Load_ReturnsError_When_ProjectConfigMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, cliconfig.ConfigFileName), `{not valid json`)

	_, err := cliconfig.Load(cliconfig.LoadInput{WorkDir: dir, Env: map[string]string{}})
	require.Error(t, err)
}

// Contract: a missing global config (no HOME, no XDG_CONFIG_HOME) is
// silently skipped rather than an error.
func Test_Load_SkipsGlobalConfig_When_NoHomeOrXdgSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := cliconfig.Load(cliconfig.LoadInput{WorkDir: dir, Env: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, cliconfig.Defaults{}, cfg)
}
