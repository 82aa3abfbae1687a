package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyActions(t *testing.T) {
	keyActions := DefaultKeyActions()
	assert.Contains(t, keyActions.SpeedControlMoves, "Tailwind")
	assert.Contains(t, keyActions.SpeedControlMoves, "Trick Room")
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	keyActions, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyActions(), keyActions)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyactions.yaml")
	content := "speed_control_moves:\n  - Max Airstream\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	keyActions, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Max Airstream"}, keyActions.SpeedControlMoves)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDumpRoundTrip(t *testing.T) {
	out, err := DefaultKeyActions().Dump()
	require.NoError(t, err)
	assert.Contains(t, string(out), "speed_control_moves:")
	assert.Contains(t, string(out), "Tailwind")
}
