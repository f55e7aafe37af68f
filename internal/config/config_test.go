package config

import (
	"os"
	"path/filepath"
	"testing"

	"collisioneer/internal/character"
	"collisioneer/internal/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("sweep:\n  step_size: 0.05\ncharacter:\n  move_speed: 4\n"))
	require.NoError(t, err)

	assert.Equal(t, float32(0.05), cfg.Sweep.StepSize)
	assert.Equal(t, float32(0), cfg.Sweep.Prediction)
	assert.Equal(t, float32(4), cfg.Character.MoveSpeed)
	assert.Equal(t, character.DefaultParams().MoveAccel, cfg.Character.MoveAccel)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultScene, cfg.Scene)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		inMsg   string
	}{
		{name: "zero step", yaml: "sweep: {step_size: 0}", wantErr: sweep.ErrInvalidConfig, inMsg: "config: sweep"},
		{name: "negative prediction", yaml: "sweep: {prediction: -1}", wantErr: sweep.ErrInvalidConfig, inMsg: "prediction"},
		{name: "zero height", yaml: "character: {height: 0}", wantErr: character.ErrInvalidParams, inMsg: "config: character"},
		{name: "bad level", yaml: "log: {level: chatty}", inMsg: "config: log"},
		{name: "empty scene", yaml: `scene: ""`, inMsg: "scene"},
		{name: "bad yaml", yaml: "sweep: [", inMsg: "config: parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.inMsg)
		})
	}
}

func TestLoadResolvesScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: scenes/level.yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scenes", "level.yaml"), cfg.Scene)

	abs := filepath.Join(dir, "abs.yaml")
	require.NoError(t, os.WriteFile(abs, []byte("scene: /srv/level.yaml\n"), 0o644))
	cfg, err = Load(abs)
	require.NoError(t, err)
	assert.Equal(t, "/srv/level.yaml", cfg.Scene)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "config: read")
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load("../../collisioneer.yaml")
	require.NoError(t, err)
	assert.Equal(t, sweep.DefaultConfig(), cfg.Sweep)
	assert.Equal(t, character.DefaultParams(), cfg.Character)
	_, err = os.Stat(cfg.Scene)
	assert.NoError(t, err)
}
