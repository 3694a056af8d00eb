package greetcard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, float32(DefaultRotationSpeed), cfg.Rotation.Speed)
	assert.Equal(t, DefaultTreeParticles, cfg.Scene.TreeParticles)
	assert.Equal(t, DefaultMusicURL, cfg.Audio.URL)
}

func TestParseConfig_OverlaysAndClamps(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[window]
width = -3
frames = -1

[scene]
tree_particles = 1000
stars = -10
seed = 7

[rotation]
speed = 500

[audio]
muted = true
`))
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Zero(t, cfg.Window.Frames)
	assert.Equal(t, 1000, cfg.Scene.TreeParticles)
	assert.Equal(t, DefaultGroundParticles, cfg.Scene.GroundParticles)
	assert.Zero(t, cfg.Scene.Stars)
	assert.Equal(t, uint64(7), cfg.Scene.Seed)
	assert.Equal(t, float32(MaxRotationSpeed), cfg.Rotation.Speed)
	assert.True(t, cfg.Audio.Muted)
	assert.Equal(t, DefaultTrackTitle, cfg.Audio.Title)
}

func TestParseConfig_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseConfig([]byte("[rotation]\nsped = 10\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("not toml ="))
	assert.Error(t, err)
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Scene.Seed = 42
	data, err := want.Marshal()
	require.NoError(t, err)

	got, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyLiveConfig(t *testing.T) {
	logger := NewDefaultLogger("", false)
	app := NewApp().UseModules(TimeModule{}, RotationModule{Speed: 8}, OverlayModule{})
	app.addResources(logger)

	cfg := DefaultConfig()
	cfg.Rotation.Speed = 99
	cfg.Audio.Title = "Jingle"
	cfg.Log.Debug = true
	ApplyLiveConfig(app.Commands(), cfg)

	assert.Equal(t, float32(MaxRotationSpeed), Resource[RotationState](app).Speed)
	assert.Equal(t, "Jingle", Resource[Overlay](app).TrackTitle())
	assert.True(t, logger.DebugEnabled())
}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rotation]\nspeed = 8\n"), 0o644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Close()

	require.NoError(t, os.WriteFile(path, []byte("[rotation]\nspeed = 20\n"), 0o644))

	var got Config
	require.Eventually(t, func() bool {
		cfg, ok, _ := cw.Poll()
		if ok {
			got = cfg
		}
		return ok && cfg.Rotation.Speed == 20
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, float32(20), got.Rotation.Speed)
}

func TestPublishLatest_KeepsNewest(t *testing.T) {
	ch := make(chan int, 1)
	publishLatest(ch, 1)
	publishLatest(ch, 2)
	assert.Equal(t, 2, <-ch)
}
