package greetcard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay_Labels(t *testing.T) {
	assert.Equal(t, "Now Playing", ButtonLabel(true))
	assert.Equal(t, "Click to Play", ButtonLabel(false))
	assert.Equal(t, "Rotation: 8°/s", RotationLabel(8))
	assert.Equal(t, "Rotation: 0°/s", RotationLabel(0))
	assert.Equal(t, "Rotation: 60°/s", RotationLabel(60))
}

func TestOverlay_DrawsOnlyOnChange(t *testing.T) {
	o, err := NewOverlay()
	require.NoError(t, err)

	assert.False(t, o.Draw(OverlayState{}), "nothing to draw into")
	assert.False(t, o.ButtonHit(0, 0))

	st := OverlayState{Width: 800, Height: 600, Speed: 8, Track: o.TrackTitle()}
	assert.True(t, o.Draw(st))
	assert.False(t, o.Draw(st))
	require.NotNil(t, o.Image)
	assert.Equal(t, 800, o.Image.Bounds().Dx())

	st.Playing = true
	assert.True(t, o.Draw(st))
	st.Speed = 10
	assert.True(t, o.Draw(st))
	st.Width = 1024
	assert.True(t, o.Draw(st))
	assert.Equal(t, 1024, o.Image.Bounds().Dx())
}

func TestOverlay_ButtonHitArea(t *testing.T) {
	o, err := NewOverlay()
	require.NoError(t, err)
	require.True(t, o.Draw(OverlayState{Width: 800, Height: 600, Speed: 8, Track: o.TrackTitle()}))

	require.False(t, o.Button.Empty())
	c := o.Button.Min.Add(o.Button.Max).Div(2)
	assert.True(t, o.ButtonHit(float64(c.X), float64(c.Y)))
	assert.False(t, o.ButtonHit(float64(o.Button.Max.X+5), float64(c.Y)))
	assert.False(t, o.ButtonHit(790, 590))
}

func TestOverlay_TrackTitle(t *testing.T) {
	o, err := NewOverlay()
	require.NoError(t, err)
	assert.Equal(t, DefaultTrackTitle, o.TrackTitle())
	o.SetTrackTitle("Last Christmas")
	assert.Equal(t, "Last Christmas", o.TrackTitle())
	o.SetTrackTitle("")
	assert.Equal(t, DefaultTrackTitle, o.TrackTitle())
}

func newOverlayApp(t *testing.T, media MediaElement) *App {
	t.Helper()
	app := NewApp().UseModules(
		TimeModule{FixedStep: time.Second / 60},
		InputModule{},
		AssetServerModule{},
		RotationModule{Speed: DefaultRotationSpeed},
		AudioModule{Media: media},
		OverlayModule{Track: "Test Track"},
	)
	Resource[Input](app).PushResize(800, 600)
	require.NotPanics(t, app.Step)
	return app
}

func TestOverlayModule_UploadsTexture(t *testing.T) {
	app := newOverlayApp(t, nil)
	o := Resource[Overlay](app)
	assets := Resource[AssetServer](app)
	require.NotEmpty(t, o.Texture)

	tex, ok := assets.Texture(o.Texture)
	require.True(t, ok)
	assert.Equal(t, uint32(800), tex.Width)
	assert.Len(t, tex.Texels, 800*600*4)
	assert.Zero(t, tex.Version)

	// Unchanged state does not re-upload.
	app.Step()
	tex, _ = assets.Texture(o.Texture)
	assert.Zero(t, tex.Version)

	Resource[Input](app).PushKey(KeyUp, true, false)
	app.Step()
	tex, _ = assets.Texture(o.Texture)
	assert.Equal(t, uint(1), tex.Version)
}

func TestOverlayModule_ClickAndKeyToggleMusic(t *testing.T) {
	media := newFakeMedia("song.mp3")
	app := newOverlayApp(t, media)
	o := Resource[Overlay](app)
	input := Resource[Input](app)
	audio := Resource[AudioController](app)
	assert.Equal(t, "Test Track", o.TrackTitle())

	c := o.Button.Min.Add(o.Button.Max).Div(2)
	input.PushCursor(float64(c.X), float64(c.Y))
	input.PushMouseButton(MouseButtonLeft, true)
	input.PushMouseButton(MouseButtonLeft, false)
	app.Step()

	assert.Equal(t, PlaybackStarting, audio.State())
	<-media.started

	input.PushKey(KeyM, true, false)
	app.Step()
	assert.False(t, audio.Playing())

	media.release <- nil
	waitSettled(t, audio)
	assert.Equal(t, PlaybackPaused, audio.State())
	_, pauses, pauseInPlay := media.counts()
	assert.Equal(t, 1, pauses)
	assert.False(t, pauseInPlay)

	// a held M repeats but does not start the music again
	input.PushKey(KeyM, true, true)
	app.Step()
	assert.Equal(t, PlaybackPaused, audio.State())
	plays, _, _ := media.counts()
	assert.Equal(t, 1, plays)

	app.Shutdown()
	assert.True(t, media.closed)
}

func TestOverlayModule_DragOffButtonDoesNotToggle(t *testing.T) {
	media := newFakeMedia("song.mp3")
	app := newOverlayApp(t, media)
	o := Resource[Overlay](app)
	input := Resource[Input](app)

	c := o.Button.Min.Add(o.Button.Max).Div(2)
	input.PushCursor(float64(c.X), float64(c.Y))
	input.PushMouseButton(MouseButtonLeft, true)
	app.Step()
	assert.True(t, input.PointerCaptured)

	input.PushCursor(float64(c.X), float64(c.Y+300))
	input.PushMouseButton(MouseButtonLeft, false)
	app.Step()

	assert.Equal(t, PlaybackUnstarted, Resource[AudioController](app).State())
	assert.False(t, input.PointerCaptured)
}
