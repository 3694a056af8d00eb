package greetcard

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFrame_CollectsCard(t *testing.T) {
	app, capture := newCardApp(t)
	app.RunFrames(3)

	require.Equal(t, 3, capture.Frames)
	f := capture.Last
	assert.True(t, f.HasCamera)
	assert.Equal(t, 640, f.Width)
	assert.Equal(t, 480, f.Height)
	assert.Equal(t, uint64(2), f.Frame)
	assert.InDelta(t, 3.0/60, f.Elapsed, 1e-4)
	assert.Equal(t, float32(FogNear), f.FogNear)
	assert.Equal(t, float32(FogFar), f.FogFar)

	// tree, ground, rings, falling snow and stars
	assert.Len(t, f.Points, 5)
	for _, p := range f.Points {
		assert.Positive(t, p.Buffer.Len())
		assert.Equal(t, BlendAdditive, p.Blending)
	}

	assert.NotEmpty(t, f.Opaque)
	require.NotEmpty(t, f.Transparent)
	for i := 1; i < len(f.Transparent); i++ {
		assert.GreaterOrEqual(t, f.Transparent[i-1].Depth, f.Transparent[i].Depth)
	}
	for _, d := range f.Opaque {
		assert.False(t, d.Material.Transparent())
	}

	// ambient, key, spot and the topper's glow
	assert.Len(t, f.Lights, 4)
	assert.NotEmpty(t, f.Overlay)

	app.Shutdown()
	assert.True(t, capture.Closed)
}

func TestRenderFrame_NoCameraSkipsRender(t *testing.T) {
	app := NewApp().UseModules(TimeModule{}, InputModule{}, AssetServerModule{})
	capture := app.UseCapture()
	app.RunFrames(2)
	assert.Zero(t, capture.Frames)
}

func TestRenderFrame_CameraDepthIsViewSpace(t *testing.T) {
	app := NewApp().UseModules(TimeModule{}, InputModule{}, AssetServerModule{})
	capture := app.UseCapture()
	cmd := app.Commands()

	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, 45)
	cmd.AddEntity(&cam)
	glass := Standard("#ffffff").Translucent(0.5)
	for _, z := range []float32{-5, 5, 0} {
		cmd.AddEntity(
			&TransformComponent{Position: mgl32.Vec3{0, 0, z}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
			&MeshComponent{Material: glass},
		)
	}
	app.FlushCommands()
	app.Step()

	require.Equal(t, 1, capture.Frames)
	got := capture.Last.Transparent
	require.Len(t, got, 3)
	assert.InDelta(t, 15, got[0].Depth, 1e-4)
	assert.InDelta(t, 10, got[1].Depth, 1e-4)
	assert.InDelta(t, 5, got[2].Depth, 1e-4)
	assert.Empty(t, capture.Last.Opaque)
}

func TestSortBackToFront_Stable(t *testing.T) {
	draws := []MeshDraw{
		{Entity: 1, Depth: 2},
		{Entity: 2, Depth: 5},
		{Entity: 3, Depth: 2},
		{Entity: 4, Depth: 9},
	}
	SortBackToFront(draws)
	var order []EntityId
	for _, d := range draws {
		order = append(order, d.Entity)
	}
	assert.Equal(t, []EntityId{4, 2, 1, 3}, order)
}

func TestCaptureRenderer_CopiesSlices(t *testing.T) {
	r := &CaptureRenderer{}
	frame := &RenderFrame{Opaque: []MeshDraw{{Entity: 1}}}
	require.NoError(t, r.Render(frame, nil))

	frame.Opaque[0].Entity = 99
	assert.Equal(t, EntityId(1), r.Last.Opaque[0].Entity)
}

func TestRenderModule_SingleRenderer(t *testing.T) {
	app := NewApp().UseModules(TimeModule{}, InputModule{}, AssetServerModule{})
	app.UseRenderer(RendererCapture, &CaptureRenderer{})

	assert.NotPanics(t, func() { app.UseRenderer(RendererCapture, &CaptureRenderer{}) })
	assert.Panics(t, func() { app.UseRenderer(RendererWGPU, &CaptureRenderer{}) })
	assert.Panics(t, func() { NewApp().UseModules(RenderModule{Name: RendererCapture}) })
}
