package greetcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_KeyEdgesAndRepeat(t *testing.T) {
	in := &Input{}
	in.PushKey(KeyUp, true, false)
	in.PushKey(KeyUp, true, true)
	in.PushKey(KeyUp, true, true)
	inputSystem(in)

	assert.True(t, in.Pressed[KeyUp])
	assert.True(t, in.JustPressed[KeyUp])
	assert.Equal(t, 3, in.KeyDowns[KeyUp])

	// Repeat alone is never a fresh press.
	in.PushKey(KeyUp, true, true)
	inputSystem(in)
	assert.False(t, in.JustPressed[KeyUp])
	assert.Equal(t, 1, in.KeyDowns[KeyUp])

	in.PushKey(KeyUp, false, false)
	inputSystem(in)
	assert.False(t, in.Pressed[KeyUp])
	assert.True(t, in.JustReleased[KeyUp])

	inputSystem(in)
	assert.False(t, in.JustReleased[KeyUp])
	assert.Zero(t, in.KeyDowns[KeyUp])
}

func TestInput_IgnoresUnknownKeys(t *testing.T) {
	in := &Input{}
	in.PushKey(KeyUnknown, true, false)
	in.PushKey(keyCount, true, false)
	inputSystem(in)
	assert.Equal(t, [keyCount]bool{}, in.Pressed)
}

func TestInput_ClickVersusDrag(t *testing.T) {
	in := &Input{}
	in.PushCursor(100, 100)
	in.PushMouseButton(MouseButtonLeft, true)
	in.PushCursor(102, 101)
	in.PushMouseButton(MouseButtonLeft, false)
	inputSystem(in)

	assert.True(t, in.Clicked[MouseButtonLeft])
	x, y := in.PressedAt(MouseButtonLeft)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 100.0, y)

	in.PushMouseButton(MouseButtonLeft, true)
	inputSystem(in)
	assert.True(t, in.MouseJustPressed[MouseButtonLeft])
	in.PushCursor(150, 101)
	in.PushMouseButton(MouseButtonLeft, false)
	inputSystem(in)

	assert.False(t, in.Clicked[MouseButtonLeft])
	assert.True(t, in.MouseJustReleased[MouseButtonLeft])
	assert.Equal(t, 48.0, in.MouseDeltaX)
}

func TestInput_ScrollResizeAndCapture(t *testing.T) {
	in := &Input{}
	in.PushScroll(1)
	in.PushScroll(2)
	in.PushResize(800, 600)
	inputSystem(in)
	assert.Equal(t, 3.0, in.ScrollY)
	assert.Equal(t, 800, in.WindowWidth)
	assert.Equal(t, 600, in.WindowHeight)

	inputSystem(in)
	assert.Zero(t, in.ScrollY)
	assert.Equal(t, 800, in.WindowWidth, "size persists between frames")

	in.PointerCaptured = true
	in.PushMouseButton(MouseButtonLeft, true)
	in.PushMouseButton(MouseButtonLeft, false)
	inputSystem(in)
	assert.False(t, in.PointerCaptured, "releasing the left button ends capture")
}
