package greetcard

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Greeting lines. The bundled Go fonts have no CJK glyphs, so the Chinese
// lines are romanised.
const (
	GreetingTo    = "To Zai Zai:"
	GreetingTitle = "MERRY CHRISTMAS"
	GreetingWish  = "Bu yao sheng qi la, yong yuan kai xin!"
	GreetingFoot  = "Wishes for a Pink winter"
	HUDHint       = "↑/↓ to Speed | Space to Pause"
)

var (
	overlayTitleColor = color.NRGBA{0xFF, 0xE4, 0xEC, 0xFF}
	overlayWishColor  = color.NRGBA{0xFB, 0xCF, 0xE8, 0xE6}
	overlayFootColor  = color.NRGBA{0xFF, 0xFF, 0xFF, 0x99}
	overlayButton     = color.NRGBA{0xF9, 0xA8, 0xD4, 0xFF}
	overlayHUDColor   = color.NRGBA{0xFF, 0xFF, 0xFF, 0x4D}
)

// OverlayState is everything the overlay text depends on.
type OverlayState struct {
	Width, Height int
	Playing       bool
	Speed         float32
	Track         string
}

type textStyle struct {
	face     font.Face
	color    color.NRGBA
	tracking int
	upper    bool
}

// Overlay is the 2D layer drawn over the scene: greeting, music button and
// rotation HUD. It is redrawn only when its state changes and uploaded as an
// RGBA texture.
type Overlay struct {
	Image   *image.RGBA
	Texture AssetId
	Button  image.Rectangle

	trackTitle string
	last       OverlayState
	drawn      bool
	styles     map[string]textStyle
}

func NewOverlay() (*Overlay, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	face := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	sizes := []struct {
		name     string
		font     *opentype.Font
		size     float64
		color    color.NRGBA
		tracking int
		upper    bool
	}{
		{"to", bold, 36, overlayTitleColor, 0, false},
		{"title", bold, 60, overlayTitleColor, 2, false},
		{"wish", regular, 24, overlayWishColor, 4, false},
		{"foot", regular, 12, overlayFootColor, 7, true},
		{"button", bold, 10, overlayButton, 2, true},
		{"track", regular, 8, overlayButton, 2, true},
		{"icon", bold, 16, overlayButton, 0, false},
		{"hud", regular, 10, overlayHUDColor, 2, true},
	}

	o := &Overlay{trackTitle: DefaultTrackTitle, styles: make(map[string]textStyle)}
	for _, s := range sizes {
		f, err := face(s.font, s.size)
		if err != nil {
			return nil, fmt.Errorf("create %s face: %w", s.name, err)
		}
		o.styles[s.name] = textStyle{face: f, color: s.color, tracking: s.tracking, upper: s.upper}
	}
	return o, nil
}

func (o *Overlay) SetTrackTitle(title string) {
	if title == "" {
		title = DefaultTrackTitle
	}
	o.trackTitle = title
}

func (o *Overlay) TrackTitle() string {
	return o.trackTitle
}

// ButtonHit reports whether a window-space point lies on the music button.
func (o *Overlay) ButtonHit(x, y float64) bool {
	return image.Pt(int(x), int(y)).In(o.Button)
}

func ButtonLabel(playing bool) string {
	if playing {
		return "Now Playing"
	}
	return "Click to Play"
}

func RotationLabel(speed float32) string {
	return fmt.Sprintf("Rotation: %g°/s", speed)
}

// Draw re-renders the overlay when st differs from the last drawn state and
// reports whether it did.
func (o *Overlay) Draw(st OverlayState) bool {
	if o.drawn && st == o.last {
		return false
	}
	if st.Width <= 0 || st.Height <= 0 {
		return false
	}
	if o.Image == nil || o.Image.Bounds().Dx() != st.Width || o.Image.Bounds().Dy() != st.Height {
		o.Image = image.NewRGBA(image.Rect(0, 0, st.Width, st.Height))
	}
	drawVignette(o.Image)

	margin := max(32, st.Width/10)
	y := st.Height/2 - 150

	y = o.text(o.Image, "to", GreetingTo, margin, y) + 8
	y = o.text(o.Image, "title", GreetingTitle, margin, y) + 24
	y = o.text(o.Image, "wish", GreetingWish, margin, y) + 16
	y = o.text(o.Image, "foot", GreetingFoot, margin, y) + 32

	// music button: a ring with an icon, then the two labels
	const ring = 40
	circle := image.Rect(margin, y, margin+ring, y+ring)
	drawRing(o.Image, circle, overlayButton)
	icon := "►"
	if st.Playing {
		icon = "♪"
	}
	iconW := o.measure("icon", icon)
	o.text(o.Image, "icon", icon, circle.Min.X+(ring-iconW)/2, circle.Min.Y+ring/2-10)

	labelX := circle.Max.X + 12
	ly := o.text(o.Image, "button", ButtonLabel(st.Playing), labelX, y+8) + 2
	ly = o.text(o.Image, "track", st.Track, labelX, ly)
	labelW := max(o.measure("button", ButtonLabel(false)), o.measure("track", st.Track))
	o.Button = image.Rect(circle.Min.X, circle.Min.Y, labelX+labelW, max(circle.Max.Y, ly))

	// HUD, bottom-right aligned
	hud := []string{RotationLabel(st.Speed), HUDHint}
	hy := st.Height - 32 - 2*18
	for _, line := range hud {
		w := o.measure("hud", line)
		hy = o.text(o.Image, "hud", line, st.Width-32-w, hy) + 6
	}

	o.last = st
	o.drawn = true
	return true
}

func (o *Overlay) prepare(style, s string) (textStyle, string) {
	ts := o.styles[style]
	if ts.upper {
		s = strings.ToUpper(s)
	}
	return ts, s
}

func (o *Overlay) measure(style, s string) int {
	ts, s := o.prepare(style, s)
	w := font.MeasureString(ts.face, s).Ceil()
	if n := len([]rune(s)); n > 1 {
		w += ts.tracking * (n - 1)
	}
	return w
}

// text draws s with its top-left corner at (x, y) and returns the y just
// below the line.
func (o *Overlay) text(dst draw.Image, style, s string, x, y int) int {
	ts, s := o.prepare(style, s)
	m := ts.face.Metrics()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ts.color),
		Face: ts.face,
		Dot:  fixed.P(x, y+m.Ascent.Ceil()),
	}
	for _, r := range s {
		d.DrawString(string(r))
		d.Dot.X += fixed.I(ts.tracking)
	}
	return y + m.Height.Ceil()
}

// drawVignette darkens toward the corners: clear inside 40% of the half
// diagonal, 90% black at the corners.
func drawVignette(img *image.RGBA) {
	b := img.Bounds()
	cx, cy := float32(b.Dx())/2, float32(b.Dy())/2
	maxR := math32.Hypot(cx, cy)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r := math32.Hypot(float32(x)-cx, float32(y)-cy) / maxR
			t := clamp01((r - 0.4) / 0.6)
			a := uint8(t * 0.9 * 255)
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, a})
		}
	}
}

func drawRing(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	cx := float32(r.Min.X+r.Max.X) / 2
	cy := float32(r.Min.Y+r.Max.Y) / 2
	outer := float32(r.Dx()) / 2
	fill := color.NRGBA{0xEC, 0x48, 0x99, 0x1A}
	edge := color.NRGBA{c.R, c.G, c.B, 0x4D}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d := math32.Hypot(float32(x)+0.5-cx, float32(y)+0.5-cy)
			switch {
			case d > outer:
			case d > outer-1:
				img.Set(x, y, edge)
			default:
				img.Set(x, y, fill)
			}
		}
	}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// OverlayModule draws the greeting, music button and HUD into a texture.
// Track replaces the default title shown under the button.
type OverlayModule struct {
	Track string
}

func (mod OverlayModule) Install(app *App, cmd *Commands) {
	o, err := NewOverlay()
	if err != nil {
		panic(err)
	}
	if mod.Track != "" {
		o.SetTrackTitle(mod.Track)
	}
	cmd.AddResources(o)
	app.UseSystem(
		System(overlayPointerSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(musicButtonSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(overlaySystem).
			InStage(PostUpdate),
	)
}

// overlayPointerSystem keeps presses on the button from orbiting the camera.
func overlayPointerSystem(input *Input, o *Overlay) {
	if input.MouseJustPressed[MouseButtonLeft] {
		// a press and release in the same frame leaves nothing to capture
		input.PointerCaptured = input.MousePressed[MouseButtonLeft] && o.ButtonHit(input.PressedAt(MouseButtonLeft))
	}
}

// musicButtonSystem toggles playback on a click that both starts and ends on
// the button, or on the M key.
func musicButtonSystem(input *Input, o *Overlay, audio *AudioController) {
	// M toggles once per physical press, not on auto-repeat
	if input.JustPressed[KeyM] {
		audio.Toggle()
		return
	}
	if !input.Clicked[MouseButtonLeft] {
		return
	}
	if o.ButtonHit(input.PressedAt(MouseButtonLeft)) && o.ButtonHit(input.MouseX, input.MouseY) {
		audio.Toggle()
	}
}

func overlaySystem(cmd *Commands, input *Input, o *Overlay, rot *RotationState, audio *AudioController, assets *AssetServer) {
	st := OverlayState{
		Width:   input.WindowWidth,
		Height:  input.WindowHeight,
		Playing: audio.Playing(),
		Speed:   rot.Speed,
		Track:   o.trackTitle,
	}
	if !o.Draw(st) {
		return
	}

	w, h := uint32(st.Width), uint32(st.Height)
	if o.Texture == "" {
		o.Texture = assets.CreateTexture(o.Image.Pix, w, h, TextureFormatRGBA8Unorm)
		return
	}
	if err := assets.UpdateTexture(o.Texture, o.Image.Pix, w, h); err != nil {
		cmd.Logger().Errorf("overlay texture: %v", err)
	}
}
