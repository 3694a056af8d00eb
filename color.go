package greetcard

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear-space RGB triple. Hex inputs are sRGB and converted on
// parse, so blends and vertex buffers all live in linear space.
type Color struct {
	R, G, B float32
}

var (
	White = Color{1, 1, 1}
	Black = Color{0, 0, 0}
)

func ParseHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return Color{float32(r), float32(g), float32(b)}, nil
}

// MustHex is ParseHex for compile-time palette constants.
func MustHex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp moves c toward to by t, component-wise.
func (c Color) Lerp(to Color, t float32) Color {
	blended := c.colorful().BlendRgb(to.colorful(), float64(t))
	return Color{float32(blended.R), float32(blended.G), float32(blended.B)}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

func (c Color) Vec4(alpha float32) [4]float32 {
	return [4]float32{c.R, c.G, c.B, alpha}
}
