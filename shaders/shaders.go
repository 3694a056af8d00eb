package shaders

import (
	_ "embed"
)

// CommonWGSL declares the scene and draw uniforms plus tone mapping and fog.
// It is prepended to MeshWGSL and PointsWGSL.
//
//go:embed common.wgsl
var CommonWGSL string

//go:embed mesh.wgsl
var MeshWGSL string

//go:embed points.wgsl
var PointsWGSL string

//go:embed overlay.wgsl
var OverlayWGSL string
