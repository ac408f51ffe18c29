// Package ggcanvas is a software raster backend for udraw built on
// github.com/fogleman/gg.
//
// A Factory allocates RGBA surfaces. Each surface's canvas wraps a
// gg.Context and keeps its own save stack on top of gg's Push/Pop so that
// SaveCount, RestoreToCount and opacity layers behave the way udraw expects:
//
//	scene := udraw.NewScene("hud", ggcanvas.NewFactory())
//	img, err := scene.Capture()
//
// Clipping uses gg masks, so clips follow the current transform including
// rotation. Layers are composited by blending the pixels drawn inside the
// layer against a copy taken when the layer was pushed.
package ggcanvas
