// Package udraw is a retained-mode 2D scene graph that renders onto an
// abstract raster canvas.
//
// A [Scene] owns an arena of entities. Every [Entity] carries exactly one
// [Transform] and an ordered list of [Behavior] values. Transforms form the
// tree: world position is the sum of local positions up the chain, world
// scale is their product, and rotation stays local to each node.
//
// # Quick start
//
//	scene := udraw.NewScene("card", ggcanvas.NewFactory())
//	scene.Background = udraw.ColorWhite
//
//	box := scene.NewEntity("box")
//	scene.Add(box)
//	rect, _ := udraw.AttachAs[*udraw.Rectangle](box, udraw.KindRectangle)
//	rect.Paint.Color = udraw.Color{R: 0.3, G: 0.7, B: 1, A: 1}
//	box.Transform().SizeDelta = udraw.Vec2{X: 120, Y: 40}
//
//	img, err := scene.Capture()
//
// # Rect layout
//
// Attaching [KindRectTransform] switches an entity's Transform to rect
// layout in place. A rect node has a size derived from its parent's size,
// its anchors and SizeDelta, a local rect positioned by its pivot, and the
// invertible views AnchoredPosition, OffsetMin and OffsetMax. Every leaf
// that draws requires rect layout and attaches it on demand.
//
// # Capture
//
// [Scene.Capture] runs Start/PreUpdate and Update over the tree, computes
// the auto-fit bounds from every rect node's world rect, allocates a surface
// from the scene's [SurfaceFactory] and draws the tree into it. At each node
// every enabled [Drawable] gets BeginDraw, then Draw, then the children are
// drawn, then EndDraw runs. That ordering lets [Mask] and [Layer] wrap the
// node's peers and its whole subtree.
//
// The ggcanvas package provides the software raster backend; ebitenview
// shows a scene in a window; scenefile builds scenes from YAML.
package udraw
