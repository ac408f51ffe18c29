package udraw

import (
	"image"
	"log/slog"
	"time"
)

// debugStats holds per-capture timing. Only populated in debug mode.
type debugStats struct {
	update time.Duration
	bounds time.Duration
	draw   time.Duration
	total  time.Duration
}

// debugLog reports a finished capture through the scene logger.
func (s *Scene) debugLog(stats debugStats, rect image.Rectangle, err error) {
	if !s.debug {
		return
	}
	attrs := []any{
		slog.String("scene", s.Name),
		slog.Uint64("frame", s.frame),
		slog.String("rect", rect.String()),
		slog.Int("entities", s.EntityCount()),
		slog.Duration("update", stats.update),
		slog.Duration("bounds", stats.bounds),
		slog.Duration("draw", stats.draw),
		slog.Duration("total", stats.total),
	}
	if err != nil {
		s.logger.Warn("udraw: capture failed", append(attrs, slog.Any("error", err))...)
		return
	}
	s.logger.Debug("udraw: capture", attrs...)
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if t sits deeper than debugMaxTreeDepth.
func (s *Scene) debugCheckTreeDepth(t *Transform) {
	depth := 0
	for p := t; p != nil; p = p.Parent() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.logger.Warn("udraw: tree depth exceeds threshold",
			"entity", t.entity.Name(), "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns if t has more than debugMaxChildCount children.
func (s *Scene) debugCheckChildCount(t *Transform) {
	if n := len(t.children); n > debugMaxChildCount {
		s.logger.Warn("udraw: child count exceeds threshold",
			"entity", t.entity.Name(), "children", n, "threshold", debugMaxChildCount)
	}
}
