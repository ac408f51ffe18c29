package main

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
)

type logLevelFlag struct {
	value slog.Level
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level")
	}
	l.value = v
	return nil
}

// rectFlag parses "x,y,w,h". Unset means auto-fit.
type rectFlag struct {
	value image.Rectangle
	set   bool
}

func (r *rectFlag) String() string {
	if !r.set {
		return ""
	}
	v := r.value
	return fmt.Sprintf("%d,%d,%d,%d", v.Min.X, v.Min.Y, v.Dx(), v.Dy())
}

func (r *rectFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return fmt.Errorf("want x,y,w,h")
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("want x,y,w,h: %w", err)
		}
		n[i] = v
	}
	if n[2] <= 0 || n[3] <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	r.value = image.Rect(n[0], n[1], n[0]+n[2], n[1]+n[3])
	r.set = true
	return nil
}
