package udraw

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Screenshot captures the scene and writes it as a PNG into dir with a
// timestamped file name built from label. It returns the written path.
func (s *Scene) Screenshot(dir, label string) (string, error) {
	img, err := s.Capture()
	if err != nil {
		return "", err
	}
	return s.SaveScreenshot(dir, label, img)
}

// SaveScreenshot writes an already captured img the way Screenshot does,
// named from the scene clock and label, without capturing again.
func (s *Scene) SaveScreenshot(dir, label string, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("screenshot: no image")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	stamp := s.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	if err := WritePNG(path, img); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// WritePNG encodes img to a PNG file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
