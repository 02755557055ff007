package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

func solid(w, h int, c color.NRGBA) image.Image {
	return imaging.New(w, h, c)
}

func TestImage_Dimensions(t *testing.T) {
	t.Parallel()

	out := Image(solid(64, 48, color.NRGBA{200, 10, 10, 255}), 12, 5, Options{})
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("rows = %d, want 5", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 12 {
			t.Fatalf("row %d width = %d, want 12", i, w)
		}
	}
}

func TestImage_EmptyInputs(t *testing.T) {
	t.Parallel()

	if Image(nil, 10, 10, Options{}) != "" {
		t.Error("nil image rendered")
	}
	if Image(solid(4, 4, color.NRGBA{A: 255}), 0, 3, Options{}) != "" {
		t.Error("zero width rendered")
	}
	if Image(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 3, 3, Options{}) != "" {
		t.Error("empty image rendered")
	}
}

func TestCellColor_Dim(t *testing.T) {
	t.Parallel()

	img := solid(1, 1, color.NRGBA{255, 255, 255, 255})
	bright := cellColor(img, 0, 0, Options{})
	dim := cellColor(img, 0, 0, Options{Dim: true})
	if bright != "#ffffff" {
		t.Fatalf("bright = %s, want #ffffff", bright)
	}
	if dim == bright {
		t.Fatal("dimmed colour equals original")
	}
}
