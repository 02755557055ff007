// Package render draws images as terminal text using upper half-block
// characters, two image rows per text row.
package render

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const upperHalfBlock = "▀"

// dimTarget is the colour a dimmed image is pulled towards.
var dimTarget = colorful.Color{R: 0.05, G: 0.05, B: 0.08}

// Options control how an image is drawn.
type Options struct {
	// Dim darkens the image, the terminal analogue of a reduced-opacity image.
	Dim bool
}

// Image renders img scaled to exactly width x height cells. It returns an
// empty string when either dimension is not positive or img is nil.
func Image(img image.Image, width, height int, opts Options) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	scaled := imaging.Resize(img, width, height*2, imaging.Box)

	var sb strings.Builder
	sb.Grow(width * height * 24)
	for row := 0; row < height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			top := cellColor(scaled, x, row*2, opts)
			bottom := cellColor(scaled, x, row*2+1, opts)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(upperHalfBlock))
		}
	}
	return sb.String()
}

func cellColor(img image.Image, x, y int, opts Options) string {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		// Fully transparent pixel.
		c = dimTarget
	}
	if opts.Dim {
		c = c.BlendRgb(dimTarget, 0.65)
	}
	return c.Clamped().Hex()
}
