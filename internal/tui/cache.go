package tui

import (
	"image"

	"github.com/tinytelemetry/dronepanel/internal/render"
)

type renderKey struct {
	img  image.Image
	w, h int
	dim  bool
}

// renderCache keeps the last rendering of each on-screen image so that
// re-renders without a new frame do not rescale pixels again.
type renderCache struct {
	entries map[string]cachedRender
}

type cachedRender struct {
	key renderKey
	out string
}

func (c *renderCache) image(slot string, img image.Image, w, h int, dim bool) string {
	key := renderKey{img: img, w: w, h: h, dim: dim}
	if e, ok := c.entries[slot]; ok && e.key == key {
		return e.out
	}
	out := render.Image(img, w, h, render.Options{Dim: dim})
	if c.entries == nil {
		c.entries = make(map[string]cachedRender)
	}
	c.entries[slot] = cachedRender{key: key, out: out}
	return out
}
