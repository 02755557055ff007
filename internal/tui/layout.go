package tui

// rect is a screen region in terminal cells, borders included.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// inner returns the content size inside a one-cell border.
func (r rect) inner() (w, h int) {
	return max(0, r.w-2), max(0, r.h-2)
}

const (
	headerHeight = 1
	statusHeight = 1
	footerHeight = 1
	thumbColumns = 3
	statsHeight  = 6
	minRightW    = 24
	minWidth     = 60
	minHeight    = 16
)

// panelLayout places the viewer on the left and the photo grid with the
// stats pane on the right. Rendering and mouse hit-testing share it.
type panelLayout struct {
	viewer rect
	thumbs []rect
	stats  rect
	ok     bool
}

func computeLayout(width, height, slots int) panelLayout {
	if width < minWidth || height < minHeight || slots <= 0 {
		return panelLayout{}
	}

	bodyY := headerHeight
	bodyH := height - headerHeight - statusHeight - footerHeight

	rightW := max(minRightW, width/3)
	viewerW := width - rightW

	l := panelLayout{
		viewer: rect{x: 0, y: bodyY, w: viewerW, h: bodyH},
		ok:     true,
	}

	statsH := 0
	if bodyH >= 3*statsHeight {
		statsH = statsHeight
	}
	gridH := bodyH - statsH

	rows := (slots + thumbColumns - 1) / thumbColumns
	cellW := rightW / thumbColumns
	cellH := gridH / rows

	l.thumbs = make([]rect, slots)
	for i := range slots {
		col := i % thumbColumns
		row := i / thumbColumns
		l.thumbs[i] = rect{
			x: viewerW + col*cellW,
			y: bodyY + row*cellH,
			w: cellW,
			h: cellH,
		}
	}
	if statsH > 0 {
		l.stats = rect{x: viewerW, y: bodyY + rows*cellH, w: rightW, h: bodyH - rows*cellH}
	}
	return l
}
