package tui

import "testing"

func TestComputeLayout_TooSmall(t *testing.T) {
	t.Parallel()

	if l := computeLayout(minWidth-1, 40, 9); l.ok {
		t.Fatal("narrow layout reported ok")
	}
	if l := computeLayout(120, minHeight-1, 9); l.ok {
		t.Fatal("short layout reported ok")
	}
}

func TestComputeLayout_RegionsDoNotOverlap(t *testing.T) {
	t.Parallel()

	for _, size := range [][2]int{{60, 16}, {120, 40}, {200, 60}} {
		l := computeLayout(size[0], size[1], 9)
		if !l.ok {
			t.Fatalf("%v: layout not ok", size)
		}
		if len(l.thumbs) != 9 {
			t.Fatalf("%v: got %d thumbs", size, len(l.thumbs))
		}
		regions := append([]rect{l.viewer}, l.thumbs...)
		for i := range regions {
			for j := i + 1; j < len(regions); j++ {
				a, b := regions[i], regions[j]
				if a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.h && b.y < a.y+a.h {
					t.Errorf("%v: regions %d and %d overlap: %+v %+v", size, i, j, a, b)
				}
			}
		}
		for i, r := range regions {
			if r.x+r.w > size[0] || r.y+r.h > size[1] {
				t.Errorf("%v: region %d out of bounds: %+v", size, i, r)
			}
		}
	}
}

func TestRect_Contains(t *testing.T) {
	t.Parallel()

	r := rect{x: 10, y: 5, w: 4, h: 2}
	cases := []struct {
		x, y int
		want bool
	}{
		{10, 5, true},
		{13, 6, true},
		{14, 5, false},
		{10, 7, false},
		{9, 5, false},
	}
	for _, c := range cases {
		if got := r.contains(c.x, c.y); got != c.want {
			t.Errorf("contains(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}
