package tiling

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

const eps = 1e-6

// coveredBy reports whether p lies in the lattice cell of some tile of w.
func coveredBy(l Lattice, w Window, offset float64, dir Direction, p, origin Point) bool {
	half := l.Spacing()/2 + eps
	pu, pv := l.ToLattice(p, origin)
	for row := w.RowMin; row < w.RowMax; row++ {
		for col := w.ColMin; col < w.ColMax; col++ {
			u, v := l.TileCenter(row, col, offset, dir)
			if math.Abs(pu-u) <= half && math.Abs(pv-v) <= half {
				return true
			}
		}
	}
	return false
}

func assertCovered(t *testing.T, l Lattice, width, height float64, rng *rand.Rand) {
	t.Helper()
	cov := l.Coverage(width, height)
	win := cov.Window()
	origin := Point{X: width / 2, Y: height / 2}
	spacing := l.Spacing()

	offsets := []float64{0, spacing / 2, spacing - 1e-9}
	for i := 0; i < 4; i++ {
		offsets = append(offsets, rng.Float64()*spacing)
	}
	points := []Point{{0, 0}, {width, 0}, {width, height}, {0, height}}
	for i := 0; i < 120; i++ {
		points = append(points, Point{X: rng.Float64() * width, Y: rng.Float64() * height})
	}

	for _, dir := range []Direction{Forward, Reverse} {
		for _, offset := range offsets {
			for _, p := range points {
				if !coveredBy(l, win, offset, dir, p, origin) {
					t.Fatalf("%gx%g rot=%.3f dir=%s offset=%.3f: point (%.2f, %.2f) not covered by %+v",
						width, height, l.Rotation(), dir, offset, p.X, p.Y, cov)
				}
			}
		}
	}
}

func TestCoverageCompleteness(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	rotations := []float64{0, math.Pi / 4, math.Pi / 6, -math.Pi / 3, math.Pi / 2}
	sizes := [][2]float64{{800, 600}, {1, 1}, {320, 480}, {1920, 1080}, {44, 2000}, {3000, 7}}

	for _, rot := range rotations {
		l, err := NewLattice(20, 24, rot)
		if err != nil {
			t.Fatalf("NewLattice: %v", err)
		}
		for _, size := range sizes {
			assertCovered(t, l, size[0], size[1], rng)
		}
	}
}

func TestCoverageCompletenessRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 15; i++ {
		tile := 1 + rng.Float64()*40
		gap := rng.Float64() * 30
		l, err := NewLattice(tile, gap, rng.Float64()*2*math.Pi)
		if err != nil {
			t.Fatalf("NewLattice: %v", err)
		}
		assertCovered(t, l, 1+rng.Float64()*900, 1+rng.Float64()*900, rng)
	}
}

func TestCoverageZeroViewport(t *testing.T) {
	l, _ := NewLattice(20, 24, math.Pi/4)
	for _, size := range [][2]float64{{0, 0}, {0, 600}, {800, 0}, {-5, 10}} {
		cov := l.Coverage(size[0], size[1])
		if cov != (Coverage{}) {
			t.Fatalf("Coverage(%v) = %+v, want zero", size, cov)
		}
		if w := cov.Window(); !w.Empty() || w.Len() != 0 {
			t.Fatalf("window of zero coverage = %+v, want empty", w)
		}
	}
}

func TestCoverageShrinksWithViewport(t *testing.T) {
	l, _ := NewLattice(20, 24, math.Pi/4)
	large := l.Coverage(1920, 1080)
	small := l.Coverage(320, 480)
	if small.Cols > large.Cols || small.Rows > large.Rows {
		t.Fatalf("coverage grew on shrink: %+v -> %+v", large, small)
	}
	if small.Cols*small.Rows >= large.Cols*large.Rows {
		t.Fatalf("coverage area did not shrink: %+v -> %+v", large, small)
	}
	assertCovered(t, l, 320, 480, rand.New(rand.NewPCG(3, 4)))
}

func TestNewLatticeRejectsBadSpacing(t *testing.T) {
	cases := []struct {
		name     string
		tile     float64
		gap      float64
		wantFail bool
	}{
		{"zero", 0, 0, true},
		{"negative tile", -4, 10, true},
		{"negative gap", 10, -1, true},
		{"gap only", 0, 5, false},
		{"tile only", 5, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLattice(tc.tile, tc.gap, 0)
			if tc.wantFail && !errors.Is(err, ErrInvalidSpacing) {
				t.Fatalf("err = %v, want ErrInvalidSpacing", err)
			}
			if !tc.wantFail && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestTransformRoundTrip(t *testing.T) {
	l, _ := NewLattice(20, 24, 0.7)
	origin := Point{X: 400, Y: 300}
	for _, uv := range [][2]float64{{0, 0}, {10, -3}, {-250, 99.5}} {
		p := l.ToScreen(uv[0], uv[1], origin)
		u, v := l.ToLattice(p, origin)
		if math.Abs(u-uv[0]) > eps || math.Abs(v-uv[1]) > eps {
			t.Fatalf("round trip %v -> %v -> (%g, %g)", uv, p, u, v)
		}
	}
}

func TestTileCenterStaggerAndShift(t *testing.T) {
	l, _ := NewLattice(20, 24, 0)
	u, v := l.TileCenter(0, 1, 5, Forward)
	if u != 49 || v != 0 {
		t.Fatalf("even row = (%g, %g), want (49, 0)", u, v)
	}
	u, v = l.TileCenter(1, 1, 5, Forward)
	if u != 44+22-5 || v != 44 {
		t.Fatalf("odd row = (%g, %g), want (61, 44)", u, v)
	}
	u, _ = l.TileCenter(-1, 0, 5, Reverse)
	if u != 22+5 {
		t.Fatalf("negative odd row reverse u = %g, want 27", u)
	}
}

func TestSeamlessWrap(t *testing.T) {
	l, _ := NewLattice(20, 24, math.Pi/4)
	const width, height = 800.0, 600.0
	origin := Point{X: width / 2, Y: height / 2}
	win := l.Coverage(width, height).Window()
	spacing := l.Spacing()

	positions := func(offset float64) map[[2]int64]bool {
		out := map[[2]int64]bool{}
		// One extra column each side so the unwrapped offset still spans the viewport.
		for row := win.RowMin; row < win.RowMax; row++ {
			for col := win.ColMin - 2; col < win.ColMax+2; col++ {
				u, v := l.TileCenter(row, col, offset, Forward)
				p := l.ToScreen(u, v, origin)
				if p.X < 0 || p.X > width || p.Y < 0 || p.Y > height {
					continue
				}
				out[[2]int64{int64(math.Round(p.X * 1000)), int64(math.Round(p.Y * 1000))}] = true
			}
		}
		return out
	}

	for _, offset := range []float64{0, 13.25, 43.5} {
		a := positions(offset)
		b := positions(offset + spacing)
		if len(a) == 0 || len(a) != len(b) {
			t.Fatalf("offset %g: %d vs %d positions", offset, len(a), len(b))
		}
		for p := range a {
			if !b[p] {
				t.Fatalf("offset %g: position %v missing after one pitch", offset, p)
			}
		}
	}
}

func TestGlobalKeyFollowsWrap(t *testing.T) {
	// Just before a wrap window column c holds the tile that sits at column
	// c+1 right after it; both must resolve to the same global key.
	for _, dir := range []Direction{Forward, Reverse} {
		for _, row := range []int{0, 1, -1, 4} {
			before := GlobalKey(row, 3, 7, dir)
			var after TileKey
			if rowSign(row, dir) > 0 {
				after = GlobalKey(row, 4, 8, dir)
			} else {
				after = GlobalKey(row, 2, 8, dir)
			}
			if before != after {
				t.Fatalf("dir=%s row=%d: %+v != %+v", dir, row, before, after)
			}
		}
	}
}
