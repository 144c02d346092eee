package tiling

import "math"

const (
	// coverageMargin pads the projected viewport on every side.
	coverageMargin = 2.0
	// coverageSlack absorbs rounding in the column and row counts.
	coverageSlack = 2
	// windowPad extends the iterated index window past the coverage counts.
	windowPad = 1
)

// Point is a position in screen space, in logical units.
type Point struct {
	X, Y float64
}

// TileKey identifies a tile by its global lattice indices.
type TileKey struct {
	Row int
	Col int
}

// Lattice is a rotated square lattice with staggered odd rows.
type Lattice struct {
	tileSize float64
	gap      float64
	rotation float64
	sin, cos float64
}

// NewLattice validates the pitch and precomputes the rotation.
func NewLattice(tileSize, gap, rotation float64) (Lattice, error) {
	if tileSize < 0 || gap < 0 || !(tileSize+gap > 0) {
		return Lattice{}, ErrInvalidSpacing
	}
	sin, cos := math.Sincos(rotation)
	return Lattice{tileSize: tileSize, gap: gap, rotation: rotation, sin: sin, cos: cos}, nil
}

func (l Lattice) TileSize() float64 { return l.tileSize }
func (l Lattice) Spacing() float64  { return l.tileSize + l.gap }
func (l Lattice) Rotation() float64 { return l.rotation }

// ToScreen maps lattice coordinates to screen space around origin.
func (l Lattice) ToScreen(u, v float64, origin Point) Point {
	return Point{
		X: u*l.cos - v*l.sin + origin.X,
		Y: u*l.sin + v*l.cos + origin.Y,
	}
}

// ToLattice is the inverse of ToScreen.
func (l Lattice) ToLattice(p Point, origin Point) (u, v float64) {
	x := p.X - origin.X
	y := p.Y - origin.Y
	return x*l.cos + y*l.sin, -x*l.sin + y*l.cos
}

// Coverage is the number of lattice columns and rows needed to paint a
// viewport at every scroll offset and stagger phase.
type Coverage struct {
	Cols int
	Rows int
}

func (c Coverage) Empty() bool { return c.Cols <= 0 || c.Rows <= 0 }

// Coverage computes the counts for a width×height viewport centred on the
// lattice origin.
func (l Lattice) Coverage(width, height float64) Coverage {
	if !(width > 0) || !(height > 0) {
		return Coverage{}
	}
	spacing := l.Spacing()
	halfW, halfH := width/2, height/2
	corners := [4]Point{{-halfW, -halfH}, {halfW, -halfH}, {halfW, halfH}, {-halfW, halfH}}

	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, corner := range corners {
		u, v := l.ToLattice(corner, Point{})
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}

	// u absorbs a full scroll pitch plus the half-pitch stagger.
	padU := spacing + spacing/2 + l.tileSize/2 + coverageMargin
	padV := l.tileSize/2 + coverageMargin
	spanU := (maxU - minU) + 2*padU
	spanV := (maxV - minV) + 2*padV

	return Coverage{
		Cols: int(math.Ceil(spanU/spacing)) + coverageSlack,
		Rows: int(math.Ceil(spanV/spacing)) + coverageSlack,
	}
}

// Window is a half-open range of lattice rows and columns.
type Window struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

// Window returns the padded index window iterated by the render loop.
func (c Coverage) Window() Window {
	if c.Empty() {
		return Window{}
	}
	halfRows := (c.Rows+1)/2 + windowPad
	halfCols := (c.Cols+1)/2 + windowPad
	return Window{RowMin: -halfRows, RowMax: halfRows, ColMin: -halfCols, ColMax: halfCols}
}

func (w Window) Empty() bool { return w.RowMax <= w.RowMin || w.ColMax <= w.ColMin }

// Len is the number of tiles in the window.
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return (w.RowMax - w.RowMin) * (w.ColMax - w.ColMin)
}

// rowSign is the scroll sign of a row: even rows move with the direction,
// odd rows against it.
func rowSign(row int, dir Direction) float64 {
	if row&1 == 0 {
		return dir.sign()
	}
	return -dir.sign()
}

// TileCenter returns the lattice position of window tile (row, col) at the
// given wrapped offset.
func (l Lattice) TileCenter(row, col int, offset float64, dir Direction) (u, v float64) {
	spacing := l.Spacing()
	u = float64(col) * spacing
	if row&1 != 0 {
		u += spacing / 2
	}
	u += rowSign(row, dir) * offset
	return u, float64(row) * spacing
}

// GlobalKey converts a window index into the tile's global identity. cycles
// counts completed offset wraps; each wrap moves the window one column
// relative to the tiles of a row.
func GlobalKey(row, col, cycles int, dir Direction) TileKey {
	if rowSign(row, dir) > 0 {
		return TileKey{Row: row, Col: col - cycles}
	}
	return TileKey{Row: row, Col: col + cycles}
}

// Corners returns the screen-space vertices of a tile centred on (u, v).
func (l Lattice) Corners(u, v float64, origin Point) [4]Point {
	h := l.tileSize / 2
	return [4]Point{
		l.ToScreen(u-h, v-h, origin),
		l.ToScreen(u+h, v-h, origin),
		l.ToScreen(u+h, v+h, origin),
		l.ToScreen(u-h, v+h, origin),
	}
}

// HalfExtent is half the screen-space bounding box side of one tile.
func (l Lattice) HalfExtent() float64 {
	return l.tileSize / 2 * (math.Abs(l.cos) + math.Abs(l.sin))
}
