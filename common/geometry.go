package common

import "math"

type Dimension struct {
	Width  float64
	Height float64
}

// Bounds is the data-space rectangle mapped onto a Dimension.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundsOf returns the smallest bounds containing every (xs[i], ys[i]).
// Empty input yields the unit square.
func BoundsOf(xs, ys []float64) Bounds {
	if len(xs) == 0 || len(ys) == 0 {
		return Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	}

	b := Bounds{
		MinX: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MinY: math.MaxFloat64,
		MaxY: -math.MaxFloat64,
	}
	for _, x := range xs {
		b.MinX = math.Min(b.MinX, x)
		b.MaxX = math.Max(b.MaxX, x)
	}
	for _, y := range ys {
		b.MinY = math.Min(b.MinY, y)
		b.MaxY = math.Max(b.MaxY, y)
	}
	return b
}

// Pad widens degenerate bounds so they can be projected.
func (b Bounds) Pad() Bounds {
	if b.MaxX == b.MinX {
		b.MinX--
		b.MaxX++
	}
	if b.MaxY == b.MinY {
		b.MinY--
		b.MaxY++
	}
	return b
}

// Projection maps a data point to pixels, y growing downwards.
func Projection(x, y float64, d Dimension, b Bounds) (px, py float64) {
	px = (x - b.MinX) * d.Width / (b.MaxX - b.MinX)
	py = d.Height - (y-b.MinY)*d.Height/(b.MaxY-b.MinY)
	return px, py
}

// ProjectionFromXY is the inverse of Projection.
func ProjectionFromXY(px, py float64, d Dimension, b Bounds) (x, y float64) {
	x = b.MinX + (b.MaxX-b.MinX)/d.Width*px
	y = b.MinY + (b.MaxY-b.MinY)/d.Height*(d.Height-py)
	return x, y
}
