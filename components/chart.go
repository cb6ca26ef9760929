package components

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"demo/common"
	"demo/stats"
)

const (
	marginLeft   = 40.0
	marginBottom = 24.0
	marginTop    = 10.0
	marginRight  = 10.0
	yTicks       = 4
)

var (
	backgroundColor = color.RGBA{30, 30, 40, 255}
	axisColor       = color.White
	lineColor       = color.RGBA{255, 0, 255, 255}
)

// Chart is a line chart of points laid out in a fixed pixel dimension.
type Chart struct {
	points    []stats.Point
	dimension common.Dimension
	plot      common.Dimension
	bounds    common.Bounds
}

func NewChart(points []stats.Point, d common.Dimension) *Chart {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, float64(p.Date.Unix()))
		ys = append(ys, p.Value)
	}

	return &Chart{
		points:    points,
		dimension: d,
		plot: common.Dimension{
			Width:  math.Max(1, d.Width-marginLeft-marginRight),
			Height: math.Max(1, d.Height-marginTop-marginBottom),
		},
		bounds: common.BoundsOf(xs, ys).Pad(),
	}
}

// Position returns the pixel position of p in the rendered image.
func (c *Chart) Position(p stats.Point) (x, y float64) {
	x, y = common.Projection(float64(p.Date.Unix()), p.Value, c.plot, c.bounds)
	return x + marginLeft, y + marginTop
}

// Nearest returns the point closest to the pixel (x, y) along the time axis.
func (c *Chart) Nearest(x, y float64) (stats.Point, bool) {
	if len(c.points) == 0 {
		return stats.Point{}, false
	}

	minD := math.MaxFloat64
	var closest stats.Point
	for _, p := range c.points {
		px, _ := c.Position(p)
		if d := math.Abs(px - x); d < minD {
			minD = d
			closest = p
		}
	}
	return closest, true
}

// Render draws the chart. Without points only the axes are drawn.
func (c *Chart) Render() image.Image {
	dc := gg.NewContext(int(c.dimension.Width), int(c.dimension.Height))
	dc.SetColor(backgroundColor)
	dc.Clear()

	c.drawAxes(dc)

	dc.SetColor(lineColor)
	dc.SetLineWidth(2)
	for i, p := range c.points {
		x, y := c.Position(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	for _, p := range c.points {
		x, y := c.Position(p)
		dc.DrawCircle(x, y, 3)
		dc.Fill()
	}

	return dc.Image()
}

func (c *Chart) drawAxes(dc *gg.Context) {
	left, top := marginLeft, marginTop
	bottom := top + c.plot.Height
	right := left + c.plot.Width

	dc.SetColor(axisColor)
	dc.SetLineWidth(1)
	dc.DrawLine(left, top, left, bottom)
	dc.DrawLine(left, bottom, right, bottom)
	dc.Stroke()

	if len(c.points) == 0 {
		return
	}

	dc.SetFontFace(FontFace(10))
	step := (c.bounds.MaxY - c.bounds.MinY) / yTicks
	for i := range yTicks + 1 {
		value := c.bounds.MinY + float64(i)*step
		_, y := common.Projection(0, value, c.plot, c.bounds)
		y += top
		dc.DrawLine(left-3, y, left, y)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.FormatFloat(value, 'f', -1, 64), left-5, y, 1, 0.5)
	}

	first, last := c.points[0], c.points[len(c.points)-1]
	dc.DrawStringAnchored(first.Date.Format("02/01"), left, bottom+12, 0, 0.5)
	dc.DrawStringAnchored(last.Date.Format("02/01"), right, bottom+12, 1, 0.5)
}

// RenderChart draws points in an image of dimension d.
func RenderChart(points []stats.Point, d common.Dimension) image.Image {
	return NewChart(points, d).Render()
}
