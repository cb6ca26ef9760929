package ui

import (
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const hoverDelay = 200 * time.Millisecond

// InteractiveChart shows a rendered chart and reports taps and hovers in image coordinates.
// The image keeps its aspect ratio, so positions over the letterbox margins are not reported.
type InteractiveChart struct {
	widget.BaseWidget
	image      *canvas.Image
	size       fyne.Size
	tooltip    *canvas.Text
	hoverTimer *time.Timer
	OnTap      func(pos fyne.Position)
	OnHover    func(pos fyne.Position) string
}

var _ desktop.Hoverable = (*InteractiveChart)(nil)

func NewInteractiveChart(img image.Image, width, height float64) *InteractiveChart {
	tooltip := canvas.NewText("", color.White)
	tooltip.TextSize = 12
	tooltip.Hidden = true

	c := &InteractiveChart{
		image:   newCanvasImage(img),
		size:    fyne.NewSize(float32(width), float32(height)),
		tooltip: tooltip,
	}
	c.ExtendBaseWidget(c)
	return c
}

func newCanvasImage(img image.Image) *canvas.Image {
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	return ci
}

// SetImage replaces the displayed chart.
func (c *InteractiveChart) SetImage(img image.Image) {
	c.image.Image = img
	c.image.Refresh()
	c.Refresh()
}

// Image returns the displayed chart.
func (c *InteractiveChart) Image() image.Image {
	return c.image.Image
}

// TooltipText returns the tooltip text, empty when hidden.
func (c *InteractiveChart) TooltipText() string {
	if c.tooltip.Hidden {
		return ""
	}
	return c.tooltip.Text
}

func (c *InteractiveChart) MinSize() fyne.Size {
	return c.size
}

func (c *InteractiveChart) Tapped(ev *fyne.PointEvent) {
	if c.OnTap == nil {
		return
	}
	if pos, ok := c.imagePosition(ev.Position); ok {
		c.OnTap(pos)
	}
}

// imagePosition maps a position in the widget to the pixel it shows in the contained image.
func (c *InteractiveChart) imagePosition(pos fyne.Position) (fyne.Position, bool) {
	size := c.Size()
	if c.image.Image == nil || size.IsZero() {
		return pos, true
	}
	bounds := c.image.Image.Bounds()
	iw, ih := float32(bounds.Dx()), float32(bounds.Dy())
	if iw == 0 || ih == 0 {
		return pos, true
	}

	scale := min(size.Width/iw, size.Height/ih)
	offsetX := (size.Width - iw*scale) / 2
	offsetY := (size.Height - ih*scale) / 2

	x := (pos.X - offsetX) / scale
	y := (pos.Y - offsetY) / scale
	if x < 0 || y < 0 || x > iw || y > ih {
		return fyne.Position{}, false
	}
	return fyne.NewPos(x, y), true
}

func (c *InteractiveChart) MouseIn(ev *desktop.MouseEvent) {
	c.updateTooltip(ev.Position)
}

func (c *InteractiveChart) MouseMoved(ev *desktop.MouseEvent) {
	c.updateTooltip(ev.Position)
}

func (c *InteractiveChart) MouseOut() {
	if c.hoverTimer != nil {
		c.hoverTimer.Stop()
	}
	c.tooltip.Hidden = true
	c.tooltip.Refresh()
}

func (c *InteractiveChart) updateTooltip(pos fyne.Position) {
	if c.OnHover == nil {
		return
	}
	if c.hoverTimer != nil {
		c.hoverTimer.Stop()
	}
	c.hoverTimer = time.AfterFunc(hoverDelay, func() {
		fyne.Do(func() {
			c.showTooltip(pos)
		})
	})
}

func (c *InteractiveChart) showTooltip(pos fyne.Position) {
	text := ""
	if imgPos, ok := c.imagePosition(pos); ok {
		text = c.OnHover(imgPos)
	}
	if text == "" {
		c.tooltip.Hidden = true
		c.tooltip.Refresh()
		return
	}
	c.tooltip.Text = text
	c.tooltip.Hidden = false
	c.tooltip.Move(fyne.NewPos(pos.X+10, pos.Y-20))
	c.tooltip.Refresh()
}

func (c *InteractiveChart) CreateRenderer() fyne.WidgetRenderer {
	return &chartRenderer{c: c}
}

type chartRenderer struct {
	c *InteractiveChart
}

func (r *chartRenderer) Layout(size fyne.Size) {
	r.c.image.Resize(size)
	r.c.image.Move(fyne.NewPos(0, 0))
}

func (r *chartRenderer) MinSize() fyne.Size {
	return r.c.size
}

func (r *chartRenderer) Refresh() {
	r.c.image.Refresh()
	r.c.tooltip.Refresh()
}

func (r *chartRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.c.image, r.c.tooltip}
}

func (r *chartRenderer) Destroy() {}
