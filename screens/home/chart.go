package home

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"demo/common"
	"demo/components"
	"demo/components/ui"
	"demo/database"
	"demo/stats"
)

// HomeChart plots the daily values of the selected key.
type HomeChart struct {
	logger    *slog.Logger
	dimension common.Dimension
	analyzer  *stats.Analyzer
	chart     *components.Chart
	iChart    *ui.InteractiveChart
	points    []stats.Point
	title     *widget.Label
	summary   *widget.Label
	export    *widget.Button

	HandleExport func()
}

func InitHomeChart(logger *slog.Logger, analyzer *stats.Analyzer, dimension common.Dimension) *HomeChart {
	h := &HomeChart{
		logger:    logger,
		dimension: dimension,
		analyzer:  analyzer,
		chart:     components.NewChart(nil, dimension),
		title:     widget.NewLabel("Select a key"),
		summary:   widget.NewLabel(""),
	}
	h.export = widget.NewButton("Export", func() {
		if h.HandleExport != nil {
			h.HandleExport()
		}
	})
	h.export.Disable()
	h.iChart = ui.NewInteractiveChart(h.chart.Render(), dimension.Width, dimension.Height)
	h.iChart.OnHover = h.describe
	return h
}

func (h *HomeChart) Render() fyne.CanvasObject {
	header := container.NewBorder(nil, nil, nil, h.export, h.title)
	return container.NewBorder(header, h.summary, nil, nil, h.iChart)
}

// Show plots items, one per day, and summarizes them.
func (h *HomeChart) Show(ctx context.Context, key string, items []database.Item) error {
	points := stats.FromItems(items)

	h.points = points
	h.chart = components.NewChart(points, h.dimension)
	h.iChart.SetImage(h.chart.Render())
	h.title.SetText(key)
	h.export.Enable()

	summaries, err := h.analyzer.Daily(ctx, points)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", key, err)
	}
	h.summary.SetText(Summarize(summaries))
	return nil
}

// Export writes the plotted points to a parquet file at path.
func (h *HomeChart) Export(ctx context.Context, path string) error {
	if err := h.analyzer.ExportParquet(ctx, h.points, path); err != nil {
		return err
	}
	h.logger.Info("Chart exported", "path", path, "points", len(h.points))
	return nil
}

// Summary returns the text under the chart.
func (h *HomeChart) Summary() string {
	return h.summary.Text
}

func (h *HomeChart) describe(pos fyne.Position) string {
	p, ok := h.chart.Nearest(float64(pos.X), float64(pos.Y))
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s: %g", p.Date.Format("02/01"), p.Value)
}

// Summarize describes daily summaries in one line.
func Summarize(summaries []stats.DailySummary) string {
	if len(summaries) == 0 {
		return "No numeric values"
	}

	var total, lo, hi float64
	for i, s := range summaries {
		total += s.Last
		if i == 0 || s.Min < lo {
			lo = s.Min
		}
		if i == 0 || s.Max > hi {
			hi = s.Max
		}
	}
	return fmt.Sprintf("%d days, average %.1f, min %g, max %g", len(summaries), total/float64(len(summaries)), lo, hi)
}
