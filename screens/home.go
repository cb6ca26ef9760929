package screens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"demo/common"
	"demo/database"
	"demo/screens/home"
	"demo/stats"
)

// chartDays is how far back the chart looks.
const chartDays = 30

var ErrNoSelection = errors.New("no key selected")

// Databases hands out the application database.
type Databases interface {
	Database() (*database.AppDatabase, error)
}

type HomeScreen struct {
	logger    *slog.Logger
	databases Databases
	window    fyne.Window
	sidebar   *home.HomeSidebar
	homeChart *home.HomeChart
	beverages *BeveragesPanel
	sleepForm *SleepForm
	selected  string
	now       func() time.Time
}

func InitHomeScreen(logger *slog.Logger, databases Databases, analyzer *stats.Analyzer, w fyne.Window) *HomeScreen {
	keyList := binding.NewStringList()

	h := &HomeScreen{
		logger:    logger,
		databases: databases,
		window:    w,
		sidebar:   home.InitHomeSidebar(w, keyList),
		homeChart: home.InitHomeChart(logger, analyzer, common.Dimension{Width: 600, Height: 300}),
		beverages: InitBeveragesPanel(logger, databases),
		sleepForm: InitSleepForm(logger, databases, w),
		now:       time.Now,
	}

	h.sidebar.HandleSelect = h.handleSelect
	h.sidebar.HandleRecord = h.handleRecord
	h.sidebar.HandleImport = h.handleImport
	h.homeChart.HandleExport = h.handleExport
	h.beverages.OnError = h.showError
	h.beverages.OnChange = func(key string) {
		h.reloadKeys(context.Background())
		if key == h.selected {
			h.handleSelect(key)
		}
	}

	return h
}

func (h *HomeScreen) Render() fyne.CanvasObject {
	tabs := container.NewAppTabs(
		container.NewTabItem("Chart", h.homeChart.Render()),
		container.NewTabItem("Beverages", h.beverages.Render()),
		container.NewTabItem("Sleep", h.sleepForm.Render(h.showError)),
	)

	split := container.NewHSplit(h.sidebar.Render(), tabs)
	split.Offset = 0.3
	return split
}

// Load fills the screen from the database.
func (h *HomeScreen) Load(ctx context.Context) error {
	if err := h.reloadKeys(ctx); err != nil {
		return err
	}
	if err := h.sleepForm.Reload(ctx); err != nil {
		return err
	}
	return h.beverages.Load(ctx)
}

func (h *HomeScreen) reloadKeys(ctx context.Context) error {
	db, err := h.databases.Database()
	if err != nil {
		return err
	}
	keys, err := db.Items().Keys(ctx)
	if err != nil {
		return err
	}
	h.sidebar.SetKeys(keys)
	return nil
}

// Select plots the last chartDays days of key.
func (h *HomeScreen) Select(ctx context.Context, key string) error {
	db, err := h.databases.Database()
	if err != nil {
		return err
	}

	end := h.now()
	items, err := db.Items().DailyItems(ctx, key, end.AddDate(0, 0, -chartDays), end)
	if err != nil {
		return err
	}

	h.selected = key
	return h.homeChart.Show(ctx, key, items)
}

// Record stores value under key. Values that are not JSON are stored as text.
func (h *HomeScreen) Record(ctx context.Context, key, value string) error {
	db, err := h.databases.Database()
	if err != nil {
		return err
	}

	var v any = value
	if json.Valid([]byte(value)) {
		v = json.RawMessage(value)
	}
	if err := db.Items().SetItem(ctx, key, v); err != nil {
		return err
	}

	if err := h.reloadKeys(ctx); err != nil {
		return err
	}
	return h.Select(ctx, key)
}

// Import loads a CSV export into the item store.
func (h *HomeScreen) Import(ctx context.Context, r io.Reader) (int, error) {
	db, err := h.databases.Database()
	if err != nil {
		return 0, err
	}
	n, err := db.Items().Import(ctx, r)
	if err != nil {
		return 0, err
	}
	return n, h.reloadKeys(ctx)
}

// Export writes the plotted values of the selected key to a parquet file.
func (h *HomeScreen) Export(ctx context.Context, path string) error {
	if h.selected == "" {
		return ErrNoSelection
	}
	if err := h.homeChart.Export(ctx, path); err != nil {
		return fmt.Errorf("export %s: %w", h.selected, err)
	}
	return nil
}

func (h *HomeScreen) handleSelect(key string) {
	if err := h.Select(context.Background(), key); err != nil {
		h.showError(err)
	}
}

func (h *HomeScreen) handleRecord(key, value string) {
	if err := h.Record(context.Background(), key, value); err != nil {
		h.showError(err)
	}
}

func (h *HomeScreen) handleImport(r io.Reader) {
	n, err := h.Import(context.Background(), r)
	if err != nil {
		h.showError(err)
		return
	}
	dialog.ShowInformation("Import", fmt.Sprintf("%d values imported", n), h.window)
}

func (h *HomeScreen) handleExport() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			h.showError(err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		// duckdb writes the file itself
		writer.Close()
		if err := h.Export(context.Background(), path); err != nil {
			h.showError(err)
			return
		}
		dialog.ShowInformation("Export", "Saved "+path, h.window)
	}, h.window)
	save.SetFileName(strings.ReplaceAll(h.selected, "/", "-") + ".parquet")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".parquet"}))
	save.Show()
}

func (h *HomeScreen) showError(err error) {
	h.logger.Error("Action failed", "error", err)
	dialog.ShowError(err, h.window)
}
