package screens

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"

	"demo/config"
	appcontext "demo/context"
	"demo/stats"
)

// Run opens the main window of application and blocks until it is closed.
func Run(application *appcontext.Application, cfg *config.Config) error {
	analyzer, err := stats.Open(time.Local)
	if err != nil {
		return fmt.Errorf("open analyzer: %w", err)
	}
	defer analyzer.Close()

	host := application.Host()
	w := host.NewWindow(cfg.App.Name)

	homeScreen := InitHomeScreen(application.Logger(), application, analyzer, w)
	w.SetContent(homeScreen.Render())
	w.Resize(fyne.NewSize(cfg.UI.Width, cfg.UI.Height))

	host.Lifecycle().SetOnStarted(func() {
		if err := homeScreen.Load(context.Background()); err != nil {
			homeScreen.showError(err)
		}
	})

	w.ShowAndRun()
	return nil
}
