// WMSLabel: Warehouse Location Label Printer
//
// A desktop application that turns a spreadsheet of storage locations into
// A4 labels with a Code 39 barcode pair and the location code in large type.
// The label layout is positioned by dragging on a live preview.
//
// Build:
//   go build -o wmslabel ./cmd/wmslabel
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o wmslabel.exe ./cmd/wmslabel
//   GOOS=darwin  GOARCH=amd64 go build -o wmslabel-darwin ./cmd/wmslabel
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/model"
	"github.com/piwi3910/WMSLabel/internal/project"
	"github.com/piwi3910/WMSLabel/internal/ui"
)

func main() {
	configPath := project.DefaultConfigPath()
	cfg, err := project.LoadAppConfig(configPath)
	applog.Init(applog.FromEnv(cfg.LogLevel))
	if err != nil {
		slog.Warn("config unreadable, using defaults", slog.String("path", configPath), slog.Any("err", err))
		cfg = model.DefaultAppConfig()
	}

	application := app.NewWithID("com.piwi3910.wmslabel")
	application.Settings().SetTheme(ui.ThemeForName(cfg.Theme))

	window := application.NewWindow("WMSLabel - Warehouse Location Labels")

	appUI := ui.NewApp(application, window, cfg, configPath)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.Show()
	appUI.ShowIntroIfFirstRun()

	application.Run()
	appUI.Cleanup()
}
