package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynelayout "fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/engine"
	"github.com/piwi3910/WMSLabel/internal/export"
	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
	"github.com/piwi3910/WMSLabel/internal/project"
	"github.com/piwi3910/WMSLabel/internal/ui/widgets"
)

var spreadsheetExtensions = []string{".xlsx", ".xlsm", ".csv", ".txt"}

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	engine     *engine.Engine
	store      *layout.Store
	cfg        model.AppConfig
	configPath string
	log        *slog.Logger

	history   *History
	committed model.LayoutConfig // last persisted layout, the base of the next undo step

	surface     *layout.Surface
	preview     *widgets.LabelPreview
	selector    *widget.Select
	selectorBox *fyne.Container
	status      *widget.Label
	printBtn    *widget.Button
	exportBtn   fyne.Disableable
	sliders     map[string]*sliderRow
	syncing     bool

	codeByOption map[string]string
	currentCode  string

	printMu    sync.Mutex
	printFiles []string // temporary PDFs handed to the system viewer
}

// NewApp wires the engine to fyne Preferences. cfg is saved back to
// configPath when the last directory changes.
func NewApp(application fyne.App, window fyne.Window, cfg model.AppConfig, configPath string) *App {
	a := &App{
		app:        application,
		window:     window,
		cfg:        cfg,
		configPath: configPath,
		log:        applog.WithComponent("ui"),
		history:    NewHistory(),
	}

	a.store = layout.NewStore(newPreferencesStore(application.Preferences()))
	a.store.Load(false)
	a.committed = a.store.Config()
	a.engine = engine.New(a.store, cfg)
	a.cfg = a.engine.Config()

	a.surface = layout.NewSurface(a.store, a.previewScale, layout.SaveOnCommit(a.store, a.log, a.afterDragCommit))
	a.store.Subscribe(a.onLayoutChanged)
	return a
}

func (a *App) previewScale() float64 { return a.cfg.PreviewScale }

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Spreadsheet...", a.openSpreadsheet),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Print...", a.printLabels),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
	)

	layoutMenu := fyne.NewMenu("Layout",
		fyne.NewMenuItem("Reset Layout", a.resetLayout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Layout...", a.exportLayout),
		fyne.NewMenuItem("Import Layout...", a.importLayout),
	)

	themeMenu := fyne.NewMenu("Theme",
		fyne.NewMenuItem("System", func() { a.setTheme("system") }),
		fyne.NewMenuItem("Light", func() { a.setTheme("light") }),
		fyne.NewMenuItem("Dark", func() { a.setTheme("dark") }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Getting Started", a.showIntro),
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, layoutMenu, themeMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About WMSLabel",
		"WMSLabel: Warehouse Location Label Printer\n\n"+
			"Prints one A4 label per storage location from a spreadsheet,\n"+
			"with a Code 39 barcode pair and the location code in large type.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.status = widget.NewLabel("Open or drop a spreadsheet (columns: area, location, quantity).")
	a.status.Wrapping = fyne.TextWrapWord

	a.preview = widgets.NewLabelPreview(a.surface, a.cfg.PreviewScale)

	a.selector = widget.NewSelect(nil, func(option string) {
		if code, ok := a.codeByOption[option]; ok {
			a.showCode(code)
		}
	})
	a.selectorBox = container.NewBorder(nil, nil, widget.NewLabel("Preview:"), nil, a.selector)
	a.selectorBox.Hide()

	a.printBtn = widget.NewButtonWithIcon("Print", theme.DocumentPrintIcon(), a.printLabels)
	a.printBtn.Importance = widget.HighImportance
	a.printBtn.Disable()

	exportBtn := newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Export PDF", a.exportPDF)
	exportBtn.Disable()
	a.exportBtn = exportBtn

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open spreadsheet", a.openSpreadsheet),
		exportBtn,
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo layout change", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo layout change", a.redo),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Reset layout", a.resetLayout),
		fynelayout.NewSpacer(),
		a.printBtn,
	)

	sidebar := container.NewVBox(
		a.buildSettingsPanel(),
		widget.NewSeparator(),
		a.status,
	)

	previewPane := container.NewBorder(a.selectorBox, nil, nil, nil,
		container.NewScroll(container.NewCenter(a.preview)))

	split := container.NewHSplit(container.NewVScroll(sidebar), previewPane)
	split.SetOffset(0.25)

	a.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) > 0 {
			a.loadURI(uris[0])
		}
	})

	return withToolTipLayer(container.NewBorder(toolbar, nil, nil, nil, split), a.window)
}

// ShowIntroIfFirstRun opens the getting-started popup until it has been
// closed once.
func (a *App) ShowIntroIfFirstRun() {
	if !a.store.IntroSeen() {
		a.showIntro()
	}
}

func (a *App) showIntro() {
	text := widget.NewLabel(
		"1. Open or drop an Excel or CSV file. Column B holds the location code\n" +
			"   (column A is used when B is empty), column C the number of labels.\n" +
			"2. Drag the barcodes and texts on the preview to position them.\n" +
			"3. Use the sliders to change barcode scale and text size.\n" +
			"4. Print. The layout is remembered for next time.")
	d := dialog.NewCustom("Getting Started", "Close", text, a.window)
	d.SetOnClosed(a.store.MarkIntroSeen)
	d.Show()
}

// ─── Layout ────────────────────────────────────────────────

func (a *App) onLayoutChanged(cfg model.LayoutConfig) {
	if a.sliders != nil {
		a.syncSettings(cfg)
	}
	a.refreshPreview()
}

// recordHistory pushes the previously committed layout as an undo step.
func (a *App) recordHistory(label string) {
	cfg := a.store.Config()
	if cfg == a.committed {
		return
	}
	a.history.Push(MakeSnapshot(a.committed, label))
	a.committed = cfg
}

// afterDragCommit records the finished drag. A failed save is only a
// warning: the element stays where it was dropped.
func (a *App) afterDragCommit(err error) {
	if err != nil {
		a.setStatus(engine.ErrorMessage(err))
	}
	a.recordHistory("Move element")
}

// commitLayout persists the live layout and records an undo step.
func (a *App) commitLayout(label string) {
	if err := a.store.Save(); err != nil {
		a.setStatus(engine.ErrorMessage(err))
	}
	a.recordHistory(label)
}

func (a *App) applySnapshot(s Snapshot) {
	a.surface.CancelAll()
	a.store.Apply(s.Layout)
	if err := a.store.Save(); err != nil {
		a.setStatus(engine.ErrorMessage(err))
	}
	a.committed = a.store.Config()
}

func (a *App) undo() {
	label := a.history.UndoLabel()
	if s, ok := a.history.Undo(MakeSnapshot(a.committed, label)); ok {
		a.applySnapshot(s)
		a.setStatus("Undo: " + label)
	}
}

func (a *App) redo() {
	label := a.history.RedoLabel()
	if s, ok := a.history.Redo(MakeSnapshot(a.committed, label)); ok {
		a.applySnapshot(s)
		a.setStatus("Redo: " + label)
	}
}

func (a *App) resetLayout() {
	a.surface.CancelAll()
	before := a.committed
	if err := a.engine.ResetLayout(); err != nil {
		dialog.ShowError(err, a.window)
	}
	a.history.Push(MakeSnapshot(before, "Reset layout"))
	a.committed = a.store.Config()
	a.showIntro()
}

func (a *App) exportLayout() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		name := strings.TrimSuffix(writer.URI().Name(), writer.URI().Extension())
		if err := project.EncodePreset(writer, project.NewLayoutPreset(name, a.store.Config())); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setStatus(fmt.Sprintf("Layout exported to %s.", writer.URI().Name()))
	}, a.window)
	d.SetFileName("label-layout.yaml")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	d.Show()
}

func (a *App) importLayout() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		preset, err := project.DecodePreset(reader)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.surface.CancelAll()
		a.store.Apply(preset.Config())
		a.commitLayout("Import layout")
		a.setStatus(fmt.Sprintf("Layout imported from %s.", reader.URI().Name()))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	d.Show()
}

func (a *App) setTheme(name string) {
	a.cfg.Theme = name
	a.app.Settings().SetTheme(ThemeForName(name))
	a.saveConfig()
}

// ─── Dataset ───────────────────────────────────────────────

func (a *App) openSpreadsheet() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		a.rememberDirectory(reader.URI())
		a.loadReader(reader)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(spreadsheetExtensions))
	if dir := a.lastDirectory(); dir != nil {
		d.SetLocation(dir)
	}
	d.Show()
}

func (a *App) loadURI(uri fyne.URI) {
	reader, err := storage.Reader(uri)
	if err != nil {
		a.setStatus(engine.ErrorMessage(err))
		return
	}
	a.rememberDirectory(uri)
	a.loadReader(reader)
}

// loadReader parses the file off the main goroutine.
func (a *App) loadReader(reader fyne.URIReadCloser) {
	a.setStatus("Processing...")
	name := reader.URI().Name()
	go func() {
		defer reader.Close()
		ds, err := a.engine.Load(context.Background(), name, reader)
		fyne.Do(func() {
			a.afterLoad(ds, err)
		})
	}()
}

func (a *App) afterLoad(ds model.LabelDataset, err error) {
	if err != nil {
		if errors.Is(err, engine.ErrLoadInFlight) {
			a.setStatus(engine.ErrorMessage(err))
			return
		}
		a.setStatus(a.engine.Status())
		a.setToolsEnabled(false)
		return
	}

	options := make([]string, 0, len(ds.Records))
	a.codeByOption = make(map[string]string)
	for _, code := range a.engine.PreviewCodes() {
		opt := engine.PreviewOptionLabel(code, ds.LongestCode)
		options = append(options, opt)
		a.codeByOption[opt] = code
	}
	a.selector.SetOptions(options)
	a.printBtn.SetText(engine.PrintLabel(ds.TotalCount))
	a.setToolsEnabled(true)
	a.setStatus(a.engine.Status())
	if len(options) > 0 {
		a.selector.SetSelected(options[0])
	}
}

func (a *App) setToolsEnabled(enabled bool) {
	if enabled {
		a.selectorBox.Show()
		a.printBtn.Enable()
		a.exportBtn.Enable()
		return
	}
	a.selectorBox.Hide()
	a.printBtn.SetText("Print")
	a.printBtn.Disable()
	a.exportBtn.Disable()
	a.currentCode = ""
	a.preview.Clear()
}

func (a *App) showCode(code string) {
	a.surface.CancelAll()
	a.currentCode = code
	a.refreshPreview()
}

func (a *App) refreshPreview() {
	if a.preview == nil {
		return
	}
	if a.currentCode == "" || !a.engine.ToolsEnabled() {
		a.preview.Clear()
		return
	}
	sheet, err := a.engine.RenderPreview(a.currentCode)
	a.preview.SetSheet(sheet)
	if err != nil {
		a.setStatus(a.engine.Status())
	}
}

// ─── Printing ──────────────────────────────────────────────

// printLabels writes the run to a temporary PDF and opens it with the system
// viewer, which owns the print dialog.
func (a *App) printLabels() {
	if !a.engine.ToolsEnabled() {
		return
	}
	printer := export.PrinterFunc(func(ctx context.Context, doc *export.Document) error {
		path, err := a.newPrintFile()
		if err != nil {
			return err
		}
		if err := (export.FilePrinter{Path: path}).Print(ctx, doc); err != nil {
			return err
		}
		u := &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
		return a.app.OpenURL(u)
	})
	a.runPrint(printer, nil)
}

// newPrintFile creates an empty temporary PDF that Cleanup removes.
func (a *App) newPrintFile() (string, error) {
	f, err := os.CreateTemp("", "wmslabel-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create print file: %w", err)
	}
	f.Close()
	a.printMu.Lock()
	a.printFiles = append(a.printFiles, f.Name())
	a.printMu.Unlock()
	return f.Name(), nil
}

// Cleanup removes the temporary print files. Call it once the application
// has stopped running.
func (a *App) Cleanup() {
	a.printMu.Lock()
	files := a.printFiles
	a.printFiles = nil
	a.printMu.Unlock()
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.log.Debug("print file not removed", "path", path, slog.Any("err", err))
		}
	}
}

func (a *App) exportPDF() {
	if !a.engine.ToolsEnabled() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		a.rememberDirectory(writer.URI())
		a.runPrint(export.PrinterFunc(func(_ context.Context, doc *export.Document) error {
			return export.WritePDF(writer, doc)
		}), func() { writer.Close() })
	}, a.window)
	d.SetFileName("labels.pdf")
	if dir := a.lastDirectory(); dir != nil {
		d.SetLocation(dir)
	}
	d.Show()
}

// runPrint snapshots the pages, then assembles and prints them in the
// background and runs done if set.
func (a *App) runPrint(p export.Printer, done func()) {
	pages, err := a.engine.Pages()
	if err != nil {
		a.setStatus(engine.ErrorMessage(err))
		if done != nil {
			done()
		}
		return
	}
	a.printBtn.Disable()
	a.setStatus(fmt.Sprintf("Printing %d labels...", len(pages)))

	go func() {
		_, err := a.engine.PrintPages(context.Background(), pages, p)
		if done != nil {
			done()
		}
		fyne.Do(func() {
			a.printBtn.Enable()
			a.setStatus(a.engine.Status())
			if err != nil {
				dialog.ShowError(err, a.window)
			}
		})
	}()
}

// ─── Config ────────────────────────────────────────────────

func (a *App) setStatus(msg string) {
	if a.status != nil {
		a.status.SetText(msg)
	}
}

func (a *App) lastDirectory() fyne.ListableURI {
	if a.cfg.LastDirectory == "" {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(a.cfg.LastDirectory))
	if err != nil {
		return nil
	}
	return lister
}

func (a *App) rememberDirectory(uri fyne.URI) {
	if uri == nil || uri.Scheme() != "file" {
		return
	}
	dir := filepath.Dir(uri.Path())
	if dir == a.cfg.LastDirectory {
		return
	}
	a.cfg.LastDirectory = dir
	a.saveConfig()
}

func (a *App) saveConfig() {
	if a.configPath == "" {
		return
	}
	if err := project.SaveAppConfig(a.configPath, a.cfg); err != nil {
		a.log.Warn("config not saved", slog.Any("err", err))
	}
}
