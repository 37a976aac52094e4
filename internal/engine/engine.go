// Package engine ties the label dataset, the layout store and the print
// pipeline together. It holds the application state the UI and the command
// line tool act on.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/barcode"
	"github.com/piwi3910/WMSLabel/internal/export"
	"github.com/piwi3910/WMSLabel/internal/importer"
	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
)

var (
	// ErrNoDataset is returned when an operation needs label data and the
	// tools are disabled.
	ErrNoDataset = errors.New("no label data loaded")
	// ErrLoadInFlight is returned when a load starts while another is pending.
	ErrLoadInFlight = errors.New("a file is already being loaded")
)

// Engine is safe for concurrent use.
type Engine struct {
	store    *layout.Store
	renderer barcode.Renderer
	cfg      model.AppConfig
	log      *slog.Logger

	loading sync.Mutex

	mu      sync.RWMutex
	dataset *model.LabelDataset
	enabled bool
	status  string

	previewMu sync.Mutex
	preview   [2]previewSymbol
}

// previewSymbol is the last successful preview render of one barcode.
type previewSymbol struct {
	code      string
	scale     float64
	barHeight float64
	symbol    barcode.Symbol
}

func (p previewSymbol) matches(code string, b export.BarcodePlacement) bool {
	return p.symbol.Image != nil && p.code == code && p.scale == b.Scale && p.barHeight == b.BarHeight
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer replaces the renderer chosen from the config symbology.
func WithRenderer(r barcode.Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an engine with no dataset. The store is expected to be loaded.
func New(store *layout.Store, cfg model.AppConfig, opts ...Option) *Engine {
	cfg.Validate()
	e := &Engine{
		store:    store,
		renderer: barcode.New(cfg.Symbology),
		cfg:      cfg,
		log:      applog.WithComponent("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the layout store.
func (e *Engine) Store() *layout.Store { return e.store }

// Config returns the application config.
func (e *Engine) Config() model.AppConfig { return e.cfg }

// Load replaces the dataset with the contents of a spreadsheet. On failure
// the previous dataset is kept but the tools are disabled until the next
// successful load.
func (e *Engine) Load(ctx context.Context, name string, r io.Reader) (model.LabelDataset, error) {
	if !e.loading.TryLock() {
		return model.LabelDataset{}, ErrLoadInFlight
	}
	defer e.loading.Unlock()
	return e.load(ctx, name, r)
}

// LoadFile opens path and loads it. It holds the same load slot as Load, so
// a file that cannot be opened never touches the state of a running load.
func (e *Engine) LoadFile(ctx context.Context, path string) (model.LabelDataset, error) {
	if !e.loading.TryLock() {
		return model.LabelDataset{}, ErrLoadInFlight
	}
	defer e.loading.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return model.LabelDataset{}, e.finishLoad(path, model.LabelDataset{}, &model.IngestionError{
			Source: filepath.Base(path),
			Err:    fmt.Errorf("cannot open file: %w", err),
		})
	}
	defer f.Close()
	return e.load(ctx, path, f)
}

// load runs with the load slot held.
func (e *Engine) load(ctx context.Context, name string, r io.Reader) (model.LabelDataset, error) {
	if err := ctx.Err(); err != nil {
		return model.LabelDataset{}, err
	}
	ds, err := importer.LoadDataset(name, r)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return model.LabelDataset{}, e.finishLoad(name, ds, err)
	}
	return ds, e.finishLoad(name, ds, nil)
}

// finishLoad publishes the outcome of a load and returns err.
func (e *Engine) finishLoad(name string, ds model.LabelDataset, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.enabled = false
		e.status = ErrorMessage(err)
		e.log.Warn("dataset load failed", "file", filepath.Base(name), slog.Any("err", err))
		return err
	}
	e.dataset = &ds
	e.enabled = true
	e.status = LoadedMessage(ds.TotalCount)
	e.log.Info("dataset loaded", "file", filepath.Base(name), "records", len(ds.Records), "labels", ds.TotalCount)
	return nil
}

// Dataset returns the current dataset, whether or not the tools are enabled.
func (e *Engine) Dataset() (model.LabelDataset, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dataset == nil {
		return model.LabelDataset{}, false
	}
	return *e.dataset, true
}

// ToolsEnabled reports whether preview and print are available.
func (e *Engine) ToolsEnabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled
}

// Status returns the last status message.
func (e *Engine) Status() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) setStatus(msg string) {
	e.mu.Lock()
	e.status = msg
	e.mu.Unlock()
}

// activeDataset returns the dataset the tools operate on.
func (e *Engine) activeDataset() (model.LabelDataset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.enabled || e.dataset == nil {
		return model.LabelDataset{}, ErrNoDataset
	}
	return *e.dataset, nil
}

// PreviewCodes lists the codes offered in the preview selector, longest
// first. It is empty while the tools are disabled.
func (e *Engine) PreviewCodes() []string {
	ds, err := e.activeDataset()
	if err != nil {
		return nil
	}
	return ds.PreviewCodes()
}

// Pages expands the dataset against a snapshot of the current layout.
func (e *Engine) Pages() ([]model.PageDescriptor, error) {
	ds, err := e.activeDataset()
	if err != nil {
		return nil, err
	}
	return model.GeneratePages(ds, e.store.Config()), nil
}

func (e *Engine) assembleOptions() export.AssembleOptions {
	return export.AssembleOptions{
		SmallBarHeight: e.cfg.SmallBarHeight,
		LargeBarHeight: e.cfg.LargeBarHeight,
	}
}

// BuildDocument assembles the print document for the current dataset.
func (e *Engine) BuildDocument(ctx context.Context) (*export.Document, error) {
	pages, err := e.Pages()
	if err != nil {
		return nil, err
	}
	return e.assemble(ctx, pages)
}

func (e *Engine) assemble(ctx context.Context, pages []model.PageDescriptor) (*export.Document, error) {
	doc, err := export.Assemble(ctx, pages, e.renderer, e.assembleOptions())
	if err != nil {
		e.setStatus(ErrorMessage(err))
		return nil, err
	}
	return doc, nil
}

// Print generates the pages from the current layout and prints them.
func (e *Engine) Print(ctx context.Context, p export.Printer) (*export.Document, error) {
	pages, err := e.Pages()
	if err != nil {
		return nil, err
	}
	return e.PrintPages(ctx, pages, p)
}

// PrintPages assembles pages and hands the document to p after the settle
// delay. A render failure aborts the run before anything reaches the printer.
func (e *Engine) PrintPages(ctx context.Context, pages []model.PageDescriptor, p export.Printer) (*export.Document, error) {
	doc, err := e.assemble(ctx, pages)
	if err != nil {
		e.log.Error("print aborted", slog.Any("err", err))
		return nil, err
	}
	settle := time.Duration(e.cfg.SettleDelayMS) * time.Millisecond
	if err := export.PrintDocument(ctx, doc, p, settle); err != nil {
		e.setStatus(ErrorMessage(err))
		e.log.Error("print failed", "document", doc.ID, slog.Any("err", err))
		return nil, err
	}
	e.setStatus(doc.Title + ".")
	e.log.Info("print run sent", "document", doc.ID, "pages", len(doc.Sheets))
	return doc, nil
}

// RenderPreview lays out a single label for code and renders its barcodes.
// A barcode whose code and scale are unchanged since the last call is reused,
// so moving elements does not re-encode them. Render failures are not fatal:
// the returned sheet holds whatever rendered and the error describes the rest.
func (e *Engine) RenderPreview(code string) (export.Sheet, error) {
	page := model.PageDescriptor{Code: code, Layout: e.store.Config()}
	sheet := export.LayoutSheet(page, e.assembleOptions())
	sheet.Barcodes[0].Surface = "prev-bc-small"
	sheet.Barcodes[1].Surface = "prev-bc-large"

	e.previewMu.Lock()
	defer e.previewMu.Unlock()

	var errs []error
	for i := range sheet.Barcodes {
		b := &sheet.Barcodes[i]
		if cached := e.preview[i]; cached.matches(code, *b) {
			b.Symbol = cached.symbol
			continue
		}
		if err := export.RenderPlacement(e.renderer, code, b); err != nil {
			e.preview[i] = previewSymbol{}
			errs = append(errs, err)
			continue
		}
		e.preview[i] = previewSymbol{code: code, scale: b.Scale, barHeight: b.BarHeight, symbol: b.Symbol}
	}
	if err := errors.Join(errs...); err != nil {
		e.setStatus(ErrorMessage(errs[0]))
		e.log.Debug("preview render failed", "code", code, slog.Any("err", err))
		return sheet, err
	}
	return sheet, nil
}

// ResetLayout restores the default layout and persists it.
func (e *Engine) ResetLayout() error {
	if err := e.store.Reset(); err != nil {
		e.setStatus(ErrorMessage(err))
		return err
	}
	return nil
}

// LoadedMessage is the status after a successful load.
func LoadedMessage(total int) string {
	return fmt.Sprintf("Loaded %d labels.", total)
}

// ErrorMessage is the status shown for a failed operation.
func ErrorMessage(err error) string {
	return "Error: " + err.Error()
}

// PrintLabel is the caption of the print action.
func PrintLabel(total int) string {
	return fmt.Sprintf("Print (%d)", total)
}

// PreviewOptionLabel is the selector caption of a code.
func PreviewOptionLabel(code, longest string) string {
	if code == longest {
		return "Longest code: " + code
	}
	return code
}
