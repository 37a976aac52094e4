package engine

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/barcode"
	"github.com/piwi3910/WMSLabel/internal/export"
	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
)

type stubRenderer struct {
	failOn string
}

func (s stubRenderer) Render(surface, code string, opts barcode.Options) (barcode.Symbol, error) {
	if code == s.failOn {
		return barcode.Symbol{}, &barcode.RenderError{Surface: surface, Code: code, Err: errors.New("unsupported character")}
	}
	return barcode.Symbol{Surface: surface, Image: image.NewGray(image.Rect(0, 0, 2, 2)), Width: 20, Height: 10}, nil
}

func newTestEngine(t *testing.T, r barcode.Renderer) *Engine {
	t.Helper()
	store := layout.NewStore(layout.NewMemoryStore(), layout.WithLogger(applog.Discard()))
	store.Load(false)
	cfg := model.DefaultAppConfig()
	cfg.SettleDelayMS = 0
	return New(store, cfg, WithRenderer(r), WithLogger(applog.Discard()))
}

const stockCSV = "Area,Location,Qty\nA,A1,2\nB,B22,x\nC,C,0\n"

func TestEngine_Load(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	assert.False(t, e.ToolsEnabled())
	assert.Nil(t, e.PreviewCodes())

	ds, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, ds.TotalCount)
	assert.Equal(t, "B22", ds.LongestCode)

	assert.True(t, e.ToolsEnabled())
	assert.Equal(t, "Loaded 4 labels.", e.Status())
	assert.Equal(t, []string{"B22", "A1", "C"}, e.PreviewCodes())
}

func TestEngine_FailedLoadKeepsDataset(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)

	_, err = e.Load(context.Background(), "empty.csv", strings.NewReader("Area,Location,Qty\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyDataset)

	ds, ok := e.Dataset()
	require.True(t, ok)
	assert.Equal(t, 4, ds.TotalCount, "previous dataset retained")
	assert.False(t, e.ToolsEnabled())
	assert.True(t, strings.HasPrefix(e.Status(), "Error: "))

	_, err = e.Pages()
	assert.ErrorIs(t, err, ErrNoDataset)
	assert.Nil(t, e.PreviewCodes())
}

func TestEngine_LoadInFlight(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	e.loading.Lock()
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	e.loading.Unlock()
	assert.ErrorIs(t, err, ErrLoadInFlight)
	assert.False(t, e.ToolsEnabled())
}

func TestEngine_LoadFileMissing(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.LoadFile(context.Background(), "/nonexistent/stock.xlsx")
	var ierr *model.IngestionError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "stock.xlsx", ierr.Source)
	assert.False(t, e.ToolsEnabled())
}

func TestEngine_LoadFileWaitsForRunningLoad(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)

	e.loading.Lock()
	_, err = e.LoadFile(context.Background(), "/nonexistent/stock.xlsx")
	e.loading.Unlock()

	assert.ErrorIs(t, err, ErrLoadInFlight)
	assert.True(t, e.ToolsEnabled(), "the running load owns the tool state")
	assert.Equal(t, "Loaded 4 labels.", e.Status())
}

func TestEngine_PagesSnapshotLayout(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)

	e.Store().Update(model.KeyTitleTop, 100)
	pages, err := e.Pages()
	require.NoError(t, err)
	e.Store().Update(model.KeyTitleTop, 5)

	require.Len(t, pages, 4)
	for _, p := range pages {
		assert.Equal(t, 100.0, p.Layout.TitleTop)
	}
}

func TestEngine_Print(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)

	var printed *export.Document
	doc, err := e.Print(context.Background(), export.PrinterFunc(func(_ context.Context, d *export.Document) error {
		printed = d
		return nil
	}))
	require.NoError(t, err)
	assert.Same(t, doc, printed)
	assert.Equal(t, "Printing 4 labels", doc.Title)

	var codes []string
	for _, s := range doc.Sheets {
		codes = append(codes, s.Code)
	}
	assert.Equal(t, []string{"A1", "A1", "B22", "C"}, codes)
}

func TestEngine_PrintRenderFailure(t *testing.T) {
	e := newTestEngine(t, stubRenderer{failOn: "B22"})
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)

	called := false
	_, err = e.Print(context.Background(), export.PrinterFunc(func(context.Context, *export.Document) error {
		called = true
		return nil
	}))
	var rerr *barcode.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.False(t, called)
	assert.Contains(t, e.Status(), "B22")
}

func TestEngine_PrintWithoutDataset(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.Print(context.Background(), export.FilePrinter{Path: t.TempDir() + "/x.pdf"})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestEngine_RenderPreview(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	sheet, err := e.RenderPreview("a1")
	require.NoError(t, err)
	assert.Equal(t, "A1", sheet.Texts[1].Text)
	assert.Equal(t, "prev-bc-small", sheet.Barcodes[0].Surface)
	assert.NotNil(t, sheet.Barcodes[1].Symbol.Image)
}

func TestEngine_RenderPreviewRecoverable(t *testing.T) {
	e := newTestEngine(t, stubRenderer{failOn: "BAD"})
	sheet, err := e.RenderPreview("BAD")
	require.Error(t, err)
	assert.Equal(t, "BAD", sheet.Texts[0].Text, "texts are laid out despite the failure")
	assert.Nil(t, sheet.Barcodes[0].Symbol.Image)
	assert.True(t, strings.HasPrefix(e.Status(), "Error: "))
}

type countingRenderer struct {
	calls []string
}

func (c *countingRenderer) Render(surface, code string, opts barcode.Options) (barcode.Symbol, error) {
	c.calls = append(c.calls, surface)
	return stubRenderer{}.Render(surface, code, opts)
}

func TestEngine_RenderPreviewReusesSymbols(t *testing.T) {
	r := &countingRenderer{}
	e := newTestEngine(t, r)

	_, err := e.RenderPreview("A1")
	require.NoError(t, err)
	require.Len(t, r.calls, 2)

	e.Store().Update(model.KeySmallTop, 40)
	e.Store().Update(model.KeyTitleSize, 30)
	sheet, err := e.RenderPreview("A1")
	require.NoError(t, err)
	assert.Len(t, r.calls, 2, "moving or resizing text does not re-encode")
	assert.Equal(t, 40.0, sheet.Barcodes[0].Top)
	assert.NotNil(t, sheet.Barcodes[0].Symbol.Image)

	e.Store().Update(model.KeyLargeScale, 3)
	_, err = e.RenderPreview("A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prev-bc-small", "prev-bc-large", "prev-bc-large"}, r.calls)

	_, err = e.RenderPreview("B2")
	require.NoError(t, err)
	assert.Len(t, r.calls, 5)
}

func TestEngine_ResetLayout(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	e.Store().Update(model.KeySmallTop, 99)
	e.Store().MarkIntroSeen()

	require.NoError(t, e.ResetLayout())
	assert.Equal(t, model.DefaultLayout(), e.Store().Config())
	assert.False(t, e.Store().IntroSeen())
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Loaded 3 labels.", LoadedMessage(3))
	assert.Equal(t, "Error: boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "Print (12)", PrintLabel(12))
	assert.Equal(t, "Longest code: B22", PreviewOptionLabel("B22", "B22"))
	assert.Equal(t, "A1", PreviewOptionLabel("A1", "B22"))
}

func TestEngine_PrintPagesUsesSnapshot(t *testing.T) {
	e := newTestEngine(t, stubRenderer{})
	_, err := e.Load(context.Background(), "stock.csv", strings.NewReader(stockCSV))
	require.NoError(t, err)

	pages, err := e.Pages()
	require.NoError(t, err)
	e.Store().Update(model.KeyLargeScale, 5)

	doc, err := e.PrintPages(context.Background(), pages, export.PrinterFunc(func(context.Context, *export.Document) error { return nil }))
	require.NoError(t, err)
	for _, s := range doc.Sheets {
		assert.Equal(t, 2.5, s.Barcodes[1].Scale)
	}
	assert.Equal(t, "Printing 4 labels.", e.Status())
}
