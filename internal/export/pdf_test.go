package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/WMSLabel/internal/barcode"
)

func testDocument(t *testing.T, rows [][]string) *Document {
	t.Helper()
	doc, err := Assemble(context.Background(), testPages(t, rows), barcode.Code39{}, DefaultAssembleOptions())
	require.NoError(t, err)
	return doc
}

func TestWritePDF(t *testing.T) {
	doc := testDocument(t, [][]string{{"A", "A-01-01", "2"}, {"B", "B-22", "1"}})

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWritePDF_NonASCIIText(t *testing.T) {
	doc := testDocument(t, [][]string{{"", "A-01", "1"}})
	doc.Sheets[0].Texts[1].Text = "LAGER-Ü"

	var buf bytes.Buffer
	assert.NoError(t, WritePDF(&buf, doc))
}

func TestWritePDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePDF(&buf, nil), ErrNoPages)
	assert.ErrorIs(t, WritePDF(&buf, &Document{}), ErrNoPages)
}

func TestWritePDF_UnrenderedBarcode(t *testing.T) {
	doc := &Document{Title: "t", Sheets: []Sheet{LayoutSheet(testPages(t, [][]string{{"", "A", "1"}})[0], DefaultAssembleOptions())}}
	var buf bytes.Buffer
	assert.Error(t, WritePDF(&buf, doc))
}

func TestFilePrinter(t *testing.T) {
	doc := testDocument(t, [][]string{{"", "A-01", "1"}})
	path := filepath.Join(t.TempDir(), "out", "labels.pdf")

	require.NoError(t, FilePrinter{Path: path}.Print(context.Background(), doc))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	assert.Error(t, FilePrinter{}.Print(context.Background(), doc))
}

func TestPrintDocument(t *testing.T) {
	doc := testDocument(t, [][]string{{"", "A-01", "1"}})

	var got *Document
	p := PrinterFunc(func(_ context.Context, d *Document) error {
		got = d
		return nil
	})

	start := time.Now()
	require.NoError(t, PrintDocument(context.Background(), doc, p, 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Same(t, doc, got)
}

func TestPrintDocument_CancelledDuringSettle(t *testing.T) {
	doc := testDocument(t, [][]string{{"", "A-01", "1"}})
	called := false
	p := PrinterFunc(func(context.Context, *Document) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := PrintDocument(ctx, doc, p, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestPrintDocument_PrinterError(t *testing.T) {
	doc := testDocument(t, [][]string{{"", "A-01", "1"}})
	p := PrinterFunc(func(context.Context, *Document) error { return os.ErrPermission })

	err := PrintDocument(context.Background(), doc, p, 0)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "Printing 1 labels")
	assert.ErrorIs(t, PrintDocument(context.Background(), nil, p, 0), ErrNoPages)
}
