// Package export turns generated label pages into a printable document and
// hands it to a printer.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/piwi3910/WMSLabel/internal/barcode"
	"github.com/piwi3910/WMSLabel/internal/model"
)

// Sheet size (A4 landscape, mm). Margins are zero.
const (
	PageWidth  = 297.0
	PageHeight = 210.0
)

// Text styling of the two text elements.
const (
	SpacedFont          = "Courier"
	TitleFont           = "Helvetica"
	SpacedLetterSpacing = 0.5 // em
)

// ErrNoPages is returned when there is nothing to print.
var ErrNoPages = errors.New("no labels to print")

// AssembleOptions carries the barcode settings that are not part of the layout.
type AssembleOptions struct {
	SmallBarHeight float64 // mm at scale 1
	LargeBarHeight float64
}

// DefaultAssembleOptions returns the stock bar heights.
func DefaultAssembleOptions() AssembleOptions {
	cfg := model.DefaultAppConfig()
	return AssembleOptions{SmallBarHeight: cfg.SmallBarHeight, LargeBarHeight: cfg.LargeBarHeight}
}

// BarcodePlacement positions one barcode on a sheet.
type BarcodePlacement struct {
	Element   model.Element
	Surface   string
	Top       float64 // mm
	Left      float64 // mm; the horizontal centre when Element.Centered()
	Scale     float64
	BarHeight float64
	Symbol    barcode.Symbol // set once rendered
}

// Box returns the printed rectangle in mm. It is only meaningful after
// rendering.
func (b BarcodePlacement) Box() (x, y, w, h float64) {
	x = b.Left
	if b.Element.Centered() {
		x -= b.Symbol.Width / 2
	}
	return x, b.Top, b.Symbol.Width, b.Symbol.Height
}

// TextPlacement positions one text element on a sheet.
type TextPlacement struct {
	Element       model.Element
	Text          string
	Top           float64 // mm
	Left          float64 // mm, horizontal centre
	FontSize      float64 // pt
	Font          string
	LetterSpacing float64 // em
}

// Sheet is the geometry of one printed page.
type Sheet struct {
	Index    int
	Code     string
	Barcodes [2]BarcodePlacement
	Texts    [2]TextPlacement
}

// Document is a fully rendered print run.
type Document struct {
	ID     string
	Title  string
	Sheets []Sheet
}

// LayoutSheet computes the placements of one page from its layout snapshot.
// Barcodes are not rendered.
func LayoutSheet(page model.PageDescriptor, opts AssembleOptions) Sheet {
	l := page.Layout
	text := strings.ToUpper(page.Code)
	return Sheet{
		Index: page.Index,
		Code:  page.Code,
		Barcodes: [2]BarcodePlacement{
			{
				Element:   model.ElementSmallBarcode,
				Surface:   fmt.Sprintf("bc-small-%d", page.Index),
				Top:       l.SmallTop,
				Left:      l.SmallLeft,
				Scale:     l.SmallScale,
				BarHeight: opts.SmallBarHeight,
			},
			{
				Element:   model.ElementLargeBarcode,
				Surface:   fmt.Sprintf("bc-large-%d", page.Index),
				Top:       l.LargeTop,
				Left:      l.LargeLeft,
				Scale:     l.LargeScale,
				BarHeight: opts.LargeBarHeight,
			},
		},
		Texts: [2]TextPlacement{
			{
				Element:       model.ElementSpacedText,
				Text:          text,
				Top:           l.SpacedTop,
				Left:          l.SpacedLeft,
				FontSize:      l.SpacedSize,
				Font:          SpacedFont,
				LetterSpacing: SpacedLetterSpacing,
			},
			{
				Element:  model.ElementTitleText,
				Text:     text,
				Top:      l.TitleTop,
				Left:     l.TitleLeft,
				FontSize: l.TitleSize,
				Font:     TitleFont,
			},
		},
	}
}

// Assemble lays out every page and then renders every barcode. Any render
// failure aborts the whole document: a partially rendered print run is never
// returned.
func Assemble(ctx context.Context, pages []model.PageDescriptor, r barcode.Renderer, opts AssembleOptions) (*Document, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	sheets := make([]Sheet, len(pages))
	for i, p := range pages {
		sheets[i] = LayoutSheet(p, opts)
	}

	for i := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := range sheets[i].Barcodes {
			if err := RenderPlacement(r, sheets[i].Code, &sheets[i].Barcodes[j]); err != nil {
				return nil, err
			}
		}
	}

	return &Document{
		ID:     uuid.NewString(),
		Title:  fmt.Sprintf("Printing %d labels", len(sheets)),
		Sheets: sheets,
	}, nil
}

// RenderPlacement draws the barcode of one placement.
func RenderPlacement(r barcode.Renderer, code string, b *BarcodePlacement) error {
	sym, err := r.Render(b.Surface, code, barcode.Options{Scale: b.Scale, Height: b.BarHeight})
	if err != nil {
		return err
	}
	b.Symbol = sym
	return nil
}
