package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// lineHeight is the text box height as a multiple of the font size.
const lineHeight = 1.15

const mmPerPoint = 25.4 / 72

// WritePDF renders doc as one A4 landscape page per sheet.
func WritePDF(w io.Writer, doc *Document) error {
	if doc == nil || len(doc.Sheets) == 0 {
		return ErrNoPages
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("WMSLabel", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	images := make(map[string]string)

	for _, sheet := range doc.Sheets {
		pdf.AddPage()
		for _, b := range sheet.Barcodes {
			if err := drawBarcode(pdf, images, sheet.Code, b); err != nil {
				return fmt.Errorf("failed to draw %s on page %d: %w", b.Element, sheet.Index+1, err)
			}
		}
		for _, t := range sheet.Texts {
			drawText(pdf, tr, t)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf.Output(w)
}

// WritePDFFile writes doc to path, creating parent directories.
func WritePDFFile(path string, doc *Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PDF: %w", err)
	}
	if err := WritePDF(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// drawBarcode places a rendered symbol. Identical symbols are embedded once.
func drawBarcode(pdf *fpdf.Fpdf, images map[string]string, code string, b BarcodePlacement) error {
	if b.Symbol.Image == nil {
		return errors.New("barcode not rendered")
	}
	key := fmt.Sprintf("%s|%s|%g|%g", b.Element, code, b.Symbol.Width, b.Symbol.Height)
	imgName, ok := images[key]
	if !ok {
		var buf bytes.Buffer
		if err := png.Encode(&buf, b.Symbol.Image); err != nil {
			return fmt.Errorf("failed to encode barcode image: %w", err)
		}
		imgName = fmt.Sprintf("bc_%d", len(images))
		pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
		images[key] = imgName
	}

	x, y, w, h := b.Box()
	pdf.ImageOptions(imgName, x, y, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// drawText writes a text element centred on its left coordinate. Letter
// spacing is applied glyph by glyph since the core fonts have no tracking.
func drawText(pdf *fpdf.Fpdf, tr func(string) string, t TextPlacement) {
	if t.Text == "" {
		return
	}
	pdf.SetFont(t.Font, "B", t.FontSize)
	pdf.SetTextColor(0, 0, 0)
	h := t.FontSize * mmPerPoint * lineHeight

	if t.LetterSpacing <= 0 {
		txt := tr(t.Text)
		w := pdf.GetStringWidth(txt)
		pdf.SetXY(t.Left-w/2, t.Top)
		pdf.CellFormat(w, h, txt, "", 0, "C", false, 0, "")
		return
	}

	spacing := t.LetterSpacing * t.FontSize * mmPerPoint
	glyphs := make([]string, 0, len(t.Text))
	total := 0.0
	for _, r := range t.Text {
		g := tr(string(r))
		glyphs = append(glyphs, g)
		total += pdf.GetStringWidth(g) + spacing
	}

	x := t.Left - total/2
	for _, g := range glyphs {
		w := pdf.GetStringWidth(g)
		pdf.SetXY(x, t.Top)
		pdf.CellFormat(w, h, g, "", 0, "L", false, 0, "")
		x += w + spacing
	}
}
