package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/WMSLabel/internal/export"
	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
)

// DefaultPreviewScale is the zoom of the on-screen A4 page.
const DefaultPreviewScale = 0.85

// pxPerPoint converts typographic points to reference pixels.
const pxPerPoint = 96.0 / 72.0

var (
	pageColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	borderColor = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	inkColor    = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	errorColor  = color.NRGBA{R: 244, G: 67, B: 54, A: 90}
)

// LabelPreview shows one label on an A4 landscape page. Its four elements
// can be dragged; pointer input is forwarded to a layout.Surface.
type LabelPreview struct {
	widget.BaseWidget
	surface *layout.Surface
	scale   float64

	sheet    export.Sheet
	hasSheet bool
	elements []*previewElement
}

// NewLabelPreview creates an empty preview. scale is the display scale; a
// non-positive value uses DefaultPreviewScale.
func NewLabelPreview(surface *layout.Surface, scale float64) *LabelPreview {
	if scale <= 0 {
		scale = DefaultPreviewScale
	}
	p := &LabelPreview{surface: surface, scale: scale}
	for _, e := range model.Elements() {
		p.elements = append(p.elements, newPreviewElement(e, surface))
	}
	p.ExtendBaseWidget(p)
	return p
}

// Scale returns the display scale the preview was created with.
func (p *LabelPreview) Scale() float64 { return p.scale }

// SetSheet shows sheet. Elements are updated in place, so a drag in
// progress survives the refresh.
func (p *LabelPreview) SetSheet(sheet export.Sheet) {
	p.sheet = sheet
	p.hasSheet = true
	p.Refresh()
}

// Clear removes the label and cancels any open drag.
func (p *LabelPreview) Clear() {
	p.surface.CancelAll()
	p.hasSheet = false
	p.Refresh()
}

// HasSheet reports whether a label is shown.
func (p *LabelPreview) HasSheet() bool { return p.hasSheet }

func (p *LabelPreview) units(mm float64) float32 {
	return float32(model.MillimetersToPixels(mm, p.scale))
}

func (p *LabelPreview) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(pageColor)
	bg.StrokeColor = borderColor
	bg.StrokeWidth = 1
	hint := canvas.NewText("Open a spreadsheet to preview labels", borderColor)
	hint.Alignment = fyne.TextAlignCenter

	r := &labelPreviewRenderer{p: p, bg: bg, hint: hint}
	r.objects = append(r.objects, bg, hint)
	for _, e := range p.elements {
		r.objects = append(r.objects, e)
	}
	r.Refresh()
	return r
}

type labelPreviewRenderer struct {
	p       *LabelPreview
	bg      *canvas.Rectangle
	hint    *canvas.Text
	objects []fyne.CanvasObject
}

func (r *labelPreviewRenderer) page() fyne.Size {
	return fyne.NewSize(r.p.units(export.PageWidth), r.p.units(export.PageHeight))
}

func (r *labelPreviewRenderer) Layout(size fyne.Size) {
	page := r.page()
	r.bg.Resize(page)
	r.bg.Move(fyne.NewPos(0, 0))
	r.hint.Resize(fyne.NewSize(page.Width, r.hint.MinSize().Height))
	r.hint.Move(fyne.NewPos(0, page.Height/2))
}

func (r *labelPreviewRenderer) MinSize() fyne.Size { return r.page() }

func (r *labelPreviewRenderer) Refresh() {
	p := r.p
	if !p.hasSheet {
		r.hint.Show()
		for _, e := range p.elements {
			e.Hide()
		}
	} else {
		r.hint.Hide()
		for i, e := range p.elements {
			if i < len(p.sheet.Barcodes) {
				e.showBarcode(p.sheet.Barcodes[i], p.units)
			} else {
				e.showText(p.sheet.Texts[i-len(p.sheet.Barcodes)], p.scale, p.units)
			}
			e.Show()
		}
	}
	r.Layout(p.Size())
	canvas.Refresh(p)
}

func (r *labelPreviewRenderer) Destroy()                     {}
func (r *labelPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

// previewElement is one draggable part of the label. Drag deltas are
// accumulated into pointer coordinates relative to the drag start.
type previewElement struct {
	widget.BaseWidget
	element model.Element
	surface *layout.Surface

	content *fyne.Container
	image   *canvas.Image
	missing *canvas.Rectangle
	glyphs  []*canvas.Text

	dragging     bool
	dragX, dragY float32
}

func newPreviewElement(e model.Element, surface *layout.Surface) *previewElement {
	pe := &previewElement{element: e, surface: surface, content: container.NewWithoutLayout()}
	if e.IsBarcode() {
		pe.image = canvas.NewImageFromImage(nil)
		pe.image.FillMode = canvas.ImageFillStretch
		pe.image.ScaleMode = canvas.ImageScalePixels
		pe.missing = canvas.NewRectangle(errorColor)
		pe.content.Add(pe.missing)
		pe.content.Add(pe.image)
	}
	pe.ExtendBaseWidget(pe)
	return pe
}

func (e *previewElement) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(e.content)
}

// Dragged implements fyne.Draggable.
func (e *previewElement) Dragged(ev *fyne.DragEvent) {
	if !e.dragging {
		e.dragging = true
		e.dragX, e.dragY = 0, 0
		e.surface.Dispatch(layout.PointerEvent{Kind: layout.PointerDown, Target: e.element})
	}
	e.dragX += ev.Dragged.DX
	e.dragY += ev.Dragged.DY
	e.surface.Dispatch(layout.PointerEvent{Kind: layout.PointerMove, X: float64(e.dragX), Y: float64(e.dragY)})
}

// DragEnd implements fyne.Draggable.
func (e *previewElement) DragEnd() {
	e.dragging = false
	e.surface.Dispatch(layout.PointerEvent{Kind: layout.PointerUp})
}

func (e *previewElement) showBarcode(b export.BarcodePlacement, units func(float64) float32) {
	x, y, w, h := b.Box()
	size := fyne.NewSize(units(w), units(h))
	if b.Symbol.Image == nil {
		// Unrendered: keep a grab handle the size of the bar height
		size = fyne.NewSize(units(b.BarHeight*2), units(b.BarHeight))
		e.image.Hide()
		e.missing.Show()
	} else {
		e.image.Image = b.Symbol.Image
		e.image.Show()
		e.missing.Hide()
		e.image.Refresh()
	}
	e.image.Resize(size)
	e.missing.Resize(size)
	e.Resize(size)
	e.Move(fyne.NewPos(units(x), units(y)))
}

func (e *previewElement) showText(t export.TextPlacement, scale float64, units func(float64) float32) {
	textSize := float32(t.FontSize * pxPerPoint * scale)
	style := fyne.TextStyle{Bold: true, Monospace: t.Font == export.SpacedFont}
	spacing := float32(t.LetterSpacing) * textSize

	runes := []rune(t.Text)
	single := spacing <= 0
	want := len(runes)
	if single {
		want = 1
	}
	for len(e.glyphs) < want {
		g := canvas.NewText("", inkColor)
		e.glyphs = append(e.glyphs, g)
		e.content.Add(g)
	}
	for i, g := range e.glyphs {
		if i >= want {
			g.Hide()
			continue
		}
		g.Show()
	}

	var x, height float32
	for i := 0; i < want; i++ {
		g := e.glyphs[i]
		if single {
			g.Text = t.Text
		} else {
			g.Text = string(runes[i])
		}
		g.TextSize = textSize
		g.TextStyle = style
		g.Color = inkColor
		sz := fyne.MeasureText(g.Text, textSize, style)
		g.Move(fyne.NewPos(x, 0))
		g.Resize(sz)
		g.Refresh()
		x += sz.Width + spacing
		if sz.Height > height {
			height = sz.Height
		}
	}

	size := fyne.NewSize(x, height)
	e.Resize(size)
	e.Move(fyne.NewPos(units(t.Left)-x/2, units(t.Top)))
}
