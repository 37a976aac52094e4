package model

// Element is one of the four items placed on every label sheet.
type Element int

const (
	ElementSmallBarcode Element = iota
	ElementLargeBarcode
	ElementSpacedText
	ElementTitleText
)

type elementSpec struct {
	name      string
	left, top LayoutKey
	extra     LayoutKey // scale for barcodes, font size for text
}

var elementSpecs = [...]elementSpec{
	ElementSmallBarcode: {"small barcode", KeySmallLeft, KeySmallTop, KeySmallScale},
	ElementLargeBarcode: {"large barcode", KeyLargeLeft, KeyLargeTop, KeyLargeScale},
	ElementSpacedText:   {"spaced text", KeySpacedLeft, KeySpacedTop, KeySpacedSize},
	ElementTitleText:    {"title text", KeyTitleLeft, KeyTitleTop, KeyTitleSize},
}

// Elements returns the four elements in drawing order.
func Elements() []Element {
	return []Element{ElementSmallBarcode, ElementLargeBarcode, ElementSpacedText, ElementTitleText}
}

func (e Element) valid() bool {
	return e >= 0 && int(e) < len(elementSpecs)
}

func (e Element) String() string {
	if !e.valid() {
		return "unknown element"
	}
	return elementSpecs[e].name
}

// PositionKeys returns the layout keys holding the element's left (X) and
// top (Y) position.
func (e Element) PositionKeys() (x, y LayoutKey) {
	if !e.valid() {
		return "", ""
	}
	s := elementSpecs[e]
	return s.left, s.top
}

// SizeKey returns the key of the element's scale (barcodes) or font size
// (text).
func (e Element) SizeKey() LayoutKey {
	if !e.valid() {
		return ""
	}
	return elementSpecs[e].extra
}

// IsBarcode reports whether the element is drawn by the barcode renderer.
func (e Element) IsBarcode() bool {
	return e == ElementSmallBarcode || e == ElementLargeBarcode
}

// Centered reports whether the element's left position is its horizontal
// centre rather than its left edge. Only the small barcode is left-anchored.
func (e Element) Centered() bool {
	return e.valid() && e != ElementSmallBarcode
}
