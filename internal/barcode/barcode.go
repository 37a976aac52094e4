// Package barcode draws the machine-readable part of a label. Code 39
// extended is the default symbology; QR is available for scanners that
// prefer 2D codes.
package barcode

import (
	"errors"
	"fmt"
	"image"
	"strings"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code39"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// Raster resolution of rendered symbols. The physical size is carried
// separately, so these only affect sharpness.
const (
	modulePixels = 4   // raster pixels per narrow bar
	linearPixelH = 120 // raster height of linear symbols
	qrPixelSize  = 512
)

// pointsPerMM converts the bar height convention (millimetres at 72 dpi
// canvas units) into reference pixels.
const pointsPerMM = 72 / 25.4

// ErrEmptyCode is returned when there is nothing to encode.
var ErrEmptyCode = errors.New("empty code")

// RenderError reports a code the symbology cannot represent.
type RenderError struct {
	Surface string
	Code    string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot create barcode for %q: %v", e.Code, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Options configures one symbol.
type Options struct {
	Scale  float64 // module multiplier, the layout's small/large scale
	Height float64 // bar height in mm at scale 1
}

// Symbol is a rendered barcode and the physical size it is printed at.
type Symbol struct {
	Surface string
	Image   image.Image
	Width   float64 // mm
	Height  float64 // mm
}

// Renderer draws a code into a named surface.
type Renderer interface {
	Render(surface, code string, opts Options) (Symbol, error)
}

// New returns the renderer for a symbology. Unknown values get Code 39.
func New(s model.Symbology) Renderer {
	if s == model.SymbologyQR {
		return QR{}
	}
	return Code39{}
}

// Code39 renders Code 39 in full-ASCII mode without a check digit.
type Code39 struct{}

func (Code39) Render(surface, code string, opts Options) (Symbol, error) {
	if strings.TrimSpace(code) == "" {
		return Symbol{}, &RenderError{Surface: surface, Code: code, Err: ErrEmptyCode}
	}
	sym, err := code39.Encode(code, false, true)
	if err != nil {
		return Symbol{}, &RenderError{Surface: surface, Code: code, Err: err}
	}
	modules := sym.Bounds().Dx()
	img, err := bc.Scale(sym, modules*modulePixels, linearPixelH)
	if err != nil {
		return Symbol{}, &RenderError{Surface: surface, Code: code, Err: err}
	}
	scale := positive(opts.Scale)
	return Symbol{
		Surface: surface,
		Image:   img,
		Width:   model.PixelsToMillimeters(float64(modules)*scale, 1),
		Height:  barHeight(opts.Height, scale),
	}, nil
}

// QR renders a square QR code whose side equals the linear bar height.
type QR struct{}

func (QR) Render(surface, code string, opts Options) (Symbol, error) {
	if strings.TrimSpace(code) == "" {
		return Symbol{}, &RenderError{Surface: surface, Code: code, Err: ErrEmptyCode}
	}
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return Symbol{}, &RenderError{Surface: surface, Code: code, Err: err}
	}
	q.DisableBorder = true
	side := barHeight(opts.Height, positive(opts.Scale))
	return Symbol{
		Surface: surface,
		Image:   q.Image(qrPixelSize),
		Width:   side,
		Height:  side,
	}, nil
}

func barHeight(height, scale float64) float64 {
	return model.PixelsToMillimeters(height*pointsPerMM*scale, 1)
}

func positive(v float64) float64 {
	if v > 0 {
		return v
	}
	return 1
}
