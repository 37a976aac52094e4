package export

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultSettleDelay is the pause between finishing the document and handing
// it to the printer.
const DefaultSettleDelay = 500 * time.Millisecond

// Printer receives a finished document.
type Printer interface {
	Print(ctx context.Context, doc *Document) error
}

// PrinterFunc adapts a function to Printer.
type PrinterFunc func(ctx context.Context, doc *Document) error

func (f PrinterFunc) Print(ctx context.Context, doc *Document) error { return f(ctx, doc) }

// FilePrinter writes the document as a PDF file.
type FilePrinter struct {
	Path string
}

func (p FilePrinter) Print(ctx context.Context, doc *Document) error {
	if p.Path == "" {
		return errors.New("no output path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WritePDFFile(p.Path, doc)
}

// PrintDocument waits for settle and then prints doc. A cancelled context
// stops the print before the printer is invoked.
func PrintDocument(ctx context.Context, doc *Document, p Printer, settle time.Duration) error {
	if doc == nil || len(doc.Sheets) == 0 {
		return ErrNoPages
	}
	if settle > 0 {
		timer := time.NewTimer(settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if err := p.Print(ctx, doc); err != nil {
		return fmt.Errorf("failed to print %q: %w", doc.Title, err)
	}
	return nil
}
