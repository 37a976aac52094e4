package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrEmptyDataset is returned when no row of a spreadsheet resolves to a code.
var ErrEmptyDataset = errors.New("no label data found (checked columns A, B, C)")

// Upper bounds for one print run. A quantity above MaxQuantity is almost
// certainly a typo in the spreadsheet.
const (
	MaxQuantity    = 10000
	MaxTotalLabels = 100000
)

var (
	// ErrQuantityTooLarge is returned for a row whose quantity exceeds MaxQuantity.
	ErrQuantityTooLarge = fmt.Errorf("quantity exceeds %d labels", MaxQuantity)
	// ErrTooManyLabels is returned when the quantities sum to more than MaxTotalLabels.
	ErrTooManyLabels = fmt.Errorf("more than %d labels in one file", MaxTotalLabels)
)

// IngestionError reports a spreadsheet that could not be turned into a dataset.
type IngestionError struct {
	Source string // file name, may be empty
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Source == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// LabelRecord is one spreadsheet row: a location code printed Quantity times.
type LabelRecord struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// LabelDataset is the immutable result of one successful file load.
type LabelDataset struct {
	Records     []LabelRecord `json:"records"`
	LongestCode string        `json:"longest_code"`
	TotalCount  int           `json:"total_count"`
}

// Column positions in a raw row.
const (
	colFallbackCode = 0
	colCode         = 1
	colQuantity     = 2
)

// NewLabelDataset builds a dataset from raw rows. The code is taken from the
// second cell, or the first when the second is missing or empty; the third
// cell is the quantity, defaulting to 1 when it is not an integer >= 1. Rows
// without a code are dropped. Quantities beyond MaxQuantity or a total beyond
// MaxTotalLabels reject the whole file.
func NewLabelDataset(rows [][]string) (LabelDataset, error) {
	var ds LabelDataset
	longest := -1
	for i, row := range rows {
		code, ok := resolveCode(row)
		if !ok {
			continue
		}
		rec := LabelRecord{Code: code, Quantity: parseQuantity(cell(row, colQuantity))}
		if rec.Quantity > MaxQuantity {
			return LabelDataset{}, &IngestionError{Err: fmt.Errorf("row %d (%s): %w", i+1, code, ErrQuantityTooLarge)}
		}
		if ds.TotalCount > MaxTotalLabels-rec.Quantity {
			return LabelDataset{}, &IngestionError{Err: ErrTooManyLabels}
		}
		ds.Records = append(ds.Records, rec)
		ds.TotalCount += rec.Quantity
		if n := utf8.RuneCountInString(code); n > longest {
			longest = n
			ds.LongestCode = code
		}
	}
	if len(ds.Records) == 0 {
		return LabelDataset{}, &IngestionError{Err: ErrEmptyDataset}
	}
	return ds, nil
}

// Codes returns the distinct codes in record order.
func (ds LabelDataset) Codes() []string {
	seen := make(map[string]bool, len(ds.Records))
	var codes []string
	for _, r := range ds.Records {
		if seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		codes = append(codes, r.Code)
	}
	return codes
}

// PreviewCodes lists the codes offered for preview: the longest first, then
// every other code in record order.
func (ds LabelDataset) PreviewCodes() []string {
	if ds.LongestCode == "" {
		return nil
	}
	codes := []string{ds.LongestCode}
	for _, c := range ds.Codes() {
		if c != ds.LongestCode {
			codes = append(codes, c)
		}
	}
	return codes
}

func resolveCode(row []string) (string, bool) {
	raw := cell(row, colCode)
	if raw == "" {
		raw = cell(row, colFallbackCode)
	}
	code := strings.TrimSpace(raw)
	return code, code != ""
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseQuantity reads the leading integer of s, so "3", "3.0" and "3 pcs"
// all give 3. Anything else, or a value below 1, gives 1.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	qty, err := strconv.Atoi(s[:end])
	if err != nil || qty < 1 {
		return 1
	}
	return qty
}
