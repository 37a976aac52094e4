// Package importer reads spreadsheets of location codes into raw rows.
// Excel workbooks (first sheet) and delimited text files are supported; the
// delimiter of text files is detected automatically.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// HeaderRows is the number of leading rows treated as column headings.
const HeaderRows = 1

// ErrUnsupportedFormat is returned for files that are neither workbooks nor
// delimited text.
var ErrUnsupportedFormat = errors.New("unsupported file type (use .xlsx, .xlsm, .csv or .txt)")

// sniffRecords is how many leading records DetectCSVDelimiter inspects.
const sniffRecords = 20

var csvDelimiters = []rune{',', ';', '\t', '|'}

var utf8BOM = []byte("\xef\xbb\xbf")

// DetectCSVDelimiter picks the delimiter that splits the header into at least
// two columns and keeps that column count on the most sampled records. Ties
// go to the wider header. Empty or single-column input gives a comma.
func DetectCSVDelimiter(data []byte) rune {
	data = bytes.TrimPrefix(data, utf8BOM)
	best, bestMatches, bestCols := ',', 0, 0
	for _, delim := range csvDelimiters {
		cols, matches := sniffDelimiter(data, delim)
		if cols < 2 {
			continue
		}
		if matches > bestMatches || (matches == bestMatches && cols > bestCols) {
			best, bestMatches, bestCols = delim, matches, cols
		}
	}
	return best
}

// sniffDelimiter splits the first records on delim and reports the header
// width and how many records share it. A parse error ends the sample.
func sniffDelimiter(data []byte, delim rune) (cols, matches int) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	for n := 0; n < sniffRecords; n++ {
		rec, err := r.Read()
		if err != nil {
			break
		}
		if n == 0 {
			cols = len(rec)
		}
		if len(rec) == cols {
			matches++
		}
	}
	return cols, matches
}

// ReadCSV reads every record of a delimited text file.
func ReadCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	// Spreadsheet exports often start with a byte order mark
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV: %w", err)
	}
	return records, nil
}

// ReadExcel reads every row of the first sheet of a workbook.
func ReadExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read Excel data: %w", err)
	}
	return rows, nil
}

// ReadRows reads a file by name, choosing the parser from its extension.
func ReadRows(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ReadExcel(r)
	case ".csv", ".txt", ".tsv":
		return ReadCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// DataRows drops the header rows.
func DataRows(rows [][]string) [][]string {
	if len(rows) <= HeaderRows {
		return nil
	}
	return rows[HeaderRows:]
}

// LoadDataset reads a spreadsheet and builds the label dataset from its data
// rows. Every failure is an *model.IngestionError naming the file.
func LoadDataset(name string, r io.Reader) (model.LabelDataset, error) {
	source := filepath.Base(name)
	rows, err := ReadRows(name, r)
	if err != nil {
		return model.LabelDataset{}, &model.IngestionError{Source: source, Err: err}
	}
	ds, err := model.NewLabelDataset(DataRows(rows))
	if err != nil {
		var ingErr *model.IngestionError
		if errors.As(err, &ingErr) {
			ingErr.Source = source
			return model.LabelDataset{}, ingErr
		}
		return model.LabelDataset{}, &model.IngestionError{Source: source, Err: err}
	}
	return ds, nil
}

// LoadFile opens path and loads its dataset.
func LoadFile(path string) (model.LabelDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.LabelDataset{}, &model.IngestionError{Source: filepath.Base(path), Err: fmt.Errorf("cannot open file: %w", err)}
	}
	defer f.Close()
	return LoadDataset(path, f)
}
