package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// RawRow is one journal row exactly as it appears in the sheet. Column
// headers are matched case-insensitively; unknown columns are ignored.
type RawRow struct {
	Date          string `csv:"DATE"`
	Day           string `csv:"DAY"`
	Open          string `csv:"OPEN"`
	Close         string `csv:"CLOSE"`
	Asset         string `csv:"ASSET"`
	Session       string `csv:"SESSION"`
	BuySell       string `csv:"BUY_SELL"`
	Lots          string `csv:"LOTS"`
	Outcome       string `csv:"TP/SL"`
	PnL           string `csv:"$P&L"`
	PnLPercent    string `csv:"%P&L"`
	Ratio         string `csv:"RATIO"`
	Risk          string `csv:"RISK"`
	AccountProfit string `csv:"AC PROFIT"`
	Timeframe     string `csv:"TEMPORALIDAD"`
}

func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// Read decodes an uploaded journal. The format is chosen from the file
// extension; xlsx workbooks are read from their first sheet.
func Read(filename string, r io.Reader) ([]RawRow, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readWorkbook(r)
	default:
		records, err = readDelimited(r)
	}
	if err != nil {
		return nil, err
	}
	return decodeRecords(records)
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	// Raw values keep dates and times as serial numbers instead of
	// whatever display format the author picked.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readDelimited(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func decodeRecords(records [][]string) ([]RawRow, error) {
	records = dropBlankRecords(records)
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimPrefix(h, "\ufeff")
		header[i] = strings.ToUpper(strings.TrimSpace(h))
	}
	normalized := make([][]string, 0, len(records))
	normalized = append(normalized, header)
	for _, rec := range records[1:] {
		normalized = append(normalized, fitWidth(rec, len(header)))
	}

	rows := make([]RawRow, 0, len(normalized)-1)
	if len(normalized) == 1 {
		return rows, nil
	}
	if err := gocsv.UnmarshalCSV(&recordReader{records: normalized}, &rows); err != nil {
		return nil, fmt.Errorf("map columns: %w", err)
	}
	return rows, nil
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func fitWidth(rec []string, width int) []string {
	if len(rec) == width {
		return rec
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}

// recordReader feeds pre-read records to gocsv so csv and xlsx uploads share
// one header-to-field mapping.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}
