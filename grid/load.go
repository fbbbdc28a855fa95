package grid

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnreadableFile indicates the content cannot be parsed as a spreadsheet.
	ErrUnreadableFile = errors.New("unreadable spreadsheet")
	// ErrEmptySheet indicates the first sheet has no rows.
	ErrEmptySheet = errors.New("first sheet is empty")
)

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Load decodes the first sheet of an xlsx workbook.
func Load(r io.Reader) (*Grid, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptySheet)
	}

	rawRows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %s: %v", ErrUnreadableFile, sheet, err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s", ErrEmptySheet, sheet)
	}

	rows := make([]Row, len(rawRows))
	for i, raw := range rawRows {
		row := make(Row, len(raw))
		for col, value := range raw {
			if value == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				row[col] = StringCell(value)
				continue
			}
			cellType, err := file.GetCellType(sheet, name)
			if err != nil {
				cellType = excelize.CellTypeUnset
			}
			row[col] = typedCell(cellType, value)
		}
		rows[i] = row
	}

	return &Grid{sheet: sheet, rows: rows}, nil
}

func typedCell(cellType excelize.CellType, raw string) Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return StringCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range isoDateLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return DateCell(parsed)
			}
		}
		return StringCell(raw)
	default:
		// Numbers and booleans both carry a numeric raw value.
		if number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return NumberCell(number)
		}
		return StringCell(raw)
	}
}

// LoadCSV decodes a CSV export. UTF-16 content with a byte order mark is
// transcoded to UTF-8 first. Cell kinds are inferred with ParseCell.
func LoadCSV(r io.Reader) (*Grid, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	g := FromStrings(records)
	g.sheet = "csv"
	return g, nil
}

// LoadFile reads path and decodes it with the loader matching its extension.
func LoadFile(path string) (*Grid, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", path, err)
	}
	return LoadBytes(filepath.Base(path), content)
}

// LoadBytes decodes in-memory content; name only selects the loader.
func LoadBytes(name string, content []byte) (*Grid, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "csv":
		return LoadCSV(bytes.NewReader(content))
	case "xlsx", "xlsm", "xltx", "xltm", "":
		return Load(bytes.NewReader(content))
	default:
		return nil, fmt.Errorf("%w: unsupported file extension for %s", ErrUnreadableFile, name)
	}
}
