package output

import (
	"fmt"
	"strconv"

	"casereport/record"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, ft record.FileType, records []record.Record) error {
	return writeExcel(path, sheetName(ft.String()), recordTable(ft, records))
}

func writeExcel(path, sheet string, t table) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	headers := make([]any, len(t.headers))
	for i, header := range t.headers {
		headers[i] = header
	}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("set excel headers: %w", err)
	}

	for i, row := range t.rows {
		values := make([]any, len(row))
		for col, value := range row {
			values[col] = excelValue(value)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("set excel row %s: %w", cell, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

// excelValue stores plain decimal numbers as numeric cells so sums and
// charts work in the exported sheet. Leading zeros stay text.
func excelValue(value string) any {
	if value == "" || (len(value) > 1 && value[0] == '0' && value[1] != '.') {
		return value
	}
	for _, r := range value {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return value
		}
	}
	if number, err := strconv.ParseFloat(value, 64); err == nil {
		return number
	}
	return value
}

func sheetName(title string) string {
	if title == "" {
		return "Sheet1"
	}
	runes := []rune(title)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}
