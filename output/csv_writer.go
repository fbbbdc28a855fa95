package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"casereport/record"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, ft record.FileType, records []record.Record) error {
	return writeCSV(path, recordTable(ft, records))
}

func writeCSV(path string, t table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
