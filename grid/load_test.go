package grid

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoad_DecodesTypedCells(t *testing.T) {
	t.Parallel()

	content := workbookBytes(t, [][]any{
		{"Individual", "Program", "Start", "Flag"},
		{"Doe, Jane", "Program A", 44927, true},
	})

	g, err := Load(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.Len())
	}

	if text, ok := g.Cell(1, 0).Text(); !ok || text != "Doe, Jane" {
		t.Fatalf("unexpected text cell: %q (string=%t)", text, ok)
	}
	if number, ok := g.Cell(1, 2).Number(); !ok || number != 44927 {
		t.Fatalf("unexpected number cell: %v (number=%t)", number, ok)
	}
	if number, ok := g.Cell(1, 3).Number(); !ok || number != 1 {
		t.Fatalf("expected boolean TRUE as number 1, got %v (number=%t)", number, ok)
	}
	if !g.Cell(1, 10).IsBlank() {
		t.Fatalf("expected out-of-range cell to be blank")
	}
	if g.Cell(1, 10).String() != "" {
		t.Fatalf("expected empty cell to render as empty string")
	}
}

func TestLoad_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("definitely not a workbook"))
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("expected ErrUnreadableFile, got %v", err)
	}
}

func TestLoad_EmptySheet(t *testing.T) {
	t.Parallel()

	content := workbookBytes(t, nil)
	_, err := Load(bytes.NewReader(content))
	if !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("expected ErrEmptySheet, got %v", err)
	}
}

func TestLoadCSV_InfersKinds(t *testing.T) {
	t.Parallel()

	input := "Individual,Start,Review\r\n\"Doe, Jane\",2023-01-01,1\r\n"
	g, err := LoadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}

	if text, ok := g.Cell(1, 0).Text(); !ok || text != "Doe, Jane" {
		t.Fatalf("unexpected text: %q", text)
	}
	date, ok := g.Cell(1, 1).Date()
	if !ok || date.Year() != 2023 || date.Month() != time.January || date.Day() != 1 {
		t.Fatalf("unexpected date cell: %v (date=%t)", date, ok)
	}
	if number, ok := g.Cell(1, 2).Number(); !ok || number != 1 {
		t.Fatalf("unexpected number cell: %v", number)
	}
}

func TestLoadCSV_DecodesUTF16WithBOM(t *testing.T) {
	t.Parallel()

	text := "Site,City\nRichter Street,Kelowna\n"
	encoded := []byte{0xFF, 0xFE}
	for _, r := range text {
		encoded = append(encoded, byte(r), 0)
	}

	g, err := LoadCSV(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("load utf16 csv: %v", err)
	}
	if got := g.Cell(1, 1).String(); got != "Kelowna" {
		t.Fatalf("expected decoded city, got %q", got)
	}
}

func TestLoadCSV_Empty(t *testing.T) {
	t.Parallel()

	if _, err := LoadCSV(strings.NewReader("")); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("expected ErrEmptySheet, got %v", err)
	}
}

func TestLoadFile_SelectsLoaderByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sites.csv")
	if err := os.WriteFile(csvPath, []byte("Site\nA\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	g, err := LoadFile(csvPath)
	if err != nil {
		t.Fatalf("load csv file: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.Len())
	}

	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	if _, err := LoadFile(txtPath); !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("expected ErrUnreadableFile for .txt, got %v", err)
	}
}

func TestParseCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{name: "blank", input: "   ", want: KindEmpty},
		{name: "integer", input: "42", want: KindNumber},
		{name: "decimal", input: "0.5", want: KindNumber},
		{name: "nan text stays text", input: "NaN", want: KindString},
		{name: "iso date", input: "2023-02-01", want: KindDate},
		{name: "day month year", input: "01-02-2023", want: KindDate},
		{name: "phone", input: "250-555-0100", want: KindString},
		{name: "text", input: "Graduated", want: KindString},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseCell(tc.input).Kind(); got != tc.want {
				t.Fatalf("ParseCell(%q) kind = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestRow_IsBlank(t *testing.T) {
	t.Parallel()

	if !(Row{StringCell("  "), Cell{}}).IsBlank() {
		t.Fatalf("expected whitespace row to be blank")
	}
	if (Row{Cell{}, NumberCell(0)}).IsBlank() {
		t.Fatalf("expected number row to be non-blank")
	}
	idx, text := (Row{Cell{}, StringCell(" For: All Individuals ")}).FirstText()
	if idx != 1 || text != "For: All Individuals" {
		t.Fatalf("unexpected first text: %d %q", idx, text)
	}
}
