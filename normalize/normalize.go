// Package normalize converts raw grid cells into the canonical text used by
// every record. All functions are total: malformed input yields "".
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"casereport/grid"

	"github.com/xuri/excelize/v2"
)

const (
	// DateLayout is the day-month-year format of every normalized date.
	DateLayout = "02-01-2006"
	// DateTimeLayout is used for columns that carry a time of day.
	DateTimeLayout = "02-01-2006 15:04"
)

// Date formats date cells and Excel serial numbers as DateLayout.
func Date(cell grid.Cell) string {
	value, ok := toTime(cell)
	if !ok {
		return ""
	}
	return value.Format(DateLayout)
}

// DateTime is Date with the time of day kept.
func DateTime(cell grid.Cell) string {
	value, ok := toTime(cell)
	if !ok {
		return ""
	}
	return value.Format(DateTimeLayout)
}

func toTime(cell grid.Cell) (time.Time, bool) {
	if value, ok := cell.Date(); ok {
		return value, true
	}
	serial, ok := cell.Number()
	if !ok || serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	value, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return value, true
}

// Boolean maps numeric 1/0 to "Yes"/"No" and passes text through trimmed.
func Boolean(cell grid.Cell) string {
	if number, ok := cell.Number(); ok {
		switch number {
		case 1:
			return "Yes"
		case 0:
			return "No"
		default:
			return ""
		}
	}
	return Text(cell)
}

// Text trims string cells; every other kind yields "".
func Text(cell grid.Cell) string {
	text, ok := cell.Text()
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

// Number reads numeric cells and numeric text such as "$1,250.50" or "45%".
func Number(cell grid.Cell) (float64, bool) {
	if number, ok := cell.Number(); ok {
		return number, true
	}
	text := Text(cell)
	if text == "" {
		return 0, false
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(text)
	number, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

// ParseDate parses the output of Date or DateTime.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
