package importer

import (
	"errors"
	"fmt"
	"strings"

	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

// ErrUnsupportedFileType is a warning: the upload carries a file type with
// no extraction logic. Callers report it and keep the upload flow alive.
var ErrUnsupportedFileType = errors.New("no extraction logic implemented for file type")

// Extraction is the output of one extractor run over one grid.
type Extraction struct {
	FileType    record.FileType
	Records     []record.Record
	Metadata    map[string]string
	RowsRead    int
	RowsSkipped int
}

type Extractor interface {
	FileType() record.FileType
	Extract(g *grid.Grid) Extraction
}

// ExtractorFor returns the extractor of ft.
func ExtractorFor(ft record.FileType) (Extractor, bool) {
	switch ft {
	case record.FlowThroughType:
		return FlowThroughExtractor{}, true
	case record.LossOfServiceType:
		return LossOfServiceExtractor{}, true
	case record.RentSupplementType:
		return RentSupplementExtractor{}, true
	case record.GoalsProgressType:
		return GoalsProgressExtractor{}, true
	case record.SafetyPlanType:
		return SafetyPlanExtractor{}, true
	case record.OverdoseSafetyPlanType:
		return OverdoseSafetyPlanExtractor{}, true
	case record.IncidentType:
		return IncidentExtractor{}, true
	case record.IndividualsType:
		return IndividualsExtractor{}, true
	case record.ShelterDiversionType:
		return ShelterDiversionExtractor{}, true
	case record.SiteListType:
		return SiteListExtractor{}, true
	case record.IntakeAggregateType:
		return IntakeExtractor{}, true
	default:
		return nil, false
	}
}

// Dispatch runs the extractor selected by ft. An unknown ft yields an empty
// extraction and an error wrapping ErrUnsupportedFileType.
func Dispatch(ft record.FileType, g *grid.Grid) (Extraction, error) {
	extractor, ok := ExtractorFor(ft)
	if !ok {
		return Extraction{FileType: ft, Records: []record.Record{}, Metadata: map[string]string{}},
			fmt.Errorf("%w: %d", ErrUnsupportedFileType, int(ft))
	}
	return extractor.Extract(g), nil
}

func newExtraction(ft record.FileType) Extraction {
	return Extraction{
		FileType: ft,
		Records:  make([]record.Record, 0, 64),
		Metadata: make(map[string]string),
	}
}

// extractRows is the skeleton shared by every one-row-per-record type.
func extractRows(ft record.FileType, g *grid.Grid, mapRow func(grid.Row) record.Record) Extraction {
	out := newExtraction(ft)
	rows := newRowScanner(&out)
	for i := 0; i < g.Len(); i++ {
		row := g.Row(i)
		if rows.skip(row) {
			continue
		}
		out.Records = append(out.Records, mapRow(row))
	}
	return out
}

// rowScanner drops the rows no extractor maps: row 0 (the header, or the
// first banner), the banner rows of the leading block and blank rows. The
// leading block ends at the first row that is neither a banner nor blank.
type rowScanner struct {
	out     *Extraction
	index   int
	leading bool
}

func newRowScanner(out *Extraction) *rowScanner {
	return &rowScanner{out: out, leading: true}
}

func (s *rowScanner) skip(row grid.Row) bool {
	s.out.RowsRead++
	index := s.index
	s.index++

	switch {
	case s.leading && s.out.collectBanner(row):
	case index == 0:
		s.leading = false
	case row.IsBlank():
	default:
		s.leading = false
		return false
	}
	s.out.RowsSkipped++
	return true
}

var bannerPrefixes = []string{"report:", "date range:", "for:", "program(s):"}

// collectBanner stores a "key: value" banner row in Metadata and reports
// whether row was one.
func (e *Extraction) collectBanner(row grid.Row) bool {
	_, first := row.FirstText()
	if first == "" {
		return false
	}
	lower := strings.ToLower(first)
	matched := false
	for _, prefix := range bannerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if cell.IsBlank() {
			continue
		}
		parts = append(parts, bannerText(cell))
	}
	key, value, _ := strings.Cut(strings.Join(parts, " "), ":")
	e.Metadata[strings.TrimSpace(key)] = strings.TrimSpace(value)
	return true
}

func bannerText(cell grid.Cell) string {
	switch cell.Kind() {
	case grid.KindDate, grid.KindNumber:
		if date := normalize.Date(cell); date != "" {
			return date
		}
		return cell.String()
	default:
		return strings.TrimSpace(cell.String())
	}
}
