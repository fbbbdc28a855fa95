package web

import (
	"testing"

	"casereport/record"

	"github.com/google/go-cmp/cmp"
)

func TestBuildTableView_Pages(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		record.RentSupplement{Individual: "a", ProgramOrSite: "A", Notes: "1"},
		record.RentSupplement{Individual: "b", ProgramOrSite: "B", Notes: "2"},
		record.RentSupplement{Individual: "c", ProgramOrSite: "C", Notes: "3"},
	}

	view := BuildTableView(record.RentSupplementType, records, 2, 5)
	want := TableView{
		FileType: record.RentSupplementType,
		Columns:  []string{"individual", "programOrSite", "notes"},
		Rows:     [][]string{{"c", "C", "3"}},
		Page:     Page{Offset: 2, Limit: 5, Total: 3},
	}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}

	if view := BuildTableView(record.RentSupplementType, records, 10, 0); len(view.Rows) != 0 || view.Page.Limit != defaultPageSize {
		t.Fatalf("unexpected out of range view %+v", view)
	}
}

func TestBuildSummaryView_EmptyRecords(t *testing.T) {
	t.Parallel()

	for _, ft := range record.FileTypes() {
		view := BuildSummaryView(ft, nil)
		if view.Total != 0 || view.Groups == nil || view.Table.Rows == nil {
			t.Fatalf("%s: unexpected view %+v", ft, view)
		}
	}
}
