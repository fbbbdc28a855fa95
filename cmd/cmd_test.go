package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casereport/backend"
	"casereport/config"
	"casereport/record"
	"casereport/storage"
	"casereport/upload"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const flowCSV = "Individual,Program,Start,Exit,Reason\n" +
	"\"Doe, Jane\",Program A,01-01-2023,10-01-2023,Graduated\n" +
	"\"Roe, Rick\",Program B,05-01-2023,,\n" +
	"\"Poe, Ann\",Program A,07-01-2023,09-01-2023,Transferred\n"

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "casereport_cmd_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func importFlow(t *testing.T, store upload.Store) string {
	t.Helper()
	var out bytes.Buffer
	path := writeInput(t, "flow.csv", flowCSV)
	if err := runImport(context.Background(), &out, store, config.Config{}, zap.NewNop(), []string{path}, "flow-through"); err != nil {
		t.Fatalf("run import: %v", err)
	}
	uploads, err := store.ListUploads(context.Background())
	if err != nil || len(uploads) != 1 {
		t.Fatalf("expected one upload, got %v (err %v)", uploads, err)
	}
	return uploads[0].FileID
}

type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) CreateUpload(context.Context, upload.Payload) (upload.Receipt, error) {
	return upload.Receipt{}, errStoreDown
}

func (failingStore) Records(context.Context, string) (upload.Stored, error) {
	return upload.Stored{}, errStoreDown
}

func (failingStore) ListUploads(context.Context) ([]upload.UploadInfo, error) {
	return nil, errStoreDown
}

func (failingStore) DeleteUpload(context.Context, string) error {
	return errStoreDown
}

func TestParseWhere(t *testing.T) {
	t.Parallel()

	values, err := parseWhere([]string{"q.individual=doe", " in.programOrSite = A,B ", "q=jane"})
	if err != nil {
		t.Fatalf("parse where: %v", err)
	}
	if values.Get("q.individual") != "doe" || values.Get("in.programOrSite") != "A,B" || values.Get("q") != "jane" {
		t.Fatalf("unexpected values %v", values)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseWhere([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNormalizeOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: formatTable},
		{in: "JSON", want: formatJSON},
		{in: "yml", want: formatYAML},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := normalizeOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("normalizeOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRenderRecords(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		record.RentSupplement{Individual: "Doe, Jane", ProgramOrSite: "Program A", Notes: "paid"},
	}

	var tableOut bytes.Buffer
	if err := renderRecords(&tableOut, formatTable, record.RentSupplementType, records); err != nil {
		t.Fatalf("render table: %v", err)
	}
	if !strings.Contains(tableOut.String(), "Doe, Jane") || !strings.Contains(tableOut.String(), "Program A") {
		t.Fatalf("table output misses record values:\n%s", tableOut.String())
	}

	var jsonOut bytes.Buffer
	if err := renderRecords(&jsonOut, formatJSON, record.RentSupplementType, records); err != nil {
		t.Fatalf("render json: %v", err)
	}
	var decoded []map[string]string
	if err := json.Unmarshal(jsonOut.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	want := []map[string]string{{"individual": "Doe, Jane", "programOrSite": "Program A", "notes": "paid"}}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	var yamlOut bytes.Buffer
	if err := renderRecords(&yamlOut, formatYAML, record.RentSupplementType, records); err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	var fromYAML []map[string]string
	if err := yaml.Unmarshal(yamlOut.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
	text := yamlOut.String()
	if !(strings.Index(text, "individual:") < strings.Index(text, "programOrSite:") && strings.Index(text, "programOrSite:") < strings.Index(text, "notes:")) {
		t.Fatalf("yaml does not keep field order:\n%s", text)
	}
}

func TestPrintFileTypes(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printFileTypes(&out)
	for _, ft := range record.FileTypes() {
		if !strings.Contains(out.String(), ft.Slug()) {
			t.Fatalf("file type %s missing from:\n%s", ft.Slug(), out.String())
		}
	}
}

func TestRunImport_StoresAndReports(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	fileID := importFlow(t, store)

	var reportOut bytes.Buffer
	if err := runReport(context.Background(), &reportOut, store, fileID, []string{"in.programOrSite=Program A"}, true, formatJSON); err != nil {
		t.Fatalf("run report: %v", err)
	}
	var records []map[string]string
	if err := json.Unmarshal(reportOut.Bytes(), &records); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(records) != 2 || records[0]["individual"] != "Doe, Jane" || records[1]["individual"] != "Poe, Ann" {
		t.Fatalf("unexpected filtered records %v", records)
	}

	var summaryOut bytes.Buffer
	if err := runReport(context.Background(), &summaryOut, store, fileID, nil, false, formatJSON); err != nil {
		t.Fatalf("run summary: %v", err)
	}
	var summary struct {
		Rows [][]string `json:"rows"`
	}
	if err := json.Unmarshal(summaryOut.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Rows) != 2 {
		t.Fatalf("expected 2 summary rows, got %v", summary.Rows)
	}

	if err := runReport(context.Background(), &bytes.Buffer{}, store, fileID, []string{"q.unknown=x"}, false, formatJSON); err == nil {
		t.Fatalf("expected error for unknown criteria field")
	}
	if err := runReport(context.Background(), &bytes.Buffer{}, store, "missing", nil, false, formatJSON); !errors.Is(err, upload.ErrUploadNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRunImport_SkipsUnresolvedType(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	var out bytes.Buffer
	path := writeInput(t, "unknown.csv", flowCSV)
	if err := runImport(context.Background(), &out, store, config.Config{}, zap.NewNop(), []string{path}, ""); err != nil {
		t.Fatalf("run import: %v", err)
	}
	if !strings.Contains(out.String(), "SKIPPED") {
		t.Fatalf("expected skipped file in output:\n%s", out.String())
	}
	uploads, err := store.ListUploads(context.Background())
	if err != nil || len(uploads) != 0 {
		t.Fatalf("expected no uploads, got %v (err %v)", uploads, err)
	}
}

func TestRunImport_ReportsStoreFailures(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	path := writeInput(t, "flow.csv", flowCSV)
	err := runImport(context.Background(), &out, failingStore{}, config.Config{}, zap.NewNop(), []string{path}, "1")
	if err == nil {
		t.Fatalf("expected error when the store fails")
	}
	if !strings.Contains(out.String(), "FAILED") {
		t.Fatalf("expected failure line in output:\n%s", out.String())
	}
}

func TestRunExport(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	fileID := importFlow(t, store)
	dir := t.TempDir()

	recordsPath := filepath.Join(dir, "flow.csv")
	if err := runExport(context.Background(), &bytes.Buffer{}, store, fileID, []string{"q.individual=roe"}, "records", "", recordsPath); err != nil {
		t.Fatalf("export records: %v", err)
	}
	content, err := os.ReadFile(recordsPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "individual,programOrSite,startDate,exitDate,exitReason\n\"Roe, Rick\",Program B,05-01-2023,,\n"
	if string(content) != want {
		t.Fatalf("unexpected export:\n%s", content)
	}

	summaryPath := filepath.Join(dir, "summary.xlsx")
	if err := runExport(context.Background(), &bytes.Buffer{}, store, fileID, nil, "summary", "", summaryPath); err != nil {
		t.Fatalf("export summary: %v", err)
	}
	if _, err := os.Stat(summaryPath); err != nil {
		t.Fatalf("expected summary workbook: %v", err)
	}

	if err := runExport(context.Background(), &bytes.Buffer{}, store, fileID, nil, "daily", "csv", recordsPath); err == nil {
		t.Fatalf("expected unsupported mode error")
	}
}

func TestDeleteAllUploads(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	importFlow(t, store)

	deleted, err := deleteAllUploads(context.Background(), store)
	if err != nil || deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d (err %v)", deleted, err)
	}

	if _, err := deleteAllUploads(context.Background(), failingStore{}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestDeleteUploads_JoinsErrors(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	fileID := importFlow(t, store)

	var out bytes.Buffer
	err := deleteUploads(context.Background(), &out, store, []string{fileID, "missing"})
	if !errors.Is(err, upload.ErrUploadNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if !strings.Contains(out.String(), fileID) {
		t.Fatalf("expected deleted id in output:\n%s", out.String())
	}
}

func TestConfirmDeletePrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "uppercase Y confirms", input: "Y\n", want: true},
		{name: "lowercase y does not confirm", input: "y\n", want: false},
		{name: "N does not confirm", input: "N\n", want: false},
		{name: "empty does not confirm", input: "\n", want: false},
		{name: "Y without newline confirms", input: "Y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirmDeletePrompt(bytes.NewBufferString(tt.input), &out, "all uploads")
			if err != nil {
				t.Fatalf("confirm prompt returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if out.Len() == 0 {
				t.Fatalf("expected prompt output")
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	remote, closeRemote, err := openStore(config.Config{Backend: config.BackendConfig{URL: "https://reports.example.org"}}, "")
	if err != nil {
		t.Fatalf("open remote store: %v", err)
	}
	defer closeRemote()
	if _, ok := remote.(*backend.HTTPClient); !ok {
		t.Fatalf("expected backend client, got %T", remote)
	}

	dbPath := filepath.Join(t.TempDir(), "local.db")
	local, closeLocal, err := openStore(config.Config{Storage: config.StorageConfig{Path: "ignored.db"}}, dbPath)
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	defer closeLocal()
	if _, ok := local.(*storage.SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", local)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database at override path: %v", err)
	}
}

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"out.csv":  "csv",
		"out.XLSX": "excel",
		"out":      "csv",
	}
	for path, want := range tests {
		if got := detectExportFormat(path); got != want {
			t.Fatalf("detectExportFormat(%q) = %q, want %q", path, got, want)
		}
	}
}
