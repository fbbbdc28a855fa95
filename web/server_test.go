package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"casereport/backend"
	"casereport/config"
	"casereport/record"
	"casereport/storage"
	"casereport/upload"

	"github.com/google/go-cmp/cmp"
)

const flowCSV = "Individual,Program,Start,Exit,Reason\n" +
	"\"Doe, Jane\",Program A,01-01-2023,10-01-2023,Graduated\n" +
	"\"Roe, Rick\",Program B,05-01-2023,,\n" +
	"\"Poe, Ann\",Program A,07-01-2023,09-01-2023,Transferred\n"

func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "casereport_web_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(openTestStore(t), cfg, nil))
	t.Cleanup(ts.Close)
	return ts
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func postFile(t *testing.T, ts *httptest.Server, path, filename, content string, fields map[string]string) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	resp, err := http.Post(ts.URL+path, contentType, body)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestServer_UploadFilterSummarizeDelete(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	resp := postFile(t, ts, "/api/uploads", "flow.csv", flowCSV, map[string]string{"fileType": "flow-through"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !created.Pass || created.FileID == "" || created.RecordCount != 3 || created.FileType != record.FlowThroughType {
		t.Fatalf("unexpected upload response %+v", created)
	}

	var uploads []upload.UploadInfo
	if status := getJSON(t, ts, "/api/uploads", &uploads); status != http.StatusOK || len(uploads) != 1 {
		t.Fatalf("unexpected uploads %d %+v", status, uploads)
	}

	query := url.Values{"in.programOrSite": {"Program A"}, "from.startDate": {"2023-01-02"}}
	var stored upload.Stored
	if status := getJSON(t, ts, "/api/uploads/"+created.FileID+"/records?"+query.Encode(), &stored); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	want := []record.Record{record.FlowThrough{
		Individual: "Poe, Ann", ProgramOrSite: "Program A", StartDate: "07-01-2023", ExitDate: "09-01-2023", ExitReason: "Transferred",
	}}
	if diff := cmp.Diff(want, stored.Records); diff != "" {
		t.Fatalf("filtered records mismatch (-want +got):\n%s", diff)
	}

	var summary SummaryView
	if status := getJSON(t, ts, "/api/uploads/"+created.FileID+"/summary", &summary); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if summary.Total != 3 || len(summary.Table.Rows) != 2 || summary.Groups[0].Key != "Program A" {
		t.Fatalf("unexpected summary %+v", summary)
	}

	var table TableView
	if status := getJSON(t, ts, "/api/uploads/"+created.FileID+"/table?offset=1&limit=1", &table); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if table.Page.Total != 3 || len(table.Rows) != 1 || table.Rows[0][0] != "Roe, Rick" {
		t.Fatalf("unexpected table %+v", table)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/uploads/"+created.FileID, nil)
	deleteResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", deleteResp.StatusCode)
	}
	if status := getJSON(t, ts, "/api/uploads/"+created.FileID+"/records", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestServer_UploadUsesConfigRules(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{Rules: []config.Rule{
		{Name: "flow", FileTemplate: "flow*.csv", FileType: "1"},
	}})
	resp := postFile(t, ts, "/api/uploads", "flow_march.csv", flowCSV, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestServer_UploadWithoutFileTypeIsUnprocessable(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	resp := postFile(t, ts, "/api/uploads", "unknown.csv", flowCSV, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Pass || !strings.Contains(body.Message, "no logic implemented") {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestServer_UnreadableWorkbook(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	resp := postFile(t, ts, "/api/uploads", "broken.xlsx", "definitely not a zip", map[string]string{"fileType": "2"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestServer_ExtractDoesNotStore(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	resp := postFile(t, ts, "/api/extract", "flow.csv", flowCSV, map[string]string{"fileType": "Flow Through"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		FileType record.FileType  `json:"fileType"`
		Records  []map[string]any `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.FileType != record.FlowThroughType || len(body.Records) != 3 || body.Records[0]["startDate"] != "01-01-2023" {
		t.Fatalf("unexpected extract response %+v", body)
	}

	var uploads []upload.UploadInfo
	getJSON(t, ts, "/api/uploads", &uploads)
	if len(uploads) != 0 {
		t.Fatalf("extract must not store, got %d uploads", len(uploads))
	}
}

func TestServer_JSONPayload(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	payload := `{"fileName":"sites.xlsx","fileType":10,"records":[{"site":"Richter Street","city":"Kelowna"}]}`
	resp, err := http.Post(ts.URL+"/api/uploads", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	empty := `{"fileName":"sites.xlsx","fileType":10,"records":[]}`
	resp2, err := http.Post(ts.URL+"/api/uploads", "application/json", strings.NewReader(empty))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty payload, got %d", resp2.StatusCode)
	}
}

func TestServer_InvalidCriteria(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	resp := postFile(t, ts, "/api/uploads", "flow.csv", flowCSV, map[string]string{"fileType": "1"})
	var created uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if status := getJSON(t, ts, "/api/uploads/"+created.FileID+"/records?q.nope=x", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestServer_FileTypes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	var types []fileTypeResponse
	if status := getJSON(t, ts, "/api/file-types", &types); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(types) != 11 || types[3].Slug != "goals-progress" {
		t.Fatalf("unexpected file types %+v", types)
	}
}

func TestServer_BackendClientRoundTrip(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, config.Config{})
	client, err := backend.NewClient(backend.ClientConfig{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	records := []record.Record{record.SiteList{Site: "Richter Street", City: "Kelowna"}}
	receipt, err := client.CreateUpload(context.Background(), upload.Payload{FileName: "sites.xlsx", FileType: record.SiteListType, Records: records})
	if err != nil {
		t.Fatalf("create upload: %v", err)
	}
	if receipt.FileID == "" || receipt.RecordCount != 1 || receipt.CreatedAt.IsZero() {
		t.Fatalf("incomplete receipt %+v", receipt)
	}

	stored, err := client.Records(context.Background(), receipt.FileID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if !stored.Upload.CreatedAt.Equal(receipt.CreatedAt) {
		t.Fatalf("receipt time %s does not match stored time %s", receipt.CreatedAt, stored.Upload.CreatedAt)
	}
	if diff := cmp.Diff(records, stored.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}
