package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/collector"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pdftest"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/store"
)

const testKey = "secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cfg := config.Config{
		APIKey:         testKey,
		WorkerCount:    2,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
	}
	ex := pipeline.NewExtractor(outline.DefaultConfig(), collector.DefaultOptions(), nil)
	orch := pipeline.NewOrchestrator(cfg, ex, st, nil)
	orch.Start(context.Background())
	t.Cleanup(func() {
		orch.Stop()
		st.Close()
	})
	return NewServer(orch, st, nil, cfg)
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, url string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(f.data)
	}
	mw.Close()
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

func authed(method, url string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("expected ok, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := do(s, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json error body, got %q", ct)
	}
}

func TestOutline_JSON(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, multipartRequest(t, http.MethodPost, "/api/outline", upload{"file", "report.pdf", pdftest.Report()}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Title   string `json:"title"`
		Outline []struct {
			Level string `json:"level"`
			Text  string `json:"text"`
			Page  int    `json:"page"`
		} `json:"outline"`
	}
	decode(t, rec, &res)
	if res.Title != "Annual Report 2024" {
		t.Errorf("expected title, got %q", res.Title)
	}
	if len(res.Outline) != 3 || res.Outline[0].Level != "H1" || res.Outline[0].Text != "Introduction" {
		t.Errorf("unexpected outline %+v", res.Outline)
	}
}

func TestOutline_Formats(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, multipartRequest(t, http.MethodPost, "/api/outline?format=markdown", upload{"file", "report.pdf", pdftest.Report()}))
	if !strings.HasPrefix(rec.Body.String(), "# Annual Report 2024\n") {
		t.Errorf("expected markdown, got %q", rec.Body.String())
	}
	rec = do(s, multipartRequest(t, http.MethodPost, "/api/outline?format=html", upload{"file", "report.pdf", pdftest.Report()}))
	if !strings.Contains(rec.Body.String(), "Introduction") || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("expected html, got %q", rec.Body.String())
	}
	rec = do(s, multipartRequest(t, http.MethodPost, "/api/outline?format=xml", upload{"file", "report.pdf", pdftest.Report()}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestOutline_Rejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		file upload
		code int
	}{
		{"wrong extension", upload{"file", "notes.txt", []byte("hi")}, http.StatusBadRequest},
		{"wrong field", upload{"doc", "report.pdf", pdftest.Report()}, http.StatusBadRequest},
		{"unreadable pdf", upload{"file", "junk.pdf", []byte("junk")}, http.StatusUnprocessableEntity},
		{"too large", upload{"file", "big.pdf", bytes.Repeat([]byte("x"), 1<<20+1)}, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, multipartRequest(t, http.MethodPost, "/api/outline", tt.file))
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func waitJob(t *testing.T, s *Server, jobID string) pipeline.JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		rec := do(s, authed(http.MethodGet, "/api/jobs/"+jobID))
		if rec.Code != http.StatusOK {
			t.Fatalf("job status: %d %s", rec.Code, rec.Body.String())
		}
		var snap pipeline.JobSnapshot
		decode(t, rec, &snap)
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", jobID)
	return pipeline.JobSnapshot{}
}

func TestJobs_SubmitAndDocuments(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, multipartRequest(t, http.MethodPost, "/api/jobs", upload{"file", "report.pdf", pdftest.Report()}))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID   string `json:"job_id"`
		DocID   string `json:"doc_id"`
		PollURL string `json:"poll_url"`
	}
	decode(t, rec, &accepted)
	if accepted.PollURL != "/api/jobs/"+accepted.JobID {
		t.Errorf("unexpected poll url %q", accepted.PollURL)
	}

	snap := waitJob(t, s, accepted.JobID)
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Result == nil || snap.Result.Title != "Annual Report 2024" {
		t.Errorf("expected result in job status, got %+v", snap.Result)
	}

	rec = do(s, authed(http.MethodGet, "/api/documents"))
	var list struct {
		Documents []store.Summary `json:"documents"`
		Total     int             `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 1 || len(list.Documents) != 1 || list.Documents[0].ID != accepted.DocID {
		t.Fatalf("unexpected listing %+v", list)
	}
	if list.Documents[0].Entries != 3 || list.Documents[0].Pages != 3 {
		t.Errorf("unexpected summary %+v", list.Documents[0])
	}

	rec = do(s, authed(http.MethodGet, "/api/documents/"+accepted.DocID))
	var doc store.Document
	decode(t, rec, &doc)
	if doc.Filename != "report.pdf" || len(doc.Result.Outline) != 3 {
		t.Errorf("unexpected document %+v", doc)
	}
	rec = do(s, authed(http.MethodGet, "/api/documents/"+accepted.DocID+"?format=markdown"))
	if !strings.Contains(rec.Body.String(), "- Introduction (p. 1)") {
		t.Errorf("expected markdown outline, got %q", rec.Body.String())
	}

	if rec := do(s, authed(http.MethodDelete, "/api/documents/"+accepted.DocID)); rec.Code != http.StatusOK {
		t.Errorf("expected delete 200, got %d", rec.Code)
	}
	if rec := do(s, authed(http.MethodDelete, "/api/documents/"+accepted.DocID)); rec.Code != http.StatusNotFound {
		t.Errorf("expected second delete 404, got %d", rec.Code)
	}
	if rec := do(s, authed(http.MethodGet, "/api/documents/"+accepted.DocID)); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestJobs_Batch(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, multipartRequest(t, http.MethodPost, "/api/jobs/batch",
		upload{"files", "a.pdf", pdftest.Report()},
		upload{"files", "b.pdf", []byte("junk")},
		upload{"files", "c.docx", []byte("x")},
	))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		BatchID string           `json:"batch_id"`
		Jobs    []map[string]any `json:"jobs"`
	}
	decode(t, rec, &resp)
	if resp.BatchID == "" || len(resp.Jobs) != 3 {
		t.Fatalf("unexpected batch response %+v", resp)
	}

	rejected := 0
	for _, j := range resp.Jobs {
		if _, ok := j["error"]; ok {
			rejected++
			continue
		}
		waitJob(t, s, j["job_id"].(string))
	}
	if rejected != 1 {
		t.Errorf("expected the docx upload to be rejected, got %d rejections", rejected)
	}

	rec = do(s, authed(http.MethodGet, "/api/batches/"+resp.BatchID))
	var batch struct {
		Total int `json:"total"`
		Done  int `json:"done"`
	}
	decode(t, rec, &batch)
	if batch.Total != 2 || batch.Done != 2 {
		t.Errorf("expected 2 of 2 done, got %+v", batch)
	}
	if rec := do(s, authed(http.MethodGet, "/api/batches/nope")); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown batch, got %d", rec.Code)
	}
}

func TestJobs_NotFound(t *testing.T) {
	s := newTestServer(t)
	if rec := do(s, authed(http.MethodGet, "/api/jobs/missing")); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestListDocuments_BadParams(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{"limit=0", "limit=abc", "limit=1000", "offset=-1"} {
		if rec := do(s, authed(http.MethodGet, "/api/documents?"+q)); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	do(s, multipartRequest(t, http.MethodPost, "/api/outline", upload{"file", "report.pdf", pdftest.Report()}))

	rec := do(s, authed(http.MethodGet, "/api/stats"))
	var resp struct {
		Extraction pipeline.StatsSnapshot `json:"extraction"`
		Documents  int                    `json:"documents"`
	}
	decode(t, rec, &resp)
	if resp.Extraction.Documents != 1 || resp.Extraction.Pages != 3 {
		t.Errorf("expected one extraction of 3 pages, got %+v", resp.Extraction)
	}
	if resp.Documents != 0 {
		t.Errorf("expected sync outline not to be stored, got %d", resp.Documents)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":             "report.pdf",
		"../../etc/passwd.pdf":   "passwd.pdf",
		`C:\Users\me\report.pdf`: "report.pdf",
		"..":                     "_",
		"":                       "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
