package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/textwash/internal/config"
	"github.com/dgallion1/textwash/internal/pipeline"
	"github.com/dgallion1/textwash/internal/sanitize"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		APIKey:         "test-key",
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1 << 20,
		MaxMarkupBytes: 1 << 20,
		JobTTL:         time.Hour,
		DebounceWindow: 10 * time.Millisecond,
	}
	svc := sanitize.NewService(log, 0)
	orch := pipeline.NewOrchestrator(cfg, svc, log)

	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(func() {
		cancel()
		orch.Stop()
	})

	return NewServer(orch, svc, log, cfg)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer test-key")
	return req
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSanitize_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"html":"<p>x</p>"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sanitize", body))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSanitize_FullPipeline(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"html":"<p onclick=\"x()\">A — B</p><script>bad()</script>"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/sanitize", body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["html"] != "<p>A; B</p>" {
		t.Errorf("expected sanitized markup, got %q", resp["html"])
	}
}

func TestHighlight_MarksCharacters(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"html":"<p>a​b</p>"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/highlight", body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "twash-flag") {
		t.Errorf("expected marker in response, got %s", rec.Body.String())
	}
}

func TestIngest_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("A — B\n\ne.g. zero​width"))
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/api/ingest", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Poll until the worker finishes.
	deadline := time.Now().Add(2 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/ingest/"+accepted.JobID+"/status", nil)))
		var snap struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		status = snap.Status
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != "completed" {
		t.Fatalf("expected completed job, got %q", status)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/ingest/"+accepted.JobID+"/result", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "A; B") {
		t.Errorf("expected sanitized result, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "for example zerowidth") {
		t.Errorf("expected expanded and cleaned text, got %s", rec.Body.String())
	}
}

func TestIngest_RejectsUnsupportedExtension(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "app.exe")
	fw.Write([]byte("binary"))
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/api/ingest", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
