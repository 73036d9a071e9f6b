package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/goclippings/internal/app"
	"github.com/hyperifyio/goclippings/internal/article"
	"github.com/hyperifyio/goclippings/internal/block"
	"github.com/hyperifyio/goclippings/internal/collect"
	"github.com/hyperifyio/goclippings/internal/compose"
	"github.com/hyperifyio/goclippings/internal/mail"
)

type fakePipeline struct{}

func (fakePipeline) Fetch(_ context.Context, url string) (*article.Article, error) {
	if strings.Contains(url, "fail") {
		return nil, &article.ExtractionError{URL: url}
	}
	return &article.Article{
		Title:     "Title for " + url,
		SourceURL: url,
		Blocks:    []block.Block{block.Paragraph{Text: "Body for " + url}},
	}, nil
}

type fakeSender struct {
	sent []mail.Message
}

func (f *fakeSender) Send(msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func testServer(sender mail.Sender) *Server {
	a := &app.App{
		Collector: &collect.Collector{Pipeline: fakePipeline{}},
		Composer:  compose.New(nil),
		Mailer:    sender,
	}
	return NewServer(a, zerolog.Nop())
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	testServer(nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCompile_ReturnsPDF(t *testing.T) {
	rec := postJSON(t, testServer(nil), "/api/clippings",
		`{"urls":["https://a.test/1","https://b.test/fail"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Clippings-") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if got := rec.Header().Get("X-Clippings-Skipped"); got != "https://b.test/fail" {
		t.Fatalf("unexpected skip header %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("body is not a PDF")
	}
}

func TestCompile_BadJSON(t *testing.T) {
	rec := postJSON(t, testServer(nil), "/api/clippings", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompile_EmptyURLs(t *testing.T) {
	rec := postJSON(t, testServer(nil), "/api/clippings", `{"urls":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompile_AllSkippedIs422(t *testing.T) {
	rec := postJSON(t, testServer(nil), "/api/clippings",
		`{"urls":["https://a.test/fail","https://b.test/fail"]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestEmail_SendsAndReportsFilename(t *testing.T) {
	sender := &fakeSender{}
	rec := postJSON(t, testServer(sender), "/api/clippings/email",
		`{"urls":["https://a.test/1"],"to":"reader@x.test"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Sent     bool     `json:"sent"`
		Filename string   `json:"filename"`
		Skipped  []string `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Sent || !strings.HasSuffix(resp.Filename, ".pdf") {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "reader@x.test" {
		t.Fatalf("expected one message to reader@x.test, got %#v", sender.sent)
	}
}

func TestEmail_MissingRecipient(t *testing.T) {
	rec := postJSON(t, testServer(&fakeSender{}), "/api/clippings/email",
		`{"urls":["https://a.test/1"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
