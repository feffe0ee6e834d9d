package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeIntake struct {
	content   string
	sourceURL string
	err       error
}

func (f *fakeIntake) AddObservedPost(_ context.Context, content, sourceURL string, _ time.Time) (int64, error) {
	f.content = content
	f.sourceURL = sourceURL
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func postObserve(t *testing.T, srv *Server, body string) (*httptest.ResponseRecorder, ack) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/observe", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	var a ack
	if err := json.NewDecoder(rec.Body).Decode(&a); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	return rec, a
}

func TestObserve_AcksSuccess(t *testing.T) {
	t.Parallel()

	intake := &fakeIntake{}
	srv := NewServer(intake)

	rec, a := postObserve(t, srv, `{"postContent":"you are worthless","sourceUrl":"https://social.example/p/1","timestamp":"2026-08-28T09:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if a.Status != "success" {
		t.Fatalf("ack status = %q, want success", a.Status)
	}
	if a.Error != "" {
		t.Fatalf("ack error = %q, want empty", a.Error)
	}
	if intake.content != "you are worthless" || intake.sourceURL != "https://social.example/p/1" {
		t.Fatalf("stored = %q/%q", intake.content, intake.sourceURL)
	}
}

func TestObserve_RejectsEmptyContent(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeIntake{})
	rec, a := postObserve(t, srv, `{"postContent":"  ","sourceUrl":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if a.Status != "error" {
		t.Fatalf("ack status = %q, want error", a.Status)
	}
}

func TestObserve_RejectsBadJSON(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeIntake{})
	rec, a := postObserve(t, srv, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if a.Error == "" {
		t.Fatalf("ack error empty, want decode detail")
	}
}

func TestObserve_StoreFailure(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeIntake{err: errors.New("disk full")})
	rec, a := postObserve(t, srv, `{"postContent":"post"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if a.Error != "disk full" {
		t.Fatalf("ack error = %q, want disk full", a.Error)
	}
}
