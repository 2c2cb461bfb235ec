package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRedirectLegacyPreservesMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(`{"title":"t","content":"c"}`))
	rec := httptest.NewRecorder()
	redirectLegacy(rec, req)

	// 308 keeps the method and body, so a legacy POST replays as a POST.
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusPermanentRedirect)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/blogs" {
		t.Errorf("location = %q, want /v1/blogs", loc)
	}
}

func TestRedirectLegacyDoesNotLoop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/does-not-exist", nil)
	rec := httptest.NewRecorder()
	redirectLegacy(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
