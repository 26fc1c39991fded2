package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/gounified/internal/pkg/pkglog"
)

type staticGenerator struct {
	value string
	calls int
}

func (g *staticGenerator) Generate() string {
	g.calls++
	return g.value
}

func serveCID(t *testing.T, gen Generator, headers map[string]string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var gotCID string
	wrapped := middlewareCorrelationID(gen)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCID = pkglog.GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	return gotCID, rec
}

func TestMiddlewareCorrelationIDUsesHeader(t *testing.T) {
	gen := &staticGenerator{value: "generated"}
	gotCID, rec := serveCID(t, gen, map[string]string{HeaderCorrelationID: "header-cid"})

	if got := rec.Header().Get(HeaderCorrelationID); got != "header-cid" {
		t.Fatalf("expected response cid header, got %q", got)
	}
	if gotCID != "header-cid" {
		t.Fatalf("expected context cid header-cid, got %q", gotCID)
	}
	if gen.calls != 0 {
		t.Fatalf("expected generator not called")
	}
}

func TestMiddlewareCorrelationIDFallsBackToRequestID(t *testing.T) {
	gen := &staticGenerator{value: "generated"}
	gotCID, _ := serveCID(t, gen, map[string]string{HeaderRequestID: "req-1"})

	if gotCID != "req-1" {
		t.Fatalf("expected request id, got %q", gotCID)
	}
}

func TestMiddlewareCorrelationIDGeneratesWhenMissing(t *testing.T) {
	gen := &staticGenerator{value: "0AQ5T3CV3N1MU"}
	gotCID, rec := serveCID(t, gen, nil)

	if got := rec.Header().Get(HeaderCorrelationID); got != "0AQ5T3CV3N1MU" {
		t.Fatalf("expected response cid header, got %q", got)
	}
	if gotCID != "0AQ5T3CV3N1MU" {
		t.Fatalf("expected generated context cid, got %q", gotCID)
	}
	if gen.calls != 1 {
		t.Fatalf("expected generator called once")
	}
}
