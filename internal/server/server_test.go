package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/brandsnobs/deals-backend/internal/models"
)

type fakePipeline struct {
	summary *models.RunSummary
	err     error
}

func (f *fakePipeline) RunOnce(_ context.Context) (*models.RunSummary, error) {
	return f.summary, f.err
}

type fakeStats struct {
	deals, brands int64
	err           error
}

func (f *fakeStats) Counts(_ context.Context) (int64, int64, error) {
	return f.deals, f.brands, f.err
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	handler := New(&fakePipeline{}, &fakeStats{}).Routes()
	rec := doRequest(t, handler, http.MethodGet, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	if body["service"] != serviceName {
		t.Errorf("service field = %v, want %s", body["service"], serviceName)
	}
}

func TestFetchDeals_Success(t *testing.T) {
	pipeline := &fakePipeline{summary: &models.RunSummary{
		TotalDeals:       42,
		SuccessfulBrands: 10,
		FailedBrands:     2,
	}}
	handler := New(pipeline, &fakeStats{}).Routes()

	rec := doRequest(t, handler, http.MethodPost, "/fetch-deals")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["totalDeals"] != float64(42) {
		t.Errorf("totalDeals = %v, want 42", body["totalDeals"])
	}
}

func TestFetchDeals_FatalErrorIs500(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("credential failure")}
	handler := New(pipeline, &fakeStats{}).Routes()

	rec := doRequest(t, handler, http.MethodPost, "/fetch-deals")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] == "" {
		t.Error("error field should be populated")
	}
}

func TestFetchDeals_StoreUnreachableIs503(t *testing.T) {
	pipeline := &fakePipeline{err: status.Error(codes.Unavailable, "firestore down")}
	handler := New(pipeline, &fakeStats{}).Routes()

	rec := doRequest(t, handler, http.MethodPost, "/fetch-deals")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestFetchDeals_GetNotAllowed(t *testing.T) {
	handler := New(&fakePipeline{}, &fakeStats{}).Routes()
	rec := doRequest(t, handler, http.MethodGet, "/fetch-deals")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestStats(t *testing.T) {
	handler := New(&fakePipeline{}, &fakeStats{deals: 120, brands: 80}).Routes()

	rec := doRequest(t, handler, http.MethodGet, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["totalDeals"] != float64(120) {
		t.Errorf("totalDeals = %v, want 120", body["totalDeals"])
	}
	if body["totalBrands"] != float64(80) {
		t.Errorf("totalBrands = %v, want 80", body["totalBrands"])
	}
}

func TestStats_Error(t *testing.T) {
	handler := New(&fakePipeline{}, &fakeStats{err: errors.New("aggregation failed")}).Routes()
	rec := doRequest(t, handler, http.MethodGet, "/stats")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	handler := New(&fakePipeline{}, &fakeStats{}).Routes()

	rec := doRequest(t, handler, http.MethodGet, "/health")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	rec = doRequest(t, handler, http.MethodOptions, "/fetch-deals")
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}
