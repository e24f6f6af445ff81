package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/pagelist/internal/testutil"
	"github.com/Sternrassler/pagelist/pkg/loader"
)

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	NewMux().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestMetricsEndpoint_ExposesLoadMetrics(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/posts", testutil.NewItemsResponse(3))
	mock.SetResponse("/broken", testutil.NewServerErrorResponse())

	ld, err := loader.New(loader.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}
	ld.Load(context.Background(), mock.Endpoint("/posts"), loader.Options{})
	ld.Load(context.Background(), mock.Endpoint("/broken"), loader.Options{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	NewMux().ServeHTTP(w, req)

	body := w.Body.String()
	for _, want := range []string{
		`pagelist_loads_total{outcome="ok"}`,
		`pagelist_loads_total{outcome="error"}`,
		`pagelist_load_errors_total{class="status"}`,
		"pagelist_load_duration_seconds_bucket",
		"pagelist_items_loaded",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Metrics output missing %q", want)
		}
	}
}
