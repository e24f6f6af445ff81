package main

import (
	"testing"

	"github.com/Sternrassler/pagelist/internal/config"
	"github.com/Sternrassler/pagelist/internal/testutil"
)

func TestNewModel(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/posts", testutil.NewItemsResponse(25))

	s := config.Defaults()
	s.URL = mock.Endpoint("/posts")
	s.ItemsPerPage = 5
	s.UserAgent = "pagelist-test/1.0"
	s.Headers = map[string]string{"X-Test": "yes"}

	m, err := newModel(s)
	if err != nil {
		t.Fatalf("newModel failed: %v", err)
	}
	defer m.Close()

	cmd := m.Init()
	m.Update(cmd())

	if m.TotalPages() != 5 {
		t.Errorf("TotalPages = %d, want 5", m.TotalPages())
	}
	h := mock.GetLastRequestHeader()
	if h.Get("User-Agent") != "pagelist-test/1.0" {
		t.Errorf("User-Agent = %q", h.Get("User-Agent"))
	}
	if h.Get("X-Test") != "yes" {
		t.Errorf("X-Test = %q", h.Get("X-Test"))
	}
}

func TestNewModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Settings)
	}{
		{"empty_user_agent", func(s *config.Settings) { s.UserAgent = "" }},
		{"empty_url", func(s *config.Settings) { s.URL = "" }},
		{"negative_per_page", func(s *config.Settings) { s.ItemsPerPage = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Defaults()
			tt.mutate(&s)
			if _, err := newModel(s); err == nil {
				t.Error("Expected error but got nil")
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	if err := run([]string{"-h"}, func(string) string { return "" }); err != nil {
		t.Errorf("run(-h) = %v, want nil", err)
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	err := run([]string{"-env-file", "", "-per-page", "0"}, func(string) string { return "" })
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
	if err.Error() != "items_per_page must be > 0 (got 0)" {
		t.Errorf("Error = %q", err.Error())
	}
}
