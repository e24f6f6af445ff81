package loader

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestItem_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantID    ID
		wantTitle string
		wantBody  string
	}{
		{"numeric_id", `{"id": 7, "title": "t", "body": "b"}`, "7", "t", "b"},
		{"string_id", `{"id": "abc-1", "body": "b"}`, "abc-1", "", "b"},
		{"missing_id", `{"body": "b"}`, "", "", "b"},
		{"null_id", `{"id": null, "body": "b"}`, "", "", "b"},
		{"extra_fields", `{"id": 1, "userId": 3, "body": "b"}`, "1", "", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it Item
			if err := json.Unmarshal([]byte(tt.input), &it); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if it.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", it.ID, tt.wantID)
			}
			if it.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", it.Title, tt.wantTitle)
			}
			if it.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", it.Body, tt.wantBody)
			}
			if string(it.Raw) != tt.input {
				t.Errorf("Raw = %s, want %s", it.Raw, tt.input)
			}
		})
	}
}

func TestItem_RawKeepsUnknownFields(t *testing.T) {
	var items []Item
	if err := json.Unmarshal([]byte(`[{"id": 1, "userId": 9, "body": "x"}]`), &items); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(items[0].Raw, &rec); err != nil {
		t.Fatalf("Raw is not valid JSON: %v", err)
	}
	if rec["userId"] != float64(9) {
		t.Errorf("userId = %v, want 9", rec["userId"])
	}
}

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"42", `42`},
		{"abc", `"abc"`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			b, err := json.Marshal(tt.id)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal(%q) = %s, want %s", tt.id, b, tt.want)
			}
		})
	}
}

func TestLoadError(t *testing.T) {
	cause := errors.New("connection refused")
	r := Failure(ClassNetwork, 0, cause.Error(), cause)

	if r.OK() {
		t.Fatal("Failure result should not be OK")
	}
	if r.Err.Error() != "connection refused" {
		t.Errorf("Error() = %q, want %q", r.Err.Error(), "connection refused")
	}
	if !errors.Is(r.Err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	var le *LoadError
	if !errors.As(error(r.Err), &le) || le.Class != ClassNetwork {
		t.Errorf("errors.As failed or wrong class: %+v", le)
	}

	status := Failure(ClassStatus, 503, StatusMessage, nil)
	if !strings.Contains(status.Err.String(), "status 503") {
		t.Errorf("String() = %q, want status code included", status.Err.String())
	}
	if strings.Contains(status.Err.Error(), "503") {
		t.Errorf("Error() = %q, must not expose the status code", status.Err.Error())
	}
}

func TestSuccess_NormalisesNil(t *testing.T) {
	r := Success(nil)
	if !r.OK() {
		t.Fatal("Success result should be OK")
	}
	if r.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}
