package state

import (
	"reflect"
	"testing"

	"github.com/Sternrassler/pagelist/pkg/loader"
)

// unknownAction is an action the reducer does not handle.
type unknownAction struct{}

func (unknownAction) isAction() {}

func items(ids ...string) []loader.Item {
	out := make([]loader.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, loader.Item{ID: loader.ID(id), Body: "body " + id})
	}
	return out
}

func sampleStates() map[string]LoadState {
	return map[string]LoadState{
		"initial":   Initial(),
		"loading":   {Items: []loader.Item{}, IsLoading: true},
		"loaded":    {Items: items("1", "2")},
		"failed":    {Items: []loader.Item{}, Err: "boom"},
		"reloading": {Items: items("3"), IsLoading: true},
	}
}

func TestInitial(t *testing.T) {
	s := Initial()

	if s.IsLoading {
		t.Error("Initial state should not be loading")
	}
	if s.HasError() {
		t.Error("Initial state should have no error")
	}
	if s.Items == nil || len(s.Items) != 0 {
		t.Errorf("Initial items = %#v, want empty slice", s.Items)
	}
}

func TestReduce_Loading(t *testing.T) {
	for name, s := range sampleStates() {
		t.Run(name, func(t *testing.T) {
			next := Reduce(s, Loading{})

			if !next.IsLoading {
				t.Error("IsLoading should be true")
			}
			if next.Err != "" {
				t.Errorf("Err = %q, want empty", next.Err)
			}
			if !reflect.DeepEqual(next.Items, s.Items) {
				t.Errorf("Items changed: got %v, want %v", next.Items, s.Items)
			}
		})
	}
}

func TestReduce_OK(t *testing.T) {
	payload := items("10", "11", "12")

	for name, s := range sampleStates() {
		t.Run(name, func(t *testing.T) {
			next := Reduce(s, OK{Items: payload})

			if next.IsLoading {
				t.Error("IsLoading should be false")
			}
			if next.HasError() {
				t.Errorf("Err = %q, want empty", next.Err)
			}
			if !reflect.DeepEqual(next.Items, payload) {
				t.Errorf("Items = %v, want %v", next.Items, payload)
			}
		})
	}
}

func TestReduce_OKNilPayload(t *testing.T) {
	next := Reduce(Initial(), OK{})
	if next.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestReduce_Failed(t *testing.T) {
	for name, s := range sampleStates() {
		t.Run(name, func(t *testing.T) {
			next := Reduce(s, Failed{Message: "Failed to fetch"})

			if next.IsLoading {
				t.Error("IsLoading should be false")
			}
			if next.Err != "Failed to fetch" {
				t.Errorf("Err = %q, want %q", next.Err, "Failed to fetch")
			}
			if len(next.Items) != 0 {
				t.Errorf("Items = %v, want none after failure", next.Items)
			}
		})
	}
}

func TestReduce_FailedEmptyMessage(t *testing.T) {
	next := Reduce(Initial(), Failed{})
	if next.Err != loader.StatusMessage {
		t.Errorf("Err = %q, want %q", next.Err, loader.StatusMessage)
	}
}

func TestReduce_UnknownIsIdentity(t *testing.T) {
	for name, s := range sampleStates() {
		t.Run(name, func(t *testing.T) {
			if got := Reduce(s, unknownAction{}); !reflect.DeepEqual(got, s) {
				t.Errorf("Reduce(unknown) = %+v, want %+v", got, s)
			}
			if got := Reduce(s, nil); !reflect.DeepEqual(got, s) {
				t.Errorf("Reduce(nil) = %+v, want %+v", got, s)
			}
		})
	}
}

func TestReduce_Deterministic(t *testing.T) {
	s := Reduce(Initial(), OK{Items: items("1")})
	actions := []Action{Loading{}, OK{Items: items("2")}, Failed{Message: "x"}, unknownAction{}}

	for _, a := range actions {
		first := Reduce(s, a)
		second := Reduce(s, a)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Reduce(%T) not deterministic: %+v vs %+v", a, first, second)
		}
	}
}

func TestReduce_NeverLoadingAndFailed(t *testing.T) {
	s := Initial()
	sequence := []Action{Loading{}, Failed{Message: "a"}, Loading{}, OK{Items: items("1")}, Failed{Message: "b"}, Loading{}}

	for i, a := range sequence {
		s = Reduce(s, a)
		if s.IsLoading && s.HasError() {
			t.Fatalf("step %d (%T): loading and error both set", i, a)
		}
		if s.HasError() && len(s.Items) != 0 {
			t.Fatalf("step %d (%T): error with %d items", i, a, len(s.Items))
		}
	}
}

func TestFromResult(t *testing.T) {
	ok := FromResult(loader.Success(items("1")))
	if a, isOK := ok.(OK); !isOK || len(a.Items) != 1 {
		t.Errorf("FromResult(success) = %#v, want OK with 1 item", ok)
	}

	failed := FromResult(loader.Failure(loader.ClassStatus, 500, loader.StatusMessage, nil))
	if a, isFailed := failed.(Failed); !isFailed || a.Message != loader.StatusMessage {
		t.Errorf("FromResult(failure) = %#v, want Failed with status message", failed)
	}
}
