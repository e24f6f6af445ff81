// Package state holds the load state of a list view and the pure reducer
// that moves it between loading, loaded and failed.
package state

import "github.com/Sternrassler/pagelist/pkg/loader"

// LoadState governs what the view renders. IsLoading and a non-empty Err
// are never set together, and a non-empty Err implies no Items.
type LoadState struct {
	Items     []loader.Item
	IsLoading bool
	Err       string
}

// Initial returns the state before any load was started.
func Initial() LoadState {
	return LoadState{Items: []loader.Item{}}
}

// HasError reports whether the last load failed.
func (s LoadState) HasError() bool {
	return s.Err != ""
}

// Action is a state transition. The set is closed: only the types in this
// package implement it.
type Action interface {
	isAction()
}

// Loading marks the start of a load.
type Loading struct{}

// OK carries the items of a successful load.
type OK struct {
	Items []loader.Item
}

// Failed carries the user-facing message of a failed load. An empty
// message falls back to loader.StatusMessage so the failure stays visible.
type Failed struct {
	Message string
}

func (Loading) isAction() {}
func (OK) isAction()      {}
func (Failed) isAction()  {}

// Reduce returns the state that follows s under a. It has no side effects.
// Unknown or nil actions return s unchanged.
func Reduce(s LoadState, a Action) LoadState {
	switch a := a.(type) {
	case Loading:
		s.IsLoading = true
		s.Err = ""
		return s
	case OK:
		items := a.Items
		if items == nil {
			items = []loader.Item{}
		}
		return LoadState{Items: items}
	case Failed:
		msg := a.Message
		if msg == "" {
			msg = loader.StatusMessage
		}
		return LoadState{Items: []loader.Item{}, Err: msg}
	default:
		return s
	}
}

// FromResult converts a loader result into the matching action.
func FromResult(r loader.Result) Action {
	if r.OK() {
		return OK{Items: r.Items}
	}
	return Failed{Message: r.Err.Message}
}
