// Package view implements the paginated list as a Bubble Tea model.
//
// The model loads its collection once when the program starts (and again
// only on an explicit reload), keeps the load state in a reducer and the
// current page separately, and renders exactly one of: a loading
// indicator, the error message, or the current page plus its controls.
package view

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sternrassler/pagelist/pkg/loader"
	"github.com/Sternrassler/pagelist/pkg/pagination"
	"github.com/Sternrassler/pagelist/pkg/state"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Loader is the data source the model reads from.
type Loader interface {
	Load(ctx context.Context, url string, opts loader.Options) loader.Result
}

// Options configures a Model.
type Options struct {
	// URL is the resource to fetch. Required.
	URL string

	// Method overrides the HTTP method (default GET).
	Method string

	// Headers are sent with the request.
	Headers map[string]string

	// ItemsPerPage is the page size. Zero selects
	// pagination.DefaultItemsPerPage; negative values are rejected.
	ItemsPerPage int

	// Title is shown above the list.
	Title string
}

// loadedMsg delivers a finished load. gen identifies the load that
// produced it so results of superseded loads can be dropped.
type loadedMsg struct {
	gen    int
	result loader.Result
}

// jumpDelay is how long typed page digits wait for another digit before
// they are committed.
const jumpDelay = 800 * time.Millisecond

// jumpExpiredMsg commits the typed page number unless more digits arrived
// since the tick was scheduled.
type jumpExpiredMsg struct {
	seq int
}

// Model is the paginated list view.
type Model struct {
	loader  Loader
	opts    Options
	pageCfg pagination.Config

	state state.LoadState
	page  int

	gen    int
	cancel context.CancelFunc
	closed bool

	jump    string
	jumpSeq int

	keys   keyMap
	help   help.Model
	dots   paginator.Model
	logger zerolog.Logger
}

// New creates a new Model.
func New(ld Loader, opts Options) (*Model, error) {
	if ld == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	pageCfg := pagination.DefaultConfig()
	if opts.ItemsPerPage != 0 {
		cfg, err := pagination.NewConfig(opts.ItemsPerPage)
		if err != nil {
			return nil, fmt.Errorf("pagination config: %w", err)
		}
		pageCfg = cfg
	}
	if opts.Title == "" {
		opts.Title = "Items"
	}

	dots := paginator.New()
	dots.Type = paginator.Dots
	dots.PerPage = pageCfg.ItemsPerPage
	dots.ActiveDot = accentStyle.Render("•")
	dots.InactiveDot = mutedStyle.Render("•")

	return &Model{
		loader:  ld,
		opts:    opts,
		pageCfg: pageCfg,
		state:   state.Initial(),
		page:    1,
		keys:    defaultKeyMap(),
		help:    help.New(),
		dots:    dots,
		logger:  log.With().Str("component", "view").Logger(),
	}, nil
}

// Init starts the initial load.
func (m *Model) Init() tea.Cmd {
	return m.startLoad()
}

// Reload discards the current data and starts a new load. A load still in
// flight is cancelled and its result ignored.
func (m *Model) Reload() tea.Cmd {
	return m.startLoad()
}

func (m *Model) startLoad() tea.Cmd {
	if m.closed {
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}

	m.gen++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.dispatch(state.Loading{})

	gen, ld, url := m.gen, m.loader, m.opts.URL
	opts := loader.Options{Method: m.opts.Method, Headers: m.opts.Headers}

	m.logger.Debug().Str("url", url).Int("gen", gen).Msg("Starting load")

	return func() tea.Msg {
		return loadedMsg{gen: gen, result: ld.Load(ctx, url, opts)}
	}
}

// Close cancels any in-flight load. Results arriving afterwards are not
// applied.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Closed reports whether Close was called.
func (m *Model) Closed() bool {
	return m.closed
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.applyResult(msg)
		return m, nil

	case jumpExpiredMsg:
		if msg.seq == m.jumpSeq {
			m.commitJump()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Jump, m.keys.Enter) {
			m.clearJump()
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.Reload()
		case key.Matches(msg, m.keys.Prev):
			m.Prev()
		case key.Matches(msg, m.keys.Next):
			m.Next()
		case key.Matches(msg, m.keys.First):
			m.GoTo(1)
		case key.Matches(msg, m.keys.Last):
			m.GoTo(m.TotalPages())
		case key.Matches(msg, m.keys.Jump):
			return m, m.typeDigit(msg.String())
		case key.Matches(msg, m.keys.Enter):
			m.commitJump()
		}
	}
	return m, nil
}

func (m *Model) applyResult(msg loadedMsg) {
	if m.closed {
		m.logger.Debug().Int("gen", msg.gen).Msg("Dropping load result after close")
		return
	}
	if msg.gen != m.gen {
		m.logger.Debug().Int("gen", msg.gen).Int("current", m.gen).Msg("Dropping stale load result")
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.dispatch(state.FromResult(msg.result))
}

func (m *Model) dispatch(a state.Action) {
	m.clearJump()
	m.state = state.Reduce(m.state, a)
	m.page = pagination.Clamp(m.page, m.TotalPages())
	m.syncDots()
}

func (m *Model) syncDots() {
	m.dots.SetTotalPages(len(m.state.Items))
	m.dots.Page = m.page - 1
}

// interactive reports whether the list and its controls are on screen.
func (m *Model) interactive() bool {
	return !m.state.IsLoading && !m.state.HasError()
}

// Prev moves one page back. It reports whether the page changed.
func (m *Model) Prev() bool {
	nav := m.Nav()
	if !m.interactive() || !nav.Prev.Enabled {
		return false
	}
	return m.setPage(nav.Prev.Page)
}

// Next moves one page forward. It reports whether the page changed.
func (m *Model) Next() bool {
	nav := m.Nav()
	if !m.interactive() || !nav.Next.Enabled {
		return false
	}
	return m.setPage(nav.Next.Page)
}

// GoTo jumps to page n. Pages outside [1, TotalPages] are ignored.
func (m *Model) GoTo(n int) bool {
	if !m.interactive() || n < 1 || n > m.TotalPages() {
		return false
	}
	return m.setPage(n)
}

// typeDigit appends d to the page number being typed. The number is
// committed at once when no further digit could keep it in range;
// otherwise it waits for Enter or jumpDelay.
func (m *Model) typeDigit(d string) tea.Cmd {
	if !m.interactive() || (m.jump == "" && d == "0") {
		return nil
	}
	n, err := strconv.Atoi(m.jump + d)
	if err != nil {
		m.clearJump()
		return nil
	}
	m.jump += d
	m.jumpSeq++
	if n*10 > m.TotalPages() {
		m.commitJump()
		return nil
	}

	seq := m.jumpSeq
	return tea.Tick(jumpDelay, func(time.Time) tea.Msg {
		return jumpExpiredMsg{seq: seq}
	})
}

// commitJump goes to the typed page, if any, and clears it.
func (m *Model) commitJump() bool {
	if m.jump == "" {
		return false
	}
	n, _ := strconv.Atoi(m.jump)
	m.clearJump()
	return m.GoTo(n)
}

func (m *Model) clearJump() {
	m.jump = ""
	m.jumpSeq++
}

// PendingJump returns the page digits typed but not yet committed.
func (m *Model) PendingJump() string {
	return m.jump
}

func (m *Model) setPage(n int) bool {
	if n == m.page {
		return false
	}
	m.page = n
	m.syncDots()
	m.logger.Debug().Int("page", n).Msg("Page changed")
	return true
}

// State returns the current load state.
func (m *Model) State() state.LoadState {
	return m.state
}

// Page returns the 1-based current page.
func (m *Model) Page() int {
	return m.page
}

// ItemsPerPage returns the configured page size.
func (m *Model) ItemsPerPage() int {
	return m.pageCfg.ItemsPerPage
}

// TotalPages returns the number of pages for the loaded items.
func (m *Model) TotalPages() int {
	return pagination.TotalPages(len(m.state.Items), m.pageCfg.ItemsPerPage)
}

// Visible returns the items on the current page.
func (m *Model) Visible() []loader.Item {
	return pagination.Slice(m.state.Items, m.page, m.pageCfg.ItemsPerPage)
}

// Nav returns the navigation controls for the current page.
func (m *Model) Nav() pagination.Nav {
	return pagination.Controls(m.page, m.TotalPages())
}
