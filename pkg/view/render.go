package view

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/pagelist/pkg/loader"
	"github.com/Sternrassler/pagelist/pkg/pagination"
)

const (
	loadingText = "Loading..."
	emptyText   = "No items."
)

// View implements tea.Model. Loading, error and data are never shown
// together.
func (m *Model) View() string {
	switch {
	case m.state.IsLoading:
		return panelString(loadingStyle.Render(loadingText))
	case m.state.HasError():
		return panelString(errorStyle.Render(m.state.Err))
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.listView())
	b.WriteString("\n\n")
	b.WriteString(controlsLine(m.Nav()))
	if m.TotalPages() > 1 {
		b.WriteString("\n")
		b.WriteString(m.dots.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return panelString(b.String())
}

func (m *Model) header() string {
	total := m.TotalPages()
	summary := "no pages"
	if total > 0 {
		summary = fmt.Sprintf("page %d of %d", m.page, total)
	}
	line := fmt.Sprintf("%s   %s",
		titleStyle.Render(m.opts.Title),
		mutedStyle.Render(fmt.Sprintf("%s · %d items", summary, len(m.state.Items))),
	)
	if m.jump != "" {
		line += "   " + accentStyle.Render("go to "+m.jump+"_")
	}
	return line
}

func (m *Model) listView() string {
	visible := m.Visible()
	if len(visible) == 0 {
		return mutedStyle.Render(emptyText)
	}

	lines := make([]string, 0, len(visible)*2)
	for _, it := range visible {
		lines = append(lines, itemLines(it)...)
	}
	return strings.Join(lines, "\n")
}

// itemLines renders "#id title" with the body indented below, or
// "#id body" when the record has no title.
func itemLines(it loader.Item) []string {
	id := accentStyle.Render("#" + string(it.ID))
	body := flatten(it.Body)
	if it.Title == "" {
		return []string{id + " " + body}
	}
	return []string{
		id + " " + flatten(it.Title),
		"   " + mutedStyle.Render(body),
	}
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func controlsLine(nav pagination.Nav) string {
	parts := make([]string, 0, len(nav.Pages)+2)
	parts = append(parts, navControl("‹ "+nav.Prev.Label, nav.Prev.Enabled))
	for _, c := range nav.Pages {
		if c.Active {
			parts = append(parts, activeStyle.Render("["+c.Label+"]"))
			continue
		}
		parts = append(parts, enabledStyle.Render(c.Label))
	}
	parts = append(parts, navControl(nav.Next.Label+" ›", nav.Next.Enabled))
	return strings.Join(parts, " ")
}

func navControl(label string, enabled bool) string {
	if enabled {
		return enabledStyle.Render(label)
	}
	return disabledStyle.Render(label)
}
