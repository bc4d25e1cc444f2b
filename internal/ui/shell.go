package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"todo/internal/sidebar"
)

const (
	sidebarWidth     = 28
	minSidebarHeight = 5
)

// rowItem adapts a sidebar row to the bubbles list.
type rowItem struct {
	row sidebar.Row
}

func (i rowItem) FilterValue() string { return i.row.Label() }

// sidebarShell is the terminal side of sidebar.Shell: it owns the row list,
// the selection and which content is visible.
type sidebarShell struct {
	list        list.Model
	rows        []sidebar.Row
	selected    int
	realized    map[string]bool
	laidOut     bool
	content     string
	placeholder bool
	detached    map[string]bool
	onRealize   func(key string)
}

func newSidebarShell() *sidebarShell {
	s := &sidebarShell{
		selected: -1,
		realized: map[string]bool{},
		detached: map[string]bool{},
		content:  sidebar.ContentStatus,
	}
	l := list.New(nil, rowDelegate{shell: s}, sidebarWidth, minSidebarHeight)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	s.list = l
	return s
}

func (s *sidebarShell) AppendRow(row sidebar.Row) {
	s.rows = append(s.rows, row)
	delete(s.detached, row.Key())
	s.syncItems()
	if s.laidOut {
		s.realize(row)
	}
}

func (s *sidebarShell) RemoveRow(row sidebar.Row) {
	idx := s.indexOf(row)
	if idx < 0 {
		return
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	delete(s.realized, row.Key())
	switch {
	case s.selected == idx:
		s.selected = -1
	case s.selected > idx:
		s.selected--
	}
	s.syncItems()
	if s.selected >= 0 {
		s.list.Select(s.selected)
	}
}

func (s *sidebarShell) Rows() []sidebar.Row {
	out := make([]sidebar.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *sidebarShell) SelectRow(row sidebar.Row) {
	if row == nil {
		s.selected = -1
		return
	}
	idx := s.indexOf(row)
	if idx < 0 {
		return
	}
	s.selected = idx
	s.list.Select(idx)
}

func (s *sidebarShell) PrevSibling(row sidebar.Row) sidebar.Row {
	idx := s.indexOf(row)
	if idx <= 0 {
		return nil
	}
	return s.rows[idx-1]
}

func (s *sidebarShell) IsRealized(row sidebar.Row) bool {
	return s.realized[row.Key()]
}

func (s *sidebarShell) ShowContent(key string) {
	s.content = key
}

func (s *sidebarShell) DetachContent(key string) {
	s.detached[key] = true
	if s.content == key {
		s.content = sidebar.ContentStatus
	}
}

func (s *sidebarShell) SetPlaceholderVisible(visible bool) {
	s.placeholder = visible
}

// Selected returns the selected row or nil.
func (s *sidebarShell) Selected() sidebar.Row {
	if s.selected < 0 || s.selected >= len(s.rows) {
		return nil
	}
	return s.rows[s.selected]
}

// Neighbour returns the row delta positions away from the selection,
// clamped to the ends. With nothing selected it starts from the top.
func (s *sidebarShell) Neighbour(delta int) sidebar.Row {
	if len(s.rows) == 0 {
		return nil
	}
	idx := s.selected
	if idx < 0 {
		return s.rows[0]
	}
	return s.rows[clampCursor(idx+delta, len(s.rows))]
}

// Layout sizes the list. The first call realizes every row appended so
// far; rows appended later are realized right away.
func (s *sidebarShell) Layout(width, height int) {
	if height < minSidebarHeight {
		height = minSidebarHeight
	}
	s.list.SetSize(width, height)
	s.laidOut = true
	for _, row := range s.Rows() {
		if !s.realized[row.Key()] {
			s.realize(row)
		}
	}
}

func (s *sidebarShell) View() string {
	return s.list.View()
}

func (s *sidebarShell) realize(row sidebar.Row) {
	s.realized[row.Key()] = true
	if s.onRealize != nil {
		s.onRealize(row.Key())
	}
}

func (s *sidebarShell) syncItems() {
	items := make([]list.Item, 0, len(s.rows))
	for _, row := range s.rows {
		items = append(items, rowItem{row: row})
	}
	s.list.SetItems(items)
}

func (s *sidebarShell) indexOf(row sidebar.Row) int {
	for i, r := range s.rows {
		if r == row {
			return i
		}
	}
	return -1
}

type rowDelegate struct {
	shell *sidebarShell
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, _ list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	counter := it.row.Counter()
	width := max(sidebarWidth-3-lipgloss.Width(counter), 4)
	label := truncate.StringWithTail(fmt.Sprintf("%s %s", rowIcon(it.row), it.row.Label()), uint(width), "…")
	pad := sidebarWidth - 2 - lipgloss.Width(label) - lipgloss.Width(counter)
	if pad < 1 {
		pad = 1
	}
	line := label + strings.Repeat(" ", pad) + counterStyle.Render(counter)
	if index == d.shell.selected {
		fmt.Fprint(w, selectedRowStyle.Render("> "+line))
		return
	}
	fmt.Fprint(w, rowStyle.Render("  "+line))
}

func rowIcon(row sidebar.Row) string {
	switch r := row.(type) {
	case *sidebar.TodayRow:
		return "☀"
	case *sidebar.TagsRow:
		return "#"
	case *sidebar.TrashRow:
		if r.Icon() == sidebar.IconTrashFull {
			return "■"
		}
		return "□"
	default:
		return "•"
	}
}
