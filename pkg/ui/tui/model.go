package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// row is one channel's progress line.
type row struct {
	id        int
	name      string
	completed int
	total     int
	newPosts  int
	hasNew    bool
	done      bool
	started   time.Time
}

// Model renders the live progress board for all channel tasks.
type Model struct {
	spinner spinner.Model
	rows    map[int]*row
	order   []int
	started time.Time
	width   int
}

type addTaskMsg struct {
	id    int
	name  string
	total int
}

type setTotalMsg struct {
	id    int
	total int
}

type advanceMsg struct {
	id int
	n  int
}

type setNewMsg struct {
	id int
	n  int
}

type allDoneMsg struct{}

// NewModel creates an empty progress model.
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	return Model{
		spinner: s,
		rows:    make(map[int]*row),
		started: time.Now(),
	}
}

// Init starts the spinner ticking.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress messages and terminal events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case addTaskMsg:
		m.rows[msg.id] = &row{
			id:      msg.id,
			name:    msg.name,
			total:   msg.total,
			started: time.Now(),
		}
		m.order = append(m.order, msg.id)
		sort.Ints(m.order)
	case setTotalMsg:
		if r, ok := m.rows[msg.id]; ok {
			r.total = msg.total
		}
	case advanceMsg:
		if r, ok := m.rows[msg.id]; ok {
			r.completed += msg.n
		}
	case setNewMsg:
		if r, ok := m.rows[msg.id]; ok {
			r.newPosts = msg.n
			r.hasNew = true
		}
	case allDoneMsg:
		for _, r := range m.rows {
			r.done = true
		}
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders one line per channel plus a header.
func (m Model) View() string {
	out := headerStyle.Render("scraping community posts") + "\n\n"
	for _, id := range m.order {
		r := m.rows[id]
		marker := m.spinner.View()
		if r.done {
			marker = doneStyle.Render("✓")
		}
		elapsed := time.Since(r.started).Round(time.Second)
		line := fmt.Sprintf("  %s %s %s %s",
			marker,
			nameStyle.Render(r.name),
			counterStyle.Render(fmt.Sprintf("%d/%d", r.completed, r.total)),
			elapsedStyle.Render(elapsed.String()))
		if r.hasNew {
			line += " " + newStyle.Render(fmt.Sprintf("new posts: %d", r.newPosts))
		}
		out += line + "\n"
	}
	out += "\n" + elapsedStyle.Render("press q to quit") + "\n"
	return out
}
