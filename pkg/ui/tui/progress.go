package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Progress drives the bubbletea board and satisfies ui.Progress. Task
// identifiers are assigned here so callers get them synchronously while
// the rendering happens on the program's own loop.
type Progress struct {
	program *tea.Program

	mu     sync.Mutex
	nextID int
}

// NewProgress creates the board and its program. Call Run to start
// rendering; it blocks until Quit or the user exits.
func NewProgress() *Progress {
	p := tea.NewProgram(NewModel())
	return &Progress{program: p}
}

// Run starts the event loop and blocks until the program exits.
func (p *Progress) Run() error {
	_, err := p.program.Run()
	return err
}

// Quit marks every task finished and tells the program to exit once
// pending messages are drained.
func (p *Progress) Quit() {
	p.program.Send(allDoneMsg{})
}

func (p *Progress) AddTask(name string, total int) int {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.mu.Unlock()
	p.program.Send(addTaskMsg{id: id, name: name, total: total})
	return id
}

func (p *Progress) SetTotal(id, total int) {
	p.program.Send(setTotalMsg{id: id, total: total})
}

func (p *Progress) Advance(id, n int) {
	p.program.Send(advanceMsg{id: id, n: n})
}

func (p *Progress) SetNew(id, n int) {
	p.program.Send(setNewMsg{id: id, n: n})
}
