package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Progress is the sink scrape tasks report into. Implementations must
// tolerate concurrent updates keyed by the task ID returned from AddTask.
type Progress interface {
	// AddTask registers a named task and returns its ID.
	AddTask(name string, total int) int
	// SetTotal replaces a task's expected item count.
	SetTotal(id, total int)
	// Advance adds n completed items to a task.
	Advance(id, n int)
	// SetNew records how many genuinely new posts a merge kept.
	SetNew(id, n int)
}

// task is one row of the progress board.
type task struct {
	name      string
	completed int
	total     int
	newPosts  int
	hasNew    bool
	started   time.Time
}

// Board is a plain-terminal Progress implementation: one line per channel,
// re-rendered in place on every update.
type Board struct {
	mu       sync.Mutex
	tasks    []*task
	out      io.Writer
	rendered int
	frame    int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewBoard creates a progress board writing to stdout.
func NewBoard() *Board {
	return &Board{out: os.Stdout}
}

// NewBoardWriter creates a progress board writing to the given writer.
func NewBoardWriter(out io.Writer) *Board {
	return &Board{out: out}
}

func (b *Board) AddTask(name string, total int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = append(b.tasks, &task{name: name, total: total, started: time.Now()})
	b.render()
	return len(b.tasks) - 1
}

func (b *Board) SetTotal(id, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id < 0 || id >= len(b.tasks) {
		return
	}
	b.tasks[id].total = total
	b.render()
}

func (b *Board) Advance(id, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id < 0 || id >= len(b.tasks) {
		return
	}
	b.tasks[id].completed += n
	b.render()
}

func (b *Board) SetNew(id, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id < 0 || id >= len(b.tasks) {
		return
	}
	b.tasks[id].newPosts = n
	b.tasks[id].hasNew = true
	b.render()
}

// render repaints every task line in place. Caller holds the lock.
func (b *Board) render() {
	if b.rendered > 0 {
		fmt.Fprintf(b.out, "\033[%dA", b.rendered)
	}
	b.frame = (b.frame + 1) % len(spinnerFrames)
	for _, t := range b.tasks {
		elapsed := time.Since(t.started).Round(time.Second)
		line := fmt.Sprintf("%s %s %s %s",
			t.name,
			Cyan(spinnerFrames[b.frame]),
			Magenta(fmt.Sprintf("%d/%d", t.completed, t.total)),
			Dim(elapsed.String()))
		if t.hasNew {
			line += " " + Green(fmt.Sprintf("new posts: %d", t.newPosts))
		}
		fmt.Fprintf(b.out, "\r\033[K%s\n", line)
	}
	b.rendered = len(b.tasks)
}

// Snapshot returns a rendered copy of the board's current state, used by
// tests and the final summary.
func (b *Board) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := make([]string, 0, len(b.tasks))
	for _, t := range b.tasks {
		lines = append(lines, fmt.Sprintf("%s %d/%d", t.name, t.completed, t.total))
	}
	return lines
}

// NopProgress is a Progress that records nothing. Used when output is
// suppressed and in tests that only exercise the engine.
type NopProgress struct{}

func (NopProgress) AddTask(string, int) int { return 0 }
func (NopProgress) SetTotal(int, int)       {}
func (NopProgress) Advance(int, int)        {}
func (NopProgress) SetNew(int, int)         {}

// CountingProgress records totals per task for assertions in tests.
type CountingProgress struct {
	mu        sync.Mutex
	Totals    map[int]int
	Completed map[int]int
	NewPosts  map[int]int
	names     []string
}

// NewCountingProgress creates an empty counting sink.
func NewCountingProgress() *CountingProgress {
	return &CountingProgress{
		Totals:    make(map[int]int),
		Completed: make(map[int]int),
		NewPosts:  make(map[int]int),
	}
}

func (c *CountingProgress) AddTask(name string, total int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := len(c.names)
	c.names = append(c.names, name)
	c.Totals[id] = total
	return id
}

func (c *CountingProgress) SetTotal(id, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Totals[id] = total
}

func (c *CountingProgress) Advance(id, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Completed[id] += n
}

func (c *CountingProgress) SetNew(id, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NewPosts[id] = n
}
