package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/procmon/internal/sink"
)

// sender is the part of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the sampler goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). Messages sent
// before the program is attached are dropped.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Bridge is a sink.MetricSink that forwards observations to the dashboard.
type Bridge struct {
	ref *programRef
}

var _ sink.MetricSink = (*Bridge)(nil)

// NewBridge returns a bridge with no program attached yet.
func NewBridge() *Bridge {
	return &Bridge{ref: &programRef{}}
}

// Record forwards the observation as an ObservationMsg.
func (b *Bridge) Record(name string, value float64) {
	b.ref.Send(ObservationMsg{Name: name, Value: value})
}
