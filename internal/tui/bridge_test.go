package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// captureSender records every message it is asked to send.
type captureSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *captureSender) Send(msg tea.Msg) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
}

func TestBridge_DropsBeforeProgram(t *testing.T) {
	b := NewBridge()
	// No program attached: Record must not block or panic.
	b.Record("host.cpu.cpu.user", 12.5)
}

func TestBridge_ForwardsObservations(t *testing.T) {
	b := NewBridge()
	c := &captureSender{}
	b.ref.SetProgram(c)

	b.Record("host.cpu.cpu.user", 12.5)
	b.Record("web.vmCurrentRss", 4096)

	if len(c.msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(c.msgs))
	}
	want := ObservationMsg{Name: "web.vmCurrentRss", Value: 4096}
	if c.msgs[1] != want {
		t.Errorf("second message = %#v, want %#v", c.msgs[1], want)
	}
}

func TestBridge_ConcurrentRecord(t *testing.T) {
	b := NewBridge()
	c := &captureSender{}
	b.ref.SetProgram(c)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				b.Record("host.cpu.cpu.idle", 1)
			}
		}()
	}
	wg.Wait()
	if len(c.msgs) != 400 {
		t.Errorf("got %d messages, want 400", len(c.msgs))
	}
}
