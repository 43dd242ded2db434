package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// dispatchMsg carries a loop callback into Update; done is closed once it ran
type dispatchMsg struct {
	fn   func()
	done chan struct{}
}

// Sender delivers messages to a running program; *tea.Program is one
type Sender interface {
	Send(msg tea.Msg)
}

// Dispatcher runs loop callbacks on the program's update goroutine, where the
// model owns every widget and control
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(s Sender) *Dispatcher {
	return &Dispatcher{sender: s}
}

// Dispatch blocks until fn ran inside Update or ctx is done. A program that
// already exited drops the message, so callers must cancel ctx after Run.
func (d *Dispatcher) Dispatch(ctx context.Context, fn func()) error {
	msg := dispatchMsg{fn: fn, done: make(chan struct{})}
	d.sender.Send(msg)

	select {
	case <-msg.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
