package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg carries an already-rendered tracker frame.
type frameMsg string

// stopMsg ends the program and clears the live area.
type stopMsg struct{}

// liveModel only ever displays the latest frame it was sent. It has no
// access to the tracker, so the tracker stays single-writer.
type liveModel struct {
	frame    string
	quitting bool
}

func (m liveModel) Init() tea.Cmd { return nil }

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = string(msg)
	case stopMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View is empty once stopped so the live area is replaced by whatever the
// caller prints next.
func (m liveModel) View() string {
	if m.quitting {
		return ""
	}
	return m.frame
}

// LiveTree redraws tracker frames in place on a terminal.
//
//	live := tui.StartLiveTree(os.Stdout, t.Render())
//	t.AttachRefresh(func() error { live.Update(t.Render()); return nil })
//	defer live.Stop()
type LiveTree struct {
	program  *tea.Program
	done     chan struct{}
	stopOnce sync.Once
	err      error
}

// StartLiveTree starts rendering initial to w. It reads no input and
// installs no signal handler, so Ctrl+C still reaches the process.
func StartLiveTree(w io.Writer, initial string) *LiveTree {
	l := &LiveTree{
		program: tea.NewProgram(
			liveModel{frame: initial},
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		_, l.err = l.program.Run()
	}()
	return l
}

// Update replaces the displayed frame.
func (l *LiveTree) Update(frame string) {
	select {
	case <-l.done:
	default:
		l.program.Send(frameMsg(frame))
	}
}

// Stop clears the live area and waits for the renderer to exit.
func (l *LiveTree) Stop() error {
	l.stopOnce.Do(func() {
		select {
		case <-l.done:
		default:
			l.program.Send(stopMsg{})
		}
		<-l.done
	})
	return l.err
}
