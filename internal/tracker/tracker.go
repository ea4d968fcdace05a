// Package tracker provides an ordered, keyed status ledger for multi-step
// operations, rendered as a tree.
//
// A Tracker is single-writer: one logical operation drives it at a time.
// Live displays must only consume rendered output, never mutate the ledger.
package tracker

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/mrz1836/specify/internal/constants"
)

// Step is one row of the ledger.
type Step struct {
	Key    string
	Label  string
	Status constants.StepStatus
	Detail string
}

// RefreshFunc is invoked after every mutation.
type RefreshFunc func() error

// Tracker records the state of each step in first-add order.
type Tracker struct {
	title   string
	order   []string
	steps   map[string]*Step
	refresh RefreshFunc
}

// New creates an empty tracker with a title used as the tree root.
func New(title string) *Tracker {
	return &Tracker{
		title: title,
		steps: make(map[string]*Step),
	}
}

// Title returns the tracker's title.
func (t *Tracker) Title() string {
	return t.title
}

// AttachRefresh installs fn as the refresh callback. Errors and panics raised
// by fn are swallowed.
func (t *Tracker) AttachRefresh(fn RefreshFunc) {
	t.refresh = fn
}

// Add inserts a pending step. Adding an existing key is a no-op that keeps
// the original label.
func (t *Tracker) Add(key, label string) {
	if _, ok := t.steps[key]; !ok {
		t.insert(key, label, constants.StepPending)
	}
	t.notify()
}

// Start marks key as running.
func (t *Tracker) Start(key, detail string) {
	t.update(key, constants.StepRunning, detail)
}

// Complete marks key as done.
func (t *Tracker) Complete(key, detail string) {
	t.update(key, constants.StepDone, detail)
}

// Error marks key as failed.
func (t *Tracker) Error(key, detail string) {
	t.update(key, constants.StepError, detail)
}

// Skip marks key as skipped.
func (t *Tracker) Skip(key, detail string) {
	t.update(key, constants.StepSkipped, detail)
}

// Step returns a copy of the step stored under key.
func (t *Tracker) Step(key string) (Step, bool) {
	s, ok := t.steps[key]
	if !ok {
		return Step{}, false
	}
	return *s, true
}

// Steps returns a copy of every step in render order.
func (t *Tracker) Steps() []Step {
	out := make([]Step, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, *t.steps[key])
	}
	return out
}

// update sets the status of key. An unknown key is created with its key as
// label so out-of-order updates still show up in the ledger. A blank detail
// leaves the previous detail in place.
func (t *Tracker) update(key string, status constants.StepStatus, detail string) {
	s, ok := t.steps[key]
	if !ok {
		s = t.insert(key, key, status)
	}
	s.Status = status
	if detail != "" {
		s.Detail = detail
	}
	t.notify()
}

func (t *Tracker) insert(key, label string, status constants.StepStatus) *Step {
	s := &Step{Key: key, Label: label, Status: status}
	t.steps[key] = s
	t.order = append(t.order, key)
	return s
}

func (t *Tracker) notify() {
	if t.refresh == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	_ = t.refresh()
}

// Render draws the ledger as a tree rooted at the title.
func (t *Tracker) Render() string {
	root := tree.Root(lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Render(t.title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8")))
	for _, key := range t.order {
		root.Child(renderStep(*t.steps[key]))
	}
	return root.String()
}

func renderStep(s Step) string {
	sym := SymbolFor(s.Status)
	glyph := lipgloss.NewStyle().Foreground(sym.Color).Faint(sym.Faint).Render(sym.Glyph)

	text := s.Label
	if s.Detail != "" {
		text = fmt.Sprintf("%s (%s)", s.Label, s.Detail)
	}
	if s.Status == constants.StepPending {
		text = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(text)
	}
	return glyph + " " + text
}
