// Package trace builds the diagnostic frame tree a proof run produces
// and exports it as a browser-viewable {name, children} tree.
package trace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/rumm/internal/rerrors"
)

const goalSummaryLimit = 80

// Frame is one entry of the trace: a tactic's name, a truncated summary
// of the goal it was invoked against, and its terminal status. Status is
// one of "ok", "fail: <reason>", or "skip".
type Frame struct {
	ID          uuid.UUID
	Tactic      string
	GoalSummary string
	Status      string
	Children    []*Frame
}

// ToExportNode renders a Frame into the {name, children} shape §6.3
// mandates for ExportHTML/ExportYAML.
func (f *Frame) ToExportNode() *Node {
	n := &Node{
		ID:   f.ID,
		Name: fmt.Sprintf("%s %s [%s]", f.Tactic, f.GoalSummary, f.Status),
	}
	for _, c := range f.Children {
		n.Children = append(n.Children, c.ToExportNode())
	}
	return n
}

// Node is the exported tree shape: a display name plus children, stably
// addressable by ID across a run.
type Node struct {
	ID       uuid.UUID `json:"-" yaml:"-"`
	Name     string    `json:"name" yaml:"name"`
	Children []*Node   `json:"children,omitempty" yaml:"children,omitempty"`
}

// SummarizeGoal truncates a formula's textual form to a fixed length so
// trace names stay readable; full text is never needed for control flow.
func SummarizeGoal(s string) string {
	if len(s) <= goalSummaryLimit {
		return s
	}
	return s[:goalSummaryLimit-1] + "…"
}

// Tracer builds one run's frame tree as tactics push frames on entry and
// pop them (with a status) on exit. A nil *Tracer is valid and makes
// Push/Pop no-ops, so untraced contexts pay nothing.
type Tracer struct {
	root  *Frame
	stack []*Frame
}

// NewTracer starts a fresh, empty trace.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Push opens a new frame as a child of whatever frame is currently on top
// of the stack (or as the root, if the stack is empty), and returns it so
// the caller can Pop it later.
func (t *Tracer) Push(tactic, goalSummary string) *Frame {
	if t == nil {
		return nil
	}
	f := &Frame{ID: uuid.New(), Tactic: tactic, GoalSummary: SummarizeGoal(goalSummary)}
	if len(t.stack) == 0 {
		t.root = f
	} else {
		parent := t.stack[len(t.stack)-1]
		parent.Children = append(parent.Children, f)
	}
	t.stack = append(t.stack, f)
	return f
}

// Pop closes f, recording status, and restores the parent frame as the
// current top of stack. A nil receiver or frame is a no-op.
func (t *Tracer) Pop(f *Frame, status string) {
	if t == nil || f == nil {
		return
	}
	f.Status = status
	if len(t.stack) > 0 && t.stack[len(t.stack)-1] == f {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Root returns the trace's top-level frame, or nil if nothing was ever
// pushed.
func (t *Tracer) Root() *Frame {
	if t == nil {
		return nil
	}
	return t.root
}

func statusForError(err error) string {
	if err == nil {
		return "ok"
	}
	var te *rerrors.TacticError
	if errors.As(err, &te) && te.Kind == "Skipped" {
		return "skip"
	}
	msg := err.Error()
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	return "fail: " + msg
}

// StatusForError renders status text for Pop from a tactic's result.
func StatusForError(err error) string { return statusForError(err) }
