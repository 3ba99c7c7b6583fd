package tactics

import (
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// Skipped is the `?` tactic: always fails, present so
// that incomplete proofs parse.
type Skipped struct{}

func (Skipped) Execute(proofctx.Context) (*proofstep.Step, error) {
	return nil, annotate("?", rerrors.Skipped())
}

func (Skipped) String() string { return "?" }
