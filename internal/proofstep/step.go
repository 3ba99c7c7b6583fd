// Package proofstep implements the proof-tree node: a Step is
// either a hypothesis reference or an inference
// application, and converts into the database's ProofArray format for
// export to the underlying formal system.
package proofstep

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/rumm/internal/database"
)

// Step is a node of the resulting proof tree.
type Step struct {
	// ID uniquely identifies this step for trace/diagnostic purposes only;
	// it plays no role in proof
	// semantics or equality.
	ID uuid.UUID

	isHyp bool

	// Hypothesis reference fields.
	hypLabel database.Label

	// Inference application fields.
	label    database.Label
	children []*Step
	subst    database.Substitution

	result database.Formula
}

// Hyp constructs a hypothesis-reference proof step.
func Hyp(label database.Label, formula database.Formula) *Step {
	return &Step{ID: uuid.New(), isHyp: true, hypLabel: label, result: formula}
}

// Apply constructs an inference-application proof step: application of
// rule `label` to `children`, yielding `result` under `subst`.
func Apply(label database.Label, children []*Step, result database.Formula, subst database.Substitution) *Step {
	return &Step{ID: uuid.New(), label: label, children: children, result: result, subst: subst}
}

// Result is the formula this step establishes.
func (s *Step) Result() database.Formula { return s.result }

// IsHyp reports whether this step is a bare hypothesis reference.
func (s *Step) IsHyp() bool { return s.isHyp }

// Label is the hypothesis or rule label this step cites.
func (s *Step) Label() database.Label {
	if s.isHyp {
		return s.hypLabel
	}
	return s.label
}

// Children are the sub-proofs of an inference application (nil for a
// hypothesis reference).
func (s *Step) Children() []*Step { return s.children }

// ToProofArray recursively emits this step's proof tree into a
// database.ProofArray: children are emitted before their
// parent, a db.BuildProofHyp/BuildProofStep call appends the node, and
// the root's index becomes the array's Qed slot.
func (s *Step) ToProofArray(db database.Database) (*database.ProofArray, error) {
	arr := database.NewProofArray()
	buf := database.NewProofBuf()
	idx, err := s.emit(db, buf, arr)
	if err != nil {
		return nil, err
	}
	arr.Qed = idx
	return arr, nil
}

func (s *Step) emit(db database.Database, buf *database.ProofBuf, arr *database.ProofArray) (int, error) {
	if s.isHyp {
		return db.BuildProofHyp(s.hypLabel, s.result, buf, arr), nil
	}
	childIdxs := make([]int, len(s.children))
	for i, c := range s.children {
		idx, err := c.emit(db, buf, arr)
		if err != nil {
			return 0, fmt.Errorf("emitting child %d of %s: %w", i, s.label, err)
		}
		childIdxs[i] = idx
	}
	return db.BuildProofStep(s.label, s.result, childIdxs, s.subst, buf, arr), nil
}
