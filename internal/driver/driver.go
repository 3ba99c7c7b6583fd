// Package driver executes every proof obligation of a parsed script
// against its tactic dictionary: run every obligation, keep going past
// a failure, collect every outcome.
package driver

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/parser"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/tactics"
	"github.com/funvibe/rumm/internal/trace"
)

// Status is the outcome of one proof obligation.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Result is one proof obligation's outcome.
type Result struct {
	Label  database.Label
	Status Status
	Step   *proofstep.Step // nil unless Status == StatusOK
	Err    error           // nil unless Status == StatusFailed
	Trace  *trace.Frame    // root trace frame, nil if tracing was disabled
}

// BuildTacticDict adapts a script's parsed tactic definitions into the
// proofctx.TacticDict the `use` tactic looks up.
func BuildTacticDict(defs []*ast.TacticDefinition) proofctx.TacticDict {
	dict := make(proofctx.TacticDict, len(defs))
	for _, d := range defs {
		dict[d.Name] = d.ToProofCtxDefinition()
	}
	return dict
}

// Driver runs every proof obligation of a *parser.Script sequentially
// against a shared database handle, tracing each run when
// Trace is enabled.
type Driver struct {
	DB    database.Database
	Trace bool
}

// New builds a Driver over db.
func New(db database.Database) *Driver {
	return &Driver{DB: db}
}

// Run executes every proof obligation in script, in declaration order,
// continuing past a failed obligation rather than aborting the batch.
// Tactic definitions are built into a
// dictionary once, shared read-only across every obligation's context
// tree.
func (d *Driver) Run(script *parser.Script) []Result {
	d.prewarm(script.Proofs)

	dict := BuildTacticDict(script.Tactics)
	results := make([]Result, 0, len(script.Proofs))
	for _, proof := range script.Proofs {
		results = append(results, d.runOne(dict, proof))
	}
	return results
}

// prewarm resolves every obligation's theorem label against a
// throwaway clone of the database concurrently, ahead of the strictly
// sequential execution loop Run then runs. Lookup failures are
// re-discovered, and reported, by runOne itself — an errgroup.Group
// with no WithContext is enough since there is nothing to cancel early.
func (d *Driver) prewarm(proofs []*ast.ProofDefinition) {
	var g errgroup.Group
	for _, proof := range proofs {
		label := proof.Label
		g.Go(func() error {
			db := d.DB.Clone()
			db.GetTheoremFormulas(label)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Driver) runOne(dict proofctx.TacticDict, proof *ast.ProofDefinition) Result {
	db := d.DB.Clone()
	conclusion, hypotheses, ok := db.GetTheoremFormulas(proof.Label)
	if !ok {
		return Result{Label: proof.Label, Status: StatusFailed, Err: rerrors.UnknownLabel(string(proof.Label))}
	}

	ctx := proofctx.New(db, conclusion, hypotheses, dict)
	var tracer *trace.Tracer
	if d.Trace {
		tracer = trace.NewTracer()
		ctx = ctx.WithTracer(tracer)
	}

	bodyTactic, err := proof.Body.Evaluate(ctx)
	if err != nil {
		return Result{Label: proof.Label, Status: StatusFailed, Err: err, Trace: tracer.Root()}
	}

	step, err := tactics.Dispatch(ctx, bodyTactic)
	if err != nil {
		return Result{Label: proof.Label, Status: StatusFailed, Err: err, Trace: tracer.Root()}
	}
	return Result{Label: proof.Label, Status: StatusOK, Step: step, Trace: tracer.Root()}
}

// ExportProof serializes a successfully proven obligation's step tree to
// the database's native proof format.
func ExportProof(db database.Database, label database.Label, step *proofstep.Step) (*database.ProofArray, error) {
	arr, err := step.ToProofArray(db)
	if err != nil {
		return nil, fmt.Errorf("building proof array for %s: %w", label, err)
	}
	return arr, nil
}

// Line renders one Result as a single status line, one per proof
// obligation.
func (r Result) Line() string {
	if r.Status == StatusOK {
		return fmt.Sprintf("%s ok", r.Label)
	}
	return fmt.Sprintf("%s failed: %s", r.Label, r.Err)
}

// Skipped reports whether this result failed specifically because its
// body was (or bottomed out in) a `?` tactic hole.
func (r Result) Skipped() bool {
	if r.Status == StatusOK || r.Err == nil {
		return false
	}
	te, ok := r.Err.(*rerrors.TacticError)
	return ok && te.Kind == "Skipped"
}
