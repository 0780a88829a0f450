package ccu

import (
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// ClauseHandle identifies a clause previously added to an Oracle, so that it
// can later be detached with RemoveConstr. Handles are never reused.
type ClauseHandle int

// Oracle is the package's reference SAT engine. Purpose & Scope places the
// SAT oracle itself out of the core's scope, describing it as an external
// collaborator "assumed to expose an incremental add-clause / assume /
// is-sat / get-model / remove-clause interface"; Oracle is exactly that
// interface, backed by gini (github.com/go-air/gini), a pure-Go CDCL
// solver. Clause removal has no native counterpart in gini's incremental
// API, so every clause is guarded by a fresh selector variable: AddClause
// appends (-selector OR literals...) and returns a handle for that
// selector, and IsSatisfiable assumes every still-live selector before
// solving. RemoveConstr simply stops assuming a handle's selector, which is
// equivalent to deleting the clause for every purpose the rest of the
// package relies on (the clause can never again force anything, since
// gini is free to set the unassumed selector false).
//
// An Oracle is not safe for concurrent use; callers (the lazy and table
// solvers) only ever drive one from a single goroutine.
type Oracle struct {
	nextVar int
	oneBit  int
	zeroBit int

	sat *gini.Gini

	selectors  map[ClauseHandle]z.Lit
	nextHandle ClauseHandle
	timeoutMs  int

	modelValid bool
	lastSAT    bool

	numCalls int64
}

// NewOracle returns an Oracle with its two reserved bits already pinned:
// OneBit is forced true via a unit clause, ZeroBit is forced false. These
// two clauses are added directly, without a selector, since they must hold
// unconditionally for the lifetime of the Oracle.
func NewOracle() *Oracle {
	o := &Oracle{
		nextVar:   1,
		sat:       gini.New(),
		selectors: make(map[ClauseHandle]z.Lit),
	}
	o.oneBit = o.allocVar()
	o.zeroBit = o.allocVar()
	o.sat.Add(z.Dimacs(o.oneBit))
	o.sat.Add(0)
	o.sat.Add(z.Dimacs(-o.zeroBit))
	o.sat.Add(0)
	return o
}

// OneBit returns the variable id that is permanently forced true.
func (o *Oracle) OneBit() int { return o.oneBit }

// ZeroBit returns the variable id that is permanently forced false.
func (o *Oracle) ZeroBit() int { return o.zeroBit }

func (o *Oracle) allocVar() int {
	v := o.nextVar
	o.nextVar++
	return v
}

// Alloc returns the first of n fresh, contiguous propositional variable
// ids.
func (o *Oracle) Alloc(n int) int {
	if n <= 0 {
		panic("ccu: Alloc requires n > 0")
	}
	first := o.nextVar
	o.nextVar += n
	return first
}

// AddClause adds a clause (a disjunction of literals, negative meaning
// negated) guarded by a fresh selector, and returns a handle that
// RemoveConstr can later use to stop assuming that selector. An empty
// clause is synchronously contradictory.
func (o *Oracle) AddClause(literals []int) (ClauseHandle, error) {
	if len(literals) == 0 {
		return 0, ErrOracleContradiction
	}
	sel := o.allocVar()
	for _, lit := range literals {
		o.sat.Add(z.Dimacs(lit))
	}
	o.sat.Add(z.Dimacs(-sel))
	o.sat.Add(0)

	h := o.nextHandle
	o.nextHandle++
	o.selectors[h] = z.Dimacs(sel)
	o.modelValid = false
	return h, nil
}

// RemoveConstr detaches a previously added clause. Removing an unknown or
// already-removed handle is a no-op.
func (o *Oracle) RemoveConstr(h ClauseHandle) {
	if _, ok := o.selectors[h]; ok {
		delete(o.selectors, h)
		o.modelValid = false
	}
}

// SetTimeoutMs sets the millisecond budget for the next IsSatisfiable
// call. A value <= 0 disables the budget.
func (o *Oracle) SetTimeoutMs(ms int) { o.timeoutMs = ms }

// IsSatisfiable assumes every currently live clause's selector and asks
// gini to solve. The result is cached; Model is only valid until the next
// clause mutation. Returns ErrTimeout if the configured per-call budget
// (see SetTimeoutMs) expires first.
func (o *Oracle) IsSatisfiable() (bool, error) {
	o.numCalls++
	assumps := make([]z.Lit, 0, len(o.selectors))
	for _, sel := range o.selectors {
		assumps = append(assumps, sel)
	}
	o.sat.Assume(assumps...)

	var result int
	if o.timeoutMs > 0 {
		result = o.sat.Try(time.Duration(o.timeoutMs) * time.Millisecond)
	} else {
		result = o.sat.Solve()
	}
	if result == 0 {
		o.modelValid = false
		return false, ErrTimeout
	}
	o.lastSAT = result == 1
	o.modelValid = true
	return o.lastSAT, nil
}

// Model reports the truth value assigned to v by the last IsSatisfiable
// call. It panics if no valid model is cached (IsSatisfiable was not
// called, returned false, or a clause was mutated since).
func (o *Oracle) Model(v int) bool {
	if !o.modelValid || !o.lastSAT {
		panic("ccu: Model called without a valid SAT model")
	}
	return o.sat.Value(z.Dimacs(v))
}
