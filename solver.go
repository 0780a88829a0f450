package ccu

import "fmt"

// Strategy selects which of the two solving engines described in
// ccu.4.5/ccu.4.6 a Solver runs.
type Strategy int

const (
	// Lazy is the CEGAR solver: guess a total assignment, verify each
	// sub-problem with the reference congruence-closure checker, and
	// refine with blocking clauses on failure.
	Lazy Strategy = iota
	// Table is the bounded-unfolding solver: encode congruence-closure
	// steps directly into SAT and grow the unfolding until SAT or
	// saturation.
	Table
)

func (s Strategy) String() string {
	switch s {
	case Lazy:
		return "lazy"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// TimeoutChecker is invoked at well-defined cancellation points (the top
// of every CEGAR iteration, the lazy solver's cascade-removal loop before
// DQ minimisation, the top of every table-solver iteration, before each
// table column expansion, the equivalence-carry and V-set enumeration
// loops, and the unsat-core extraction loop). The DQ fixpoints themselves
// (DQ.Check, DQ.Minimise) do not consult it. It should return true to
// signal that the solve should abort.
type TimeoutChecker func() bool

// Solver is the shared driver (ccu.2's "Shared solve driver"): it owns
// the SAT oracle, the gate translator, and the currently installed
// Problem, and dispatches to the chosen Strategy. A Solver is not safe
// for concurrent use.
type Solver struct {
	strategy       Strategy
	timeoutChecker TimeoutChecker
	satBudgetMs    int

	oracle *Oracle
	gate   *gate

	problem *Problem
	solved  bool

	lazy  *lazySolver
	table *tableSolver
}

// NewSolver constructs a Solver instance. timeoutChecker may be nil, in
// which case cancellation is disabled. satBudgetMs configures the
// per-oracle-call millisecond budget (see Oracle.SetTimeoutMs); 0 disables
// it.
func NewSolver(strategy Strategy, timeoutChecker TimeoutChecker, satBudgetMs int) *Solver {
	if timeoutChecker == nil {
		timeoutChecker = func() bool { return false }
	}
	s := &Solver{
		strategy:       strategy,
		timeoutChecker: timeoutChecker,
		satBudgetMs:    satBudgetMs,
	}
	s.resetOracle()
	return s
}

func (s *Solver) resetOracle() {
	s.oracle = NewOracle()
	s.oracle.SetTimeoutMs(s.satBudgetMs)
	s.gate = newGate(s.oracle)
}

// CreateProblem installs a multi-sub-problem. It may only be called once
// per Solver instance (or again after Reset).
func (s *Solver) CreateProblem(terms []TermID, specs []SubProblemSpec) error {
	p, err := newProblem(terms, specs)
	if err != nil {
		return err
	}
	p.assignVecs = make(map[TermID]bitVec, len(p.terms))
	for _, t := range p.terms {
		p.assignVecs[t] = allocBitVec(s.oracle, p.bits)
	}
	s.problem = p
	s.solved = false
	for i := range p.subs {
		if err := s.activateLocked(i); err != nil {
			return err
		}
	}
	s.lazy = newLazySolver(s)
	s.table = newTableSolver(s)
	return nil
}

// ActivateProblem marks sub-problem i as active, re-installing its domain
// constraints on the shared assignment vector. A later Solve/SolveAgain
// call is required to see the effect.
func (s *Solver) ActivateProblem(i int) error {
	if s.problem == nil {
		return ErrNoProblem
	}
	sp, err := s.subProblem(i)
	if err != nil {
		return err
	}
	if sp.active {
		return nil
	}
	return s.activateLocked(i)
}

func (s *Solver) activateLocked(i int) error {
	p := s.problem
	sp := p.subs[i]
	sp.active = true
	for _, t := range p.terms {
		dom := sp.domains[t]
		lits := make([]int, 0, len(dom))
		for _, d := range dom {
			lit, err := termEqInt(s.oracle, s.gate, p.assignVecs[t], p.indexOf(d))
			if err != nil {
				return err
			}
			lits = append(lits, lit)
		}
		h, err := s.oracle.AddClause(lits)
		if err != nil {
			return err
		}
		sp.domainHandles = append(sp.domainHandles, h)
	}
	return nil
}

// DeactivateProblem marks sub-problem i as inactive: it contributes no
// clauses and no verification obligation until reactivated.
func (s *Solver) DeactivateProblem(i int) error {
	if s.problem == nil {
		return ErrNoProblem
	}
	sp, err := s.subProblem(i)
	if err != nil {
		return err
	}
	if !sp.active {
		return nil
	}
	sp.active = false
	for _, h := range sp.domainHandles {
		s.oracle.RemoveConstr(h)
	}
	sp.domainHandles = nil
	return nil
}

func (s *Solver) subProblem(i int) (*subProblem, error) {
	if i < 0 || i >= len(s.problem.subs) {
		return nil, fmt.Errorf("ccu: sub-problem index %d out of range [0,%d)", i, len(s.problem.subs))
	}
	return s.problem.subs[i], nil
}

// Solve runs the configured strategy to a definite SAT/UNSAT result. It
// may be called once per installed problem; use SolveAgain after toggling
// sub-problem activation.
func (s *Solver) Solve() (Result, error) {
	if s.problem == nil {
		return Unknown, ErrNoProblem
	}
	if s.solved {
		return Unknown, ErrAlreadySolved
	}
	s.solved = true
	return s.solveaux()
}

// SolveAgain re-solves the current problem after sub-problem activation
// has changed. Meaningful for both strategies, but only the table solver
// can reuse prior work (its instantiated tables and columns persist
// across activation toggles); the lazy solver simply restarts.
func (s *Solver) SolveAgain() (Result, error) {
	if s.problem == nil {
		return Unknown, ErrNoProblem
	}
	return s.solveaux()
}

func (s *Solver) solveaux() (Result, error) {
	var (
		result Result
		err    error
	)
	switch s.strategy {
	case Lazy:
		result, err = s.lazy.solve()
	case Table:
		result, err = s.table.solve()
	default:
		return Unknown, fmt.Errorf("ccu: unknown strategy %v", s.strategy)
	}
	if err != nil {
		return Unknown, err
	}
	s.problem.result = result
	return result, nil
}

// Model returns the decoded term-to-value mapping of the last SAT result.
func (s *Solver) Model() (map[TermID]TermID, error) {
	if s.problem == nil {
		return nil, ErrNoProblem
	}
	if s.problem.result != SAT {
		return nil, ErrModelNotReady
	}
	out := make(map[TermID]TermID, len(s.problem.intAss))
	for k, v := range s.problem.intAss {
		out[k] = v
	}
	return out, nil
}

// UnsatCore returns a minimal prefix (in input order) of sub-problem
// indices whose simultaneous conjunction is itself UNSAT. Valid only
// after an UNSAT result.
func (s *Solver) UnsatCore(timeoutMs int) ([]int, error) {
	if s.problem == nil {
		return nil, ErrNoProblem
	}
	if s.problem.result != UNSAT {
		return nil, ErrCoreNotReady
	}
	core, err := extractUnsatCore(s, timeoutMs)
	if err != nil {
		return nil, err
	}
	s.problem.core = core
	return append([]int(nil), core...), nil
}

// Reset releases all solver state (oracle, tables, cached results) so the
// Solver can be reused with a fresh CreateProblem call.
func (s *Solver) Reset() {
	s.problem = nil
	s.solved = false
	s.lazy = nil
	s.table = nil
	s.resetOracle()
}

// decodeAssignment reads the shared column-0 assignment vector out of the
// oracle's last model and maps each term to the term it was assigned.
func (s *Solver) decodeAssignment() map[TermID]TermID {
	p := s.problem
	out := make(map[TermID]TermID, len(p.terms))
	for _, t := range p.terms {
		idx := decodeBitVec(s.oracle, p.assignVecs[t])
		out[t] = p.terms[idx]
	}
	return out
}

// decodeBitVec reads a little-endian bit vector's value out of the
// oracle's last model.
func decodeBitVec(o *Oracle, bv bitVec) int {
	v := 0
	for k, id := range bv {
		if o.Model(id) {
			v |= 1 << uint(k)
		}
	}
	return v
}
