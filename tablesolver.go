package ccu

import "errors"

// tableSolver is the bounded-unfolding solver of ccu.4.6: rather than
// rejecting and re-guessing whole models like the lazy solver, it encodes
// one sub-problem's congruence-closure steps directly into SAT, growing the
// unfolding by one column at a time until either the goal is reachable or
// the unfolding has saturated (no further V-set entry can ever fire).
type tableSolver struct {
	s *Solver
}

func newTableSolver(s *Solver) *tableSolver {
	return &tableSolver{s: s}
}

func (ts *tableSolver) solve() (Result, error) {
	s := ts.s
	p := s.problem

	for {
		if s.timeoutChecker() {
			return Unknown, ErrTimeout
		}

		handles, structuralUnsat, err := ts.pushGoalConstraints()
		if err != nil {
			return Unknown, err
		}
		if structuralUnsat {
			p.core = ts.instantiatedIndices()
			return UNSAT, nil
		}

		ok, err := s.oracle.IsSatisfiable()
		ts.popHandles(handles)
		if err != nil {
			return Unknown, err
		}

		if ok {
			intAss := s.decodeAssignment()
			allVerified := true
			for i, sp := range p.subs {
				if !sp.active {
					continue
				}
				if verifyCongruence(p.terms, sp.funEqs, intAss, sp.goal) {
					continue
				}
				allVerified = false
				if sp.table == nil {
					if err := ts.instantiate(i); err != nil {
						return Unknown, err
					}
				}
			}
			if allVerified {
				p.intAss = intAss
				return SAT, nil
			}
			continue
		}

		vHandle, anyV, err := ts.pushVConstraint()
		if err != nil {
			return Unknown, err
		}
		vsat := false
		if anyV {
			vsat, err = s.oracle.IsSatisfiable()
			s.oracle.RemoveConstr(vHandle)
			if err != nil {
				return Unknown, err
			}
		}
		if !anyV || !vsat {
			p.core = ts.instantiatedIndices()
			return UNSAT, nil
		}

		for _, sp := range p.subs {
			if sp.table == nil {
				continue
			}
			if s.timeoutChecker() {
				return Unknown, ErrTimeout
			}
			if err := addDerivedColumn(s, sp, sp.table); err != nil {
				return Unknown, err
			}
		}
	}
}

func (ts *tableSolver) instantiate(i int) error {
	s := ts.s
	sp := s.problem.subs[i]
	if sp.table != nil {
		return ErrTableAlreadyExists
	}
	tb := newTable(s.problem)
	sp.table = tb
	return addDerivedColumn(s, sp, tb)
}

// pushGoalConstraints adds, for every active instantiated table, the
// disjunction over its sub-goals of the conjunction of termEqTerm over each
// goal pair, at the table's current column. A sub-problem with no
// sub-goals at all can never be satisfied, and is reported as a structural
// (permanent) contradiction rather than an ordinary oracle call.
func (ts *tableSolver) pushGoalConstraints() (handles []ClauseHandle, structuralUnsat bool, err error) {
	s := ts.s
	o, g := s.oracle, s.gate
	for _, sp := range s.problem.subs {
		if !sp.active || sp.table == nil {
			continue
		}
		tb := sp.table
		col := tb.lastColumn()
		var disjuncts []int
		for _, sg := range sp.goal {
			pairLits := make([]int, len(sg))
			for i, pr := range sg {
				lit, err := tb.eqAt(o, g, o.ZeroBit(), col, pr.S, pr.T)
				if err != nil {
					ts.popHandles(handles)
					return nil, false, err
				}
				pairLits[i] = lit
			}
			andBit := o.Alloc(1)
			if err := g.and(andBit, pairLits); err != nil {
				ts.popHandles(handles)
				return nil, false, err
			}
			disjuncts = append(disjuncts, andBit)
		}
		if len(disjuncts) == 0 {
			ts.popHandles(handles)
			return nil, true, nil
		}
		h, err := o.AddClause(disjuncts)
		if err != nil {
			if errors.Is(err, ErrOracleContradiction) {
				ts.popHandles(handles)
				return nil, true, nil
			}
			ts.popHandles(handles)
			return nil, false, err
		}
		handles = append(handles, h)
	}
	return handles, false, nil
}

// pushVConstraint adds a single clause asserting that some instantiated
// table's current V-set entry still fires: if that is unsatisfiable, every
// instantiated table has saturated and the unfolding can never progress.
func (ts *tableSolver) pushVConstraint() (handle ClauseHandle, any bool, err error) {
	s := ts.s
	var lits []int
	for _, sp := range s.problem.subs {
		if !sp.active || sp.table == nil {
			continue
		}
		lits = append(lits, sp.table.currentVBits...)
	}
	if len(lits) == 0 {
		return 0, false, nil
	}
	h, err := s.oracle.AddClause(lits)
	if err != nil {
		return 0, false, err
	}
	return h, true, nil
}

func (ts *tableSolver) popHandles(handles []ClauseHandle) {
	for _, h := range handles {
		ts.s.oracle.RemoveConstr(h)
	}
}

func (ts *tableSolver) instantiatedIndices() []int {
	var core []int
	for i, sp := range ts.s.problem.subs {
		if sp.table != nil {
			core = append(core, i)
		}
	}
	return core
}
