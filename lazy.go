package ccu

import "errors"

// lazySolver is the CEGAR solver of ccu.4.5: guess a total assignment
// with the SAT oracle, verify each sub-problem by running the reference
// congruence-closure checker, and on failure add a minimised blocking
// clause ruling out the spurious model while preserving every correct
// one.
type lazySolver struct {
	s *Solver

	// eqMemo for termEqTerm over the shared column-0 assignment vectors;
	// without it, repeated refinement rounds can emit the same blocking
	// disjunct under a new variable each time, defeating the invariant
	// that every iteration strictly shrinks the feasible model space
	// (ccu.4.5's memoisation note).
	memo eqMemo

	usedInBlocking []bool // which sub-problems ever produced a blocking clause
}

func newLazySolver(s *Solver) *lazySolver {
	return &lazySolver{
		s:              s,
		memo:           make(eqMemo),
		usedInBlocking: make([]bool, len(s.problem.subs)),
	}
}

func (ls *lazySolver) solve() (Result, error) {
	s := ls.s
	p := s.problem
	for {
		if s.timeoutChecker() {
			return Unknown, ErrTimeout
		}
		ok, err := s.oracle.IsSatisfiable()
		if err != nil {
			return Unknown, err
		}
		if !ok {
			p.core = ls.coreSoFar()
			return UNSAT, nil
		}

		intAss := s.decodeAssignment()

		rejected := -1
		for i, sp := range p.subs {
			if !sp.active {
				continue
			}
			if !verifyCongruence(p.terms, sp.funEqs, intAss, sp.goal) {
				rejected = i
				break
			}
		}
		if rejected == -1 {
			p.intAss = intAss
			return SAT, nil
		}

		ls.usedInBlocking[rejected] = true
		if err := ls.addBlockingClause(p.subs[rejected], intAss); err != nil {
			if errors.Is(err, ErrOracleContradiction) {
				p.core = ls.coreSoFar()
				return UNSAT, nil
			}
			return Unknown, err
		}
	}
}

// addBlockingClause implements ccu.4.5's refinement step: it finds the
// disequalities the rejected sub-problem actually needs (its precomputed
// DQ, narrowed by which pairs the spurious model merged, then minimised
// against the goal and stripped of domain-only base disequalities), and
// adds the disjunction of their term equalities as a new clause.
func (ls *lazySolver) addBlockingClause(sp *subProblem, intAss map[TermID]TermID) error {
	s := ls.s
	p := s.problem

	uf := buildClosure(p.terms, sp.funEqs, intAss)
	dqp := sp.dq.Clone()
	for i, a := range p.terms {
		for j := i + 1; j < len(p.terms); j++ {
			b := p.terms[j]
			if uf.find(a) == uf.find(b) {
				dqp.CascadeRemoveDQ(sp.funEqs, a, b)
			}
		}
		if s.timeoutChecker() {
			return ErrTimeout
		}
	}
	dqp.Minimise(sp.goal)

	base := make(map[eqMemoKey]bool)
	for _, pr := range dqp.BaseINEQ() {
		base[eqKey(pr.S, pr.T)] = true
	}

	var lits []int
	for _, pr := range dqp.GetINEQ() {
		if base[eqKey(pr.S, pr.T)] {
			continue
		}
		lit, err := memoTermEqTerm(s.oracle, s.gate, s.oracle.ZeroBit(), ls.memo, pr.S, pr.T, p.assignVecs[pr.S], p.assignVecs[pr.T])
		if err != nil {
			return err
		}
		lits = append(lits, lit)
	}
	_, err := s.oracle.AddClause(lits)
	return err
}

func (ls *lazySolver) coreSoFar() []int {
	var core []int
	for i, used := range ls.usedInBlocking {
		if used {
			core = append(core, i)
		}
	}
	return core
}
