package ccu

// Problem is an ordered sequence of sub-problems sharing a common set of
// terms and bit width (ccu.3). It is installed into a Solver via
// CreateProblem and caches its SAT/UNSAT result and, on SAT, the decoded
// integer assignment.
type Problem struct {
	terms      []TermID
	termIndex  map[TermID]int
	bits       int
	subs       []*subProblem
	assignVecs map[TermID]bitVec // column 0: the shared assignment vector

	result Result
	intAss map[TermID]TermID
	core   []int
}

func (p *Problem) indexOf(t TermID) int { return p.termIndex[t] }

// newProblem validates the input and builds the per-sub-problem DQ
// matrices, but does not yet touch the SAT oracle: that happens when a
// Solver installs it (see solver.go), since clause emission needs the
// oracle and gate translator.
func newProblem(terms []TermID, specs []SubProblemSpec) (*Problem, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}
	p := &Problem{
		terms:     append([]TermID(nil), terms...),
		termIndex: make(map[TermID]int, len(terms)),
		bits:      domainBits(len(terms)),
	}
	for i, t := range p.terms {
		p.termIndex[t] = i
	}
	p.subs = make([]*subProblem, len(specs))
	for i, spec := range specs {
		if err := validateSubProblem(p.terms, spec); err != nil {
			return nil, err
		}
		dq := NewDQ(p.terms, spec.Domains)
		dq.Check(spec.FunEqs)
		p.subs[i] = &subProblem{
			domains: spec.Domains,
			funEqs:  append([]FunEq(nil), spec.FunEqs...),
			goal:    spec.Goal,
			dq:      dq,
			active:  true,
		}
	}
	return p, nil
}

// NumSubProblems reports how many sub-problems the installed problem has.
func (p *Problem) NumSubProblems() int { return len(p.subs) }

// Terms returns the problem's canonical term ordering.
func (p *Problem) Terms() []TermID { return append([]TermID(nil), p.terms...) }
