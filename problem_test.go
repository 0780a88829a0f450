package ccu

import "testing"

func TestNewProblemRejectsEmptyTerms(t *testing.T) {
	if _, err := newProblem(nil, nil); err == nil {
		t.Error("expected an error for an empty term set")
	}
}

func TestNewProblemRejectsNegativeTermID(t *testing.T) {
	if _, err := newProblem([]TermID{-1, 0}, nil); err == nil {
		t.Error("expected an error for a negative term id")
	}
}

func TestNewProblemRejectsDomainOutOfRange(t *testing.T) {
	terms := []TermID{0, 1}
	specs := []SubProblemSpec{{Domains: map[TermID][]TermID{0: {0, 5}}}}
	if _, err := newProblem(terms, specs); err == nil {
		t.Error("expected an error for a domain referencing an unknown term")
	}
}

func TestNewProblemRejectsDomainMissingSelf(t *testing.T) {
	terms := []TermID{0, 1}
	specs := []SubProblemSpec{{Domains: map[TermID][]TermID{0: {1}}}}
	if _, err := newProblem(terms, specs); err == nil {
		t.Error("expected an error when a term's domain excludes itself")
	}
}

func TestNewProblemOK(t *testing.T) {
	terms := []TermID{0, 1, 2}
	specs := []SubProblemSpec{{Domains: fullDomain(terms), Goal: Goal{{}}}}
	p, err := newProblem(terms, specs)
	if err != nil {
		t.Fatal(err)
	}
	if p.NumSubProblems() != 1 {
		t.Errorf("got %d sub-problems, want 1", p.NumSubProblems())
	}
	if got := p.Terms(); len(got) != 3 {
		t.Errorf("got %v terms, want 3", got)
	}
	if p.indexOf(2) != 2 {
		t.Errorf("indexOf(2) = %d, want 2", p.indexOf(2))
	}
}
