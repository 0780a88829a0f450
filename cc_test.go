package ccu

import "testing"

func TestBuildClosureSaturatesFunctionality(t *testing.T) {
	terms, _, funEqs := s3DQFixture()
	assignment := map[TermID]TermID{0: 0, 1: 0, 2: 2, 3: 3} // a=b=0
	uf := buildClosure(terms, funEqs, assignment)
	if uf.find(0) != uf.find(1) {
		t.Fatal("a,b assigned the same value must be in the same class")
	}
	if uf.find(2) != uf.find(3) {
		t.Error("functionality should merge c,d once a,b are merged")
	}
}

func TestBuildClosureNoSpuriousMerge(t *testing.T) {
	terms, _, funEqs := s3DQFixture()
	assignment := map[TermID]TermID{0: 0, 1: 1, 2: 2, 3: 3} // a != b
	uf := buildClosure(terms, funEqs, assignment)
	if uf.find(2) == uf.find(3) {
		t.Error("c,d must not merge when a,b did not")
	}
}

func TestVerifyCongruenceDisjunctiveGoal(t *testing.T) {
	terms, _, funEqs := s3DQFixture()
	assignment := map[TermID]TermID{0: 0, 1: 0, 2: 2, 3: 3}
	goal := Goal{
		{{S: 2, T: 3}},       // holds
		{{S: 0, T: 3}, {S: 1, T: 2}}, // does not hold
	}
	if !verifyCongruence(terms, funEqs, assignment, goal) {
		t.Error("expected the first sub-goal to hold")
	}
}

func TestVerifyCongruenceEmptySubGoalIsTrivial(t *testing.T) {
	terms, _, funEqs := s3DQFixture()
	assignment := map[TermID]TermID{0: 0, 1: 1, 2: 2, 3: 3}
	if !verifyCongruence(terms, funEqs, assignment, Goal{{}}) {
		t.Error("an empty sub-goal must be trivially satisfied regardless of assignment")
	}
}

func TestVerifyCongruenceEmptyGoalIsUnsat(t *testing.T) {
	terms, _, funEqs := s3DQFixture()
	assignment := map[TermID]TermID{0: 0, 1: 0, 2: 2, 3: 3}
	if verifyCongruence(terms, funEqs, assignment, Goal{}) {
		t.Error("a goal with no sub-goals at all can never be satisfied")
	}
}
