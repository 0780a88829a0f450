package ccu

import "testing"

func sat(t *testing.T, o *Oracle) bool {
	t.Helper()
	ok, err := o.IsSatisfiable()
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestGateAnd(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	a, b := o.Alloc(1), o.Alloc(1)
	y := o.Alloc(1)
	if err := g.and(y, []int{a, b}); err != nil {
		t.Fatal(err)
	}
	o.AddClause([]int{a})
	o.AddClause([]int{-b})
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if o.Model(y) {
		t.Error("y should be false when b is false")
	}
}

func TestGateAndEmptyIsTrue(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	y := o.Alloc(1)
	if err := g.and(y, nil); err != nil {
		t.Fatal(err)
	}
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if !o.Model(y) {
		t.Error("empty conjunction should be true")
	}
}

func TestGateOrEmptyIsFalse(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	y := o.Alloc(1)
	if err := g.or(y, nil); err != nil {
		t.Fatal(err)
	}
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if o.Model(y) {
		t.Error("empty disjunction should be false")
	}
}

func TestGateIff(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	a, b, y := o.Alloc(1), o.Alloc(1), o.Alloc(1)
	if err := g.iff(y, a, b); err != nil {
		t.Fatal(err)
	}
	o.AddClause([]int{a})
	o.AddClause([]int{-b})
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if o.Model(y) {
		t.Error("a != b so y should be false")
	}
}

func TestGateNot(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	x, y := o.Alloc(1), o.Alloc(1)
	if err := g.not(y, x); err != nil {
		t.Fatal(err)
	}
	o.AddClause([]int{x})
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if o.Model(y) {
		t.Error("y should be false when x is true")
	}
}
