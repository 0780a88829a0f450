package ccu

import "testing"

func TestDomainBits(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{8, 4},
		{9, 5},
	}
	for _, tt := range cases {
		if got := domainBits(tt.n); got != tt.want {
			t.Errorf("domainBits(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestTermEqInt(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	bits := domainBits(3)
	bv := allocBitVec(o, bits)

	e0, err := termEqInt(o, g, bv, 2)
	if err != nil {
		t.Fatal(err)
	}
	for k, lit := range bv {
		want := (2 >> uint(k)) & 1
		if want == 1 {
			o.AddClause([]int{lit})
		} else {
			o.AddClause([]int{-lit})
		}
	}
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if !o.Model(e0) {
		t.Error("expected termEqInt(bv, 2) true when bv encodes 2")
	}
}

func TestTermEqTermAndGt(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	zero := o.ZeroBit()
	bits := domainBits(4)
	a := allocBitVec(o, bits)
	b := allocBitVec(o, bits)

	eq, err := termEqTerm(o, g, zero, a, b)
	if err != nil {
		t.Fatal(err)
	}
	gt, err := termGtTerm(o, g, zero, a, b)
	if err != nil {
		t.Fatal(err)
	}

	setBits(o, a, 3)
	setBits(o, b, 1)
	if !sat(t, o) {
		t.Fatal("expected SAT")
	}
	if o.Model(eq) {
		t.Error("3 != 1, expected eq false")
	}
	if !o.Model(gt) {
		t.Error("3 > 1, expected gt true")
	}
}

// TestTermGtTermIncomparableBits guards against a degenerate encoding that
// reduces to "a has a set bit b lacks" instead of unsigned a > b: 1 (001)
// and 2 (010) each have a bit the other lacks, so that degenerate encoding
// would force gt(1,2) and gt(2,1) both true, even though only 2 > 1 holds.
func TestTermGtTermIncomparableBits(t *testing.T) {
	bits := domainBits(4)

	check := func(av, bv int, want bool) {
		o := NewOracle()
		g := newGate(o)
		zero := o.ZeroBit()
		a := allocBitVec(o, bits)
		b := allocBitVec(o, bits)
		gt, err := termGtTerm(o, g, zero, a, b)
		if err != nil {
			t.Fatal(err)
		}
		setBits(o, a, av)
		setBits(o, b, bv)
		if !sat(t, o) {
			t.Fatal("expected SAT")
		}
		if got := o.Model(gt); got != want {
			t.Errorf("gt(%d,%d) = %v, want %v", av, bv, got, want)
		}
	}

	check(1, 2, false)
	check(2, 1, true)
}

func setBits(o *Oracle, bv bitVec, v int) {
	for k, lit := range bv {
		if (v>>uint(k))&1 == 1 {
			o.AddClause([]int{lit})
		} else {
			o.AddClause([]int{-lit})
		}
	}
}

func TestMemoTermEqTermReusesGate(t *testing.T) {
	o := NewOracle()
	g := newGate(o)
	zero := o.ZeroBit()
	bits := domainBits(3)
	a := allocBitVec(o, bits)
	b := allocBitVec(o, bits)
	memo := make(eqMemo)

	const s, u = TermID(0), TermID(1)
	lit1, err := memoTermEqTerm(o, g, zero, memo, s, u, a, b)
	if err != nil {
		t.Fatal(err)
	}
	lit2, err := memoTermEqTerm(o, g, zero, memo, u, s, b, a)
	if err != nil {
		t.Fatal(err)
	}
	if lit1 != lit2 {
		t.Errorf("expected memoised termEqTerm to return the same literal regardless of argument order")
	}
}
