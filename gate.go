package ccu

// gate is the Tseitin gate translator (ccu.4.1): given a fresh output
// variable y, each method adds clauses to an Oracle that make y logically
// equivalent to the named boolean combination of its inputs. The translator
// itself holds no state; it is a thin namespace over *Oracle.
type gate struct {
	o *Oracle
}

func newGate(o *Oracle) *gate { return &gate{o: o} }

// and adds clauses making y <-> AND(xs...). An empty xs makes y
// equivalent to true (the empty conjunction).
func (g *gate) and(y int, xs []int) error {
	if len(xs) == 0 {
		return g.gateTrue(y)
	}
	// y -> x_i for every i
	for _, x := range xs {
		if _, err := g.o.AddClause([]int{-y, x}); err != nil {
			return err
		}
	}
	// (AND x_i) -> y, i.e. (-x1 v -x2 v ... v y)
	cls := make([]int, 0, len(xs)+1)
	for _, x := range xs {
		cls = append(cls, -x)
	}
	cls = append(cls, y)
	_, err := g.o.AddClause(cls)
	return err
}

// or adds clauses making y <-> OR(xs...). An empty xs makes y equivalent
// to false (the empty disjunction).
func (g *gate) or(y int, xs []int) error {
	if len(xs) == 0 {
		return g.gateFalse(y)
	}
	// x_i -> y for every i
	for _, x := range xs {
		if _, err := g.o.AddClause([]int{-x, y}); err != nil {
			return err
		}
	}
	// y -> (OR x_i), i.e. (-y v x1 v x2 v ...)
	cls := make([]int, 0, len(xs)+1)
	cls = append(cls, -y)
	cls = append(cls, xs...)
	_, err := g.o.AddClause(cls)
	return err
}

// iff adds clauses making y <-> (a <-> b).
func (g *gate) iff(y int, a, b int) error {
	clauses := [][]int{
		{y, a, b},
		{y, -a, -b},
		{-y, a, -b},
		{-y, -a, b},
	}
	for _, cls := range clauses {
		if _, err := g.o.AddClause(cls); err != nil {
			return err
		}
	}
	return nil
}

// not adds clauses making y <-> NOT(x).
func (g *gate) not(y, x int) error {
	if _, err := g.o.AddClause([]int{-y, -x}); err != nil {
		return err
	}
	_, err := g.o.AddClause([]int{y, x})
	return err
}

// gateFalse forces y to be false.
func (g *gate) gateFalse(y int) error {
	_, err := g.o.AddClause([]int{-y})
	return err
}

// gateTrue forces y to be true. Not in the spec's §4.1 list by name, but
// needed to give the empty conjunction a sound encoding; equivalent to
// wiring y to OneBit via iff, spelled out directly for one fewer gate.
func (g *gate) gateTrue(y int) error {
	_, err := g.o.AddClause([]int{y})
	return err
}
