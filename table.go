package ccu

// table is one sub-problem's bounded column unfolding (ccu.4.6): column 0
// is the shared input assignment vector, and each later column is a fresh
// set of per-term bit vectors derived from the previous one by the clauses
// addDerivedColumn emits. It is created lazily, the first time the table
// solver's naive guess fails verification for its sub-problem, and grown
// one column at a time thereafter.
type table struct {
	columns []map[TermID]bitVec

	// memo caches termEqTerm results per (column, unordered term pair), since
	// both the functionality V-set and the goal-constraint encodings query
	// the same pairs repeatedly within a column.
	memo map[tableEqKey]int

	// currentVBits are the V-set firing bits produced by the most recent
	// addDerivedColumn call: the disjunction of these is the V-constraint
	// that must stay satisfiable for the unfolding to still be growable.
	currentVBits []int
}

type tableEqKey struct {
	col  int
	pair eqMemoKey
}

func newTable(p *Problem) *table {
	return &table{
		columns: []map[TermID]bitVec{p.assignVecs},
		memo:    make(map[tableEqKey]int),
	}
}

func (tb *table) lastColumn() int { return len(tb.columns) - 1 }

// eqAt returns (memoised) the fresh bit e <-> (value at column col of s ==
// value at column col of t).
func (tb *table) eqAt(o *Oracle, g *gate, zeroBit, col int, s, t TermID) (int, error) {
	key := tableEqKey{col: col, pair: eqKey(s, t)}
	if lit, ok := tb.memo[key]; ok {
		return lit, nil
	}
	lit, err := termEqTerm(o, g, zeroBit, tb.columns[col][s], tb.columns[col][t])
	if err != nil {
		return 0, err
	}
	tb.memo[key] = lit
	return lit, nil
}

// vEntry is one functionality-triggered candidate rewrite discovered while
// building a derived column: vBit <-> (the arguments of two function
// equations with a common symbol unify at the previous column, and row's
// value there is strictly greater than other's). When vBit fires, the new
// column forces value(row) = value(other).
type vEntry struct {
	vBit  int
	row   TermID
	other TermID
}

// addDerivedColumn extends tb by one column (ccu.4.6's per-column clause
// families): non-representative carry, equivalence carry along domain
// disequalities still marked possible, functionality-triggered V-set
// updates, representative commitment, and symmetry-breaking among V-set
// entries that target the same row.
func addDerivedColumn(s *Solver, sp *subProblem, tb *table) error {
	p := s.problem
	o, g := s.oracle, s.gate
	zero := o.ZeroBit()

	prevIdx := tb.lastColumn()
	prevCol := tb.columns[prevIdx]
	newCol := make(map[TermID]bitVec, len(p.terms))
	for _, t := range p.terms {
		newCol[t] = allocBitVec(o, p.bits)
	}
	tb.columns = append(tb.columns, newCol)

	isRep := make(map[TermID]int, len(p.terms))
	for _, t := range p.terms {
		lit, err := termEqInt(o, g, prevCol[t], p.indexOf(t))
		if err != nil {
			return err
		}
		isRep[t] = lit
	}

	// Clause 1: non-representative carry. If t is not its own
	// representative at the previous column, its value does not change.
	for _, t := range p.terms {
		rep := isRep[t]
		prevBV, curBV := prevCol[t], newCol[t]
		for k := range prevBV {
			if _, err := o.AddClause([]int{rep, -prevBV[k], curBV[k]}); err != nil {
				return err
			}
			if _, err := o.AddClause([]int{rep, prevBV[k], -curBV[k]}); err != nil {
				return err
			}
		}
	}

	// Clause 2: equivalence carry. If t's previous value is exactly u (a
	// domain neighbour DQ still allows equal), t and u get the same new
	// value.
	for _, t := range p.terms {
		if s.timeoutChecker() {
			return ErrTimeout
		}
		for _, u := range sp.domains[t] {
			if u == t || !sp.dq.get(t, u) {
				continue
			}
			eqTU, err := termEqInt(o, g, prevCol[t], p.indexOf(u))
			if err != nil {
				return err
			}
			tBV, uBV := newCol[t], newCol[u]
			for k := range tBV {
				if _, err := o.AddClause([]int{-eqTU, -tBV[k], uBV[k]}); err != nil {
					return err
				}
				if _, err := o.AddClause([]int{-eqTU, tBV[k], -uBV[k]}); err != nil {
					return err
				}
			}
		}
	}

	// Clause 3: functionality-triggered V-set. Every pair of function
	// equations sharing a symbol and arity, whose arguments all still
	// unify under DQ, contributes one candidate rewrite per direction: the
	// result with the greater previous value collapses onto the other.
	var vset []vEntry
	for i := 0; i < len(sp.funEqs); i++ {
		for j := i + 1; j < len(sp.funEqs); j++ {
			if s.timeoutChecker() {
				return ErrTimeout
			}
			fe1, fe2 := sp.funEqs[i], sp.funEqs[j]
			if fe1.Symbol != fe2.Symbol || fe1.arity() != fe2.arity() {
				continue
			}
			if fe1.Result == fe2.Result {
				continue
			}
			unifiable := true
			for k := range fe1.Args {
				if !sp.dq.get(fe1.Args[k], fe2.Args[k]) {
					unifiable = false
					break
				}
			}
			if !unifiable {
				continue
			}

			var argBit int
			if len(fe1.Args) == 0 {
				argBit = o.OneBit()
			} else {
				argLits := make([]int, len(fe1.Args))
				for k := range fe1.Args {
					lit, err := tb.eqAt(o, g, zero, prevIdx, fe1.Args[k], fe2.Args[k])
					if err != nil {
						return err
					}
					argLits[k] = lit
				}
				argBit = o.Alloc(1)
				if err := g.and(argBit, argLits); err != nil {
					return err
				}
			}

			gt12, err := termGtTerm(o, g, zero, prevCol[fe1.Result], prevCol[fe2.Result])
			if err != nil {
				return err
			}
			v12 := o.Alloc(1)
			if err := g.and(v12, []int{argBit, gt12}); err != nil {
				return err
			}
			vset = append(vset, vEntry{vBit: v12, row: fe1.Result, other: fe2.Result})

			gt21, err := termGtTerm(o, g, zero, prevCol[fe2.Result], prevCol[fe1.Result])
			if err != nil {
				return err
			}
			v21 := o.Alloc(1)
			if err := g.and(v21, []int{argBit, gt21}); err != nil {
				return err
			}
			vset = append(vset, vEntry{vBit: v21, row: fe2.Result, other: fe1.Result})
		}
	}

	byRow := make(map[TermID][]vEntry)
	for _, e := range vset {
		byRow[e.row] = append(byRow[e.row], e)
	}

	// Symmetry-breaking: at most one V-set entry may fire for a given row,
	// so a canonical rewrite is chosen rather than leaving the SAT oracle
	// free to pick among equally valid ones.
	for _, entries := range byRow {
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				if _, err := o.AddClause([]int{-entries[i].vBit, -entries[j].vBit}); err != nil {
					return err
				}
			}
		}
	}

	// Clause 4: representative commitment. A previous representative t
	// either keeps its identity at the new column, or exactly the firing
	// V-set entry for its row rewrites it onto that entry's other term.
	for _, t := range p.terms {
		entries := byRow[t]
		var functionalityBit int
		if len(entries) == 0 {
			functionalityBit = o.ZeroBit()
		} else {
			lits := make([]int, len(entries))
			for i, e := range entries {
				lits[i] = e.vBit
			}
			functionalityBit = o.Alloc(1)
			if err := g.or(functionalityBit, lits); err != nil {
				return err
			}
		}
		identityBit, err := termEqInt(o, g, newCol[t], p.indexOf(t))
		if err != nil {
			return err
		}
		if _, err := o.AddClause([]int{-isRep[t], identityBit, functionalityBit}); err != nil {
			return err
		}
		for _, e := range entries {
			tBV, oBV := newCol[t], newCol[e.other]
			for k := range tBV {
				if _, err := o.AddClause([]int{-e.vBit, -tBV[k], oBV[k]}); err != nil {
					return err
				}
				if _, err := o.AddClause([]int{-e.vBit, tBV[k], -oBV[k]}); err != nil {
					return err
				}
			}
		}
	}

	vbits := make([]int, len(vset))
	for i, e := range vset {
		vbits[i] = e.vBit
	}
	tb.currentVBits = vbits
	return nil
}
