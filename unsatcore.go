package ccu

// extractUnsatCore implements ccu.4.7's incremental sub-problem activation
// search: starting from sub-problem 0 alone, it grows the active set one
// index at a time (in input order), running the table solver — regardless
// of which strategy originally produced the UNSAT result — restricted to
// whatever is currently active. The first prefix the table solver reports
// UNSAT for is returned as the core; the original activation state is
// restored before returning.
func extractUnsatCore(s *Solver, timeoutMs int) ([]int, error) {
	p := s.problem
	n := len(p.subs)
	if n == 0 {
		return nil, ErrCoreExhausted
	}

	origActive := make([]bool, n)
	for i, sp := range p.subs {
		origActive[i] = sp.active
	}
	restore := func() {
		for i := 0; i < n; i++ {
			if origActive[i] {
				s.ActivateProblem(i)
			} else {
				s.DeactivateProblem(i)
			}
		}
	}

	origBudget := s.satBudgetMs
	s.satBudgetMs = timeoutMs
	s.oracle.SetTimeoutMs(timeoutMs)
	defer func() {
		s.satBudgetMs = origBudget
		s.oracle.SetTimeoutMs(origBudget)
	}()

	for i := 0; i < n; i++ {
		if err := s.DeactivateProblem(i); err != nil {
			restore()
			return nil, err
		}
	}
	if err := s.ActivateProblem(0); err != nil {
		restore()
		return nil, err
	}

	core := []int{0}
	for {
		if s.timeoutChecker() {
			restore()
			full := make([]int, n)
			for i := range full {
				full[i] = i
			}
			return full, nil
		}
		res, err := s.table.solve()
		if err != nil {
			restore()
			return nil, err
		}
		if res == UNSAT {
			restore()
			return core, nil
		}
		next := len(core)
		if next >= n {
			restore()
			return nil, ErrCoreExhausted
		}
		if err := s.ActivateProblem(next); err != nil {
			restore()
			return nil, err
		}
		core = append(core, next)
	}
}
