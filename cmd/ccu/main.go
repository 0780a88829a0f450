// Command ccu solves congruence-closure unification problems and, for
// diagnosing the underlying SAT oracle directly, raw DIMACS CNF formulas.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amandasystems/ccu"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "ccu",
		Short: "Congruence-closure unification with finite domains",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	root.AddCommand(newSolveCmd(), newSatCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	var (
		strategyName string
		timeoutMs    int
		satBudgetMs  int
		wantCore     bool
	)
	cmd := &cobra.Command{
		Use:   "solve [problem-file]",
		Short: "Solve a congruence-closure unification problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			terms, specs, err := ccu.ParseProblemFile(r)
			if err != nil {
				return fmt.Errorf("parsing problem file: %w", err)
			}

			strategy, err := parseStrategy(strategyName)
			if err != nil {
				return err
			}

			deadline := time.Time{}
			if timeoutMs > 0 {
				deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
			}
			checker := func() bool {
				return !deadline.IsZero() && time.Now().After(deadline)
			}

			log.WithFields(logrus.Fields{
				"strategy":     strategy,
				"sub_problems": len(specs),
				"terms":        len(terms),
			}).Debug("starting solve")

			s := ccu.NewSolver(strategy, checker, satBudgetMs)
			if err := s.CreateProblem(terms, specs); err != nil {
				return fmt.Errorf("creating problem: %w", err)
			}
			result, err := s.Solve()
			if err != nil {
				return fmt.Errorf("solving: %w", err)
			}

			fmt.Println(result)
			switch result {
			case ccu.SAT:
				model, err := s.Model()
				if err != nil {
					return err
				}
				printModel(model, terms)
			case ccu.UNSAT:
				if wantCore {
					core, err := s.UnsatCore(timeoutMs)
					if err != nil {
						return fmt.Errorf("extracting unsat core: %w", err)
					}
					fmt.Println(formatCore(core))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&strategyName, "strategy", "lazy", "solving strategy: lazy or table")
	cmd.Flags().IntVar(&timeoutMs, "timeout-ms", 0, "wall-clock budget in milliseconds (0 disables)")
	cmd.Flags().IntVar(&satBudgetMs, "sat-budget-ms", 0, "per-oracle-call budget in milliseconds (0 disables)")
	cmd.Flags().BoolVar(&wantCore, "core", false, "on UNSAT, also extract and print an unsat core (the shortest UNSAT prefix of sub-problems)")
	return cmd
}

func newSatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sat [input.cnf]",
		Short: "Solve a raw DIMACS CNF formula with the package's SAT oracle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			clauses, err := ccu.ParseDIMACS(r)
			if err != nil {
				return fmt.Errorf("reading DIMACS input: %w", err)
			}

			o := ccu.NewOracle()
			maxVar := 0
			for _, cls := range clauses {
				for _, lit := range cls {
					v := lit
					if v < 0 {
						v = -v
					}
					if v > maxVar {
						maxVar = v
					}
				}
			}
			// DIMACS variable numbers start at 1, but the oracle has
			// already reserved its own low ids for OneBit/ZeroBit; remap
			// every DIMACS variable onto a fresh contiguous block rather
			// than colliding with those reserved ids.
			base := 0
			if maxVar > 0 {
				base = o.Alloc(maxVar)
			}
			remap := func(lit int) int {
				if lit < 0 {
					return -(base + (-lit) - 1)
				}
				return base + lit - 1
			}
			for _, cls := range clauses {
				if len(cls) == 0 {
					fmt.Println("UNSAT")
					return nil
				}
				remapped := make([]int, len(cls))
				for i, lit := range cls {
					remapped[i] = remap(lit)
				}
				if _, err := o.AddClause(remapped); err != nil {
					fmt.Println("UNSAT")
					return nil
				}
			}
			ok, err := o.IsSatisfiable()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("UNSAT")
				return nil
			}
			fmt.Println("SAT")
			vals := make([]string, maxVar)
			for v := 1; v <= maxVar; v++ {
				sign := ""
				if !o.Model(remap(v)) {
					sign = "-"
				}
				vals[v-1] = fmt.Sprintf("%s%d", sign, v)
			}
			fmt.Println(vals)
			return nil
		},
	}
	return cmd
}

func parseStrategy(name string) (ccu.Strategy, error) {
	switch name {
	case "lazy":
		return ccu.Lazy, nil
	case "table":
		return ccu.Table, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want lazy or table)", name)
	}
}

func printModel(model map[ccu.TermID]ccu.TermID, terms []ccu.TermID) {
	sorted := append([]ccu.TermID(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, t := range sorted {
		fmt.Printf("%d = %d\n", t, model[t])
	}
}

func formatCore(core []int) string {
	out := "core:"
	for _, i := range core {
		out += fmt.Sprintf(" %d", i)
	}
	return out
}
