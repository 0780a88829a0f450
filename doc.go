// Package ccu implements a decision procedure for simultaneous
// congruence-closure unification with finite domains (CCU).
//
// A CCU problem is a finite family of independent sub-problems sharing a
// common set of term variables. Each sub-problem supplies a finite domain
// for every term, a set of ground function-equations f(a1,...,an) = r, and
// a disjunctive goal: a set of conjunctive sub-goals, each a list of
// equality pairs between terms. A problem is SAT iff there exists an
// assignment of every term to a value in its domain such that, under the
// congruence closure induced by the function-equations of every
// sub-problem, at least one sub-goal in every sub-problem holds.
//
// Two solving strategies are provided as variants of one abstract engine:
// a lazy CEGAR solver (package-internal type lazySolver) that guesses a
// total assignment and refines it with blocking clauses, and a table
// solver (tableSolver) that encodes a bounded unfolding of the
// congruence-closure derivation directly into SAT and grows it until the
// derivation saturates.
//
// The package owns a thin SAT oracle (see oracle.go), backed by gini, that
// implements the incremental add-clause / remove-clause / is-satisfiable
// contract the solvers are written against; any CDCL engine exposing that
// contract could be substituted behind the same Oracle type.
package ccu
