package ccu

import "errors"

// Sentinel errors for the "unsupported input" and "invariant violation"
// error kinds described by the error handling design: rejected eagerly at
// createProblem, or returned as fatal programmer errors from the solve
// entry points.
var (
	// ErrEmptyTerms is returned when a problem is created with no terms.
	ErrEmptyTerms = errors.New("ccu: problem has no terms")

	// ErrNegativeTermID is returned when a term id is negative.
	ErrNegativeTermID = errors.New("ccu: negative term id")

	// ErrDomainOutOfRange is returned when a domain references a term id
	// outside the problem's declared terms.
	ErrDomainOutOfRange = errors.New("ccu: domain references unknown term")

	// ErrNotSelfMember is returned when a term's domain does not contain
	// the term itself, violating the representative-case invariant.
	ErrNotSelfMember = errors.New("ccu: term missing from its own domain")

	// ErrNoProblem is returned when Solve, Model, or UnsatCore is called
	// before a problem has been installed with CreateProblem.
	ErrNoProblem = errors.New("ccu: no problem installed")

	// ErrAlreadySolved is returned by Solve when called a second time on
	// the same installed problem; use SolveAgain instead.
	ErrAlreadySolved = errors.New("ccu: problem already solved; use SolveAgain")

	// ErrModelNotReady is returned by Model when the cached result is not
	// SAT.
	ErrModelNotReady = errors.New("ccu: no model available (result is not SAT)")

	// ErrCoreNotReady is returned by UnsatCore when the cached result is
	// not UNSAT.
	ErrCoreNotReady = errors.New("ccu: no unsat core available (result is not UNSAT)")

	// ErrTableAlreadyExists is an invariant violation: a table was
	// instantiated a second time for the same sub-problem.
	ErrTableAlreadyExists = errors.New("ccu: table already instantiated for sub-problem")

	// ErrCoreExhausted is the fatal logic error raised when incremental
	// unsat-core extraction activates every sub-problem and still finds
	// SAT, contradicting the original UNSAT result.
	ErrCoreExhausted = errors.New("ccu: unsat-core extraction exhausted all sub-problems without reproducing UNSAT")

	// ErrTimeout is returned by the solve loops when a TimeoutChecker
	// signals an abort, and by the SAT oracle when its per-call budget
	// expires.
	ErrTimeout = errors.New("ccu: timed out")

	// ErrOracleContradiction is returned when adding a clause to the SAT
	// oracle is synchronously found to be a (trivial) contradiction, e.g.
	// the empty clause.
	ErrOracleContradiction = errors.New("ccu: oracle clause addition is contradictory")
)
