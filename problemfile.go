package ccu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseProblemFile parses the package's line-oriented problem format, in
// the same spirit as ParseDIMACS: comments ('c' lines), one directive per
// line, fields separated by whitespace.
//
//	terms <id> <id> ...            exactly one line, lists every term
//	subproblem                     opens a sub-problem block
//	  domain <term> <id> <id> ...  one line per term that needs one
//	  funeq <symbol> <arg>... -> <result>
//	  goal <term>=<term> ...       one line per disjunctive sub-goal; a bare
//	                               "goal" line (no pairs) is a trivially-true
//	                               sub-goal
//	end                            closes the sub-problem block
//
// Domains are optional per term; any term the block never mentions gets a
// domain of itself alone.
func ParseProblemFile(r io.Reader) ([]TermID, []SubProblemSpec, error) {
	var terms []TermID
	var specs []SubProblemSpec

	var cur *SubProblemSpec
	lineNo := 0

	s := bufio.NewScanner(r)
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "terms":
			if terms != nil {
				return nil, nil, fmt.Errorf("line %d: multiple terms lines", lineNo)
			}
			for _, f := range fields[1:] {
				id, err := strconv.Atoi(f)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: invalid term id %q: %w", lineNo, f, err)
				}
				terms = append(terms, TermID(id))
			}
		case "subproblem":
			if cur != nil {
				return nil, nil, fmt.Errorf("line %d: nested subproblem block", lineNo)
			}
			cur = &SubProblemSpec{Domains: make(map[TermID][]TermID)}
		case "end":
			if cur == nil {
				return nil, nil, fmt.Errorf("line %d: end without subproblem", lineNo)
			}
			for _, t := range terms {
				if _, ok := cur.Domains[t]; !ok {
					cur.Domains[t] = []TermID{t}
				}
			}
			specs = append(specs, *cur)
			cur = nil
		case "domain":
			if cur == nil {
				return nil, nil, fmt.Errorf("line %d: domain outside subproblem block", lineNo)
			}
			if len(fields) < 2 {
				return nil, nil, fmt.Errorf("line %d: malformed domain line", lineNo)
			}
			t, err := parseTermID(fields[1])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			dom := make([]TermID, 0, len(fields)-2)
			for _, f := range fields[2:] {
				d, err := parseTermID(f)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				dom = append(dom, d)
			}
			cur.Domains[t] = dom
		case "funeq":
			if cur == nil {
				return nil, nil, fmt.Errorf("line %d: funeq outside subproblem block", lineNo)
			}
			fe, err := parseFunEq(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur.FunEqs = append(cur.FunEqs, fe)
		case "goal":
			if cur == nil {
				return nil, nil, fmt.Errorf("line %d: goal outside subproblem block", lineNo)
			}
			sg, err := parseSubGoal(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur.Goal = append(cur.Goal, sg)
		default:
			return nil, nil, fmt.Errorf("line %d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := s.Err(); err != nil {
		return nil, nil, err
	}
	if cur != nil {
		return nil, nil, fmt.Errorf("unterminated subproblem block")
	}
	return terms, specs, nil
}

func parseTermID(f string) (TermID, error) {
	id, err := strconv.Atoi(f)
	if err != nil {
		return 0, fmt.Errorf("invalid term id %q: %w", f, err)
	}
	return TermID(id), nil
}

// parseFunEq parses "<symbol> <arg>... -> <result>".
func parseFunEq(fields []string) (FunEq, error) {
	arrow := -1
	for i, f := range fields {
		if f == "->" {
			arrow = i
			break
		}
	}
	if arrow < 0 || arrow == len(fields)-1 {
		return FunEq{}, fmt.Errorf("malformed funeq line (want \"symbol arg... -> result\")")
	}
	if arrow != len(fields)-2 {
		return FunEq{}, fmt.Errorf("malformed funeq line: exactly one result expected after ->")
	}
	symbol := fields[0]
	args := make([]TermID, 0, arrow-1)
	for _, f := range fields[1:arrow] {
		a, err := parseTermID(f)
		if err != nil {
			return FunEq{}, err
		}
		args = append(args, a)
	}
	result, err := parseTermID(fields[arrow+1])
	if err != nil {
		return FunEq{}, err
	}
	return FunEq{Symbol: symbol, Args: args, Result: result}, nil
}

// parseSubGoal parses a space-separated list of "s=t" pairs.
func parseSubGoal(fields []string) (SubGoal, error) {
	sg := make(SubGoal, 0, len(fields))
	for _, f := range fields {
		parts := strings.SplitN(f, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed goal pair %q (want s=t)", f)
		}
		s, err := parseTermID(parts[0])
		if err != nil {
			return nil, err
		}
		t, err := parseTermID(parts[1])
		if err != nil {
			return nil, err
		}
		sg = append(sg, Pair{S: s, T: t})
	}
	return sg, nil
}
