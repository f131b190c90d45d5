package automaton

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ParseDFA reads the plain-text DFA surface syntax described by this
// module's demo loader:
//
//	states: q0 q1 q2
//	initial: q0
//	accepting: q2
//	q0 -> q1 : on_a_b
//	q1 -> q2 : clear_c & !on_a_b
//	q1 -> q0 : true
//
// Blank lines and lines starting with `#` are ignored. The `states:`,
// `initial:` and `accepting:` header lines may appear in any order and
// anywhere among the edge lines. Every malformed line is collected and
// returned together as one aggregated error, the way a single pass over a
// domain file reports every undeclared predicate at once rather than
// stopping at the first. Structural validation (undeclared states) runs
// only when no line is malformed, and reports the first problem it finds.
func ParseDFA(text string) (*DFA, error) {
	d := &DFA{Accepting: map[string]bool{}}
	var errs *multierror.Error

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "states:"):
			d.States = strings.Fields(strings.TrimPrefix(line, "states:"))
		case strings.HasPrefix(line, "initial:"):
			fields := strings.Fields(strings.TrimPrefix(line, "initial:"))
			if len(fields) != 1 {
				errs = multierror.Append(errs, fmt.Errorf("line %d: initial: expects exactly one state", lineNo))
				continue
			}
			d.Initial = fields[0]
		case strings.HasPrefix(line, "accepting:"):
			for _, s := range strings.Fields(strings.TrimPrefix(line, "accepting:")) {
				d.Accepting[s] = true
			}
		case strings.Contains(line, "->"):
			t, err := parseEdgeLine(line)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
				continue
			}
			d.Transitions = append(d.Transitions, *t)
		default:
			errs = multierror.Append(errs, fmt.Errorf("line %d: unrecognised DFA line %q", lineNo, line))
		}
	}

	if errs.ErrorOrNil() != nil {
		return nil, errs
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// parseEdgeLine parses one "from -> to : guard" line.
func parseEdgeLine(line string) (*Transition, error) {
	arrowParts := strings.SplitN(line, "->", 2)
	if len(arrowParts) != 2 {
		return nil, fmt.Errorf("expected \"from -> to : guard\"")
	}
	from := strings.TrimSpace(arrowParts[0])

	rest := strings.SplitN(arrowParts[1], ":", 2)
	if len(rest) != 2 {
		return nil, fmt.Errorf("expected \"from -> to : guard\"")
	}
	to := strings.TrimSpace(rest[0])
	guardText := strings.TrimSpace(rest[1])

	if from == "" || to == "" {
		return nil, fmt.Errorf("edge endpoints must be non-empty")
	}
	if guardText == "" {
		return nil, fmt.Errorf("edge guard must be non-empty (use \"true\" for an unconditional edge)")
	}

	g, err := ParseGuard(guardText)
	if err != nil {
		return nil, err
	}
	return &Transition{From: from, To: to, Guard: g, GuardText: guardText}, nil
}
