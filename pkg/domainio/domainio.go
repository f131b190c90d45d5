// Package domainio loads the typed planning domain from a small, explicit
// plain-text surface syntax (types, predicates, actions with :parameters,
// :precondition, :effect-add, :effect-del and :inequality blocks) into a
// domain.Domain. It
// stands in for the externally-owned PDDL parser: a convenience loader for
// tests and the demo CLI, not a claim that this module parses PDDL.
package domainio

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/unify"
)

// Surface syntax, line-oriented:
//
//	type block
//	type physob
//
//	predicate on(block, block)
//	predicate clear(block)
//	predicate holding(block)
//	predicate ontable(block)
//	predicate handempty()
//
//	action pick-up
//	  :parameters (?x - block)
//	  :precondition (clear(?x), ontable(?x), handempty())
//	  :effect-add (holding(?x))
//	  :effect-del (ontable(?x), clear(?x), handempty())
//	end
//
//	action stack
//	  :parameters (?x - block, ?y - block)
//	  :precondition (holding(?x), clear(?y))
//	  :effect-add (on(?x, ?y), clear(?x), handempty())
//	  :effect-del (holding(?x), clear(?y))
//	  :inequality (?x, ?y)
//	end
//
// Blank lines and lines starting with `#` are ignored. Each `action` block
// runs until a line that is exactly `end`.

// Parse reads text in the surface syntax above and returns the assembled
// domain.Domain. Every structural defect found across the whole pass
// (unknown types, malformed blocks, and the validation errors domain.Domain
// itself raises when an action is added) is aggregated into one error.
func Parse(text string) (*domain.Domain, error) {
	dom := domain.New()
	var errs *multierror.Error

	lines := splitLines(text)
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i].text)
		switch {
		case line == "":
			i++
		case strings.HasPrefix(line, "type "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "type "))
			if err := dom.AddType(name); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("line %d: %w", lines[i].no, err))
			}
			i++
		case strings.HasPrefix(line, "predicate "):
			pred, err := parsePredicateLine(strings.TrimPrefix(line, "predicate "))
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("line %d: %w", lines[i].no, err))
				i++
				continue
			}
			if err := dom.AddPredicate(pred); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("line %d: %w", lines[i].no, err))
			}
			i++
		case strings.HasPrefix(line, "action "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "action "))
			end, block := collectBlock(lines, i+1)
			schema, err := parseActionBlock(name, block)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("action %s: %w", name, err))
			} else if err := dom.AddAction(schema); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("action %s: %w", name, err))
			}
			i = end + 1
		default:
			errs = multierror.Append(errs, fmt.Errorf("line %d: unrecognised domain line %q", lines[i].no, line))
			i++
		}
	}

	if errs.ErrorOrNil() != nil {
		return nil, errs
	}
	return dom, nil
}

type numberedLine struct {
	no   int
	text string
}

func splitLines(text string) []numberedLine {
	var out []numberedLine
	scanner := bufio.NewScanner(strings.NewReader(text))
	n := 0
	for scanner.Scan() {
		n++
		t := scanner.Text()
		trimmed := strings.TrimSpace(t)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, numberedLine{no: n, text: t})
	}
	return out
}

// collectBlock returns the index of the "end" line and the lines between
// start and it (exclusive).
func collectBlock(lines []numberedLine, start int) (int, []numberedLine) {
	for j := start; j < len(lines); j++ {
		if strings.TrimSpace(lines[j].text) == "end" {
			return j, lines[start:j]
		}
	}
	return len(lines) - 1, lines[start:]
}

func parsePredicateLine(rest string) (*domain.Predicate, error) {
	open := strings.IndexByte(rest, '(')
	if open == -1 || !strings.HasSuffix(strings.TrimSpace(rest), ")") {
		return nil, fmt.Errorf("expected \"name(type, ...)\", got %q", rest)
	}
	name := strings.TrimSpace(rest[:open])
	inner := strings.TrimSpace(rest[open+1:])
	inner = strings.TrimSuffix(inner, ")")

	var types []string
	if strings.TrimSpace(inner) != "" {
		for _, t := range strings.Split(inner, ",") {
			types = append(types, strings.TrimSpace(t))
		}
	}
	return &domain.Predicate{Name: name, ArgTypes: types}, nil
}

func parseActionBlock(name string, lines []numberedLine) (*domain.ActionSchema, error) {
	schema := &domain.ActionSchema{Name: name}
	paramTypes := map[string]string{}

	for _, l := range lines {
		line := strings.TrimSpace(l.text)
		switch {
		case strings.HasPrefix(line, ":parameters"):
			params, err := parseParameters(stripDirective(line, ":parameters"))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", l.no, err)
			}
			schema.Parameters = params
			for _, p := range params {
				paramTypes[p.Name] = p.Typ
			}
		case strings.HasPrefix(line, ":precondition"):
			lits, err := parseLiteralList(stripDirective(line, ":precondition"), paramTypes)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", l.no, err)
			}
			schema.Precondition = lits
		case strings.HasPrefix(line, ":effect-add"):
			lits, err := parseLiteralList(stripDirective(line, ":effect-add"), paramTypes)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", l.no, err)
			}
			schema.Effect.Add = lits
		case strings.HasPrefix(line, ":effect-del"):
			lits, err := parseLiteralList(stripDirective(line, ":effect-del"), paramTypes)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", l.no, err)
			}
			schema.Effect.Del = lits
		case strings.HasPrefix(line, ":inequality"):
			ineq, err := parseInequalities(stripDirective(line, ":inequality"), paramTypes)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", l.no, err)
			}
			schema.Inequalities = append(schema.Inequalities, ineq...)
		default:
			return nil, fmt.Errorf("line %d: unrecognised action directive %q", l.no, line)
		}
	}
	return schema, nil
}

func stripDirective(line, directive string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, directive))
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")
	return strings.TrimSpace(rest)
}

// parseParameters parses "?x - block, ?y - block".
func parseParameters(text string) ([]*unify.Variable, error) {
	if text == "" {
		return nil, nil
	}
	var params []*unify.Variable
	for _, p := range strings.Split(text, ",") {
		fields := strings.Fields(p)
		switch len(fields) {
		case 1:
			params = append(params, unify.NewVariable(fields[0], ""))
		case 3:
			if fields[1] != "-" {
				return nil, fmt.Errorf("expected \"?name - type\", got %q", p)
			}
			params = append(params, unify.NewVariable(fields[0], fields[2]))
		default:
			return nil, fmt.Errorf("expected \"?name\" or \"?name - type\", got %q", p)
		}
	}
	return params, nil
}

// parseLiteralList parses a comma-separated list of "pred(args)" or
// "not pred(args)" terms, where each arg is either a parameter variable
// (looked up in paramTypes for its type) or a bare constant name.
func parseLiteralList(text string, paramTypes map[string]string) ([]*unify.Literal, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts, err := splitTopLevelCommas(text)
	if err != nil {
		return nil, err
	}
	lits := make([]*unify.Literal, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		sign := unify.Positive
		if strings.HasPrefix(p, "not ") {
			sign = unify.Negative
			p = strings.TrimSpace(strings.TrimPrefix(p, "not "))
		}
		lit, err := parseLiteralTerm(p, sign, paramTypes)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}
	return lits, nil
}

func parseLiteralTerm(text string, sign unify.Polarity, paramTypes map[string]string) (*unify.Literal, error) {
	open := strings.IndexByte(text, '(')
	if open == -1 || !strings.HasSuffix(text, ")") {
		return nil, fmt.Errorf("expected \"predicate(args)\", got %q", text)
	}
	predicate := strings.TrimSpace(text[:open])
	inner := strings.TrimSpace(text[open+1 : len(text)-1])

	var args []unify.Term
	if inner != "" {
		for _, a := range strings.Split(inner, ",") {
			a = strings.TrimSpace(a)
			args = append(args, argTerm(a, paramTypes))
		}
	}
	return unify.NewLiteral(predicate, sign, args...), nil
}

func argTerm(a string, paramTypes map[string]string) unify.Term {
	if strings.HasPrefix(a, "?") {
		return unify.NewVariable(a, paramTypes[a])
	}
	return unify.NewConstant(a, "")
}

// parseInequalities parses "?x, ?y" pairs, one pair per directive line.
func parseInequalities(text string, paramTypes map[string]string) ([]*unify.InequalityConstraint, error) {
	fields := strings.Split(text, ",")
	if len(fields) != 2 {
		return nil, fmt.Errorf("expected exactly two parameters, got %q", text)
	}
	left := strings.TrimSpace(fields[0])
	right := strings.TrimSpace(fields[1])
	if _, ok := paramTypes[left]; !ok {
		return nil, fmt.Errorf("%q is not a declared parameter", left)
	}
	if _, ok := paramTypes[right]; !ok {
		return nil, fmt.Errorf("%q is not a declared parameter", right)
	}
	return []*unify.InequalityConstraint{{
		Left:  unify.NewVariable(left, paramTypes[left]),
		Right: unify.NewVariable(right, paramTypes[right]),
	}}, nil
}

// splitTopLevelCommas splits on commas that are not inside parentheses, so
// "on(?x, ?y), clear(?x)" splits into two literal terms, not four.
func splitTopLevelCommas(text string) ([]string, error) {
	var out []string
	depth := 0
	start := 0
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", text)
			}
		case ',':
			if depth == 0 {
				out = append(out, text[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", text)
	}
	out = append(out, text[start:])
	return out, nil
}
