package automaton

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/arclane/ltlfplan/pkg/unify"
)

// GroundAtom is the (predicate, constant tuple) a DFA atom identifier
// names.
type GroundAtom struct {
	Predicate string
	Constants []string
}

// GroundingMap is the bijection between DFA atom identifiers and ground
// atoms. Both directions are injective: two distinct atom names never map
// to the same (predicate, constants) pair, and vice versa.
type GroundingMap struct {
	byName map[string]GroundAtom
	byAtom map[string]string
}

// NewGroundingMap returns an empty GroundingMap.
func NewGroundingMap() *GroundingMap {
	return &GroundingMap{byName: map[string]GroundAtom{}, byAtom: map[string]string{}}
}

func atomKey(g GroundAtom) string {
	return g.Predicate + "(" + strings.Join(g.Constants, ",") + ")"
}

// Add registers name -> atom. It fails if name is already bound to a
// different atom, or if atom is already bound to a different name — either
// would break the bijection's injectivity.
func (m *GroundingMap) Add(name string, atom GroundAtom) error {
	if existing, ok := m.byName[name]; ok && atomKey(existing) != atomKey(atom) {
		return fmt.Errorf("automaton: atom name %q already maps to %s, cannot also map to %s", name, atomKey(existing), atomKey(atom))
	}
	key := atomKey(atom)
	if existingName, ok := m.byAtom[key]; ok && existingName != name {
		return fmt.Errorf("automaton: ground atom %s already named %q, cannot also be named %q", key, existingName, name)
	}
	m.byName[name] = atom
	m.byAtom[key] = name
	return nil
}

// Lookup resolves an atom name to its ground atom. GroundingMapMissing is
// returned if name has no entry.
func (m *GroundingMap) Lookup(name string) (GroundAtom, error) {
	atom, ok := m.byName[name]
	if !ok {
		return GroundAtom{}, &GroundingMapMissing{Atom: name}
	}
	return atom, nil
}

// GroundingMapMissing reports a DFA atom with no grounding-map entry.
type GroundingMapMissing struct {
	Atom string
}

func (e *GroundingMapMissing) Error() string {
	return fmt.Sprintf("automaton: DFA atom %q has no grounding-map entry", e.Atom)
}

// Literal builds the lifted-but-ground literal this atom denotes, with the
// given sign.
func (g GroundAtom) Literal(sign unify.Polarity) *unify.Literal {
	args := make([]unify.Term, len(g.Constants))
	for i, c := range g.Constants {
		args[i] = unify.NewConstant(c, "")
	}
	return unify.NewLiteral(g.Predicate, sign, args...)
}

// ParseGroundingMap reads the plain-text grounding-map surface syntax:
//
//	on_a_b = on(a, b)
//	clear_c = clear(c)
//	handempty_atom = handempty()
//
// Blank lines and lines starting with `#` are ignored. Every malformed
// line is collected and reported together as one aggregated error.
func ParseGroundingMap(text string) (*GroundingMap, error) {
	m := NewGroundingMap()
	var errs *multierror.Error

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			errs = multierror.Append(errs, fmt.Errorf("line %d: expected \"atom_name = predicate(const, ...)\"", lineNo))
			continue
		}
		name := strings.TrimSpace(parts[0])
		atom, err := parseGroundAtom(strings.TrimSpace(parts[1]))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		if err := m.Add(name, *atom); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
		}
	}

	if errs.ErrorOrNil() != nil {
		return nil, errs
	}
	return m, nil
}

func parseGroundAtom(text string) (*GroundAtom, error) {
	open := strings.IndexByte(text, '(')
	if open == -1 || !strings.HasSuffix(text, ")") {
		return nil, fmt.Errorf("expected \"predicate(const, ...)\", got %q", text)
	}
	predicate := strings.TrimSpace(text[:open])
	if predicate == "" {
		return nil, fmt.Errorf("missing predicate name in %q", text)
	}
	inner := strings.TrimSpace(text[open+1 : len(text)-1])

	var constants []string
	if inner != "" {
		for _, c := range strings.Split(inner, ",") {
			c = strings.TrimSpace(c)
			if c == "" {
				return nil, fmt.Errorf("empty constant in %q", text)
			}
			constants = append(constants, c)
		}
	}
	return &GroundAtom{Predicate: predicate, Constants: constants}, nil
}
