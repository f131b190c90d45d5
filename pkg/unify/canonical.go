package unify

import (
	"sort"
	"strings"
)

// Canonical is the result of canonicalising a set of literals: the
// renamed, sorted literal list, the forward renaming (original variable
// name -> canonical name) and its inverse (canonical name -> original
// name), so a graph built on the canonical form can be translated back to
// the caller's original variable names.
type Canonical struct {
	Literals []*Literal
	Forward  map[string]string
	Inverse  map[string]string
	// Key is a stable string identity for the canonical literal set,
	// suitable for use as a cache key.
	Key string
}

// Canonicalise renames variables to ?v_0, ?v_1, ... in first-appearance
// order and sorts literals by (predicate name ascending, polarity with
// positive first, then argument list with constants ordered before
// variables and, among variables, by first-appearance order under this
// same sort). Two abstract states are equal iff their canonical forms are
// structurally equal, which Key captures.
//
// Canonicalise is idempotent: calling it again on an already-canonical
// literal set reproduces the identical literal set, because the sort key
// below never references variable identity beyond "is it a variable"
// (constants sort by name; variables of the same type are left in their
// relative input order by the stable sort, which for an already-canonical
// input is already first-appearance order) and because renaming an
// already ?v_0, ?v_1, ... sequence in first-appearance order is the
// identity renaming.
func Canonicalise(lits []*Literal) Canonical {
	ordered := make([]*Literal, len(lits))
	copy(ordered, lits)

	sort.SliceStable(ordered, func(i, j int) bool {
		return sortKey(ordered[i]) < sortKey(ordered[j])
	})

	forward := map[string]string{}
	inverse := map[string]string{}
	next := 0

	renamed := make([]*Literal, len(ordered))
	for i, l := range ordered {
		args := make([]Term, len(l.Args))
		for j, a := range l.Args {
			v, ok := a.(*Variable)
			if !ok {
				args[j] = a
				continue
			}
			name, seen := forward[v.Name]
			if !seen {
				name = canonicalVarName(next)
				next++
				forward[v.Name] = name
				inverse[name] = v.Name
			}
			args[j] = NewVariable(name, v.Typ)
		}
		renamed[i] = NewLiteral(l.Predicate, l.Sign, args...)
	}

	keyParts := make([]string, len(renamed))
	for i, l := range renamed {
		keyParts[i] = l.String()
	}

	return Canonical{
		Literals: renamed,
		Forward:  forward,
		Inverse:  inverse,
		Key:      strings.Join(keyParts, " & "),
	}
}

func canonicalVarName(i int) string {
	return "?v_" + itoa(i)
}

// itoa avoids importing strconv solely for this tiny conversion path; kept
// local because canonicalisation runs in the hot loop of the goal-graph
// constructor and this sidesteps an allocation-heavy fmt.Sprintf call.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

// sortKey builds a deterministic, variable-identity-free ordering key for
// a literal: predicate name, then polarity (positive first), then for each
// argument a tag that places constants (ordered by name) before variables,
// with all variables of a given position tying (ties are broken by the
// caller's stable sort, preserving relative input order).
func sortKey(l *Literal) string {
	var b strings.Builder
	b.WriteString(l.Predicate)
	b.WriteByte('\x00')
	if l.Sign == Positive {
		b.WriteByte('0')
	} else {
		b.WriteByte('1')
	}
	for _, a := range l.Args {
		b.WriteByte('\x00')
		if c, ok := a.(*Constant); ok {
			b.WriteByte('0')
			b.WriteString(c.Name)
		} else {
			b.WriteByte('1')
		}
	}
	return b.String()
}
