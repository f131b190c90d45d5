// Package unify provides the literal algebra and unifier that the rest of
// the planner is built on: lifted literals over typed terms, a
// most-general-unifier, and a canonicalisation routine that makes two
// structurally equivalent abstract states syntactically identical.
//
// Terms are deliberately flat: a term is either a free Variable or a typed
// Constant. The domain this planner targets (STRIPS-style action schemas)
// never needs compound terms, so the unifier has no occurs-check beyond
// detecting a variable bound to itself through a chain of bindings.
package unify

import "fmt"

// Term is either a Variable or a Constant.
type Term interface {
	fmt.Stringer
	isTerm()
	// Type returns the term's declared type name, or "" if untyped.
	Type() string
}

// Variable is a free variable. Two variables are the same variable iff
// their names are equal; names are assigned deterministically by schema
// parameter order or by canonicalisation, never randomly.
type Variable struct {
	Name string
	Typ  string
}

// NewVariable constructs a variable with the given name and type.
func NewVariable(name, typ string) *Variable { return &Variable{Name: name, Typ: typ} }

func (*Variable) isTerm()          {}
func (v *Variable) String() string { return v.Name }
func (v *Variable) Type() string   { return v.Typ }

// Constant is a typed world object or atomic value.
type Constant struct {
	Name string
	Typ  string
}

// NewConstant constructs a constant with the given name and type.
func NewConstant(name, typ string) *Constant { return &Constant{Name: name, Typ: typ} }

func (*Constant) isTerm()          {}
func (c *Constant) String() string { return c.Name }
func (c *Constant) Type() string   { return c.Typ }

// IsVariable reports whether t is a Variable.
func IsVariable(t Term) bool { _, ok := t.(*Variable); return ok }

// IsConstant reports whether t is a Constant.
func IsConstant(t Term) bool { _, ok := t.(*Constant); return ok }

// SameTerm reports whether a and b denote the identical term: the same
// constant name, or the same variable name. It does not consult any
// substitution; callers that need to compare walked terms must walk first.
func SameTerm(a, b Term) bool {
	switch av := a.(type) {
	case *Constant:
		bv, ok := b.(*Constant)
		return ok && av.Name == bv.Name
	case *Variable:
		bv, ok := b.(*Variable)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}
