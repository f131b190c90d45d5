package unify

import (
	"fmt"
	"strings"
)

// Polarity is the sign of a Literal.
type Polarity bool

// Positive and Negative are the two polarities a Literal can carry.
const (
	Positive Polarity = true
	Negative Polarity = false
)

// String renders the polarity as used in literal text output ("" or "not ").
func (p Polarity) String() string {
	if p == Positive {
		return ""
	}
	return "not "
}

// Literal is a predicate applied to an ordered list of terms, with a sign.
// Literals are immutable; equality is structural modulo variable identity
// (two literals are Equal iff predicate, polarity, arity and each argument,
// compared by name, match).
type Literal struct {
	Predicate string
	Args      []Term
	Sign      Polarity
}

// NewLiteral constructs a literal. Args are stored in the given order.
func NewLiteral(predicate string, sign Polarity, args ...Term) *Literal {
	cp := make([]Term, len(args))
	copy(cp, args)
	return &Literal{Predicate: predicate, Args: cp, Sign: sign}
}

// Arity returns the number of arguments.
func (l *Literal) Arity() int { return len(l.Args) }

// Negate returns a literal identical to l but with the opposite sign.
func (l *Literal) Negate() *Literal {
	return NewLiteral(l.Predicate, !l.Sign, l.Args...)
}

// Clone returns a deep copy of l.
func (l *Literal) Clone() *Literal {
	return NewLiteral(l.Predicate, l.Sign, l.Args...)
}

// String renders the literal, e.g. "on(a, b)" or "not clear(x)".
func (l *Literal) String() string {
	parts := make([]string, len(l.Args))
	for i, a := range l.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s%s(%s)", l.Sign.String(), l.Predicate, strings.Join(parts, ", "))
}

// Equal reports structural equality: same predicate, sign, arity, and each
// argument pair denotes the same term (by name).
func (l *Literal) Equal(other *Literal) bool {
	if other == nil || l.Predicate != other.Predicate || l.Sign != other.Sign || len(l.Args) != len(other.Args) {
		return false
	}
	for i := range l.Args {
		if !SameTerm(l.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// InequalityConstraint asserts that two parameter variables must be bound
// to distinct terms.
type InequalityConstraint struct {
	Left, Right *Variable
}

// String renders the constraint, e.g. "x != y".
func (c *InequalityConstraint) String() string {
	return fmt.Sprintf("%s != %s", c.Left.Name, c.Right.Name)
}

// Apply substitutes the constraint's variables under sub. If, after
// substitution, both sides resolve to the identical term, the constraint is
// reduced to an equality between identical terms (always false);
// reducedToIdentity reports this so callers (the regression engine) know to reject the
// candidate.
func (c *InequalityConstraint) Apply(sub *Substitution) (left, right Term, reducedToIdentity bool) {
	left = sub.Walk(c.Left)
	right = sub.Walk(c.Right)
	return left, right, SameTerm(left, right)
}
