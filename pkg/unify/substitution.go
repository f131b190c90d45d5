package unify

// Substitution is an immutable, idempotent partial map from variable name
// to term. Bind returns a new Substitution; the receiver is never mutated.
// Substitutions built by the unifier are acyclic by construction: binding a
// variable always walks the bound-to term fully first, and a variable is
// never bound to itself.
type Substitution struct {
	bindings map[string]Term
}

// NewSubstitution returns the empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[string]Term{}}
}

// Lookup returns the term directly bound to v, if any. It does not walk
// transitively; use Walk for that.
func (s *Substitution) Lookup(v *Variable) (Term, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.bindings[v.Name]
	return t, ok
}

// Walk resolves t through the substitution's binding chain until it reaches
// a constant or an unbound variable. Types are not consulted. Walk never
// mutates s.
func (s *Substitution) Walk(t Term) Term {
	if s == nil {
		return t
	}
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		bound, ok := s.bindings[v.Name]
		if !ok {
			return t
		}
		t = bound
	}
}

// Bind returns a new Substitution with v bound to t (walked through s).
// Binding v to itself (directly or, after walking, transitively) adds no
// binding and returns s unchanged with true, which keeps the substitution
// acyclic. Bind always reports true.
func (s *Substitution) Bind(v *Variable, t Term) (*Substitution, bool) {
	walked := s.Walk(t)
	if wv, ok := walked.(*Variable); ok && wv.Name == v.Name {
		// v == v after substitution: a no-op binding, not a cycle. Accept
		// without adding a binding.
		return s, true
	}
	cp := make(map[string]Term, len(s.bindings)+1)
	for k, val := range s.bindings {
		cp[k] = val
	}
	cp[v.Name] = walked
	return &Substitution{bindings: cp}, true
}

// Merge composes other on top of s: each binding in other is added via
// s.Bind so it is still walked through s.
// Merge fails if any binding in other conflicts irreconcilably, i.e. binds
// the same variable as s to a structurally different term.
func (s *Substitution) Merge(other *Substitution) (*Substitution, bool) {
	if other == nil {
		return s, true
	}
	result := s
	for name, term := range other.bindings {
		v := &Variable{Name: name}
		if existing, ok := result.Lookup(v); ok && !SameTerm(result.Walk(existing), result.Walk(term)) {
			return nil, false
		}
		var ok bool
		result, ok = result.Bind(v, term)
		if !ok {
			return nil, false
		}
	}
	return result, true
}

// Apply substitutes every argument of l through s.
func Apply(s *Substitution, l *Literal) *Literal {
	args := make([]Term, len(l.Args))
	for i, a := range l.Args {
		args[i] = s.Walk(a)
	}
	return NewLiteral(l.Predicate, l.Sign, args...)
}

// ApplyAll substitutes every literal in lits through s, returning a new
// slice (lits itself is never mutated).
func ApplyAll(s *Substitution, lits []*Literal) []*Literal {
	out := make([]*Literal, len(lits))
	for i, l := range lits {
		out[i] = Apply(s, l)
	}
	return out
}
