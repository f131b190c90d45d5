package unify

// MGU computes the most-general-unifier of two literals. It fails
// (returns nil, false) if the literals' predicate names, polarities or
// arities differ, or if any argument pair fails to unify: two distinct
// constants, or a type mismatch between a variable and the term it would
// be bound to.
func MGU(l, m *Literal) (*Substitution, bool) {
	if l.Predicate != m.Predicate || l.Sign != m.Sign || len(l.Args) != len(m.Args) {
		return nil, false
	}
	sub := NewSubstitution()
	for i := range l.Args {
		var ok bool
		sub, ok = unifyTerm(sub, l.Args[i], m.Args[i])
		if !ok {
			return nil, false
		}
	}
	return sub, true
}

// unifyTerm unifies a and b under sub, returning an extended substitution.
func unifyTerm(sub *Substitution, a, b Term) (*Substitution, bool) {
	a = sub.Walk(a)
	b = sub.Walk(b)

	if SameTerm(a, b) {
		return sub, true
	}

	av, aIsVar := a.(*Variable)
	bv, bIsVar := b.(*Variable)

	switch {
	case aIsVar && bIsVar:
		if !typesCompatible(av.Typ, bv.Typ) {
			return nil, false
		}
		return sub.Bind(av, b)
	case aIsVar:
		if !typesCompatible(av.Typ, b.Type()) {
			return nil, false
		}
		return sub.Bind(av, b)
	case bIsVar:
		if !typesCompatible(bv.Typ, a.Type()) {
			return nil, false
		}
		return sub.Bind(bv, a)
	default:
		// Two distinct constants: clash.
		return nil, false
	}
}

// typesCompatible treats an empty type name as a wildcard; otherwise types
// must match exactly. The domain parser is responsible for ensuring
// variables and constants only ever carry types declared in the domain.
func typesCompatible(t1, t2 string) bool {
	if t1 == "" || t2 == "" {
		return true
	}
	return t1 == t2
}
