package domain

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/arclane/ltlfplan/pkg/unify"
)

// Type is a named type in the domain's type hierarchy. This planner does
// not model sub-typing; a type is just a name that argument positions and
// constants are tagged with.
type Type struct {
	Name string
}

// Predicate declares a predicate's name and the ordered types of its
// arguments; arity is len(ArgTypes).
type Predicate struct {
	Name     string
	ArgTypes []string
}

// Arity returns the predicate's declared arity.
func (p *Predicate) Arity() int { return len(p.ArgTypes) }

// Effect is the add/delete list of an ActionSchema. Add and Del are
// disjoint: an action schema that both added and deleted the same literal
// would be ill-formed (rejected at AddAction time).
type Effect struct {
	Add []*unify.Literal
	Del []*unify.Literal
}

// ActionSchema is a lifted STRIPS-style action: ordered typed parameters,
// a precondition (literals plus inequality constraints over parameters),
// and an effect. Precondition and effect terms are drawn only from
// Parameters; this is enforced by AddAction.
type ActionSchema struct {
	Name         string
	Parameters   []*unify.Variable
	Precondition []*unify.Literal
	Inequalities []*unify.InequalityConstraint
	Effect       Effect
}

// ParameterNames returns the schema's parameter variable names, in order.
func (a *ActionSchema) ParameterNames() []string {
	names := make([]string, len(a.Parameters))
	for i, p := range a.Parameters {
		names[i] = p.Name
	}
	return names
}

// Domain is the typed planning domain: predicates and action schemas.
// Types, predicates and action schemas are immutable once added; Domain
// owns them and the rest of the planner only ever reads them.
type Domain struct {
	Types      map[string]*Type
	Predicates map[string]*Predicate
	// Actions is kept in declaration order: the regression engine and
	// goal-graph constructor enumerate schemas in this order, which is
	// what makes successor enumeration deterministic (spec §5).
	Actions []*ActionSchema
}

// New returns an empty domain.
func New() *Domain {
	return &Domain{
		Types:      map[string]*Type{},
		Predicates: map[string]*Predicate{},
	}
}

// AddType registers a type name. Type names must be unique.
func (d *Domain) AddType(name string) error {
	if _, exists := d.Types[name]; exists {
		return NewStructureError("duplicate-type", name, "type already declared")
	}
	d.Types[name] = &Type{Name: name}
	return nil
}

// AddPredicate registers a predicate, validating that every declared
// argument type is known.
func (d *Domain) AddPredicate(p *Predicate) error {
	if _, exists := d.Predicates[p.Name]; exists {
		return NewStructureError("duplicate-predicate", p.Name, "predicate already declared")
	}
	for i, t := range p.ArgTypes {
		if t != "" && d.Types[t] == nil {
			return NewStructureError("unknown-type", p.Name, fmt.Sprintf("argument %d has unknown type %q", i, t))
		}
	}
	d.Predicates[p.Name] = p
	return nil
}

// AddAction validates and registers an action schema. Validation checks:
//   - every precondition/effect literal references a declared predicate
//     with matching arity;
//   - every literal and inequality-constraint term is one of the schema's
//     own parameters (lifted actions never mention a free-floating
//     variable that isn't a parameter, nor a world constant);
//   - add-set and delete-set are disjoint per literal signature;
//   - inequality constraints relate two distinct parameters.
//
// All defects found are aggregated into a single *multierror.Error so a
// malformed schema reports everything wrong with it in one pass, not just
// the first problem found.
func (d *Domain) AddAction(a *ActionSchema) error {
	var errs *multierror.Error

	params := map[string]*unify.Variable{}
	for _, p := range a.Parameters {
		params[p.Name] = p
	}

	checkLiteral := func(l *unify.Literal) {
		pred, ok := d.Predicates[l.Predicate]
		if !ok {
			errs = multierror.Append(errs, NewStructureError("unknown-predicate", a.Name, fmt.Sprintf("references undeclared predicate %q", l.Predicate)))
			return
		}
		if pred.Arity() != l.Arity() {
			errs = multierror.Append(errs, NewStructureError("arity-mismatch", a.Name, fmt.Sprintf("%s expects arity %d, literal has %d", l.Predicate, pred.Arity(), l.Arity())))
		}
		for i, arg := range l.Args {
			v, isVar := arg.(*unify.Variable)
			if !isVar {
				continue
			}
			if _, isParam := params[v.Name]; !isParam {
				errs = multierror.Append(errs, NewStructureError("ill-typed-parameter", a.Name, fmt.Sprintf("variable %q in %s is not a schema parameter", v.Name, l.Predicate)))
				continue
			}
			if i < len(pred.ArgTypes) && pred.ArgTypes[i] != "" && v.Typ != "" && pred.ArgTypes[i] != v.Typ {
				errs = multierror.Append(errs, NewStructureError("ill-typed-parameter", a.Name, fmt.Sprintf("variable %q has type %q, %s position %d expects %q", v.Name, v.Typ, l.Predicate, i, pred.ArgTypes[i])))
			}
		}
	}

	for _, l := range a.Precondition {
		checkLiteral(l)
	}
	for _, l := range a.Effect.Add {
		checkLiteral(l)
		if l.Sign != unify.Positive {
			errs = multierror.Append(errs, NewStructureError("ill-formed-effect", a.Name, "add-effect literal must be positive"))
		}
	}
	for _, l := range a.Effect.Del {
		checkLiteral(l)
		if l.Sign != unify.Positive {
			errs = multierror.Append(errs, NewStructureError("ill-formed-effect", a.Name, "delete-effect literal must be positive"))
		}
	}
	for _, add := range a.Effect.Add {
		for _, del := range a.Effect.Del {
			if add.Predicate == del.Predicate && literalArgsIdentical(add, del) {
				errs = multierror.Append(errs, NewStructureError("ill-formed-effect", a.Name, fmt.Sprintf("%s is both added and deleted", add)))
			}
		}
	}
	for _, ineq := range a.Inequalities {
		if _, ok := params[ineq.Left.Name]; !ok {
			errs = multierror.Append(errs, NewStructureError("ill-typed-parameter", a.Name, fmt.Sprintf("inequality references non-parameter %q", ineq.Left.Name)))
		}
		if _, ok := params[ineq.Right.Name]; !ok {
			errs = multierror.Append(errs, NewStructureError("ill-typed-parameter", a.Name, fmt.Sprintf("inequality references non-parameter %q", ineq.Right.Name)))
		}
		if ineq.Left.Name == ineq.Right.Name {
			errs = multierror.Append(errs, NewStructureError("ill-formed-effect", a.Name, "inequality constraint relates a parameter to itself"))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	d.Actions = append(d.Actions, a)
	return nil
}

func literalArgsIdentical(a, b *unify.Literal) bool {
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !unify.SameTerm(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// ActionsAdding returns, in declaration order, every action schema whose
// add-effect (sign == unify.Positive) or delete-effect (sign ==
// unify.Negative) contains a literal matching predicate name, keyed by
// sign: Positive asks for schemas that can add a matching literal,
// Negative asks for schemas that can delete one.
func (d *Domain) ActionsAdding(predicate string, sign unify.Polarity) []*ActionSchema {
	var out []*ActionSchema
	for _, a := range d.Actions {
		set := a.Effect.Add
		if sign == unify.Negative {
			set = a.Effect.Del
		}
		for _, l := range set {
			if l.Predicate == predicate {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
