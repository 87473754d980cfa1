package lang

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/konst/log"
)

// NamedKind identifies the variant held by a [NamedValue].
type NamedKind int

const (
	NamedBinding  NamedKind = iota // binding
	NamedFunction                  // function
)

func (k NamedKind) String() string {
	switch k {
	case NamedBinding:
		return "binding"
	case NamedFunction:
		return "function"
	default:
		return "unknown"
	}
}

// NamedValue is the meaning of a name stored in an [Environment].
//
// A binding holds its unevaluated expression in Expression.
// A function holds its parameters and uses Expression as the body.
type NamedValue struct {
	Kind       NamedKind
	Expression Expression
	Parameters []Identifier
}

// IsBinding reports whether v is a binding.
func (v NamedValue) IsBinding() bool { return v.Kind == NamedBinding }

// IsFunction reports whether v is a function.
func (v NamedValue) IsFunction() bool { return v.Kind == NamedFunction }

// Binding returns the bound expression if v is a binding.
func (v NamedValue) Binding() (Expression, bool) {
	if v.Kind != NamedBinding {
		return Expression{}, false
	}

	return v.Expression, true
}

// Function returns the parameters and body if v is a function.
func (v NamedValue) Function() ([]Identifier, Expression, bool) {
	if v.Kind != NamedFunction {
		return nil, Expression{}, false
	}

	return v.Parameters, v.Expression, true
}

// runtime is the evaluation state shared by every scope descended from one
// root environment.
type runtime struct {
	logger   log.Logger
	depth    int
	maxDepth int
}

func (rt *runtime) enter(name string) error {
	if rt.depth >= rt.maxDepth {
		return ErrMaxDepthExceeded.With(
			slog.String("at", name),
			slog.Int("max_depth", rt.maxDepth),
		)
	}

	rt.depth++

	return nil
}

func (rt *runtime) leave() { rt.depth-- }

// Environment is one scope in a chain of lexical scopes.
//
// A scope created by [Environment.Frame] marks a function call boundary:
// lookups that leave a frame only see functions, never bindings.
// An Environment is not safe for concurrent use.
type Environment struct {
	values map[Identifier]NamedValue
	parent *Environment
	frame  bool
	rt     *runtime
}

// NewEnvironment returns an empty root scope using [DefaultMaxDepth].
func NewEnvironment() *Environment {
	return newEnvironment(&runtime{maxDepth: DefaultMaxDepth})
}

func newEnvironment(rt *runtime) *Environment {
	return &Environment{values: make(map[Identifier]NamedValue), rt: rt}
}

// Child returns a new scope nested in e, as created for a block.
func (e *Environment) Child() *Environment {
	c := newEnvironment(e.rt)
	c.parent = e

	return c
}

// Frame returns a new scope nested in e, as created for a function call.
func (e *Environment) Frame() *Environment {
	c := e.Child()
	c.frame = true

	return c
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Environment) Parent() *Environment { return e.parent }

// InsertBinding stores a binding named name in e, replacing any value
// previously stored under that name in e.
func (e *Environment) InsertBinding(name Identifier, expr Expression) {
	e.values[name] = NamedValue{Kind: NamedBinding, Expression: expr}
}

// InsertFunction stores a function named name in e, replacing any value
// previously stored under that name in e.
func (e *Environment) InsertFunction(
	name Identifier,
	params []Identifier,
	body Expression,
) {
	e.values[name] = NamedValue{
		Kind:       NamedFunction,
		Expression: body,
		Parameters: slices.Clone(params),
	}
}

// Local returns the value stored under name in e itself.
func (e *Environment) Local(name Identifier) (NamedValue, bool) {
	v, ok := e.values[name]

	return v, ok
}

// Lookup resolves name in e and then in each enclosing scope.
// Once the search leaves a function frame, only functions are visible.
func (e *Environment) Lookup(name Identifier) (NamedValue, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.values[name]; ok {
			return v, true
		}

		if s.frame {
			return s.parent.LookupFunction(name)
		}
	}

	return NamedValue{}, false
}

// LookupScoped resolves name in e, and then resolves only functions in the
// enclosing scopes.
func (e *Environment) LookupScoped(name Identifier) (NamedValue, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}

	return e.parent.LookupFunction(name)
}

// LookupFunction resolves the innermost function named name in e or any
// enclosing scope. Bindings of the same name are skipped.
func (e *Environment) LookupFunction(name Identifier) (NamedValue, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.values[name]; ok && v.IsFunction() {
			return v, true
		}
	}

	return NamedValue{}, false
}

// Names returns the sorted names visible from e.
func (e *Environment) Names() []Identifier {
	seen := make(map[Identifier]struct{})
	funcsOnly := false

	for s := e; s != nil; s = s.parent {
		for name, v := range s.values {
			if funcsOnly && !v.IsFunction() {
				continue
			}

			seen[name] = struct{}{}
		}

		if s.frame {
			funcsOnly = true
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Len returns the number of values stored in e itself.
func (e *Environment) Len() int { return len(e.values) }
