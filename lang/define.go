package lang

import (
	"log/slog"
	"strings"
)

// BindingDef declares a binding: let <name> = <expression>.
//
// The expression is stored unevaluated and is evaluated again each time the
// name is resolved.
type BindingDef struct {
	Name       Identifier
	Expression Expression
}

// ParseBindingDef parses s as a binding definition without its terminating
// semicolon.
func ParseBindingDef(s string) (*BindingDef, error) {
	return parseBindingDef(trim(s))
}

func parseBindingDef(t trimmed) (*BindingDef, error) {
	rest, ok := t.cutPrefix("let ")
	if !ok {
		return nil, ErrMissingLet
	}

	lhs, rhs, ok := rest.cut("=")
	if !ok {
		return nil, ErrMissingEquals.With(slog.String("definition", string(t)))
	}

	name, err := parseIdentifier(lhs)
	if err != nil {
		return nil, err
	}

	expr, err := parseExpression(rhs)
	if err != nil {
		return nil, err
	}

	return &BindingDef{Name: name, Expression: expr}, nil
}

// Store inserts the binding into env.
func (d *BindingDef) Store(env *Environment) {
	env.InsertBinding(d.Name, d.Expression)
}

// String returns d in canonical source form, including the semicolon.
func (d *BindingDef) String() string {
	return "let " + string(d.Name) + " = " + d.Expression.String() + ";"
}

// FunctionDef declares a function: fn <name> <param>* => <body>.
type FunctionDef struct {
	Name       Identifier
	Parameters []Identifier
	Body       Expression
}

// ParseFunctionDef parses s as a function definition.
//
// Parameters are separated by white space. A parameter that is not a valid
// identifier is ignored.
func ParseFunctionDef(s string) (*FunctionDef, error) {
	return parseFunctionDef(trim(s))
}

func parseFunctionDef(t trimmed) (*FunctionDef, error) {
	rest, ok := t.cutPrefix("fn ")
	if !ok {
		return nil, ErrMissingFn
	}

	head, body, ok := rest.cut("=>")
	if !ok {
		return nil, ErrMissingArrow.With(slog.String("definition", string(t)))
	}

	tokens := head.fields()
	if len(tokens) == 0 {
		return nil, ErrMissingFunctionName.
			With(slog.String("definition", string(t)))
	}

	name, err := parseIdentifier(tokens[0])
	if err != nil {
		return nil, err
	}

	params := make([]Identifier, 0, len(tokens)-1)

	for _, tok := range tokens[1:] {
		if p, err := parseIdentifier(tok); err == nil {
			params = append(params, p)
		}
	}

	expr, err := parseExpression(body)
	if err != nil {
		return nil, err
	}

	return &FunctionDef{Name: name, Parameters: params, Body: expr}, nil
}

// Store inserts the function into env.
func (d *FunctionDef) Store(env *Environment) {
	env.InsertFunction(d.Name, d.Parameters, d.Body)
}

// Signature returns the head of d, as in "fn add a b".
func (d *FunctionDef) Signature() string {
	return signature(d.Name, d.Parameters)
}

// String returns d in canonical source form.
func (d *FunctionDef) String() string {
	return d.Signature() + " => " + d.Body.String()
}

func signature(name Identifier, params []Identifier) string {
	var b strings.Builder

	b.WriteString("fn ")
	b.WriteString(string(name))

	for _, p := range params {
		b.WriteByte(' ')
		b.WriteString(string(p))
	}

	return b.String()
}
