package lang

import (
	"fmt"
	"log/slog"
	"strings"
)

// FunctionCall invokes a function: <name> <argument>*.
type FunctionCall struct {
	Name      Identifier
	Arguments []Expression
}

// ParseFunctionCall parses s as a callee name followed by white-space
// separated argument expressions.
func ParseFunctionCall(s string) (*FunctionCall, error) {
	return parseFunctionCall(trim(s))
}

func parseFunctionCall(t trimmed) (*FunctionCall, error) {
	tokens := t.fields()
	if len(tokens) == 0 {
		return nil, ErrEmptyCall
	}

	name, err := parseIdentifier(tokens[0])
	if err != nil {
		return nil, err
	}

	args := make([]Expression, 0, len(tokens)-1)

	for _, tok := range tokens[1:] {
		arg, err := parseExpression(tok)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return &FunctionCall{Name: name, Arguments: args}, nil
}

// Resolve prepares the call for evaluation.
//
// It resolves the callee in env, evaluates each argument in env, and binds
// each parameter in frame to its argument's value. It returns the function
// body, which the caller evaluates in frame.
//
// Passing env as frame binds the parameters directly into the calling scope.
func (c *FunctionCall) Resolve(env, frame *Environment) (Expression, error) {
	v, ok := env.Lookup(c.Name)
	if !ok || !v.IsFunction() {
		return Expression{}, ErrFunctionNotFound.
			With(slog.String("name", string(c.Name)))
	}

	params, body, _ := v.Function()

	if len(params) != len(c.Arguments) {
		return Expression{}, ErrWrongParameterCount.
			Wrap(fmt.Errorf("expected %d, got %d", len(params), len(c.Arguments))).
			With(
				slog.String("name", string(c.Name)),
				slog.Int("expected", len(params)),
				slog.Int("got", len(c.Arguments)),
			)
	}

	values := make([]Value, len(c.Arguments))

	for i, arg := range c.Arguments {
		val, err := arg.Eval(env)
		if err != nil {
			return Expression{}, WrapError(err).With(
				slog.String("name", string(c.Name)),
				slog.String("parameter", string(params[i])),
			)
		}

		values[i] = val
	}

	for i, p := range params {
		frame.InsertBinding(p, values[i].Expression())
	}

	return body, nil
}

// Eval calls the function in a new frame nested in env.
func (c *FunctionCall) Eval(env *Environment) (Value, error) {
	frame := env.Frame()

	body, err := c.Resolve(env, frame)
	if err != nil {
		return Value{}, err
	}

	env.rt.logger.Trace("call",
		slog.String("name", string(c.Name)),
		slog.Int("arguments", len(c.Arguments)),
	)

	return body.Eval(frame)
}

// String returns c in canonical source form.
func (c *FunctionCall) String() string {
	parts := make([]string, 0, len(c.Arguments)+1)
	parts = append(parts, string(c.Name))

	// Arguments were single tokens, so nested operands are written compactly.
	for _, a := range c.Arguments {
		s := a.String()
		if a.Kind == KindOperation || a.Kind == KindBlock {
			s = strings.Join(strings.Fields(s), "")
		}

		parts = append(parts, s)
	}

	return strings.Join(parts, " ")
}
