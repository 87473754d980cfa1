package lang

import (
	"log/slog"
)

// ExprKind identifies the variant held by an [Expression].
type ExprKind int

const (
	KindEmpty     ExprKind = iota // empty
	KindNumber                    // number
	KindOperation                 // operation
	KindBinding                   // binding
	KindBlock                     // block
	KindCall                      // call
)

func (k ExprKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindOperation:
		return "operation"
	case KindBinding:
		return "binding"
	case KindBlock:
		return "block"
	case KindCall:
		return "call"
	default:
		return "unknown"
	}
}

// Expression is a syntax node that reduces to a [Value].
// Exactly one field matching Kind is set; the zero Expression is empty.
type Expression struct {
	Kind      ExprKind
	Number    Number        // KindNumber
	Operation *Operation    // KindOperation
	Binding   Identifier    // KindBinding
	Block     *Block        // KindBlock
	Call      *FunctionCall // KindCall
}

// NumberExpr returns an expression for the literal n.
func NumberExpr(n Number) Expression {
	return Expression{Kind: KindNumber, Number: n}
}

// BindingExpr returns an expression that resolves name.
func BindingExpr(name Identifier) Expression {
	return Expression{Kind: KindBinding, Binding: name}
}

// OperationExpr returns an expression for lhs op rhs.
func OperationExpr(lhs Expression, op Operator, rhs Expression) Expression {
	return Expression{
		Kind:      KindOperation,
		Operation: &Operation{Lhs: lhs, Op: op, Rhs: rhs},
	}
}

// BlockExpr returns an expression for a block of statements.
func BlockExpr(stmts ...Statement) Expression {
	return Expression{Kind: KindBlock, Block: &Block{Statements: stmts}}
}

// CallExpr returns an expression that calls name with args.
func CallExpr(name Identifier, args ...Expression) Expression {
	return Expression{
		Kind: KindCall,
		Call: &FunctionCall{Name: name, Arguments: args},
	}
}

// IsEmpty reports whether x is the empty expression.
func (x Expression) IsEmpty() bool { return x.Kind == KindEmpty }

// ParseExpression parses s as an expression.
//
// The variants are tried in a fixed order and the first that parses wins:
// operation, number, identifier, block, call, and finally the empty
// expression if s is blank.
func ParseExpression(s string) (Expression, error) {
	return parseExpression(trim(s))
}

func parseExpression(t trimmed) (Expression, error) {
	if op, err := parseOperation(t); err == nil {
		return Expression{Kind: KindOperation, Operation: op}, nil
	}

	if n, err := parseNumber(t); err == nil {
		return NumberExpr(n), nil
	}

	if id, err := parseIdentifier(t); err == nil {
		return BindingExpr(id), nil
	}

	if b, err := parseBlock(t); err == nil {
		return Expression{Kind: KindBlock, Block: b}, nil
	}

	if c, err := parseFunctionCall(t); err == nil {
		return Expression{Kind: KindCall, Call: c}, nil
	}

	if t == "" {
		return Expression{}, nil
	}

	return Expression{}, ErrInvalidExpression.
		With(slog.String("expression", string(t)))
}

// Eval evaluates x in env.
func (x Expression) Eval(env *Environment) (Value, error) {
	switch x.Kind {
	case KindEmpty:
		return Value{}, nil

	case KindNumber:
		return NumberValue(x.Number), nil
	}

	if err := env.rt.enter(x.Kind.String()); err != nil {
		return Value{}, err
	}
	defer env.rt.leave()

	switch x.Kind {
	case KindOperation:
		return x.Operation.Eval(env)

	case KindBinding:
		return evalBinding(env, x.Binding)

	case KindBlock:
		scope := env.Child()

		result, err := x.Block.Execute(scope)
		if err != nil {
			return Value{}, err
		}

		return result.Eval(scope)

	case KindCall:
		return x.Call.Eval(env)

	default:
		return Value{}, ErrInvalidExpression.
			With(slog.String("kind", x.Kind.String()))
	}
}

// evalBinding resolves name in env and evaluates the bound expression in env.
// A name that resolves to a function without parameters is called.
func evalBinding(env *Environment, name Identifier) (Value, error) {
	v, ok := env.Lookup(name)
	if ok {
		if expr, ok := v.Binding(); ok {
			env.rt.logger.Trace("resolve binding",
				slog.String("name", string(name)),
				slog.Any("expression", expr),
			)

			return expr.Eval(env)
		}

		if params, _, ok := v.Function(); ok {
			if len(params) == 0 {
				return (&FunctionCall{Name: name}).Eval(env)
			}

			// A function named without its arguments.
			return Value{}, ErrBindingNotFound.
				Wrap(ErrWrongParameterCount.With(
					slog.Int("want", len(params)),
					slog.Int("got", 0),
				)).
				With(
					slog.String("name", string(name)),
					slog.String("kind", v.Kind.String()),
					slog.Int("parameters", len(params)),
				)
		}
	}

	return Value{}, ErrBindingNotFound.With(slog.String("name", string(name)))
}

// String returns x in canonical source form.
func (x Expression) String() string {
	switch x.Kind {
	case KindNumber:
		return x.Number.String()
	case KindOperation:
		return x.Operation.String()
	case KindBinding:
		return string(x.Binding)
	case KindBlock:
		return x.Block.String()
	case KindCall:
		return x.Call.String()
	default:
		return ""
	}
}

// LogValue implements slog.LogValuer.
func (x Expression) LogValue() slog.Value { return slog.StringValue(x.String()) }

// ToMap returns a generic tree representation of x suitable for encoding.
func (x Expression) ToMap() map[string]any {
	m := map[string]any{"kind": x.Kind.String()}

	switch x.Kind {
	case KindNumber:
		m["value"] = int64(x.Number)

	case KindOperation:
		m["operator"] = x.Operation.Op.String()
		m["lhs"] = x.Operation.Lhs.ToMap()
		m["rhs"] = x.Operation.Rhs.ToMap()

	case KindBinding:
		m["name"] = string(x.Binding)

	case KindBlock:
		stmts := make([]any, len(x.Block.Statements))
		for i, s := range x.Block.Statements {
			stmts[i] = s.ToMap()
		}

		m["statements"] = stmts

	case KindCall:
		args := make([]any, len(x.Call.Arguments))
		for i, a := range x.Call.Arguments {
			args[i] = a.ToMap()
		}

		m["name"] = string(x.Call.Name)
		m["arguments"] = args
	}

	return m
}
