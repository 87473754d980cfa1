package lang

import (
	"log/slog"
)

// StmtKind identifies the variant held by a [Statement].
type StmtKind int

const (
	StmtExpression  StmtKind = iota // expression
	StmtBindingDef                  // binding
	StmtFunctionDef                 // function
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpression:
		return "expression"
	case StmtBindingDef:
		return "binding"
	case StmtFunctionDef:
		return "function"
	default:
		return "unknown"
	}
}

// Statement is the unit of parsing and execution: one line of input or one
// ';'-terminated piece of a block.
type Statement struct {
	Kind        StmtKind
	BindingDef  *BindingDef  // StmtBindingDef
	FunctionDef *FunctionDef // StmtFunctionDef
	Expression  Expression   // StmtExpression
}

// ExpressionStmt returns a statement yielding x.
func ExpressionStmt(x Expression) Statement {
	return Statement{Kind: StmtExpression, Expression: x}
}

// BindingStmt returns a statement that defines name as x.
func BindingStmt(name Identifier, x Expression) Statement {
	return Statement{
		Kind:       StmtBindingDef,
		BindingDef: &BindingDef{Name: name, Expression: x},
	}
}

// FunctionStmt returns a statement that defines a function.
func FunctionStmt(name Identifier, params []Identifier, body Expression) Statement {
	return Statement{
		Kind: StmtFunctionDef,
		FunctionDef: &FunctionDef{
			Name:       name,
			Parameters: params,
			Body:       body,
		},
	}
}

// ParseStatement parses one statement.
//
// An expression or a function definition is accepted as-is. Anything else must
// end with ';', after which a binding definition, a function definition, or an
// expression is accepted. An expression terminated by ';' is discarded and the
// statement yields the empty expression.
//
// Accepting a function definition after ';' lets blocks define functions,
// since the block splitter leaves each ';' on its statement.
func ParseStatement(s string) (Statement, error) {
	return parseStatement(trim(s))
}

func parseStatement(t trimmed) (Statement, error) {
	// Neither an expression nor a function body ends with ';', so text that
	// does is only parsed once, after stripping it.
	body, ok := t.cutSuffix(";")
	if !ok {
		if x, err := parseExpression(t); err == nil {
			return ExpressionStmt(x), nil
		}

		if d, err := parseFunctionDef(t); err == nil {
			return Statement{Kind: StmtFunctionDef, FunctionDef: d}, nil
		}

		return Statement{}, ErrMissingSemicolon.
			With(slog.String("statement", string(t)))
	}

	if d, err := parseBindingDef(body); err == nil {
		return Statement{Kind: StmtBindingDef, BindingDef: d}, nil
	}

	if d, err := parseFunctionDef(body); err == nil {
		return Statement{Kind: StmtFunctionDef, FunctionDef: d}, nil
	}

	if _, err := parseExpression(body); err == nil {
		return ExpressionStmt(Expression{}), nil
	}

	return Statement{}, ErrInvalidStatement.
		With(slog.String("statement", string(t)))
}

// Execute runs s against env. Definitions are stored in env and yield the
// empty expression; an expression statement yields its expression.
func (s Statement) Execute(env *Environment) (Expression, error) {
	switch s.Kind {
	case StmtBindingDef:
		s.BindingDef.Store(env)
		env.rt.logger.Trace("store binding",
			slog.String("name", string(s.BindingDef.Name)),
		)

		return Expression{}, nil

	case StmtFunctionDef:
		s.FunctionDef.Store(env)
		env.rt.logger.Trace("store function",
			slog.String("name", string(s.FunctionDef.Name)),
			slog.Int("parameters", len(s.FunctionDef.Parameters)),
		)

		return Expression{}, nil

	default:
		return s.Expression, nil
	}
}

// String returns s in canonical source form.
func (s Statement) String() string {
	switch s.Kind {
	case StmtBindingDef:
		return s.BindingDef.String()
	case StmtFunctionDef:
		return s.FunctionDef.String()
	default:
		return s.Expression.String()
	}
}

// ToMap returns a generic tree representation of s suitable for encoding.
func (s Statement) ToMap() map[string]any {
	m := map[string]any{"statement": s.Kind.String()}

	switch s.Kind {
	case StmtBindingDef:
		m["name"] = string(s.BindingDef.Name)
		m["expression"] = s.BindingDef.Expression.ToMap()

	case StmtFunctionDef:
		params := make([]any, len(s.FunctionDef.Parameters))
		for i, p := range s.FunctionDef.Parameters {
			params[i] = string(p)
		}

		m["name"] = string(s.FunctionDef.Name)
		m["parameters"] = params
		m["body"] = s.FunctionDef.Body.ToMap()

	default:
		m["expression"] = s.Expression.ToMap()
	}

	return m
}
