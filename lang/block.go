package lang

import (
	"log/slog"
	"strings"
)

// Block is a brace-delimited sequence of statements.
// Evaluating a block as an expression runs its statements in a new scope.
type Block struct {
	Statements []Statement
}

// ParseBlock parses s as '{' statement* '}'.
//
// Statements are separated by ';', and each ';' stays with the statement it
// terminates. Separators inside nested blocks do not split the outer block.
func ParseBlock(s string) (*Block, error) {
	return parseBlock(trim(s))
}

func parseBlock(t trimmed) (*Block, error) {
	inner, ok := t.cutPrefix("{")
	if !ok {
		return nil, ErrMissingOpeningBrace
	}

	inner, ok = inner.cutSuffix("}")
	if !ok {
		return nil, ErrMissingClosingBrace
	}

	var b Block

	for _, frag := range inner.splitInclusive(';') {
		if strings.TrimSpace(frag) == "" {
			continue
		}

		stmt, err := parseStatement(trim(frag))
		if err != nil {
			return nil, err
		}

		b.Statements = append(b.Statements, stmt)
	}

	return &b, nil
}

// Execute runs each statement of b in env, in order, and returns the
// expression yielded by the last one. An empty block yields the empty
// expression.
//
// Execute does not create a scope; see [Expression.Eval].
func (b *Block) Execute(env *Environment) (Expression, error) {
	var last Expression

	for i, stmt := range b.Statements {
		result, err := stmt.Execute(env)
		if err != nil {
			return Expression{}, WrapError(err).With(slog.Int("statement", i))
		}

		last = result
	}

	return last, nil
}

// String returns b in canonical source form.
func (b *Block) String() string {
	if len(b.Statements) == 0 {
		return "{}"
	}

	parts := make([]string, len(b.Statements))

	for i, stmt := range b.Statements {
		last := i == len(b.Statements)-1

		switch {
		case stmt.Kind == StmtExpression && stmt.Expression.IsEmpty():
			parts[i] = ";"
		case stmt.Kind == StmtBindingDef || last:
			parts[i] = stmt.String()
		default:
			parts[i] = stmt.String() + ";"
		}
	}

	return "{ " + strings.Join(parts, " ") + " }"
}
