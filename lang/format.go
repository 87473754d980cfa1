package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes each statement in canonical source form, one per line.
func Format(w io.Writer, stmts []Statement) error {
	for _, s := range stmts {
		line := s.String()
		if s.Kind == StmtExpression && s.Expression.IsEmpty() {
			line = ";"
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// toMaps returns the tree representation of each statement.
func toMaps(stmts []Statement) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = s.ToMap()
	}

	return out
}

// FormatJSON writes the syntax trees of stmts as a JSON array.
// An indent of zero writes compact JSON.
func FormatJSON(w io.Writer, stmts []Statement, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(
			toMaps(stmts), "", strings.Repeat(" ", indent),
		)
	} else {
		jsonData, err = json.Marshal(toMaps(stmts))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax trees of stmts as a YAML sequence.
// An indent of zero writes flow style.
func FormatYAML(
	ctx context.Context,
	w io.Writer,
	stmts []Statement,
	indent int,
) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, toMaps(stmts), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented outline of the syntax trees of stmts.
func Print(w io.Writer, stmts []Statement) error {
	p := printer{w: w}

	for _, s := range stmts {
		p.statement(s, 0)
	}

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) put(depth int, item ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(
		p.w, strings.Repeat("  ", depth)+strings.Join(item, ": ")+"\n",
	)
}

func (p *printer) statement(s Statement, depth int) {
	switch s.Kind {
	case StmtBindingDef:
		p.put(depth, "Binding", string(s.BindingDef.Name))
		p.expression(s.BindingDef.Expression, depth+1)

	case StmtFunctionDef:
		p.put(depth, "Function", string(s.FunctionDef.Name))

		for _, param := range s.FunctionDef.Parameters {
			p.put(depth+1, "Parameter", string(param))
		}

		p.put(depth+1, "Body")
		p.expression(s.FunctionDef.Body, depth+2)

	default:
		p.put(depth, "Expression")
		p.expression(s.Expression, depth+1)
	}
}

func (p *printer) expression(x Expression, depth int) {
	switch x.Kind {
	case KindNumber:
		p.put(depth, "Number", x.Number.String())

	case KindBinding:
		p.put(depth, "Identifier", string(x.Binding))

	case KindOperation:
		p.put(depth, "Operation", x.Operation.Op.String())
		p.expression(x.Operation.Lhs, depth+1)
		p.expression(x.Operation.Rhs, depth+1)

	case KindBlock:
		p.put(depth, "Block")

		for _, s := range x.Block.Statements {
			p.statement(s, depth+1)
		}

	case KindCall:
		p.put(depth, "Call", string(x.Call.Name))

		for _, a := range x.Call.Arguments {
			p.expression(a, depth+1)
		}

	default:
		p.put(depth, "Empty")
	}
}
