// Package lang implements a small line-oriented language of integer
// arithmetic, let-bindings, blocks, and single-expression functions.
//
// # Grammar
//
// Informal EBNF. Every production operates on white-space trimmed text:
//
//	Statement   → BindingDef ';' | FunctionDef ';'? | Expression ';'?
//	BindingDef  → 'let' WS Identifier '=' Expression
//	FunctionDef → 'fn' WS Identifier (WS Identifier)* '=>' Expression
//	Expression  → Operation | Number | Identifier | Block | Call | ''
//	Operation   → Expression OpChar Expression
//	Block       → '{' (Statement)* '}'
//	Call        → Identifier (WS Expression)+
//	OpChar      → '+' | '-' | '*' | '/'
//
// Expression alternatives are tried in the order listed and the first that
// parses wins. An operation splits at the first operator character outside
// of any braces, so operators have no precedence and chains nest to the
// right: 10-2-3 is 10-(2-3).
//
// # Example
//
//	let width = 6;
//	let area = width * height;
//	let height = 7;
//	area                       → 42
//	fn add a b => a + b
//	add width 4                → 10
//	{ let width = 1; area }    → 7
//
// # Evaluation
//
// A binding stores its expression unevaluated. Each use of the name
// evaluates the stored expression again in the scope where the name is used,
// so redefining height above changes area.
//
// A block evaluates its statements in a new scope nested in the current one
// and yields the value of its last statement, if that statement is a bare
// expression.
//
// A call evaluates its arguments in the calling scope and binds the results
// to the parameters in a new function frame. From inside a frame, names
// defined outside it resolve only if they name functions.
//
// # Sessions
//
// [Session] owns the root scope that accumulates definitions across lines:
//
//	s := lang.NewSession()
//	s.Eval(ctx, "let x = 114;") // ""
//	s.Eval(ctx, "x + 514")      // "628"
package lang
