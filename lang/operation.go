package lang

import (
	"log/slog"
	"math"
)

// Operation is a binary arithmetic expression.
type Operation struct {
	Lhs Expression
	Op  Operator
	Rhs Expression
}

// ParseOperation parses s as lhs op rhs, splitting at the first operator
// character that is not nested in a block.
//
// Both operands must be non-empty expressions. Because the right operand is
// itself parsed as an expression, chained operators nest to the right.
func ParseOperation(s string) (*Operation, error) {
	return parseOperation(trim(s))
}

func parseOperation(t trimmed) (*Operation, error) {
	at := t.indexTopLevel(isOperator)
	if at < 0 {
		return nil, ErrOperatorNotFound
	}

	op, err := parseOperator(t[at : at+1])
	if err != nil {
		return nil, err
	}

	// The right operand is checked first so that a bad tail fails before
	// the left operand, which may be a large block, is parsed.
	rhs, err := parseExpression(trim(string(t[at+1:])))
	if err != nil {
		return nil, ErrInvalidRhs.Wrap(err)
	}

	if rhs.IsEmpty() {
		return nil, ErrInvalidRhs.With(slog.String("operation", string(t)))
	}

	lhs, err := parseExpression(trim(string(t[:at])))
	if err != nil {
		return nil, ErrInvalidLhs.Wrap(err)
	}

	if lhs.IsEmpty() {
		return nil, ErrInvalidLhs.With(slog.String("operation", string(t)))
	}

	return &Operation{Lhs: lhs, Op: op, Rhs: rhs}, nil
}

// Eval evaluates both operands in env and applies the operator.
// Both operands must evaluate to numbers.
func (o *Operation) Eval(env *Environment) (Value, error) {
	lv, err := o.Lhs.Eval(env)
	if err != nil {
		return Value{}, err
	}

	lhs, ok := lv.AsNumber()
	if !ok {
		return Value{}, ErrInvalidLhs.With(slog.String("operand", o.Lhs.String()))
	}

	rv, err := o.Rhs.Eval(env)
	if err != nil {
		return Value{}, err
	}

	rhs, ok := rv.AsNumber()
	if !ok {
		return Value{}, ErrInvalidRhs.With(slog.String("operand", o.Rhs.String()))
	}

	n, err := o.Op.apply(lhs, rhs)
	if err != nil {
		return Value{}, err
	}

	return NumberValue(n), nil
}

// apply computes lhs op rhs, reporting results outside the int32 range.
func (op Operator) apply(lhs, rhs Number) (Number, error) {
	a, b := int64(lhs), int64(rhs)

	var r int64

	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return 0, ErrDivisionByZero.With(slog.Int64("dividend", a))
		}

		r = a / b
	default:
		return 0, ErrInvalidOperator.With(slog.String("operator", op.String()))
	}

	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, ErrOverflow.With(
			slog.Int64("lhs", a),
			slog.String("operator", op.String()),
			slog.Int64("rhs", b),
		)
	}

	return Number(r), nil
}

// String returns o in canonical source form.
func (o *Operation) String() string {
	return o.Lhs.String() + " " + o.Op.String() + " " + o.Rhs.String()
}
