package lang

// ValueKind identifies the variant held by a [Value].
type ValueKind int

const (
	ValueEmpty  ValueKind = iota // empty
	ValueNumber                  // number
)

func (k ValueKind) String() string {
	switch k {
	case ValueEmpty:
		return "empty"
	case ValueNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an [Expression].
// The zero Value is empty.
type Value struct {
	Kind   ValueKind
	Number Number
}

// NumberValue returns a Value holding n.
func NumberValue(n Number) Value { return Value{Kind: ValueNumber, Number: n} }

// IsEmpty reports whether v holds no value.
func (v Value) IsEmpty() bool { return v.Kind == ValueEmpty }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (Number, bool) {
	return v.Number, v.Kind == ValueNumber
}

// String returns the decimal form of a number, or "" for an empty value.
func (v Value) String() string {
	if v.Kind != ValueNumber {
		return ""
	}

	return v.Number.String()
}

// Expression returns an expression that evaluates to v.
func (v Value) Expression() Expression {
	if v.Kind != ValueNumber {
		return Expression{}
	}

	return NumberExpr(v.Number)
}
