package lang

import (
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// Identifier is a validated name of a binding, function, or parameter.
type Identifier string

// ParseIdentifier validates s as an identifier.
//
// The first rune must be a letter, and every following rune must be a letter,
// digit, combining mark, or connector punctuation such as '_'.
func ParseIdentifier(s string) (Identifier, error) {
	return parseIdentifier(trim(s))
}

func parseIdentifier(t trimmed) (Identifier, error) {
	if t == "" {
		return "", ErrIdentifierEmpty
	}

	first, size := utf8.DecodeRuneInString(string(t))
	if !isIdentifierStart(first) {
		return "", ErrIdentifierStart.With(slog.String("identifier", string(t)))
	}

	for _, r := range string(t)[size:] {
		if !isIdentifierContinue(r) {
			return "", ErrIdentifierChar.With(
				slog.String("identifier", string(t)),
				slog.String("rune", string(r)),
			)
		}
	}

	return Identifier(t), nil
}

func (id Identifier) String() string { return string(id) }

// Number is a signed 32-bit integer literal.
type Number int32

// ParseNumber parses s as a base-10 signed 32-bit integer.
func ParseNumber(s string) (Number, error) {
	return parseNumber(trim(s))
}

func parseNumber(t trimmed) (Number, error) {
	n, err := strconv.ParseInt(string(t), 10, 32)
	if err != nil {
		return 0, ErrInvalidNumber.Wrap(err).
			With(slog.String("literal", string(t)))
	}

	return Number(n), nil
}

func (n Number) String() string { return strconv.FormatInt(int64(n), 10) }

// Operator is a binary arithmetic operator.
type Operator byte

// Supported operators.
const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

// isOperator reports whether r is one of the operator characters.
func isOperator(r rune) bool {
	if r >= utf8.RuneSelf {
		return false
	}

	switch Operator(r) {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}

	return false
}

// ParseOperator parses s as a single operator character.
func ParseOperator(s string) (Operator, error) {
	return parseOperator(trim(s))
}

func parseOperator(t trimmed) (Operator, error) {
	if len(t) != 1 || !isOperator(rune(t[0])) {
		return 0, ErrInvalidOperator.With(slog.String("operator", string(t)))
	}

	return Operator(t[0]), nil
}

func (op Operator) String() string { return string(rune(op)) }
