package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/konst/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// callDelimiters end the expression that a call at the cursor belongs to.
// A call's arguments are separated by whitespace only, so any operator
// closes it.
const callDelimiters = "{};=>+-*/"

// functionCall represents a call detected before the cursor.
type functionCall struct {
	name     lang.Identifier
	argIndex int  // index of the argument being typed
	inCall   bool // true once the function name is complete
}

// detectFunctionCall reports the call that the cursor is positioned in, if
// any. The call is the whitespace-separated token sequence following the last
// delimiter before the cursor. The cursor is within the call's arguments once
// the name is followed by whitespace.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))
	prefix := input[:cursor]

	segment := prefix[strings.LastIndexAny(prefix, callDelimiters)+1:]
	fields := strings.Fields(segment)

	if len(fields) == 0 {
		return functionCall{}
	}

	argIndex := len(fields) - 2
	if strings.HasSuffix(segment, " ") || strings.HasSuffix(segment, "\t") {
		argIndex++
	}

	if argIndex < 0 {
		return functionCall{}
	}

	name, err := lang.ParseIdentifier(fields[0])
	if err != nil || name == "let" || name == "fn" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the parameters and body of the function named name,
// or false if the session defines no such function.
func getSignature(
	session *lang.Session,
	name lang.Identifier,
) (params []lang.Identifier, body lang.Expression, ok bool) {
	v, found := session.Environment().LookupFunction(name)
	if !found {
		return nil, lang.Expression{}, false
	}

	return v.Function()
}

// renderSignatureHint renders the definition of a function with the
// parameter at argIndex highlighted. Arguments past the last parameter
// highlight nothing.
func renderSignatureHint(
	name lang.Identifier,
	params []lang.Identifier,
	body lang.Expression,
	argIndex int,
) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("fn "))
	b.WriteString(signatureNameStyle.Render(string(name)))

	for i, p := range params {
		b.WriteString(signatureStyle.Render(" "))

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(string(p)))
		} else {
			b.WriteString(signatureStyle.Render(string(p)))
		}
	}

	b.WriteString(signatureStyle.Render(" => " + body.String()))

	return b.String()
}
