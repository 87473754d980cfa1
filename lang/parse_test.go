package lang

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseReader(t *testing.T) {
	input := strings.Join([]string{
		"# definitions",
		"let a = 1;",
		"",
		"   fn f x => x",
		"f a",
	}, "\n")

	stmts, err := ParseReader(t.Context(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	kinds := make([]StmtKind, len(stmts))
	for i, s := range stmts {
		kinds[i] = s.Kind
	}

	want := []StmtKind{StmtBindingDef, StmtFunctionDef, StmtExpression}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}

	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("statement %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestParseReader_ErrorLine(t *testing.T) {
	_, err := ParseString(t.Context(), "let a = 1;\n\nlet b = 2\n")
	if !errors.Is(err, ErrMissingSemicolon) {
		t.Fatalf("ParseString error = %v, want ErrMissingSemicolon", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %T is not *Error", err)
	}

	if v, ok := e.Attr("line"); !ok || v.Int64() != 3 {
		t.Errorf("line attribute = %v, want 3", v)
	}
}

func TestParseReader_ReadError(t *testing.T) {
	r := iotest.ErrReader(errors.New("boom"))

	if _, err := ParseReader(t.Context(), r); !errors.Is(err, ErrReadInput) {
		t.Errorf("ParseReader error = %v, want ErrReadInput", err)
	}
}
