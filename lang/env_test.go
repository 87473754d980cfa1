package lang

import (
	"slices"
	"testing"
)

func TestEnvironment_Shadowing(t *testing.T) {
	root := NewEnvironment()
	root.InsertBinding("a", NumberExpr(114))

	child := root.Child()
	child.InsertBinding("a", NumberExpr(514))

	for _, tt := range []struct {
		name string
		env  *Environment
		want Number
	}{
		{"root", root, 114},
		{"child", child, 514},
		{"grandchild", child.Child(), 514},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.env.Lookup("a")
			if !ok {
				t.Fatal("Lookup(a) not found")
			}

			expr, ok := v.Binding()
			if !ok {
				t.Fatalf("Lookup(a) kind = %v, want binding", v.Kind)
			}

			if expr.Number != tt.want {
				t.Errorf("Lookup(a) = %s, want %d", expr, tt.want)
			}
		})
	}

	if root.Len() != 1 {
		t.Errorf("root.Len() = %d, want 1", root.Len())
	}
}

func TestEnvironment_InsertReplaces(t *testing.T) {
	env := NewEnvironment()
	env.InsertBinding("f", NumberExpr(1))
	env.InsertFunction("f", []Identifier{"x"}, BindingExpr("x"))

	v, ok := env.Local("f")
	if !ok || !v.IsFunction() {
		t.Fatalf("Local(f) = %+v, %v; want function", v, ok)
	}

	env.InsertBinding("f", NumberExpr(2))

	v, _ = env.Local("f")
	if !v.IsBinding() || v.Expression.Number != 2 {
		t.Errorf("Local(f) = %+v, want binding of 2", v)
	}
}

func TestEnvironment_InsertFunctionCopiesParameters(t *testing.T) {
	env := NewEnvironment()
	params := []Identifier{"a", "b"}
	env.InsertFunction("add", params, NumberExpr(0))

	params[0] = "z"

	v, _ := env.Local("add")

	got, _, _ := v.Function()
	if !slices.Equal(got, []Identifier{"a", "b"}) {
		t.Errorf("stored parameters = %v, want [a b]", got)
	}
}

func TestEnvironment_FrameHidesBindings(t *testing.T) {
	root := NewEnvironment()
	root.InsertBinding("x", NumberExpr(1))
	root.InsertFunction("f", nil, NumberExpr(2))

	block := root.Child()
	block.InsertBinding("y", NumberExpr(3))

	frame := block.Frame()
	frame.InsertBinding("p", NumberExpr(4))

	inner := frame.Child()

	tests := []struct {
		env  *Environment
		name Identifier
		want bool
	}{
		{block, "x", true},
		{block, "y", true},
		{frame, "p", true},
		{frame, "x", false},
		{frame, "y", false},
		{frame, "f", true},
		{inner, "p", true},
		{inner, "x", false},
		{inner, "f", true},
	}

	for _, tt := range tests {
		_, ok := tt.env.Lookup(tt.name)
		if ok != tt.want {
			t.Errorf("Lookup(%s) found = %v, want %v", tt.name, ok, tt.want)
		}
	}
}

func TestEnvironment_LookupScoped(t *testing.T) {
	root := NewEnvironment()
	root.InsertBinding("x", NumberExpr(1))
	root.InsertFunction("f", nil, NumberExpr(2))

	child := root.Child()

	if _, ok := child.LookupScoped("x"); ok {
		t.Error("LookupScoped(x) found an outer binding")
	}

	if v, ok := child.LookupScoped("f"); !ok || !v.IsFunction() {
		t.Error("LookupScoped(f) did not find the outer function")
	}

	child.InsertBinding("x", NumberExpr(5))

	if v, ok := child.LookupScoped("x"); !ok || v.Expression.Number != 5 {
		t.Errorf("LookupScoped(x) = %+v, %v; want local binding of 5", v, ok)
	}

	if _, ok := root.LookupScoped("nope"); ok {
		t.Error("LookupScoped(nope) found a value in a root scope")
	}
}

func TestEnvironment_LookupFunctionSkipsBindings(t *testing.T) {
	root := NewEnvironment()
	root.InsertFunction("g", []Identifier{"a"}, BindingExpr("a"))

	child := root.Child()
	child.InsertBinding("g", NumberExpr(0))

	v, ok := child.LookupFunction("g")
	if !ok || !v.IsFunction() {
		t.Fatalf("LookupFunction(g) = %+v, %v; want outer function", v, ok)
	}

	if v, _ := child.Lookup("g"); !v.IsBinding() {
		t.Error("Lookup(g) did not find the inner binding first")
	}
}

func TestEnvironment_Names(t *testing.T) {
	root := NewEnvironment()
	root.InsertBinding("a", NumberExpr(1))
	root.InsertFunction("f", nil, NumberExpr(2))

	child := root.Child()
	child.InsertBinding("b", NumberExpr(3))
	child.InsertBinding("a", NumberExpr(4))

	frame := root.Frame()
	frame.InsertBinding("p", NumberExpr(5))

	tests := []struct {
		name string
		env  *Environment
		want []Identifier
	}{
		{"root", root, []Identifier{"a", "f"}},
		{"child", child, []Identifier{"a", "b", "f"}},
		{"frame", frame, []Identifier{"f", "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Names(); !slices.Equal(got, tt.want) {
				t.Errorf("Names() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvironment_Parent(t *testing.T) {
	root := NewEnvironment()
	if root.Parent() != nil {
		t.Error("root.Parent() != nil")
	}

	if child := root.Child(); child.Parent() != root {
		t.Error("child.Parent() != root")
	}

	if frame := root.Frame(); frame.Parent() != root {
		t.Error("frame.Parent() != root")
	}
}
