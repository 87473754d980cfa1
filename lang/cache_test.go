package lang

import (
	"errors"
	"sync"
	"testing"
)

func TestParseStatementCached_SharesTree(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	a, err := ParseStatementCached(t.Context(), "1+2")
	if err != nil {
		t.Fatalf("ParseStatementCached error: %v", err)
	}

	b, err := ParseStatementCached(t.Context(), "  1+2\t")
	if err != nil {
		t.Fatalf("ParseStatementCached error: %v", err)
	}

	if a.Expression.Operation != b.Expression.Operation {
		t.Error("equivalent input was parsed twice")
	}

	ClearCache()

	c, err := ParseStatementCached(t.Context(), "1+2")
	if err != nil {
		t.Fatalf("ParseStatementCached error: %v", err)
	}

	if c.Expression.Operation == a.Expression.Operation {
		t.Error("ClearCache did not discard the cached tree")
	}
}

func TestParseStatementCached_CachesErrors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		if _, err := ParseStatementCached(t.Context(), "let a = 1"); !errors.Is(err, ErrMissingSemicolon) {
			t.Errorf("ParseStatementCached error = %v, want ErrMissingSemicolon", err)
		}
	}
}

func TestParseStatementCached_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const workers = 16

	var (
		wg    sync.WaitGroup
		trees [workers]*Operation
		errs  [workers]error
	)

	for i := range workers {
		wg.Go(func() {
			stmt, err := ParseStatementCached(t.Context(), "let z = 3 * 4;")
			errs[i] = err

			if err == nil {
				trees[i] = stmt.BindingDef.Expression.Operation
			}
		})
	}

	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}

		if trees[i] != trees[0] {
			t.Errorf("worker %d received a different tree", i)
		}
	}
}

func TestSession_ParseWithoutCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	s := NewSession(WithCache(false))

	a, err := s.Parse(t.Context(), "1+2")
	if err != nil {
		t.Fatal(err)
	}

	b, err := s.Parse(t.Context(), "1+2")
	if err != nil {
		t.Fatal(err)
	}

	if a.Expression.Operation == b.Expression.Operation {
		t.Error("uncached session shared a parsed tree")
	}
}
