package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aledsdavies/graphcode/internal/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(1 == 1, "math works")
}

func TestPreconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false precondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "PRECONDITION VIOLATION") {
			t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
		}
		if !strings.Contains(msg, "id must be registered") {
			t.Errorf("expected custom message, got: %s", msg)
		}
	}()

	invariant.Precondition(false, "id must be registered")
}

func TestInvariantFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(fmt.Sprintf("%v", r), "INVARIANT VIOLATION") {
			t.Errorf("expected INVARIANT VIOLATION, got: %v", r)
		}
	}()

	invariant.Invariant(false, "ancestor stack must be empty")
}

func TestNotNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil pointer")
		}
	}()

	var p *int
	invariant.NotNil(p, "p")
}

func TestExpectNoError(t *testing.T) {
	invariant.ExpectNoError(nil, "should be fine")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	invariant.ExpectNoError(fmt.Errorf("boom"), "re-encode")
}
