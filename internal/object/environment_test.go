package object

import "testing"

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("a", &Number{Value: 1})

	val, ok := env.Get("a")
	if !ok {
		t.Fatal("expected 'a' to be defined")
	}
	if val.(*Number).Value != 1 {
		t.Errorf("wrong value: %v", val)
	}

	if _, ok := env.Get("missing"); ok {
		t.Error("expected 'missing' to be undefined")
	}
}

func TestRedeclarationOverwrites(t *testing.T) {
	env := NewEnvironment()
	env.Define("a", &Number{Value: 1})
	env.Define("a", &Number{Value: 2})

	val, _ := env.Get("a")
	if val.(*Number).Value != 2 {
		t.Errorf("expected redeclaration to overwrite, got %v", val)
	}
}

func TestGetWalksOutward(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("a", &Number{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	val, ok := inner.Get("a")
	if !ok || val.(*Number).Value != 1 {
		t.Errorf("inner scope should see outer binding, got %v", val)
	}
}

func TestShadowingLeavesOuterIntact(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("a", &Number{Value: 1})
	inner := NewEnclosedEnvironment(outer)
	inner.Define("a", &Number{Value: 2})

	if val, _ := inner.Get("a"); val.(*Number).Value != 2 {
		t.Errorf("inner lookup should find the shadow, got %v", val)
	}
	if val, _ := outer.Get("a"); val.(*Number).Value != 1 {
		t.Errorf("outer binding should be untouched, got %v", val)
	}
}

func TestAssignMutatesDefiningScope(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("a", &Number{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	if !inner.Assign("a", &Number{Value: 9}) {
		t.Fatal("expected assignment to succeed")
	}
	if val, _ := outer.Get("a"); val.(*Number).Value != 9 {
		t.Errorf("outer binding should be mutated, got %v", val)
	}
	if _, ok := inner.Bindings["a"]; ok {
		t.Error("assignment must not create a binding in the inner scope")
	}
}

func TestAssignNeverCreates(t *testing.T) {
	env := NewEnvironment()
	if env.Assign("ghost", NONE) {
		t.Error("assignment to an undeclared name must fail")
	}
	if _, ok := env.Get("ghost"); ok {
		t.Error("failed assignment must not create a binding")
	}
}

func TestSharedChainSeenByTwoChildren(t *testing.T) {
	root := NewEnvironment()
	root.Define("n", &Number{Value: 0})
	a := NewEnclosedEnvironment(root)
	b := NewEnclosedEnvironment(root)

	a.Assign("n", &Number{Value: 5})
	if val, _ := b.Get("n"); val.(*Number).Value != 5 {
		t.Errorf("sibling scope should observe the update, got %v", val)
	}
}
