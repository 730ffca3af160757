package di

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewContainer(t *testing.T) {
	c := NewContainer()
	if c == nil {
		t.Fatal("expected non-nil container")
	}
}

func TestRegisterAndResolve(t *testing.T) {
	c := NewContainer()

	err := c.Register("greeting", func() string {
		return "hello"
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	val, err := c.Resolve("greeting")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != "hello" {
		t.Errorf("expected 'hello', got %v", val)
	}
}

func TestResolveNotRegistered(t *testing.T) {
	c := NewContainer()
	_, err := c.Resolve("nonexistent")
	if err == nil {
		t.Error("expected error for unregistered component")
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected 'not registered' in error, got %q", err.Error())
	}
}

func TestRegisterSingleton(t *testing.T) {
	c := NewContainer()
	instance := "singleton-value"

	err := c.RegisterSingleton("single", instance)
	if err != nil {
		t.Fatalf("RegisterSingleton failed: %v", err)
	}

	val, err := c.Resolve("single")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != instance {
		t.Errorf("expected %q, got %v", instance, val)
	}
}

func TestRegisterEager(t *testing.T) {
	c := NewContainer()
	called := false
	err := c.RegisterEager("eager", func() string {
		called = true
		return "eager-value"
	})
	if err != nil {
		t.Fatalf("RegisterEager failed: %v", err)
	}
	if !called {
		t.Error("expected constructor to be called immediately for eager registration")
	}

	val, err := c.Resolve("eager")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != "eager-value" {
		t.Errorf("expected 'eager-value', got %v", val)
	}
}

func TestRegisterEagerConstructorError(t *testing.T) {
	c := NewContainer()
	err := c.RegisterEager("broken", func() (string, error) {
		return "", fmt.Errorf("init failed")
	})
	if err == nil {
		t.Error("expected error from eager constructor failure")
	}
}

func TestLazyInitializedOnce(t *testing.T) {
	c := NewContainer()
	count := 0
	c.RegisterLazy("counted", func() int {
		count++
		return count
	})

	v1, err := c.Resolve("counted")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	v2, err := c.Resolve("counted")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected constructor called once, got %d", count)
	}
	if v1 != v2 {
		t.Errorf("expected cached instance, got %v and %v", v1, v2)
	}
}

func TestLazyConstructorError(t *testing.T) {
	c := NewContainer()
	c.RegisterLazy("broken", func() (string, error) {
		return "", fmt.Errorf("boom")
	})

	_, err := c.Resolve("broken")
	if err == nil {
		t.Error("expected error from lazy constructor failure")
	}
}

func TestConstructorWithContainerArg(t *testing.T) {
	c := NewContainer()
	c.RegisterSingleton("dep", 42)
	c.RegisterLazy("uses-dep", func(container Container) (int, error) {
		dep, err := container.Resolve("dep")
		if err != nil {
			return 0, err
		}
		return dep.(int) * 2, nil
	})

	val, err := c.Resolve("uses-dep")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != 84 {
		t.Errorf("expected 84, got %v", val)
	}
}

func TestMustResolveTyped(t *testing.T) {
	c := NewContainer()
	c.RegisterSingleton("name", "callbridge")

	got := MustResolve[string](c, "name")
	if got != "callbridge" {
		t.Errorf("expected 'callbridge', got %q", got)
	}
}

func TestMustResolvePanicsOnMissing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for missing component")
		}
	}()
	c := NewContainer()
	MustResolve[string](c, "missing")
}

func TestMustResolvePanicsOnWrongType(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for wrong type")
		}
	}()
	c := NewContainer()
	c.RegisterSingleton("num", 7)
	MustResolve[string](c, "num")
}

func TestResolveTyped(t *testing.T) {
	c := NewContainer()
	c.RegisterSingleton("num", 7)

	got, err := Resolve[int](c, "num")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}

	if _, err := Resolve[string](c, "num"); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestTryResolve(t *testing.T) {
	c := NewContainer()
	c.RegisterSingleton("opt", "present")

	if v, ok := TryResolve[string](c, "opt"); !ok || v != "present" {
		t.Errorf("expected (present, true), got (%q, %v)", v, ok)
	}
	if _, ok := TryResolve[string](c, "absent"); ok {
		t.Error("expected false for absent component")
	}
}

type closeTracker struct {
	closed bool
}

func (ct *closeTracker) Close() error {
	ct.closed = true
	return nil
}

func TestContainerClose(t *testing.T) {
	c := NewContainer()
	tracked := &closeTracker{}
	c.RegisterSingleton("closer", tracked)

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !tracked.closed {
		t.Error("expected singleton Close to be called")
	}
}

func TestRegistrations(t *testing.T) {
	c := NewContainer()
	c.RegisterSingleton("a", 1)
	c.RegisterLazy("b", func() int { return 2 })

	infos := c.Registrations()
	if len(infos) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(infos))
	}

	byKey := map[string]RegistrationInfo{}
	for _, info := range infos {
		byKey[info.Key] = info
	}
	if byKey["a"].Mode != Singleton || !byKey["a"].Initialized {
		t.Errorf("expected a to be initialized singleton, got %+v", byKey["a"])
	}
	if byKey["b"].Mode != Lazy || byKey["b"].Initialized {
		t.Errorf("expected b to be uninitialized lazy, got %+v", byKey["b"])
	}
}
