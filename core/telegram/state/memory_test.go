package state

import "testing"

func TestSessionLifecycle(t *testing.T) {
	m := NewMemoryManager()

	if m.IsLoggedIn(1) {
		t.Fatal("fresh chat must start logged out")
	}
	if m.Step(1) != StepIdle {
		t.Fatalf("fresh chat step = %q, want idle", m.Step(1))
	}

	m.SetLoggedIn(1, true)
	if !m.IsLoggedIn(1) {
		t.Fatal("expected logged in")
	}
	if m.IsLoggedIn(2) {
		t.Fatal("login must not leak to other chats")
	}

	m.Reset(1)
	if m.IsLoggedIn(1) {
		t.Fatal("reset must log the chat out")
	}
	if m.InProgress(1) {
		t.Fatal("reset must clear the pending step")
	}
}

func TestStepSupersede(t *testing.T) {
	m := NewMemoryManager()

	m.SetStep(1, Step("a"))
	m.SetStep(1, Step("b"))
	if got := m.Step(1); got != Step("b") {
		t.Fatalf("step = %q, want b", got)
	}

	m.ClearStep(1)
	if m.InProgress(1) {
		t.Fatal("expected idle after clear")
	}
}

func TestScratch(t *testing.T) {
	m := NewMemoryManager()

	m.SetScratch(1, "k", int64(42))
	if v, ok := m.ScratchInt64(1, "k"); !ok || v != 42 {
		t.Fatalf("scratch = %v %v, want 42 true", v, ok)
	}
	if _, ok := m.ScratchInt64(1, "missing"); ok {
		t.Fatal("missing key must not be found")
	}
	if _, ok := m.Scratch(2, "k"); ok {
		t.Fatal("scratch must not leak to other chats")
	}

	m.SetScratch(1, "s", "text")
	if _, ok := m.ScratchInt64(1, "s"); ok {
		t.Fatal("ScratchInt64 must reject non-int64 values")
	}

	m.ClearScratch(1, "k")
	if _, ok := m.Scratch(1, "k"); ok {
		t.Fatal("expected cleared key")
	}

	m.SetLoggedIn(1, true)
	m.SetScratch(1, "x", 1)
	m.DropScratch(1)
	if _, ok := m.Scratch(1, "x"); ok {
		t.Fatal("DropScratch must empty the bag")
	}
	if !m.IsLoggedIn(1) {
		t.Fatal("DropScratch must keep login state")
	}
}
