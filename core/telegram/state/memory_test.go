package state

import "testing"

func TestMemoryManagerStates(t *testing.T) {
	m := NewMemoryManager()

	if m.InProgress(1) {
		t.Fatal("fresh user must be idle")
	}
	if got := m.GetState(1); got != StateIdle {
		t.Fatalf("GetState = %q, expected idle", got)
	}

	m.SetState(1, State("awaiting_question"))
	if !m.InProgress(1) {
		t.Fatal("expected conversation in progress")
	}
	if !m.HasState(1) {
		t.Fatal("expected HasState true")
	}

	m.ClearState(1)
	if m.InProgress(1) {
		t.Fatal("expected idle after clear")
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	m := NewMemoryManager()

	m.SetTemp(1, "question_id", int64(42))
	m.SetTemp(1, "template_key", "welcome")

	if got, ok := m.GetTempInt64(1, "question_id"); !ok || got != 42 {
		t.Fatalf("GetTempInt64 = %d, %v", got, ok)
	}
	if got, ok := m.GetTempString(1, "template_key"); !ok || got != "welcome" {
		t.Fatalf("GetTempString = %q, %v", got, ok)
	}
	if _, ok := m.GetTempInt64(1, "template_key"); ok {
		t.Fatal("type mismatch must miss")
	}

	m.ClearTemp(1, "question_id")
	if _, ok := m.GetTemp(1, "question_id"); ok {
		t.Fatal("expected cleared temp key")
	}

	m.Clear(1)
	if _, ok := m.GetTemp(1, "template_key"); ok {
		t.Fatal("expected Clear to drop temp data")
	}
	if m.InProgress(1) {
		t.Fatal("expected Clear to reset state")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, State("awaiting_question"))
	if m.InProgress(2) {
		t.Fatal("state must not leak between users")
	}
}
