package tutor

import "testing"

func TestHistoryAppendOrder(t *testing.T) {
	h := NewHistory()

	h.Append(NewTurn(RoleUser, "first"))
	h.Append(NewTurn(RoleModel, "second"))
	h.Append(NewTurn(RoleUser, "third"))

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	turns := h.Snapshot()
	want := []string{"first", "second", "third"}
	for i, text := range want {
		if turns[i].Text != text {
			t.Fatalf("turn %d text = %q, want %q", i, turns[i].Text, text)
		}
	}
	if turns[0].Role != RoleUser || turns[1].Role != RoleModel {
		t.Fatalf("roles out of order: %s, %s", turns[0].Role, turns[1].Role)
	}
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	h := NewHistory()
	h.Append(NewTurn(RoleUser, "original"))

	snap := h.Snapshot()
	snap[0].Text = "mutated"
	_ = append(snap, NewTurn(RoleModel, "extra"))

	again := h.Snapshot()
	if len(again) != 1 {
		t.Fatalf("buffer length changed through snapshot: %d", len(again))
	}
	if again[0].Text != "original" {
		t.Fatalf("buffer mutated through snapshot: %q", again[0].Text)
	}
}

func TestHistoryTimestampsNonDecreasing(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 10; i++ {
		h.Append(NewTurn(RoleUser, "x"))
	}

	turns := h.Snapshot()
	for i := 1; i < len(turns); i++ {
		if turns[i].CreatedAt.Before(turns[i-1].CreatedAt) {
			t.Fatalf("turn %d created before turn %d", i, i-1)
		}
	}
}

func TestNewTurnAssignsUniqueIDs(t *testing.T) {
	a := NewTurn(RoleUser, "a")
	b := NewTurn(RoleUser, "a")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("turn IDs not unique: %q vs %q", a.ID, b.ID)
	}
}
