// ABOUTME: Tests for the kill ring buffer
// ABOUTME: Covers push, yank, yank-pop wraparound and overflow

package killring

import "testing"

func TestRing_PushAndYank(t *testing.T) {
	t.Parallel()

	r := New()
	r.Push("first")
	r.Push("second")
	if got := r.Yank(); got != "second" {
		t.Errorf("Yank() = %q, want %q", got, "second")
	}
	if got := r.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestRing_YankPop(t *testing.T) {
	t.Parallel()

	r := New()
	r.Push("a")
	r.Push("b")
	r.Push("c")

	if got := r.Yank(); got != "c" {
		t.Fatalf("Yank() = %q, want %q", got, "c")
	}
	// The third pop wraps back to the newest entry.
	for i, want := range []string{"b", "a", "c"} {
		if got := r.YankPop(); got != want {
			t.Errorf("YankPop() #%d = %q, want %q", i+1, got, want)
		}
	}
}

func TestRing_Empty(t *testing.T) {
	t.Parallel()

	r := New()
	if got := r.Yank(); got != "" {
		t.Errorf("Yank() on empty ring = %q, want empty", got)
	}
	if got := r.YankPop(); got != "" {
		t.Errorf("YankPop() on empty ring = %q, want empty", got)
	}

	r.Push("")
	if got := r.Len(); got != 0 {
		t.Errorf("Len() after empty kill = %d, want 0", got)
	}
}

func TestRing_Overflow(t *testing.T) {
	t.Parallel()

	r := NewSize(2)
	r.Push("a")
	r.Push("b")
	r.Push("c")

	if got := r.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := r.Yank(); got != "c" {
		t.Errorf("Yank() = %q, want %q", got, "c")
	}
	// "a" was overwritten, so popping cycles between the two survivors.
	for i, want := range []string{"b", "c"} {
		if got := r.YankPop(); got != want {
			t.Errorf("YankPop() #%d = %q, want %q", i+1, got, want)
		}
	}
}

func TestRing_MinimumSize(t *testing.T) {
	t.Parallel()

	r := NewSize(0)
	r.Push("x")
	r.Push("y")
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	if got := r.Yank(); got != "y" {
		t.Errorf("Yank() = %q, want %q", got, "y")
	}
}
