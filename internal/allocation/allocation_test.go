package allocation

import "testing"

func TestTotalCompletionsSingleGroup(t *testing.T) {
	// 2 tasks x 3 days x 1 week = 6
	got := TotalCompletions([]GroupLoad{{Tasks: 2, ActiveDays: 3, Weeks: 1}})
	if got != 6 {
		t.Errorf("TotalCompletions = %d, want 6", got)
	}
}

func TestTotalCompletionsRoundsAggregateOnce(t *testing.T) {
	// Two monthly groups: 1x1x4.34 = 4.34 each. Per-group rounding would give
	// 4+4=8; the aggregate 8.68 rounds to 9.
	loads := []GroupLoad{
		{Tasks: 1, ActiveDays: 1, Weeks: 4.34},
		{Tasks: 1, ActiveDays: 1, Weeks: 4.34},
	}
	if got := TotalCompletions(loads); got != 9 {
		t.Errorf("TotalCompletions = %d, want 9 (aggregate rounding)", got)
	}
}

func TestTotalCompletionsEmpty(t *testing.T) {
	if got := TotalCompletions(nil); got != 0 {
		t.Errorf("TotalCompletions(nil) = %d, want 0", got)
	}
}

func TestPerCompletion(t *testing.T) {
	tests := []struct {
		budget, total, want int
	}{
		{100, 7, 14},
		{100, 10, 10},
		{100, 0, 0},
		{0, 5, 0},
		{3, 7, 0},
	}
	for _, tt := range tests {
		if got := PerCompletion(tt.budget, tt.total); got != tt.want {
			t.Errorf("PerCompletion(%d, %d) = %d, want %d", tt.budget, tt.total, got, tt.want)
		}
	}
}

func TestAllocateUnallocatedRemainder(t *testing.T) {
	r := Allocate(100, 7, RemainderUnallocated)
	if r.PerCompletion != 14 {
		t.Errorf("PerCompletion = %d, want 14", r.PerCompletion)
	}
	if r.Unallocated != 2 {
		t.Errorf("Unallocated = %d, want 2", r.Unallocated)
	}
	if r.BonusCompletions != 0 {
		t.Errorf("BonusCompletions = %d, want 0", r.BonusCompletions)
	}
	// total allocated = 7*14 = 98
	if allocated := r.PerCompletion*7 + r.BonusCompletions; allocated != 98 {
		t.Errorf("allocated = %d, want 98", allocated)
	}
}

func TestAllocateFirstNRemainder(t *testing.T) {
	r := Allocate(100, 7, RemainderFirstN)
	if r.PerCompletion != 14 {
		t.Errorf("PerCompletion = %d, want 14", r.PerCompletion)
	}
	if r.BonusCompletions != 2 {
		t.Errorf("BonusCompletions = %d, want 2", r.BonusCompletions)
	}
	if r.Unallocated != 0 {
		t.Errorf("Unallocated = %d, want 0", r.Unallocated)
	}
	// 5 completions at 14 + 2 at 15 = 100
	if total := 5*14 + 2*15; total != 100 {
		t.Errorf("full budget not distributed: %d", total)
	}
}

func TestAllocateZeroCompletions(t *testing.T) {
	r := Allocate(50, 0, RemainderUnallocated)
	if r.PerCompletion != 0 {
		t.Errorf("PerCompletion = %d, want 0", r.PerCompletion)
	}
	if r.Unallocated != 50 {
		t.Errorf("Unallocated = %d, want 50", r.Unallocated)
	}
}

func TestAllocateIdempotent(t *testing.T) {
	first := Allocate(100, 7, RemainderUnallocated)
	second := Allocate(100, 7, RemainderUnallocated)
	if first != second {
		t.Errorf("re-computation differs: %+v vs %+v", first, second)
	}
}

func TestFamcoinsForBudget(t *testing.T) {
	tests := []struct {
		amount, rate float64
		want         int
	}{
		{10, 10, 100},
		{9.99, 10, 99},
		{0, 10, 0},
		{-5, 10, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := FamcoinsForBudget(tt.amount, tt.rate); got != tt.want {
			t.Errorf("FamcoinsForBudget(%v, %v) = %d, want %d", tt.amount, tt.rate, got, tt.want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("first_n") != RemainderFirstN {
		t.Error("ParsePolicy(first_n)")
	}
	if ParsePolicy("") != RemainderUnallocated {
		t.Error("ParsePolicy empty should default to unallocated")
	}
	if ParsePolicy("garbage") != RemainderUnallocated {
		t.Error("ParsePolicy garbage should default to unallocated")
	}
}
