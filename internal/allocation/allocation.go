// Package allocation computes how a sequence's FAMCOIN budget is divided
// across its expected task completions.
package allocation

import "math"

// RemainderPolicy controls what happens to budget that does not divide evenly
// across completions.
type RemainderPolicy string

const (
	// RemainderUnallocated leaves the remainder unassigned: every completion
	// gets the same floor value and the leftover coins stay in the budget.
	RemainderUnallocated RemainderPolicy = "unallocated"
	// RemainderFirstN gives one extra coin to the first remainder completions.
	RemainderFirstN RemainderPolicy = "first_n"
)

// ParsePolicy maps a settings value onto a policy, defaulting to unallocated.
func ParsePolicy(s string) RemainderPolicy {
	if RemainderPolicy(s) == RemainderFirstN {
		return RemainderFirstN
	}
	return RemainderUnallocated
}

// GroupLoad describes one group's contribution to the completion count.
type GroupLoad struct {
	Tasks      int
	ActiveDays int
	Weeks      float64
}

// Result is a computed budget division.
type Result struct {
	TotalCompletions int
	PerCompletion    int
	// BonusCompletions is how many completions receive one extra coin. Zero
	// unless the first-n policy is active.
	BonusCompletions int
	// Unallocated is the budget left over after every completion's share.
	Unallocated int
}

// TotalCompletions estimates the completion count across all groups. Each
// group contributes tasks x activeDays x weeks; rounding happens once, on the
// aggregate, not per group.
func TotalCompletions(loads []GroupLoad) int {
	var sum float64
	for _, l := range loads {
		sum += float64(l.Tasks) * float64(l.ActiveDays) * l.Weeks
	}
	return int(math.Round(sum))
}

// PerCompletion divides the budget evenly, flooring. A zero completion count
// yields zero, never a division error.
func PerCompletion(budget, totalCompletions int) int {
	if totalCompletions <= 0 {
		return 0
	}
	return budget / totalCompletions
}

// Allocate divides budget across totalCompletions under the given policy.
func Allocate(budget, totalCompletions int, policy RemainderPolicy) Result {
	r := Result{TotalCompletions: totalCompletions}
	if totalCompletions <= 0 {
		r.Unallocated = budget
		return r
	}

	r.PerCompletion = budget / totalCompletions
	remainder := budget % totalCompletions
	if policy == RemainderFirstN {
		r.BonusCompletions = remainder
	} else {
		r.Unallocated = remainder
	}
	return r
}

// FamcoinsForBudget converts a real-currency budget into FAMCOINS at the
// configured rate, flooring to a whole coin count.
func FamcoinsForBudget(currencyAmount, rate float64) int {
	if currencyAmount <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Floor(currencyAmount * rate))
}
