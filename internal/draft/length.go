// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

// DefaultMultiplier inflates the word count requested from the model, which
// tends to undershoot.
const DefaultMultiplier = 1.25

// LengthPlan is the word budget of one section.
type LengthPlan struct {
	// Display is the target shown to the operator.
	Display int

	// AITarget is the inflated count requested from the model.
	AITarget int

	// MinAcceptable is the shortest section reported as passing, 80% of
	// Display.
	MinAcceptable int
}

// PlanLength derives the section budget for target words. Multipliers below
// 1 fall back to DefaultMultiplier so MinAcceptable <= Display <= AITarget.
func PlanLength(target int, multiplier float64) LengthPlan {
	if multiplier < 1 {
		multiplier = DefaultMultiplier
	}
	if target < 0 {
		target = 0
	}
	return LengthPlan{
		Display:       target,
		AITarget:      int(float64(target) * multiplier),
		MinAcceptable: target * 4 / 5,
	}
}

// Passed reports whether a section of words meets the plan.
func (p LengthPlan) Passed(words int) bool {
	return words >= p.MinAcceptable
}
