// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanLengthMediumScenario(t *testing.T) {
	p := PlanLength(300, 1.25)
	assert.Equal(t, LengthPlan{Display: 300, AITarget: 375, MinAcceptable: 240}, p)
	assert.True(t, p.Passed(260))
	assert.True(t, p.Passed(240))
	assert.False(t, p.Passed(200))
}

func TestPlanLengthPresets(t *testing.T) {
	tests := []struct {
		target  int
		ai, min int
	}{
		{225, 281, 180},
		{300, 375, 240},
		{400, 500, 320},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.target), func(t *testing.T) {
			p := PlanLength(tt.target, DefaultMultiplier)
			assert.Equal(t, tt.ai, p.AITarget)
			assert.Equal(t, tt.min, p.MinAcceptable)
		})
	}
}

func TestPlanLengthOrdering(t *testing.T) {
	multipliers := []float64{-1, 0, 0.5, 0.99, 1, 1.1, 1.25, 1.5, 2, 3.7}
	for target := 0; target <= 2000; target += 7 {
		for _, m := range multipliers {
			p := PlanLength(target, m)
			if p.MinAcceptable > p.AITarget || p.MinAcceptable > p.Display || p.Display > p.AITarget {
				t.Fatalf("PlanLength(%d, %v) = %+v violates min <= display <= ai", target, m, p)
			}
		}
	}
}

func TestPlanLengthLowMultiplierFallsBack(t *testing.T) {
	assert.Equal(t, PlanLength(300, DefaultMultiplier), PlanLength(300, 0.5))
}

func TestPlanLengthNegativeTarget(t *testing.T) {
	assert.Equal(t, LengthPlan{}, PlanLength(-10, 1.25))
}
