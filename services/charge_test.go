package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateChargeBoundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{0, 10},
		{0.5, 10},
		{5, 10},
		{12.0, 10},      // 12 小時整還在低價區間
		{12.0001, 20},   // 剛過 12 小時就跳到一個計費區塊
		{24.0, 20},
		{24.0001, 40},
		{30, 40},
		{48.0, 40},
		{48.5, 60},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CalculateCharge(tc.hours), "hours=%v", tc.hours)
	}
}

func TestCalculateChargeMonotonic(t *testing.T) {
	// 時數越長費用不會變便宜
	prev := CalculateCharge(0)
	for h := 0.0; h <= 240; h += 0.25 {
		got := CalculateCharge(h)
		if got < prev {
			t.Fatalf("charge decreased at %v hours: %d -> %d", h, prev, got)
		}
		prev = got
	}
}
