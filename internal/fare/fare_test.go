package fare

import (
	"testing"

	"busbooking/internal/seats"
	"busbooking/internal/shared/config"

	"github.com/stretchr/testify/assert"
)

func priced(prices ...int64) []seats.Seat {
	out := make([]seats.Seat, 0, len(prices))
	for _, p := range prices {
		out = append(out, seats.Seat{Price: p, Status: seats.StatusAvailable})
	}
	return out
}

func TestCompute(t *testing.T) {
	calc := Calculator{ServiceFee: 50, GSTRate: 0.05}

	tests := []struct {
		name   string
		prices []int64
		want   Breakdown
	}{
		{"single seat", []int64{100}, Breakdown{BaseFare: 100, ServiceFee: 50, GSTAmount: 5, TotalAmount: 155}},
		{"two seats", []int64{100, 200}, Breakdown{BaseFare: 300, ServiceFee: 50, GSTAmount: 15, TotalAmount: 365}},
		{"rounds half up", []int64{10}, Breakdown{BaseFare: 10, ServiceFee: 50, GSTAmount: 1, TotalAmount: 61}},
		{"rounds down below half", []int64{9}, Breakdown{BaseFare: 9, ServiceFee: 50, GSTAmount: 0, TotalAmount: 59}},
		{"empty selection", nil, Breakdown{BaseFare: 0, ServiceFee: 50, GSTAmount: 0, TotalAmount: 50}},
		{"free seat", []int64{0}, Breakdown{BaseFare: 0, ServiceFee: 50, GSTAmount: 0, TotalAmount: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Compute(priced(tt.prices...))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.BaseFare+got.ServiceFee+got.GSTAmount, got.TotalAmount)
		})
	}
}

func TestCompute_OrderIndependent(t *testing.T) {
	calc := Calculator{ServiceFee: 50, GSTRate: 0.05}

	assert.Equal(t, calc.Compute(priced(350, 120, 999)), calc.Compute(priced(999, 350, 120)))
}

func TestCompute_Deterministic(t *testing.T) {
	calc := Calculator{ServiceFee: 50, GSTRate: 0.18}
	seats := priced(1234, 567)

	first := calc.Compute(seats)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.Compute(seats))
	}
	assert.Equal(t, int64(324), first.GSTAmount) // 1801 * 0.18 = 324.18
}

func TestNewCalculator(t *testing.T) {
	calc := NewCalculator(config.FareConfig{ServiceFee: 75, GSTRate: 0.12})

	assert.Equal(t, int64(75), calc.ServiceFee)
	assert.Equal(t, 0.12, calc.GSTRate)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(3), RoundHalfUp(50, 500))  // 2.5
	assert.Equal(t, int64(2), RoundHalfUp(49, 500))  // 2.45
	assert.Equal(t, int64(0), RoundHalfUp(0, 500))
}
