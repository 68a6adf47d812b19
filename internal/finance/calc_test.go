package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alioucisse7/truck-management/internal/models"
)

func TestManagementFees(t *testing.T) {
	tests := []struct {
		name     string
		amountET float64
		percent  float64
		expected float64
	}{
		{"fifteen percent of a million", 1_000_000, 15, 150_000},
		{"zero percent", 1_000_000, 0, 0},
		{"zero amount", 0, 15, 0},
		{"floors the result", 1001, 15, 150}, // 150.15 -> 150
		{"nan amount treated as zero", math.NaN(), 15, 0},
		{"inf percent treated as zero", 1_000_000, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ManagementFees(tt.amountET, tt.percent))
		})
	}
}

func TestMtqsFromPricing(t *testing.T) {
	assert.Equal(t, float64(37_500), MtqsFromPricing(2500, 15))
	assert.Equal(t, float64(0), MtqsFromPricing(0, 15))
	assert.Equal(t, float64(16), MtqsFromPricing(11, 1.5)) // 16.5 -> 16
}

func TestAmountETFromEqualization(t *testing.T) {
	assert.Equal(t, float64(90_000), AmountETFromEqualization(30_000, 3))
	assert.Equal(t, float64(0), AmountETFromEqualization(0, 3))
	assert.Equal(t, float64(45_000), AmountETFromEqualization(30_000, 1.5))
}

// For a fixed capacity >= 0 the derived amount never decreases as the
// equalization factor grows.
func TestAmountETFromEqualization_Monotonic(t *testing.T) {
	for _, capacity := range []float64{0, 1, 25_000, 60_000} {
		prev := math.Inf(-1)
		for eq := 0.0; eq <= 5.0; eq += 0.25 {
			got := AmountETFromEqualization(capacity, eq)
			assert.GreaterOrEqual(t, got, prev,
				"capacity=%v eq=%v", capacity, eq)
			prev = got
		}
	}
}

func TestTotalTripExpensesAndProfit(t *testing.T) {
	trip := models.Trip{
		AmountET:              1_000_000,
		ManagementFeesPercent: 15,
		MissionFees:           50_000,
		Mtqs:                  0,
		Expenses: models.TripExpenses{
			Fuel:        100_000,
			Tolls:       10_000,
			Maintenance: 0,
			Other:       0,
		},
	}

	// 150,000 + 50,000 + 0 + 100,000 + 10,000 + 0 + 0
	assert.Equal(t, float64(310_000), TotalTripExpenses(trip))
	assert.Equal(t, float64(690_000), TripProfit(trip))
}

func TestTotalTripExpenses_ZeroTrip(t *testing.T) {
	var trip models.Trip
	assert.Equal(t, float64(0), TotalTripExpenses(trip))
	assert.Equal(t, float64(0), TripProfit(trip))
}

func TestResolveDerived(t *testing.T) {
	tests := []struct {
		name         string
		trip         models.Trip
		capacity     float64
		wantAmountET float64
		wantMtqs     float64
	}{
		{
			name:         "derives both when inputs present",
			trip:         models.Trip{Equalization: 2, MtqsLiters: 1000, PricePerLiter: 12, AmountET: 5, Mtqs: 7},
			capacity:     30_000,
			wantAmountET: 60_000,
			wantMtqs:     12_000,
		},
		{
			name:         "keeps client values when inputs absent",
			trip:         models.Trip{AmountET: 5_000, Mtqs: 700},
			capacity:     30_000,
			wantAmountET: 5_000,
			wantMtqs:     700,
		},
		{
			name:         "zero capacity falls back for amountET only",
			trip:         models.Trip{Equalization: 2, MtqsLiters: 10, PricePerLiter: 3, AmountET: 5_000},
			capacity:     0,
			wantAmountET: 5_000,
			wantMtqs:     30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := tt.trip
			ResolveDerived(&trip, tt.capacity)
			assert.Equal(t, tt.wantAmountET, trip.AmountET)
			assert.Equal(t, tt.wantMtqs, trip.Mtqs)
		})
	}
}
