// Package finance holds the derived-financial-field calculations and the
// trip status side-effect rules that the route handlers share. Every caller
// that needs a management fee, an expense total or a ledger entry goes
// through here rather than re-deriving the formula.
package finance

import (
	"math"

	"github.com/alioucisse7/truck-management/internal/models"
)

// num guards float inputs: NaN and infinities count as absent and become 0.
// All monetary results are truncated with floor to match the billing rules.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ManagementFees computes the percentage-of-revenue fee deducted from a
// trip: floor(amountET x managementFeesPercent / 100).
func ManagementFees(amountET, managementFeesPercent float64) float64 {
	return math.Floor(num(amountET) * num(managementFeesPercent) / 100)
}

// MtqsFromPricing derives the mtqs amount from liters and price per liter.
func MtqsFromPricing(mtqsLiters, pricePerLiter float64) float64 {
	return math.Floor(num(mtqsLiters) * num(pricePerLiter))
}

// AmountETFromEqualization derives the billed cargo amount from truck
// capacity and the per-trip equalization multiplier.
func AmountETFromEqualization(truckCapacity, equalization float64) float64 {
	return math.Floor(num(truckCapacity) * num(equalization))
}

// TotalTripExpenses sums every expense attached to a trip: management fees,
// mission fees, mtqs, and the four direct expense buckets.
func TotalTripExpenses(trip models.Trip) float64 {
	return ManagementFees(trip.AmountET, trip.ManagementFeesPercent) +
		num(trip.MissionFees) +
		num(trip.Mtqs) +
		num(trip.Expenses.Fuel) +
		num(trip.Expenses.Tolls) +
		num(trip.Expenses.Maintenance) +
		num(trip.Expenses.Other)
}

// TripProfit is the trip's net result: amountET minus all expenses.
func TripProfit(trip models.Trip) float64 {
	return num(trip.AmountET) - TotalTripExpenses(trip)
}

// ResolveDerived fills the stored derived fields from their inputs. The
// server-side derivation wins whenever the inputs are present; the stored
// (client-supplied) value is kept only as a fallback when they are not.
func ResolveDerived(trip *models.Trip, truckCapacity float64) {
	if num(trip.Equalization) != 0 && num(truckCapacity) != 0 {
		trip.AmountET = AmountETFromEqualization(truckCapacity, trip.Equalization)
	}
	if num(trip.MtqsLiters) != 0 && num(trip.PricePerLiter) != 0 {
		trip.Mtqs = MtqsFromPricing(trip.MtqsLiters, trip.PricePerLiter)
	}
}
