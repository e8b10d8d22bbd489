package calculator

import (
	"github.com/shopspring/decimal"
)

// TripForBalance represents a trip with the minimal information needed for
// balance calculations.
type TripForBalance struct {
	Driver     string
	Passengers []string
	Cost       decimal.Decimal
}

// seats is the number of people sharing the trip, driver included.
func (t TripForBalance) seats() decimal.Decimal {
	return decimal.NewFromInt(int64(len(t.Passengers) + 1))
}

// TripShare computes how much each person in the car owes for a trip.
// Based on: share = cost / (passengers + 1)
//
// ok is false when the trip carries no cost or nobody rode along, in which case
// the trip does not move any money.
func TripShare(trip TripForBalance) (share decimal.Decimal, ok bool) {
	if !trip.Cost.IsPositive() || len(trip.Passengers) == 0 {
		return decimal.Zero, false
	}
	return trip.Cost.Div(trip.seats()), true
}

// seatShare is the fraction of the ride each occupant accounts for.
func seatShare(trip TripForBalance) decimal.Decimal {
	return one.Div(trip.seats())
}
