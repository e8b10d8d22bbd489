package calculator

import (
	"errors"
	"fmt"

	"github.com/iosugomez/kotxea/internal/models"
)

// ErrEmptyRoster is returned when an engine is built without participants.
var ErrEmptyRoster = errors.New("participant roster must not be empty")

// Engine computes balances over a closed, ordered roster of participants.
// It holds no state besides the roster and is safe for concurrent use.
type Engine struct {
	participants []string
	known        map[string]struct{}
}

// NewEngine creates an engine for the given roster. The roster order is the
// iteration order of every balance vector the engine produces.
func NewEngine(participants []string) (*Engine, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}
	known := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p == "" {
			return nil, fmt.Errorf("participant roster contains an empty name")
		}
		if _, dup := known[p]; dup {
			return nil, fmt.Errorf("participant roster contains %q twice", p)
		}
		known[p] = struct{}{}
	}
	roster := make([]string, len(participants))
	copy(roster, participants)
	return &Engine{participants: roster, known: known}, nil
}

// Participants returns a copy of the roster.
func (e *Engine) Participants() []string {
	out := make([]string, len(e.participants))
	copy(out, e.participants)
	return out
}

// SeatBalances computes the ride-sharing balance of every participant.
// For each trip the driver gains (1 - 1/n) and each passenger loses 1/n,
// where n is the number of people in the car.
func (e *Engine) SeatBalances(trips []TripForBalance) (*Balances, error) {
	balances := newBalances(e.participants)
	for i, trip := range trips {
		if err := e.checkTrip(i, trip); err != nil {
			return nil, err
		}
		c := seatShare(trip)
		balances.add(trip.Driver, one.Sub(c))
		for _, p := range trip.Passengers {
			balances.add(p, c.Neg())
		}
	}
	return balances, nil
}

// MoneyBalances computes what each participant is owed (positive) or owes
// (negative) from trip costs.
//
// Algorithm:
// - Skip trips with no cost or no passengers
// - share = cost / n
// - Driver: -share × passengers
// - Each passenger: +share
func (e *Engine) MoneyBalances(trips []TripForBalance) (*Balances, error) {
	balances := newBalances(e.participants)
	for i, trip := range trips {
		if err := e.checkTrip(i, trip); err != nil {
			return nil, err
		}
		share, ok := TripShare(trip)
		if !ok {
			continue
		}
		balances.add(trip.Driver, share.Mul(decimalFromInt(len(trip.Passengers))).Neg())
		for _, p := range trip.Passengers {
			balances.add(p, share)
		}
	}
	return balances, nil
}

// checkTrip keeps the roster closed: unknown names are rejected instead of
// silently opening new balance entries.
func (e *Engine) checkTrip(index int, trip TripForBalance) error {
	if _, ok := e.known[trip.Driver]; !ok {
		return &models.ValidationError{
			Field:   fmt.Sprintf("trip %d: conductor", index),
			Message: fmt.Sprintf("%q is not a known participant", trip.Driver),
		}
	}
	for _, p := range trip.Passengers {
		if _, ok := e.known[p]; !ok {
			return &models.ValidationError{
				Field:   fmt.Sprintf("trip %d: pasajeros", index),
				Message: fmt.Sprintf("%q is not a known participant", p),
			}
		}
	}
	return nil
}
