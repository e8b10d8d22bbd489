package models

// Trip represents one shared ride.
type Trip struct {
	// Date is the day of the ride. Opaque string; only presence is checked.
	Date string `json:"fecha"`

	// Driver is the participant who drove.
	Driver string `json:"conductor"`

	// Passengers are the participants who rode along, excluding the driver.
	// May be empty.
	Passengers []string `json:"pasajeros"`

	// Cost is the money attributable to the ride (fuel, tolls...).
	// Zero means no cost was recorded.
	Cost float64 `json:"dinero"`
}

// Seats returns the number of people in the car, driver included.
func (t Trip) Seats() int {
	return len(t.Passengers) + 1
}

// Normalize returns a copy of the trip with a non-nil passenger list, so it
// serializes as [] instead of null.
func (t Trip) Normalize() Trip {
	if t.Passengers == nil {
		t.Passengers = []string{}
	}
	return t
}

// Validate checks the fields a trip needs before it is persisted.
// Roster membership is checked by the balance engine.
func (t Trip) Validate() error {
	if t.Date == "" {
		return &ValidationError{Field: "fecha", Message: "is required"}
	}
	if t.Driver == "" {
		return &ValidationError{Field: "conductor", Message: "is required"}
	}
	if t.Cost < 0 {
		return &ValidationError{Field: "dinero", Message: "must not be negative"}
	}
	return nil
}
