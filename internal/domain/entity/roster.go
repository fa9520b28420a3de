// internal/domain/entity/roster.go
package entity

// DailyRoster holds the flights of one day and the ground crew currently on duty.
type DailyRoster struct {
	Date       Date           `json:"date"`
	Flights    []FlightRecord `json:"flights"` // arrival order, not flight chronology
	WinchPilot string         `json:"winch_pilot"`
	Winch      string         `json:"winch"`
	TowPilot   string         `json:"tow_pilot"`
	TowPlane   string         `json:"tow_plane"`
	FieldChief string         `json:"field_chief"`
}

// NewDailyRoster creates an empty roster bound to date
func NewDailyRoster(date Date) *DailyRoster {
	return &DailyRoster{
		Date:    date,
		Flights: make([]FlightRecord, 0),
	}
}

// Clone returns a deep copy of the roster
func (r *DailyRoster) Clone() *DailyRoster {
	clone := *r
	clone.Flights = make([]FlightRecord, len(r.Flights))
	copy(clone.Flights, r.Flights)
	return &clone
}

// CountFlights returns how many live records carry ognNumber
func (r *DailyRoster) CountFlights(ognNumber int) int {
	count := 0
	for _, flight := range r.Flights {
		if flight.OgnNumber == ognNumber {
			count++
		}
	}
	return count
}
