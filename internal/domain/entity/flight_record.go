// internal/domain/entity/flight_record.go
package entity

// FlightRecord is one logged glider flight of the day.
// OgnNumber comes from the OGN flight-tracking feed and identifies the record within a roster.
type FlightRecord struct {
	OgnNumber int `json:"ogn_nb" bson:"ognNumber"`

	// Launch method (T: winch, R: aerotow), the tow plane registration or winch name, and its operator
	TakeoffCode         string `json:"takeoff_code" bson:"takeoffCode"`
	TakeoffMachine      string `json:"takeoff_machine" bson:"takeoffMachine"`
	TakeoffMachinePilot string `json:"takeoff_machine_pilot" bson:"takeoffMachinePilot"`

	Glider     string `json:"glider" bson:"glider"`
	FlightCode string `json:"flight_code" bson:"flightCode"` // school, shared cost, ...
	Pilot1     string `json:"pilot1" bson:"pilot1"`          // pilot in command or student
	Pilot2     string `json:"pilot2" bson:"pilot2"`          // passenger or instructor

	Takeoff TimeOfDay `json:"takeoff" bson:"takeoff"`
	Landing TimeOfDay `json:"landing" bson:"landing"`
}
