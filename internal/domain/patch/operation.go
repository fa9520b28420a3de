package patch

import "planche-service/internal/domain/entity"

// Operation is one decoded update. The set of implementations is closed to this package.
type Operation interface {
	// Target is the ognNumber addressed, or entity.GroundTarget
	Target() int
	isOperation()
}

// FlightTextField names a free-text attribute of a FlightRecord
type FlightTextField int

const (
	TakeoffCode FlightTextField = iota + 1
	TakeoffMachine
	TakeoffMachinePilot
	Glider
	FlightCode
	Pilot1
	Pilot2
)

// FlightTimeField names a time-of-day attribute of a FlightRecord
type FlightTimeField int

const (
	Takeoff FlightTimeField = iota + 1
	Landing
)

// GroundField names one of the five ground assignments of a DailyRoster
type GroundField int

const (
	WinchPilot GroundField = iota + 1
	Winch
	TowPilot
	TowPlane
	FieldChief
)

type CreateFlight struct {
	OgnNumber int
	Glider    string
}

type DeleteFlight struct {
	OgnNumber int
}

type SetFlightText struct {
	OgnNumber int
	Field     FlightTextField
	Value     string
}

type SetFlightTime struct {
	OgnNumber int
	Field     FlightTimeField
	Value     entity.TimeOfDay
}

type SetGroundAssignment struct {
	Field GroundField
	Value string
}

func (o CreateFlight) Target() int        { return o.OgnNumber }
func (o DeleteFlight) Target() int        { return o.OgnNumber }
func (o SetFlightText) Target() int       { return o.OgnNumber }
func (o SetFlightTime) Target() int       { return o.OgnNumber }
func (o SetGroundAssignment) Target() int { return entity.GroundTarget }

func (CreateFlight) isOperation()        {}
func (DeleteFlight) isOperation()        {}
func (SetFlightText) isOperation()       {}
func (SetFlightTime) isOperation()       {}
func (SetGroundAssignment) isOperation() {}

func (f FlightTextField) field(record *entity.FlightRecord) *string {
	switch f {
	case TakeoffCode:
		return &record.TakeoffCode
	case TakeoffMachine:
		return &record.TakeoffMachine
	case TakeoffMachinePilot:
		return &record.TakeoffMachinePilot
	case Glider:
		return &record.Glider
	case FlightCode:
		return &record.FlightCode
	case Pilot1:
		return &record.Pilot1
	case Pilot2:
		return &record.Pilot2
	}
	return nil
}

func (f FlightTimeField) field(record *entity.FlightRecord) *entity.TimeOfDay {
	switch f {
	case Takeoff:
		return &record.Takeoff
	case Landing:
		return &record.Landing
	}
	return nil
}

func (f GroundField) field(roster *entity.DailyRoster) *string {
	switch f {
	case WinchPilot:
		return &roster.WinchPilot
	case Winch:
		return &roster.Winch
	case TowPilot:
		return &roster.TowPilot
	case TowPlane:
		return &roster.TowPlane
	case FieldChief:
		return &roster.FieldChief
	}
	return nil
}
