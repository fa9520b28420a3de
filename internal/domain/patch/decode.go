package patch

import "planche-service/internal/domain/entity"

var (
	flightTextFields = map[string]FlightTextField{
		entity.FieldTakeoffCode:         TakeoffCode,
		entity.FieldTakeoffMachine:      TakeoffMachine,
		entity.FieldTakeoffMachinePilot: TakeoffMachinePilot,
		entity.FieldGlider:              Glider,
		entity.FieldFlightCode:          FlightCode,
		entity.FieldPilot1:              Pilot1,
		entity.FieldPilot2:              Pilot2,
	}

	flightTimeFields = map[string]FlightTimeField{
		entity.FieldTakeoff: Takeoff,
		entity.FieldLanding: Landing,
	}

	groundFields = map[string]GroundField{
		entity.FieldWinchPilot: WinchPilot,
		entity.FieldWinch:      Winch,
		entity.FieldTowPilot:   TowPilot,
		entity.FieldTowPlane:   TowPlane,
		entity.FieldFieldChief: FieldChief,
	}
)

// Decode translates a wire command into an Operation.
// Target 0 only reaches the ground assignments; any other target only reaches flight records.
func Decode(cmd entity.UpdateCommand) (Operation, error) {
	if cmd.TargetsGround() {
		field, ok := groundFields[cmd.Field]
		if !ok {
			return nil, unknownField(cmd)
		}
		return SetGroundAssignment{Field: field, Value: cmd.NewValue}, nil
	}

	switch cmd.Field {
	case entity.FieldNew:
		return CreateFlight{OgnNumber: cmd.OgnNumber, Glider: cmd.NewValue}, nil
	case entity.FieldDelete:
		return DeleteFlight{OgnNumber: cmd.OgnNumber}, nil
	}

	if field, ok := flightTextFields[cmd.Field]; ok {
		return SetFlightText{OgnNumber: cmd.OgnNumber, Field: field, Value: cmd.NewValue}, nil
	}
	if field, ok := flightTimeFields[cmd.Field]; ok {
		value, err := entity.ParseTimeOfDay(cmd.NewValue)
		if err != nil {
			return nil, timeParse(cmd, err)
		}
		return SetFlightTime{OgnNumber: cmd.OgnNumber, Field: field, Value: value}, nil
	}
	return nil, unknownField(cmd)
}
