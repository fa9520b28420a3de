// internal/domain/entity/update_command.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel target routing an update to the ground assignments instead of a flight.
const GroundTarget = 0

// Wire tokens accepted in UpdateCommand.Field. Producers and consumers share this vocabulary.
const (
	FieldNew    = "new"
	FieldDelete = "delete"

	FieldTakeoffCode         = "takeoff_code"
	FieldTakeoffMachine      = "machine_decollage"
	FieldTakeoffMachinePilot = "decolleur"
	FieldGlider              = "aeronef"
	FieldFlightCode          = "code_vol"
	FieldPilot1              = "pilote1"
	FieldPilot2              = "pilote2"
	FieldTakeoff             = "decollage"
	FieldLanding             = "atterissage"

	FieldWinchPilot = "pilote_tr"
	FieldWinch      = "treuil"
	FieldTowPilot   = "pilote_rq"
	FieldTowPlane   = "remorqueur"
	FieldFieldChief = "chef_piste"
)

// UpdateCommand is one requested field change against a DailyRoster.
// It is never mutated once constructed.
type UpdateCommand struct {
	ID        uuid.UUID `json:"id" bson:"updateId"`
	OgnNumber int       `json:"ogn_nb" bson:"ognNumber"`
	Field     string    `json:"updated_field" bson:"updatedField"`
	NewValue  string    `json:"new_value" bson:"newValue"`
	Date      Date      `json:"date" bson:"date"`
	IssuedAt  time.Time `json:"issued_at" bson:"issuedAt"`
}

// NewUpdateCommand builds a command with a fresh ID issued at issuedAt
func NewUpdateCommand(date Date, ognNumber int, field, newValue string, issuedAt time.Time) UpdateCommand {
	return UpdateCommand{
		ID:        uuid.New(),
		OgnNumber: ognNumber,
		Field:     field,
		NewValue:  newValue,
		Date:      date,
		IssuedAt:  issuedAt,
	}
}

// TargetsGround reports whether the command addresses the ground assignments
func (c UpdateCommand) TargetsGround() bool {
	return c.OgnNumber == GroundTarget
}
