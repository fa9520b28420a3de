// Package patch validates field-level update commands and merges them into a DailyRoster.
//
// Apply never locks and never performs I/O; callers serialize updates per date.
// A command either lands completely or leaves the roster untouched.
package patch

import (
	"fmt"

	"planche-service/internal/domain/entity"
)

// Delta describes the effect of one applied update
type Delta struct {
	Operation Operation
	// Matched counts records created, removed or modified; ground updates report 1
	Matched int
	// Previous holds the overwritten values, one per modified record, formatted as on the wire
	Previous []string
}

// Option configures an Applier
type Option func(*Applier)

// WithUniqueFlights rejects creation of a flight whose ognNumber is already live in the roster
func WithUniqueFlights() Option {
	return func(a *Applier) {
		a.uniqueFlights = true
	}
}

// Applier applies update commands to rosters. The zero value is ready to use.
type Applier struct {
	uniqueFlights bool
}

// NewApplier creates an applier with the given options
func NewApplier(opts ...Option) *Applier {
	a := &Applier{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply validates cmd against roster and applies it in place
func (a *Applier) Apply(roster *entity.DailyRoster, cmd entity.UpdateCommand) (Delta, error) {
	if !cmd.Date.Equal(roster.Date) {
		return Delta{}, dateMismatch(cmd, roster.Date)
	}
	op, err := Decode(cmd)
	if err != nil {
		return Delta{}, err
	}
	return a.apply(roster, op, cmd.Field)
}

// ApplyOperation applies an already decoded operation addressed to date
func (a *Applier) ApplyOperation(roster *entity.DailyRoster, date entity.Date, op Operation) (Delta, error) {
	switch op.(type) {
	case CreateFlight, DeleteFlight, SetFlightText, SetFlightTime, SetGroundAssignment:
	default:
		// nil and pointer variants land here; Target must not be called on them
		return Delta{}, &ApplyError{Kind: KindUnknownField, Err: fmt.Errorf("%w: unsupported operation %T", ErrUnknownField, op)}
	}
	if !date.Equal(roster.Date) {
		return Delta{}, &ApplyError{
			Kind:      KindDateMismatch,
			OgnNumber: op.Target(),
			Err:       fmt.Errorf("%w: update is for %s, roster is %s", ErrDateMismatch, date, roster.Date),
		}
	}
	return a.apply(roster, op, fmt.Sprintf("%T", op))
}

func (a *Applier) apply(roster *entity.DailyRoster, op Operation, fieldName string) (Delta, error) {
	if err := a.validate(roster, op, fieldName); err != nil {
		return Delta{}, err
	}

	delta := Delta{Operation: op}
	switch op := op.(type) {
	case CreateFlight:
		roster.Flights = append(roster.Flights, entity.FlightRecord{
			OgnNumber: op.OgnNumber,
			Glider:    op.Glider,
		})
		delta.Matched = 1

	case DeleteFlight:
		kept := roster.Flights[:0]
		for _, flight := range roster.Flights {
			if flight.OgnNumber == op.OgnNumber {
				delta.Matched++
				continue
			}
			kept = append(kept, flight)
		}
		roster.Flights = kept

	case SetFlightText:
		for i := range roster.Flights {
			if roster.Flights[i].OgnNumber != op.OgnNumber {
				continue
			}
			field := op.Field.field(&roster.Flights[i])
			delta.Previous = append(delta.Previous, *field)
			*field = op.Value
			delta.Matched++
		}

	case SetFlightTime:
		for i := range roster.Flights {
			if roster.Flights[i].OgnNumber != op.OgnNumber {
				continue
			}
			field := op.Field.field(&roster.Flights[i])
			delta.Previous = append(delta.Previous, field.String())
			*field = op.Value
			delta.Matched++
		}

	case SetGroundAssignment:
		field := op.Field.field(roster)
		delta.Previous = []string{*field}
		*field = op.Value
		delta.Matched = 1

	default:
		return Delta{}, &ApplyError{Kind: KindUnknownField, Field: fieldName, Err: fmt.Errorf("%w: unsupported operation %T", ErrUnknownField, op)}
	}
	return delta, nil
}

// validate runs every check that can reject op, so that apply never fails halfway
func (a *Applier) validate(roster *entity.DailyRoster, op Operation, fieldName string) error {
	reject := func(kind ErrorKind, err error) error {
		return &ApplyError{Kind: kind, Field: fieldName, OgnNumber: op.Target(), Err: err}
	}

	switch op.(type) {
	case CreateFlight, DeleteFlight, SetFlightText, SetFlightTime, SetGroundAssignment:
	default:
		return &ApplyError{Kind: KindUnknownField, Field: fieldName, Err: fmt.Errorf("%w: unsupported operation %T", ErrUnknownField, op)}
	}

	if ground, ok := op.(SetGroundAssignment); ok {
		if ground.Field.field(roster) == nil {
			return reject(KindUnknownField, fmt.Errorf("%w: ground field %d", ErrUnknownField, ground.Field))
		}
		return nil
	}

	if op.Target() == entity.GroundTarget {
		return reject(KindUnknownField, fmt.Errorf("%w: target 0 is reserved for ground assignments", ErrUnknownField))
	}

	var probe entity.FlightRecord
	switch op := op.(type) {
	case CreateFlight:
		if a.uniqueFlights && roster.CountFlights(op.OgnNumber) > 0 {
			return reject(KindDuplicateFlight, fmt.Errorf("%w: ogn number %d", ErrDuplicateFlight, op.OgnNumber))
		}
	case SetFlightText:
		if op.Field.field(&probe) == nil {
			return reject(KindUnknownField, fmt.Errorf("%w: flight text field %d", ErrUnknownField, op.Field))
		}
	case SetFlightTime:
		if op.Field.field(&probe) == nil {
			return reject(KindUnknownField, fmt.Errorf("%w: flight time field %d", ErrUnknownField, op.Field))
		}
		if op.Value < 0 || op.Value >= 24*60 {
			return reject(KindTimeParseError, fmt.Errorf("%w: %d minutes", ErrTimeParse, int(op.Value)))
		}
	}
	return nil
}
