package patch

import (
	"errors"
	"testing"
	"time"

	"planche-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDate = entity.NewDate(2024, time.May, 1)
	issuedAt = time.Date(2024, time.May, 1, 13, 0, 0, 0, time.UTC)
)

func command(ogn int, field, value string) entity.UpdateCommand {
	return entity.NewUpdateCommand(testDate, ogn, field, value, issuedAt)
}

func mustTime(t *testing.T, value string) entity.TimeOfDay {
	t.Helper()
	tod, err := entity.ParseTimeOfDay(value)
	require.NoError(t, err)
	return tod
}

// populatedRoster returns a roster with two records for ogn 3 around one for ogn 5
func populatedRoster(t *testing.T) *entity.DailyRoster {
	roster := entity.NewDailyRoster(testDate)
	roster.Flights = []entity.FlightRecord{
		{OgnNumber: 3, Glider: "F-CAAA", Pilot1: "A", Takeoff: mustTime(t, "10:00")},
		{OgnNumber: 5, Glider: "F-CBBB", Pilot1: "B", Takeoff: mustTime(t, "10:30"), Landing: mustTime(t, "11:10")},
		{OgnNumber: 3, Glider: "F-CCCC", Pilot1: "C"},
	}
	roster.Winch = "Treuil 1"
	return roster
}

func TestApply_DateMismatchLeavesRosterUntouched(t *testing.T) {
	fields := []string{
		entity.FieldNew, entity.FieldDelete, entity.FieldTakeoffCode, entity.FieldTakeoffMachine,
		entity.FieldTakeoffMachinePilot, entity.FieldGlider, entity.FieldFlightCode, entity.FieldPilot1,
		entity.FieldPilot2, entity.FieldTakeoff, entity.FieldLanding,
	}
	applier := NewApplier()

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			roster := populatedRoster(t)
			before := roster.Clone()
			cmd := command(3, field, "12:00")
			cmd.Date = entity.NewDate(2024, time.May, 2)

			_, err := applier.Apply(roster, cmd)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDateMismatch)
			assert.Equal(t, KindDateMismatch, KindOf(err))
			assert.Equal(t, before, roster)
		})
	}

	for field := range groundFields {
		t.Run("ground "+field, func(t *testing.T) {
			roster := populatedRoster(t)
			before := roster.Clone()
			cmd := command(entity.GroundTarget, field, "X")
			cmd.Date = entity.NewDate(2023, time.May, 1)

			_, err := applier.Apply(roster, cmd)

			assert.ErrorIs(t, err, ErrDateMismatch)
			assert.Equal(t, before, roster)
		})
	}
}

func TestApply_CreateAppendsDefaultRecord(t *testing.T) {
	roster := populatedRoster(t)
	k := len(roster.Flights)

	delta, err := NewApplier().Apply(roster, command(42, entity.FieldNew, "F-XXXX"))

	require.NoError(t, err)
	require.Len(t, roster.Flights, k+1)
	assert.Equal(t, entity.FlightRecord{OgnNumber: 42, Glider: "F-XXXX"}, roster.Flights[k])
	assert.Equal(t, CreateFlight{OgnNumber: 42, Glider: "F-XXXX"}, delta.Operation)
	assert.Equal(t, 1, delta.Matched)
}

func TestApply_DuplicateCreation(t *testing.T) {
	t.Run("allowed by default", func(t *testing.T) {
		roster := populatedRoster(t)

		_, err := NewApplier().Apply(roster, command(5, entity.FieldNew, "F-CDUP"))

		require.NoError(t, err)
		assert.Equal(t, 2, roster.CountFlights(5))
	})

	t.Run("rejected with unique flights", func(t *testing.T) {
		roster := populatedRoster(t)
		before := roster.Clone()

		_, err := NewApplier(WithUniqueFlights()).Apply(roster, command(5, entity.FieldNew, "F-CDUP"))

		assert.ErrorIs(t, err, ErrDuplicateFlight)
		assert.Equal(t, KindDuplicateFlight, KindOf(err))
		assert.Equal(t, before, roster)
	})
}

func TestApply_DeleteRemovesEveryMatch(t *testing.T) {
	roster := populatedRoster(t)
	survivor := roster.Flights[1]

	delta, err := NewApplier().Apply(roster, command(3, entity.FieldDelete, ""))

	require.NoError(t, err)
	assert.Equal(t, 2, delta.Matched)
	assert.Equal(t, []entity.FlightRecord{survivor}, roster.Flights)
}

func TestApply_DeleteWithoutMatchIsNotAnError(t *testing.T) {
	roster := populatedRoster(t)
	before := roster.Clone()

	delta, err := NewApplier().Apply(roster, command(99, entity.FieldDelete, ""))

	require.NoError(t, err)
	assert.Zero(t, delta.Matched)
	assert.Equal(t, before, roster)
}

func TestApply_FieldUpdateIsTargeted(t *testing.T) {
	tests := []struct {
		field  string
		value  string
		mutate func(r *entity.FlightRecord)
	}{
		{entity.FieldTakeoffCode, "R", func(r *entity.FlightRecord) { r.TakeoffCode = "R" }},
		{entity.FieldTakeoffMachine, "F-REMA", func(r *entity.FlightRecord) { r.TakeoffMachine = "F-REMA" }},
		{entity.FieldTakeoffMachinePilot, "YDL", func(r *entity.FlightRecord) { r.TakeoffMachinePilot = "YDL" }},
		{entity.FieldGlider, "F-CERJ", func(r *entity.FlightRecord) { r.Glider = "F-CERJ" }},
		{entity.FieldFlightCode, "S", func(r *entity.FlightRecord) { r.FlightCode = "S" }},
		{entity.FieldPilot1, "J. Doe", func(r *entity.FlightRecord) { r.Pilot1 = "J. Doe" }},
		{entity.FieldPilot2, "", func(r *entity.FlightRecord) { r.Pilot2 = "" }},
		{entity.FieldTakeoff, "13:05", func(r *entity.FlightRecord) { r.Takeoff = 13*60 + 5 }},
		{entity.FieldLanding, "23:59", func(r *entity.FlightRecord) { r.Landing = 23*60 + 59 }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			roster := populatedRoster(t)
			want := roster.Clone()
			for i := range want.Flights {
				if want.Flights[i].OgnNumber == 3 {
					tt.mutate(&want.Flights[i])
				}
			}

			delta, err := NewApplier().Apply(roster, command(3, tt.field, tt.value))

			require.NoError(t, err)
			assert.Equal(t, 2, delta.Matched)
			assert.Len(t, delta.Previous, 2)
			assert.Equal(t, want, roster)
		})
	}
}

func TestApply_MalformedTimeIsAtomic(t *testing.T) {
	for _, value := range []string{"25:99", "noon", "", "1:05", "13:5", "13-05", "24:00", "12:60"} {
		t.Run(value, func(t *testing.T) {
			roster := populatedRoster(t)
			before := roster.Clone()

			_, err := NewApplier().Apply(roster, command(5, entity.FieldTakeoff, value))

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTimeParse)
			assert.Equal(t, KindTimeParseError, KindOf(err))
			assert.Equal(t, before, roster)
		})
	}
}

func TestApply_UnknownFlightField(t *testing.T) {
	roster := populatedRoster(t)
	before := roster.Clone()

	_, err := NewApplier().Apply(roster, command(3, entity.FieldWinch, "Treuil 2"))

	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, KindUnknownField, KindOf(err))
	assert.Equal(t, before, roster)
}

func TestApply_GroundAssignments(t *testing.T) {
	tests := []struct {
		field string
		get   func(r *entity.DailyRoster) string
	}{
		{entity.FieldWinchPilot, func(r *entity.DailyRoster) string { return r.WinchPilot }},
		{entity.FieldWinch, func(r *entity.DailyRoster) string { return r.Winch }},
		{entity.FieldTowPilot, func(r *entity.DailyRoster) string { return r.TowPilot }},
		{entity.FieldTowPlane, func(r *entity.DailyRoster) string { return r.TowPlane }},
		{entity.FieldFieldChief, func(r *entity.DailyRoster) string { return r.FieldChief }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			roster := populatedRoster(t)
			flights := append([]entity.FlightRecord(nil), roster.Flights...)

			delta, err := NewApplier().Apply(roster, command(entity.GroundTarget, tt.field, "Marcel"))

			require.NoError(t, err)
			assert.Equal(t, "Marcel", tt.get(roster))
			assert.Equal(t, flights, roster.Flights)
			assert.Len(t, delta.Previous, 1)
		})
	}
}

func TestApply_GroundSentinelNeverTouchesFlights(t *testing.T) {
	fields := []string{
		entity.FieldNew, entity.FieldDelete, entity.FieldPilot1, entity.FieldTakeoff, "bogus",
	}

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			roster := populatedRoster(t)
			roster.Flights = append(roster.Flights, entity.FlightRecord{OgnNumber: 0, Glider: "F-ZERO"})
			before := roster.Clone()

			_, err := NewApplier().Apply(roster, command(entity.GroundTarget, field, "13:00"))

			assert.ErrorIs(t, err, ErrUnknownField)
			assert.Equal(t, before, roster)
		})
	}
}

func TestApplyOperation(t *testing.T) {
	t.Run("typed time update", func(t *testing.T) {
		roster := populatedRoster(t)

		_, err := NewApplier().ApplyOperation(roster, testDate, SetFlightTime{OgnNumber: 5, Field: Landing, Value: mustTime(t, "16:45")})

		require.NoError(t, err)
		assert.Equal(t, "16:45", roster.Flights[1].Landing.String())
	})

	t.Run("out of range field", func(t *testing.T) {
		roster := populatedRoster(t)
		before := roster.Clone()

		_, err := NewApplier().ApplyOperation(roster, testDate, SetFlightText{OgnNumber: 5, Field: FlightTextField(99), Value: "x"})

		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Equal(t, before, roster)
	})

	t.Run("flight operation on ground target", func(t *testing.T) {
		roster := populatedRoster(t)
		before := roster.Clone()

		_, err := NewApplier().ApplyOperation(roster, testDate, CreateFlight{OgnNumber: 0, Glider: "F-ZERO"})

		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Equal(t, before, roster)
	})

	t.Run("nil operation", func(t *testing.T) {
		_, err := NewApplier().ApplyOperation(populatedRoster(t), testDate, nil)

		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("pointer variants are rejected", func(t *testing.T) {
		ops := []Operation{
			&SetFlightText{OgnNumber: 5, Field: Pilot1, Value: "Z"},
			&CreateFlight{OgnNumber: 9, Glider: "F-CPTR"},
			&DeleteFlight{OgnNumber: 3},
			&SetFlightTime{OgnNumber: 5, Field: Landing, Value: mustTime(t, "17:00")},
			&SetGroundAssignment{Field: Winch, Value: "Treuil 2"},
			(*CreateFlight)(nil),
			(*SetGroundAssignment)(nil),
		}
		for _, op := range ops {
			roster := populatedRoster(t)
			before := roster.Clone()

			var delta Delta
			var err error
			require.NotPanics(t, func() {
				delta, err = NewApplier().ApplyOperation(roster, testDate, op)
			})

			assert.ErrorIs(t, err, ErrUnknownField, "%T", op)
			assert.Equal(t, KindUnknownField, KindOf(err))
			assert.Zero(t, delta.Matched)
			assert.Equal(t, before, roster)
		}
	})

	t.Run("date mismatch", func(t *testing.T) {
		_, err := NewApplier().ApplyOperation(populatedRoster(t), entity.NewDate(2024, time.June, 1), DeleteFlight{OgnNumber: 3})

		assert.ErrorIs(t, err, ErrDateMismatch)
	})
}

func TestApply_EndToEnd(t *testing.T) {
	roster := entity.NewDailyRoster(testDate)
	applier := NewApplier()

	_, err := applier.Apply(roster, command(7, entity.FieldNew, "F-ABC"))
	require.NoError(t, err)
	require.Len(t, roster.Flights, 1)

	_, err = applier.Apply(roster, command(7, entity.FieldPilot1, "J. Doe"))
	require.NoError(t, err)
	assert.Equal(t, "J. Doe", roster.Flights[0].Pilot1)

	_, err = applier.Apply(roster, command(7, entity.FieldTakeoff, "13:05"))
	require.NoError(t, err)
	assert.Equal(t, "13:05", roster.Flights[0].Takeoff.String())

	_, err = applier.Apply(roster, command(7, entity.FieldDelete, ""))
	require.NoError(t, err)
	assert.Empty(t, roster.Flights)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
