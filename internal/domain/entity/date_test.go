package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{"2024-05-01", NewDate(2024, time.May, 1), false},
		{"2024/05/01", NewDate(2024, time.May, 1), false},
		{"2024-13-01", Date{}, true},
		{"01/05/2024", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "2024-05-01", got.String())
		})
	}
}

func TestDate_JSON(t *testing.T) {
	roster := NewDailyRoster(NewDate(2024, time.May, 1))

	data, err := json.Marshal(roster)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2024-05-01"`)

	var decoded DailyRoster
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Date.Equal(roster.Date))
}

func TestDate_ZeroRoundTrips(t *testing.T) {
	cmd := UpdateCommand{OgnNumber: 7, Field: FieldNew, NewValue: "F-ABC"}

	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":""`)

	var decoded UpdateCommand
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Date.IsZero())
	assert.Equal(t, cmd.Field, decoded.Field)

	data, err = bson.Marshal(cmd)
	require.NoError(t, err)
	var fromBSON UpdateCommand
	require.NoError(t, bson.Unmarshal(data, &fromBSON))
	assert.True(t, fromBSON.Date.IsZero())
}

func TestDate_BSON(t *testing.T) {
	cmd := NewUpdateCommand(NewDate(2024, time.May, 1), 7, FieldNew, "F-ABC", time.Date(2024, time.May, 1, 13, 0, 0, 0, time.UTC))

	data, err := bson.Marshal(cmd)
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, "2024-05-01", raw.Lookup("date").StringValue())

	var decoded UpdateCommand
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, cmd.Date, decoded.Date)
	assert.Equal(t, cmd.Field, decoded.Field)
}

func TestDailyRoster_CloneIsDeep(t *testing.T) {
	roster := NewDailyRoster(NewDate(2024, time.May, 1))
	roster.Flights = append(roster.Flights, FlightRecord{OgnNumber: 1, Glider: "F-CAAA"})

	clone := roster.Clone()
	clone.Flights[0].Glider = "F-CZZZ"
	clone.Winch = "Treuil 2"

	assert.Equal(t, "F-CAAA", roster.Flights[0].Glider)
	assert.Empty(t, roster.Winch)
	assert.Equal(t, 1, roster.CountFlights(1))
}
