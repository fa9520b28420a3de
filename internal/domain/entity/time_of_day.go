// internal/domain/entity/time_of_day.go
package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTimeParse is returned for any value that is not a valid "HH:MM" time of day
var ErrTimeParse = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time with minute precision, stored as minutes since midnight
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay, returning ErrTimeParse when out of range
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d out of range", ErrTimeParse, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses the strict "HH:MM" form used on the wire
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrTimeParse, value)
	}
	hour, ok1 := twoDigits(value[0:2])
	minute, ok2 := twoDigits(value[3:5])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrTimeParse, value)
	}
	return NewTimeOfDay(hour, minute)
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String formats the time as "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeParse, err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
