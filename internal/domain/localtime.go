package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalTimeLayout is the zone-less timestamp layout the backend exchanges.
const LocalTimeLayout = "2006-01-02T15:04:05"

var localTimeLayouts = []string{
	LocalTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04", // datetime-local pickers omit seconds
	time.RFC3339Nano,
	"2006-01-02",
}

// LocalTime is a wall-clock timestamp without a zone.
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.Truncate(time.Second)}
}

// ParseLocalTime accepts the backend layout and the shorter picker layouts.
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid local time %q", s)
}

func (t LocalTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LocalTimeLayout)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(LocalTimeLayout))
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = LocalTime{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = LocalTime{}
		return nil
	}

	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
