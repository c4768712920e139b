package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// flexTime accepts an ISO-8601 string or epoch milliseconds. Falsy values
// (null, false, 0, "") leave it zero so the server assigns the receipt time.
type flexTime struct {
	time.Time
}

type timestampError struct{}

func (*timestampError) Error() string {
	return "ts must be an ISO-8601 date or epoch milliseconds"
}

// maxEpochMillis bounds epoch timestamps to ±100,000,000 days around 1970.
const maxEpochMillis = 8.64e15

// isoLayouts are tried in order. Zone-less forms are read as UTC, never as
// the server's local time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "null", "false", "0", `""`:
		t.Time = time.Time{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return &timestampError{}
		}
		for _, layout := range isoLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return &timestampError{}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var ms float64
		if err := json.Unmarshal(b, &ms); err != nil {
			return &timestampError{}
		}
		if ms == 0 {
			t.Time = time.Time{}
			return nil
		}
		if math.Abs(ms) > maxEpochMillis {
			return &timestampError{}
		}
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	default:
		return &timestampError{}
	}
}
