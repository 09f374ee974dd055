package entry

import (
	"encoding/json"
	"fmt"
	"time"
)

func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Timestamp wraps time.Time with lenient JSON decoding. Stored documents can
// carry unparsable time strings; decoding keeps the raw value instead of
// failing the whole document so corrupt entries stay visible (and are never
// silently rewritten on the next save).
type Timestamp struct {
	time.Time

	raw string
}

// Valid reports whether the timestamp decoded to a real point in time.
func (t Timestamp) Valid() bool {
	return !t.IsZero()
}

// Raw returns the original wire value for timestamps that failed to parse.
func (t Timestamp) Raw() string {
	return t.raw
}

func (t Timestamp) SameDay(then time.Time) bool {
	y1, m1, d1 := t.Local().Date()
	y2, m2, d2 := then.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		// Preserve whatever was stored, malformed or empty.
		return json.Marshal(t.raw)
	}
	return []byte(fmt.Sprintf("%q", t)), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		t.raw = string(b)
		return nil
	}
	parsed, err := ParseTime(timestamp)
	if err != nil {
		t.raw = timestamp
		return nil
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return t.raw
	}
	return t.UTC().Format(time.RFC3339)
}
