package timeslot

import (
	"fmt"
	"strings"
	"time"
)

// Separator splits the two halves of a textual time range.
const Separator = " - "

// clockLayout parses 12-hour tokens like "9:00 AM" or "09:00 AM".
const clockLayout = "3:04 PM"

// Range is a half-open interval [Start, End) of minutes since midnight
// on a single day.
type Range struct {
	Start int
	End   int
}

// ParseRange parses text of the form "09:00 AM - 09:30 AM". The text
// must contain exactly one separator with a valid 12-hour clock token
// on each side.
func ParseRange(text string) (Range, error) {
	parts := strings.Split(text, Separator)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("time range %q: want exactly one %q separator", text, Separator)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("time range %q: %w", text, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("time range %q: %w", text, err)
	}
	return Range{Start: start, End: end}, nil
}

// Validate reports whether text is a well-formed time range. It never
// panics and never returns an error; malformed input is simply false.
func Validate(text string) bool {
	_, err := ParseRange(text)
	return err == nil
}

// Overlaps reports whether the two half-open intervals intersect.
// Touching endpoints (r.End == other.Start) do not count as overlap.
// Both ranges must be on the same day and already validated.
func (r Range) Overlaps(other Range) bool {
	return !(r.End <= other.Start || other.End <= r.Start)
}

// String renders the range back into the canonical zero-padded form.
func (r Range) String() string {
	return formatClock(r.Start) + Separator + formatClock(r.End)
}

func parseClock(token string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(token))
	if err != nil {
		return 0, fmt.Errorf("parse clock token %q: %w", token, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	t := time.Date(0, time.January, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("03:04 PM")
}
