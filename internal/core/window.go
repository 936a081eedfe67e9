package core

import (
	"regexp"
	"strings"
	"time"
)

const (
	// HorizonDays is how far ahead a disposal date may be scheduled
	HorizonDays = 30
	// FallbackOffsetDays is used when no usable date can be recovered
	FallbackOffsetDays = 7
)

var (
	exactDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	embeddedDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// DateWindow is the range of acceptable disposal dates, (Today, HorizonEnd]
type DateWindow struct {
	Today      time.Time
	HorizonEnd time.Time
}

// NewDateWindow computes the window for the calendar day of now in loc
func NewDateWindow(now time.Time, loc *time.Location) DateWindow {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	return DateWindow{
		Today:      today,
		HorizonEnd: today.AddDate(0, 0, HorizonDays),
	}
}

// Offset returns the calendar day the given number of days after today
func (w DateWindow) Offset(days int) time.Time {
	return w.Today.AddDate(0, 0, days)
}

// Contains reports whether d lies strictly after today and no later than the horizon
func (w DateWindow) Contains(d time.Time) bool {
	return d.After(w.Today) && !d.After(w.HorizonEnd)
}

// Clamp moves d into the window: not-future dates become tomorrow,
// dates past the horizon become the horizon itself
func (w DateWindow) Clamp(d time.Time) time.Time {
	if !d.After(w.Today) {
		return w.Offset(1)
	}
	if d.After(w.HorizonEnd) {
		return w.HorizonEnd
	}
	return d
}

// Parse parses a YYYY-MM-DD string as a calendar day in the window's location
func (w DateWindow) Parse(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, w.Today.Location())
}

// Format renders a calendar day as YYYY-MM-DD
func (w DateWindow) Format(d time.Time) string {
	return d.Format(DateLayout)
}

// Resolve turns free-form service output into a date inside the window.
// The second return value is true when the date is the synthesized fallback.
func (w DateWindow) Resolve(text string) (time.Time, bool) {
	fallback := false
	candidate, ok := extractDate(text)
	var d time.Time
	if ok {
		parsed, err := w.Parse(candidate)
		if err != nil {
			ok = false
		} else {
			d = parsed
		}
	}
	if !ok {
		d = w.Offset(FallbackOffsetDays)
		fallback = true
	}
	return w.Clamp(d), fallback
}

// AcceptExact accepts text only if it is exactly one valid date inside the window
func (w DateWindow) AcceptExact(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if !exactDatePattern.MatchString(trimmed) {
		return time.Time{}, false
	}
	d, err := w.Parse(trimmed)
	if err != nil || !w.Contains(d) {
		return time.Time{}, false
	}
	return d, true
}

// extractDate returns the whole trimmed text when it is a bare date,
// otherwise the first date-shaped substring
func extractDate(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if exactDatePattern.MatchString(trimmed) {
		return trimmed, true
	}
	if match := embeddedDatePattern.FindString(trimmed); match != "" {
		return match, true
	}
	return "", false
}
