// Package availability computes the free booking slots of a service on a given day.
package availability

import (
	"fmt"
	"slices"
	"time"

	"servicehub/pkg/model"
)

const slotLayout = "15:04"

// OperatingWindow is the weekly schedule of a service, evaluated in Location.
type OperatingWindow struct {
	Days     []int
	Start    string
	End      string
	Location *time.Location
}

// WindowOf builds the operating window of svc, falling back to fallback when
// the service carries no valid time zone.
func WindowOf(svc *model.Service, fallback *time.Location) OperatingWindow {
	loc := fallback
	if svc.TimeZone != "" {
		if l, err := time.LoadLocation(svc.TimeZone); err == nil {
			loc = l
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return OperatingWindow{
		Days:     svc.DaysOfOperation,
		Start:    svc.StartTime,
		End:      svc.EndTime,
		Location: loc,
	}
}

// Bounds returns the window's opening and closing instants on the calendar day
// of date. ok is false when the service is closed that day or the window is empty.
func (w OperatingWindow) Bounds(date time.Time) (start, end time.Time, ok bool) {
	loc := w.location()
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if !slices.Contains(w.Days, int(day.Weekday())) {
		return time.Time{}, time.Time{}, false
	}

	sh, sm, err := parseClock(w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	eh, em, err := parseClock(w.End)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	start = time.Date(y, m, d, sh, sm, 0, 0, loc)
	end = time.Date(y, m, d, eh, em, 0, 0, loc)
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// ComputeFreeSlots lists the "HH:MM" starts of every slot in the window on
// date that no occupied instant falls on. Occupied instants are compared by
// their wall-clock hour and minute in the window's location. The result is
// ordered and never nil.
func ComputeFreeSlots(w OperatingWindow, date time.Time, occupied []time.Time, width time.Duration) []string {
	free := []string{}
	if width <= 0 {
		return free
	}

	start, end, ok := w.Bounds(date)
	if !ok {
		return free
	}

	loc := w.location()
	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t.In(loc).Format(slotLayout)] = struct{}{}
	}

	// On a fall-back day the repeated wall-clock hour yields its label once.
	emitted := make(map[string]struct{})
	for cur := start; cur.Before(end); cur = cur.Add(width) {
		label := cur.Format(slotLayout)
		if _, ok := taken[label]; ok {
			continue
		}
		if _, ok := emitted[label]; ok {
			continue
		}
		emitted[label] = struct{}{}
		free = append(free, label)
	}
	return free
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp whose time part is ignored.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or RFC3339: %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

func (w OperatingWindow) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(slotLayout, s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
