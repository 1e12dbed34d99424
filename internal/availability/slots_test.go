package availability

import (
	"reflect"
	"regexp"
	"testing"
	"time"
)

var monday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func weekdays(start, end string) OperatingWindow {
	return OperatingWindow{Days: []int{1, 2, 3, 4, 5}, Start: start, End: end, Location: time.UTC}
}

func TestComputeFreeSlots(t *testing.T) {
	tests := []struct {
		name     string
		window   OperatingWindow
		date     time.Time
		occupied []time.Time
		want     []string
	}{
		{
			name:   "full morning",
			window: weekdays("09:00", "12:00"),
			date:   monday,
			want:   []string{"09:00", "10:00", "11:00"},
		},
		{
			name:     "booked slot removed",
			window:   weekdays("09:00", "12:00"),
			date:     monday,
			occupied: []time.Time{monday.Add(10 * time.Hour)},
			want:     []string{"09:00", "11:00"},
		},
		{
			name:   "closed day",
			window: weekdays("09:00", "12:00"),
			date:   monday.AddDate(0, 0, -1),
			want:   []string{},
		},
		{
			name:   "end before start",
			window: weekdays("12:00", "09:00"),
			date:   monday,
			want:   []string{},
		},
		{
			name:   "empty window",
			window: weekdays("09:00", "09:00"),
			date:   monday,
			want:   []string{},
		},
		{
			name:   "partial last slot still starts inside the window",
			window: weekdays("09:30", "11:00"),
			date:   monday,
			want:   []string{"09:30", "10:30"},
		},
		{
			name:   "sunday is day zero",
			window: OperatingWindow{Days: []int{0}, Start: "08:00", End: "10:00"},
			date:   monday.AddDate(0, 0, -1),
			want:   []string{"08:00", "09:00"},
		},
		{
			name:     "off-grid booking does not remove a slot",
			window:   weekdays("09:00", "11:00"),
			date:     monday,
			occupied: []time.Time{monday.Add(9*time.Hour + 30*time.Minute)},
			want:     []string{"09:00", "10:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFreeSlots(tt.window, tt.date, tt.occupied, time.Hour)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeFreeSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFreeSlots_LocalTimeZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	window := OperatingWindow{Days: []int{1}, Start: "09:00", End: "11:00", Location: loc}
	// 14:00Z is 09:00 in New York in January.
	occupied := []time.Time{time.Date(2030, 1, 7, 14, 0, 0, 0, time.UTC)}

	got := ComputeFreeSlots(window, time.Date(2030, 1, 7, 0, 0, 0, 0, loc), occupied, time.Hour)
	if want := []string{"10:00"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComputeFreeSlots_FallBackDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Clocks go back at 02:00 on 2030-11-03, so 01:00 occurs twice.
	window := OperatingWindow{Days: []int{0}, Start: "00:00", End: "04:00", Location: loc}
	date := time.Date(2030, 11, 3, 0, 0, 0, 0, loc)

	got := ComputeFreeSlots(window, date, nil, time.Hour)
	if want := []string{"00:00", "01:00", "02:00", "03:00"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// 06:00Z is the second 01:00 (EST); it occupies the 01:00 label.
	got = ComputeFreeSlots(window, date, []time.Time{time.Date(2030, 11, 3, 6, 0, 0, 0, time.UTC)}, time.Hour)
	if want := []string{"00:00", "02:00", "03:00"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComputeFreeSlots_SlotsAreWithinWindow(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}:\d{2}$`)
	window := OperatingWindow{Days: []int{0, 1, 2, 3, 4, 5, 6}, Start: "06:15", End: "21:40"}

	for i := 0; i < 7; i++ {
		for _, slot := range ComputeFreeSlots(window, monday.AddDate(0, 0, i), nil, time.Hour) {
			if !pattern.MatchString(slot) {
				t.Fatalf("slot %q is not HH:MM", slot)
			}
			if slot < window.Start || slot >= window.End {
				t.Fatalf("slot %q outside [%s, %s)", slot, window.Start, window.End)
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2030-01-07", want: monday},
		{in: "2030-01-07T23:30:00+05:00", want: monday},
		{in: "07/01/2030", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
