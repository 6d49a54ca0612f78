package utils

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIsSameDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same instant",
			a:    time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "start and end of day",
			a:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC),
			want: true,
		},
		{
			name: "adjacent days",
			a:    time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 5, 0, 1, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "same day number different month",
			a:    time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 4, 4, 12, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "wall clock compared in each value's own zone",
			a:    time.Date(2026, 3, 5, 1, 0, 0, 0, loc),
			b:    time.Date(2026, 3, 5, 20, 0, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSameDay(tt.a, tt.b); got != tt.want {
				t.Errorf("IsSameDay(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	base := time.Date(2026, 2, 27, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		n    int
		want time.Time
	}{
		{n: 0, want: base},
		{n: 1, want: time.Date(2026, 2, 28, 15, 30, 0, 0, time.UTC)},
		{n: 2, want: time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)},
		{n: -27, want: time.Date(2026, 1, 31, 15, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := AddDays(base, tt.n); !got.Equal(tt.want) {
			t.Errorf("AddDays(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
	if !base.Equal(time.Date(2026, 2, 27, 15, 30, 0, 0, time.UTC)) {
		t.Error("AddDays mutated its input")
	}
}

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{name: "monday", in: time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)},
		{name: "friday", in: time.Date(2026, 10, 16, 18, 45, 0, 0, time.UTC)},
		{name: "sunday belongs to the previous monday", in: time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.in)
			if !got.Equal(monday) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.in, got, monday)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("StartOfWeek returned %v", got.Weekday())
			}
		})
	}

	if got := EndOfWeek(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)); got.Weekday() != time.Sunday || got.Day() != 18 {
		t.Errorf("EndOfWeek() = %v, want Sunday the 18th", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month int
		want        int
	}{
		{2026, 0, 31},
		{2026, 1, 28},
		{2024, 1, 29},
		{1900, 1, 28},
		{2000, 1, 29},
		{2026, 3, 30},
		{2026, 11, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	recorded := time.Date(2026, 6, 30, 22, 15, 0, 0, loc)

	data, err := json.Marshal(recorded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded time.Time
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if DayKey(decoded) != "2026-06-30" {
		t.Errorf("DayKey after round trip = %s, want 2026-06-30", DayKey(decoded))
	}
	if !IsSameDay(decoded, recorded) {
		t.Error("round trip changed the calendar day")
	}

	parsed, err := ParseDayKey("2026-06-30", loc)
	if err != nil {
		t.Fatalf("ParseDayKey: %v", err)
	}
	if !IsSameDay(parsed, recorded) || parsed.Hour() != 0 {
		t.Errorf("ParseDayKey() = %v", parsed)
	}
	if _, err := ParseDayKey("06/30/2026", loc); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		timezone string
		wantErr  bool
	}{
		{"", false},
		{"Local", false},
		{"UTC", false},
		{"Asia/Tokyo", false},
		{"Invalid/Timezone", true},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Error("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestValidateTimeFormat(t *testing.T) {
	valid := []string{"07:00", "23:59", "00:00"}
	invalid := []string{"", "7am", "24:00", "12:60", "12-30"}

	for _, s := range valid {
		if !ValidateTimeFormat(s) {
			t.Errorf("ValidateTimeFormat(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidateTimeFormat(s) {
			t.Errorf("ValidateTimeFormat(%q) = true, want false", s)
		}
	}
}
