package schedule

import (
	"testing"
	"time"
)

func TestParsePattern_Aliases(t *testing.T) {
	tests := []struct {
		alias   string
		matches time.Time
	}{
		// 2024-03-04 is a Monday
		{"daily_8am", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)},
		{"weekly_monday_9am", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		p, err := ParsePattern(tt.alias)
		if err != nil {
			t.Fatalf("ParsePattern(%q) error = %v", tt.alias, err)
		}
		if !p.Matches(tt.matches) {
			t.Errorf("Expected %q to match %v", tt.alias, tt.matches)
		}
		if p.String() != tt.alias {
			t.Errorf("String() = %q, expected original alias %q", p.String(), tt.alias)
		}
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	tests := []string{
		"",
		"0 8",
		"0 8 * *",
		"60 8 *",
		"0 24 *",
		"0 8 7",
		"every_morning",
		"a b c",
	}

	for _, pattern := range tests {
		if _, err := ParsePattern(pattern); err == nil {
			t.Errorf("Expected ParsePattern(%q) to fail", pattern)
		}
	}
}

func TestPatternMatches(t *testing.T) {
	// Monday 08:00
	monday8 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		pattern string
		at      time.Time
		want    bool
	}{
		{"0 8 *", monday8, true},
		{"0 8 *", monday8.Add(time.Minute), false},
		{"0 8 *", monday8.Add(time.Hour), false},
		{"* 8 *", monday8.Add(30 * time.Minute), true},
		{"0 9 1", monday8.Add(time.Hour), true},
		{"0 9 1", monday8.Add(25 * time.Hour), false}, // Tuesday 09:00
		{"* * *", monday8.Add(13*time.Hour + 37*time.Minute), true},
	}

	for _, tt := range tests {
		p, err := ParsePattern(tt.pattern)
		if err != nil {
			t.Fatalf("ParsePattern(%q) error = %v", tt.pattern, err)
		}
		if got := p.Matches(tt.at); got != tt.want {
			t.Errorf("Pattern %q at %v: got %v, want %v", tt.pattern, tt.at, got, tt.want)
		}
	}
}

func TestFiredInPeriod(t *testing.T) {
	monday8 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pattern string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never ran", "0 8 *", time.Time{}, monday8, false},
		{"daily same day", "0 8 *", monday8, monday8.Add(30 * time.Second), true},
		{"daily next day", "0 8 *", monday8, monday8.Add(24 * time.Hour), false},
		{"weekly within week", "0 9 1", monday8, monday8.Add(3 * 24 * time.Hour), true},
		{"weekly after week", "0 9 1", monday8, monday8.Add(7 * 24 * time.Hour), false},
		{"hourly same hour", "0 * *", monday8, monday8.Add(30 * time.Minute), true},
		{"hourly next hour", "0 * *", monday8, monday8.Add(time.Hour), false},
		{"wildcard same minute", "* * *", monday8, monday8.Add(20 * time.Second), true},
		{"wildcard next minute", "* * *", monday8, monday8.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePattern(tt.pattern)
			if err != nil {
				t.Fatalf("ParsePattern(%q) error = %v", tt.pattern, err)
			}
			if got := p.FiredInPeriod(tt.lastRun, tt.now); got != tt.want {
				t.Errorf("FiredInPeriod(%v, %v) = %v, want %v", tt.lastRun, tt.now, got, tt.want)
			}
		})
	}
}
