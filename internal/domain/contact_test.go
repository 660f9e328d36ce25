package domain

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseBirthday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Birthday
		wantErr bool
	}{
		{name: "canonical", input: "02-01", want: Birthday{Month: time.February, Day: 1}},
		{name: "single digits", input: "2-1", want: Birthday{Month: time.February, Day: 1}},
		{name: "full date drops year", input: "1990-12-30", want: Birthday{Month: time.December, Day: 30}},
		{name: "leap day", input: "02-29", want: Birthday{Month: time.February, Day: 29}},
		{name: "surrounding spaces", input: " 07-04 ", want: Birthday{Month: time.July, Day: 4}},
		{name: "month 13", input: "13-01", wantErr: true},
		{name: "month 0", input: "00-10", wantErr: true},
		{name: "april 31", input: "04-31", wantErr: true},
		{name: "feb 30", input: "02-30", wantErr: true},
		{name: "day 0", input: "05-00", wantErr: true},
		{name: "garbage", input: "tomorrow", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "slashes", input: "02/01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseBirthday(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseBirthday(%q) error = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBirthday(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBirthday(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBirthday_String(t *testing.T) {
	t.Parallel()

	b := Birthday{Month: time.March, Day: 7}
	if got := b.String(); got != "03-07" {
		t.Fatalf("String() = %q, want 03-07", got)
	}
}

func TestBirthday_NextOccurrence_RollsOver(t *testing.T) {
	t.Parallel()

	b := Birthday{Month: time.February, Day: 1}
	ref := date(2024, time.March, 1)

	next := b.NextOccurrence(ref)
	if !next.Equal(date(2025, time.February, 1)) {
		t.Fatalf("NextOccurrence = %s, want 2025-02-01", next)
	}

	want := int(date(2025, time.February, 1).Sub(ref).Hours() / 24)
	if got := b.DaysUntil(ref); got != want {
		t.Fatalf("DaysUntil = %d, want %d", got, want)
	}
	if want != 337 {
		t.Fatalf("sanity: expected 337 days, got %d", want)
	}
}

func TestBirthday_NextOccurrence_Today(t *testing.T) {
	t.Parallel()

	b := Birthday{Month: time.June, Day: 15}
	ref := time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

	if got := b.DaysUntil(ref); got != 0 {
		t.Fatalf("DaysUntil on the day = %d, want 0", got)
	}
}

func TestBirthday_NextOccurrence_LeapDay(t *testing.T) {
	t.Parallel()

	b := Birthday{Month: time.February, Day: 29}

	if got := b.NextOccurrence(date(2024, time.February, 1)); !got.Equal(date(2024, time.February, 29)) {
		t.Errorf("leap year: got %s, want 2024-02-29", got)
	}
	if got := b.NextOccurrence(date(2025, time.February, 1)); !got.Equal(date(2025, time.March, 1)) {
		t.Errorf("non-leap year: got %s, want 2025-03-01", got)
	}
}

func TestBirthday_YearEnd(t *testing.T) {
	t.Parallel()

	ref := date(2024, time.December, 29)
	dec30 := Birthday{Month: time.December, Day: 30}
	jan2 := Birthday{Month: time.January, Day: 2}

	if got := dec30.DaysUntil(ref); got != 1 {
		t.Errorf("12-30 DaysUntil = %d, want 1", got)
	}
	if got := jan2.DaysUntil(ref); got != 4 {
		t.Errorf("01-02 DaysUntil = %d, want 4", got)
	}
}
