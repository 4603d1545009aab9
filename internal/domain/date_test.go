package domain

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{
			name:  "valid date",
			input: "2020-12-30",
			want:  NewDate(2020, time.December, 30),
		},
		{
			name:  "leap day",
			input: "2024-02-29",
			want:  NewDate(2024, time.February, 29),
		},
		{
			name:    "non-leap february 29",
			input:   "2023-02-29",
			wantErr: true,
		},
		{
			name:    "wrong format",
			input:   "30/12/2020",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "datetime instead of date",
			input:   "2020-12-30T00:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDateOf_LocalDayBucketing(t *testing.T) {
	// UTC-5, no DST, mirrors the business deployment.
	loc := time.FixedZone("UTC-5", -5*60*60)

	tests := []struct {
		name    string
		instant string
		want    Date
	}{
		{
			// 23:38 local on the 30th, already the 31st in UTC.
			name:    "late evening local crosses UTC midnight",
			instant: "2020-12-31T04:38:14.576Z",
			want:    NewDate(2020, time.December, 30),
		},
		{
			name:    "local midnight boundary",
			instant: "2020-12-31T05:00:00Z",
			want:    NewDate(2020, time.December, 31),
		},
		{
			name:    "just before local midnight",
			instant: "2020-12-31T04:59:59Z",
			want:    NewDate(2020, time.December, 30),
		},
		{
			name:    "midday is unambiguous",
			instant: "2020-12-30T17:00:00Z",
			want:    NewDate(2020, time.December, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := time.Parse(time.RFC3339, tt.instant)
			if err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			got := DateOf(instant, loc)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDate_NextPrev(t *testing.T) {
	tests := []struct {
		name string
		date Date
		next Date
	}{
		{
			name: "mid month",
			date: NewDate(2021, time.March, 14),
			next: NewDate(2021, time.March, 15),
		},
		{
			name: "month boundary",
			date: NewDate(2021, time.January, 31),
			next: NewDate(2021, time.February, 1),
		},
		{
			name: "year boundary",
			date: NewDate(2020, time.December, 31),
			next: NewDate(2021, time.January, 1),
		},
		{
			name: "into leap day",
			date: NewDate(2024, time.February, 28),
			next: NewDate(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.Next(); got != tt.next {
				t.Errorf("Next: expected %v, got %v", tt.next, got)
			}
			if got := tt.next.Prev(); got != tt.date {
				t.Errorf("Prev: expected %v, got %v", tt.date, got)
			}
		})
	}
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2021, time.May, 1)
	b := NewDate(2021, time.May, 2)

	if !a.Before(b) || b.Before(a) {
		t.Error("expected a < b")
	}
	if !b.After(a) || a.After(b) {
		t.Error("expected b > a")
	}
	if !a.Equal(a) || a.Equal(b) {
		t.Error("expected a == a and a != b")
	}
	if NewDate(2020, time.December, 31).Compare(NewDate(2021, time.January, 1)) != -1 {
		t.Error("expected year to dominate comparison")
	}
}

func TestDate_StartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	d := NewDate(2020, time.December, 30)

	start := d.StartOfDay(loc)
	if got := start.UTC().Format(time.RFC3339); got != "2020-12-30T05:00:00Z" {
		t.Errorf("expected 2020-12-30T05:00:00Z, got %s", got)
	}
	// The start instant must map back onto the same local day.
	if DateOf(start, loc) != d {
		t.Errorf("start of day does not round-trip: %v", DateOf(start, loc))
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2021, time.July, 4)

	raw, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2021-07-04"` {
		t.Errorf(`expected "2021-07-04", got %s`, raw)
	}

	var parsed Date
	if err := parsed.UnmarshalJSON([]byte(`"2021-07-04"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed != d {
		t.Errorf("round trip mismatch: %v", parsed)
	}

	if err := parsed.UnmarshalJSON([]byte(`1234`)); err == nil {
		t.Error("expected error for unquoted value")
	}
}
