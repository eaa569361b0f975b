package model

import (
	"testing"
	"time"
)

func TestFormatSpecString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec FormatSpec
		want string
	}{
		{FormatSpec{FormatF, 8, 2}, "F8.2"},
		{FormatSpec{FormatF, 1, 0}, "F1.0"},
		{FormatSpec{FormatA, 3, 0}, "A3"},
		{FormatSpec{FormatComma, 9, 2}, "COMMA9.2"},
		{FormatSpec{FormatDollar, 7, 2}, "DOLLAR7.2"},
		{FormatSpec{FormatDate, 11, 0}, "DATE11"},
		{FormatSpec{FormatTime, 8, 1}, "TIME8.1"},
		{FormatSpec{FormatDateTime, 20, 0}, "DATETIME20"},
	}
	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestParseFormatSpec(t *testing.T) {
	t.Parallel()

	roundTrips := []FormatSpec{
		{FormatF, 8, 2},
		{FormatA, 12, 0},
		{FormatDot, 10, 1},
		{FormatPct, 6, 0},
		{FormatE, 10, 3},
		{FormatEDate, 10, 0},
		{FormatYMDHMS, 19, 0},
		{FormatWkDay, 9, 0},
	}
	for _, spec := range roundTrips {
		got, err := ParseFormatSpec(spec.String())
		if err != nil {
			t.Errorf("ParseFormatSpec(%q) failed: %v", spec.String(), err)
			continue
		}
		if got != spec {
			t.Errorf("ParseFormatSpec(%q) = %#v, want %#v", spec.String(), got, spec)
		}
	}

	for _, bad := range []string{"", "F", "8.2", "f8.2", "F8.", "ZZZ8", "F8.2.1"} {
		if _, err := ParseFormatSpec(bad); err == nil {
			t.Errorf("ParseFormatSpec(%q) should fail", bad)
		}
	}
}

func TestFormatSpecFix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   FormatSpec
		want FormatSpec
	}{
		{FormatSpec{FormatF, 0, 0}, FormatSpec{FormatF, 1, 0}},
		{FormatSpec{FormatF, 1, 2}, FormatSpec{FormatF, 4, 2}},
		{FormatSpec{FormatF, 10, 20}, FormatSpec{FormatF, 18, 16}},
		{FormatSpec{FormatA, 0, 3}, FormatSpec{FormatA, 1, 0}},
		{FormatSpec{FormatDate, 5, 0}, FormatSpec{FormatDate, 8, 0}},
		{FormatSpec{FormatDateTime, 10, 0}, FormatSpec{FormatDateTime, 17, 0}},
		{FormatSpec{FormatTime, 5, 2}, FormatSpec{FormatTime, 8, 2}},
		{FormatSpec{FormatMonth, 1, 0}, FormatSpec{FormatMonth, 3, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Fix(); got != tt.want {
			t.Errorf("%#v.Fix() = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

// days converts a calendar day to the number representation used by date
// values: seconds since 14 Oct 1582.
func days(y int, m time.Month, d int) float64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Sub(pswEpoch).Seconds()
}

func TestParseValueNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec FormatSpec
		text string
		want float64
	}{
		{FormatSpec{FormatF, 8, 2}, "3.5", 3.5},
		{FormatSpec{FormatF, 8, 2}, "-12", -12},
		{FormatSpec{FormatF, 8, 2}, " 7 ", 7},
		{FormatSpec{FormatComma, 9, 2}, "1,234.5", 1234.5},
		{FormatSpec{FormatDot, 9, 2}, "1.234,5", 1234.5},
		{FormatSpec{FormatDollar, 8, 2}, "$1,000", 1000},
		{FormatSpec{FormatPct, 6, 0}, "25%", 25},
		{FormatSpec{FormatE, 10, 1}, "1.5E2", 150},
		{FormatSpec{FormatE, 10, 1}, "2D3", 2000},
	}
	for _, tt := range tests {
		got := tt.spec.ParseValue(tt.text)
		if got.Missing || got.Num != tt.want {
			t.Errorf("%s.ParseValue(%q) = %+v, want %v", tt.spec, tt.text, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "1.2.3", "--5"} {
		if got := (FormatSpec{FormatF, 8, 2}).ParseValue(bad); !got.Missing {
			t.Errorf("ParseValue(%q) = %+v, want missing", bad, got)
		}
	}
}

func TestParseValueDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec FormatSpec
		text string
		want float64
	}{
		{FormatSpec{FormatDate, 11, 0}, "1-Jan-1990", days(1990, time.January, 1)},
		{FormatSpec{FormatDate, 9, 0}, "5-oct-99", days(1999, time.October, 5)},
		{FormatSpec{FormatEDate, 10, 0}, "15.6.2010", days(2010, time.June, 15)},
		{FormatSpec{FormatADate, 10, 0}, "6/15/2010", days(2010, time.June, 15)},
		{FormatSpec{FormatSDate, 10, 0}, "2010/06/15", days(2010, time.June, 15)},
		{FormatSpec{FormatMoYr, 8, 0}, "Jan 2001", days(2001, time.January, 1)},
		{FormatSpec{FormatQYr, 8, 0}, "3 Q 2001", days(2001, time.July, 1)},
		{FormatSpec{FormatWkYr, 10, 0}, "2 WK 2001", days(2001, time.January, 8)},
		{FormatSpec{FormatDateTime, 20, 0}, "1-10-2010 08:30", days(2010, time.October, 1) + 8*3600 + 30*60},
		{FormatSpec{FormatDateTime, 20, 0}, "1-10-2010 08:30:15", days(2010, time.October, 1) + 8*3600 + 30*60 + 15},
		{FormatSpec{FormatYMDHMS, 19, 0}, "2010-10-01 08:30:15", days(2010, time.October, 1) + 8*3600 + 30*60 + 15},
		{FormatSpec{FormatTime, 8, 0}, "01:02:03", 3723},
		{FormatSpec{FormatTime, 10, 2}, "0:01:02.50", 62.5},
		{FormatSpec{FormatDTime, 10, 0}, "2 01:00", 2*86400 + 3600},
		{FormatSpec{FormatWkDay, 9, 0}, "Wednesday", 4},
		{FormatSpec{FormatWkDay, 3, 0}, "sun", 1},
		{FormatSpec{FormatMonth, 3, 0}, "sep", 9},
		{FormatSpec{FormatMonth, 4, 0}, "viii", 8},
	}
	for _, tt := range tests {
		got := tt.spec.ParseValue(tt.text)
		if got.Missing || got.Num != tt.want {
			t.Errorf("%s.ParseValue(%q) = %+v, want %v", tt.spec, tt.text, got, tt.want)
		}
	}

	invalid := []struct {
		spec FormatSpec
		text string
	}{
		{FormatSpec{FormatDate, 11, 0}, "31-Feb-1990"},
		{FormatSpec{FormatEDate, 10, 0}, "15.13.2010"},
		{FormatSpec{FormatQYr, 8, 0}, "5 Q 2001"},
		{FormatSpec{FormatTime, 8, 0}, "01:99"},
		{FormatSpec{FormatWkDay, 9, 0}, "noday"},
	}
	for _, tt := range invalid {
		if got := tt.spec.ParseValue(tt.text); !got.Missing {
			t.Errorf("%s.ParseValue(%q) = %+v, want missing", tt.spec, tt.text, got)
		}
	}
}

func TestParseValueTwoDigitYearWindow(t *testing.T) {
	t.Parallel()

	spec := FormatSpec{FormatEDate, 8, 0}
	if got := spec.ParseValue("1.1.29"); got.Num != days(2029, time.January, 1) {
		t.Errorf("year 29 should map to 2029, got %v", got.Num)
	}
	if got := spec.ParseValue("1.1.30"); got.Num != days(1930, time.January, 1) {
		t.Errorf("year 30 should map to 1930, got %v", got.Num)
	}
}

func TestParseValueString(t *testing.T) {
	t.Parallel()

	spec := FormatSpec{FormatA, 3, 0}
	if got := spec.ParseValue("abcdef"); got.Str != "abc" {
		t.Errorf("truncation to width: got %q", got.Str)
	}
	if got := spec.ParseValue("ab"); got.Str != "ab" {
		t.Errorf("short value unchanged: got %q", got.Str)
	}

	// Never split a multibyte rune.
	wide := FormatSpec{FormatA, 4, 0}
	if got := wide.ParseValue("aééé"); got.Str != "aé" {
		t.Errorf("rune-boundary truncation: got %q", got.Str)
	}
}
