package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// FormatType identifies one of the recognized column formats. The zero
// value is the universal string fallback.
type FormatType int

const (
	// FormatA is the string fallback; it never fails to parse.
	FormatA FormatType = iota

	// Numeric formats.
	FormatF      // plain decimal number
	FormatComma  // comma grouping, dot decimal point
	FormatDot    // dot grouping, comma decimal point
	FormatDollar // leading $
	FormatPct    // trailing %
	FormatE      // scientific notation

	// Date and time formats.
	FormatDate     // dd-mmm-yy
	FormatEDate    // dd.mm.yy
	FormatADate    // mm/dd/yy
	FormatSDate    // yy/mm/dd
	FormatMoYr     // mmm yy
	FormatQYr      // q Q yy
	FormatWkYr     // ww WK yy
	FormatDateTime // dd-mm-yyyy HH:MM[:SS]
	FormatYMDHMS   // yyyy-mm-dd HH:MM[:SS]
	FormatTime     // HH:MM[:SS]
	FormatDTime    // d HH:MM[:SS]
	FormatWkDay    // day-of-week name
	FormatMonth    // month name
)

var formatNames = map[FormatType]string{
	FormatA:        "A",
	FormatF:        "F",
	FormatComma:    "COMMA",
	FormatDot:      "DOT",
	FormatDollar:   "DOLLAR",
	FormatPct:      "PCT",
	FormatE:        "E",
	FormatDate:     "DATE",
	FormatEDate:    "EDATE",
	FormatADate:    "ADATE",
	FormatSDate:    "SDATE",
	FormatMoYr:     "MOYR",
	FormatQYr:      "QYR",
	FormatWkYr:     "WKYR",
	FormatDateTime: "DATETIME",
	FormatYMDHMS:   "YMDHMS",
	FormatTime:     "TIME",
	FormatDTime:    "DTIME",
	FormatWkDay:    "WKDAY",
	FormatMonth:    "MONTH",
}

// String returns the syntax name of the format type, e.g. "COMMA".
func (t FormatType) String() string { return formatNames[t] }

// IsNumeric reports whether t is one of the plain numeric formats.
func (t FormatType) IsNumeric() bool {
	switch t {
	case FormatF, FormatComma, FormatDot, FormatDollar, FormatPct, FormatE:
		return true
	}
	return false
}

// IsDateTime reports whether t is a date, time, or date component format.
func (t FormatType) IsDateTime() bool {
	switch t {
	case FormatDate, FormatEDate, FormatADate, FormatSDate, FormatMoYr,
		FormatQYr, FormatWkYr, FormatDateTime, FormatYMDHMS, FormatTime,
		FormatDTime, FormatWkDay, FormatMonth:
		return true
	}
	return false
}

// minInputWidth is the narrowest field each date/time format can occupy.
var minInputWidth = map[FormatType]int{
	FormatDate:     8,
	FormatEDate:    8,
	FormatADate:    8,
	FormatSDate:    8,
	FormatMoYr:     6,
	FormatQYr:      4,
	FormatWkYr:     6,
	FormatDateTime: 17,
	FormatYMDHMS:   12,
	FormatTime:     5,
	FormatDTime:    8,
	FormatWkDay:    2,
	FormatMonth:    3,
}

// FormatSpec is a column format: a type tag, a field width, and for numeric
// and time types a number of decimal places. It is sufficient both to parse
// field text into a typed value and to print the value back losslessly.
type FormatSpec struct {
	Type FormatType
	W    int
	D    int
}

// String renders the spec in syntax form: "F8.2", "A12", "DATE11".
// Decimals are printed for numeric types always and for other types only
// when nonzero.
func (f FormatSpec) String() string {
	if f.Type.IsNumeric() || f.D > 0 {
		return fmt.Sprintf("%s%d.%d", f.Type, f.W, f.D)
	}
	return fmt.Sprintf("%s%d", f.Type, f.W)
}

// ParseFormatSpec parses the syntax form produced by String.
func ParseFormatSpec(s string) (FormatSpec, error) {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	name, rest := s[:i], s[i:]

	var typ FormatType
	found := false
	for t, n := range formatNames {
		if n == name {
			typ, found = t, true
			break
		}
	}
	if !found || rest == "" {
		return FormatSpec{}, fmt.Errorf("invalid format %q", s)
	}

	wText, dText, hasD := strings.Cut(rest, ".")
	w, err := strconv.Atoi(wText)
	if err != nil {
		return FormatSpec{}, fmt.Errorf("invalid format %q", s)
	}
	d := 0
	if hasD {
		if d, err = strconv.Atoi(dText); err != nil {
			return FormatSpec{}, fmt.Errorf("invalid format %q", s)
		}
	}
	return FormatSpec{Type: typ, W: w, D: d}, nil
}

// Fix clamps the spec into the valid range for an input format: guessed
// widths and decimal counts may fall outside what the format can occupy.
func (f FormatSpec) Fix() FormatSpec {
	if f.D < 0 {
		f.D = 0
	}
	if f.D > 16 {
		f.D = 16
	}
	if !f.Type.IsNumeric() && !f.Type.IsDateTime() {
		f.D = 0
	}

	min := 1
	switch {
	case f.Type.IsNumeric():
		if f.D > 0 {
			min = f.D + 2
		}
	case f.Type.IsDateTime():
		min = minInputWidth[f.Type]
		if f.D > 0 {
			min += f.D + 1
		}
	}
	if f.W < min {
		f.W = min
	}
	return f
}

// Value is one typed cell. Exactly one of Num/Str is meaningful depending
// on the column's format type; Missing marks the system-missing sentinel,
// which is distinct from zero and from the empty string.
type Value struct {
	Num     float64
	Str     string
	Missing bool
}

// SysMissing is the system-missing sentinel value.
func SysMissing() Value { return Value{Missing: true} }

// pswEpoch is the calendar origin for date values: dates convert to seconds
// since 14 Oct 1582.
var pswEpoch = time.Date(1582, time.October, 14, 0, 0, 0, 0, time.UTC)

// ParseValue converts field text to a typed value under the spec. Text that
// does not fit the format yields the system-missing sentinel, never an
// error: the format was inferred from a bounded preview and later rows may
// disagree with it.
func (f FormatSpec) ParseValue(text string) Value {
	switch {
	case f.Type.IsNumeric():
		if n, ok := parseNumber(text, f.Type); ok {
			return Value{Num: n}
		}
		return SysMissing()
	case f.Type.IsDateTime():
		if n, ok := parseDateTime(text, f.Type); ok {
			return Value{Num: n}
		}
		return SysMissing()
	default:
		return Value{Str: truncateBytes(text, f.W)}
	}
}

// truncateBytes shortens s to at most w bytes without splitting a rune.
func truncateBytes(s string, w int) string {
	if w <= 0 || len(s) <= w {
		return s
	}
	for w > 0 && !utf8.RuneStart(s[w]) {
		w--
	}
	return s[:w]
}

// parseNumber parses text under one of the numeric formats. The grouping
// and decimal characters come from the format type: DOT swaps the roles of
// comma and dot.
func parseNumber(text string, t FormatType) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	if t == FormatDollar {
		if rest, ok := strings.CutPrefix(s, "$"); ok {
			s = strings.TrimLeft(rest, " ")
		}
	}
	if t == FormatPct {
		// The sign is decoration: "25%" is the number 25.
		if rest, ok := strings.CutSuffix(s, "%"); ok {
			s = rest
		}
	}

	grouping, decimal := ",", "."
	if t == FormatDot {
		grouping, decimal = ".", ","
	}
	s = strings.ReplaceAll(s, grouping, "")
	if decimal != "." {
		if strings.Contains(s, ".") {
			return 0, false
		}
		s = strings.ReplaceAll(s, decimal, ".")
	}

	// Fortran-style exponents.
	s = strings.Map(func(r rune) rune {
		if r == 'd' || r == 'D' {
			return 'e'
		}
		return r
	}, s)

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// dateToken is one lexical unit of a date/time field: a number or a word.
type dateTok struct {
	word string
	num  int
	// digits counts the digits of a numeric token, to separate two-digit
	// years from four-digit ones.
	digits int
}

// tokenizeDate splits a date/time field into number and word tokens,
// discarding the separators. It returns false on any character that cannot
// appear in a date.
func tokenizeDate(s string) ([]dateTok, bool) {
	var toks []dateTok
	rs := []rune(strings.ToLower(strings.TrimSpace(s)))
	for i := 0; i < len(rs); {
		switch r := rs[i]; {
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			n, _ := strconv.Atoi(string(rs[i:j]))
			toks = append(toks, dateTok{num: n, digits: j - i})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			toks = append(toks, dateTok{word: string(rs[i:j]), num: -1})
			i = j
		case r == '-' || r == '/' || r == '.' || r == ',' || r == ':' || r == ' ' || r == '\t' || r == '+':
			i++
		default:
			return nil, false
		}
	}
	return toks, len(toks) > 0
}

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6,
	"vii": 7, "viii": 8, "ix": 9, "x": 10, "xi": 11, "xii": 12,
}

var weekdayNames = map[string]int{
	"su": 1, "mo": 2, "tu": 3, "we": 4, "th": 5, "fr": 6, "sa": 7,
}

// monthNumber resolves a month token: a spelled-out or Roman month name, or
// a number in 1..12.
func monthNumber(t dateTok) (int, bool) {
	if t.word != "" {
		name := t.word
		if len(name) > 3 && monthNames[name[:3]] != 0 && !isRoman(name) {
			name = name[:3]
		}
		m, ok := monthNames[name]
		return m, ok
	}
	if t.num >= 1 && t.num <= 12 {
		return t.num, true
	}
	return 0, false
}

func isRoman(s string) bool {
	for _, r := range s {
		switch r {
		case 'i', 'v', 'x':
		default:
			return false
		}
	}
	return true
}

// expandYear maps two-digit years into 1930-2029.
func expandYear(t dateTok) (int, bool) {
	if t.num < 0 {
		return 0, false
	}
	y := t.num
	if t.digits <= 2 {
		if y >= 30 {
			y += 1900
		} else {
			y += 2000
		}
	}
	return y, y >= 1582
}

// dateSeconds converts a calendar day to seconds since the epoch, rejecting
// impossible dates such as 31 Feb.
func dateSeconds(y, m, d int) (float64, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, false
	}
	tm := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if tm.Year() != y || tm.Month() != time.Month(m) || tm.Day() != d {
		return 0, false
	}
	return tm.Sub(pswEpoch).Seconds(), true
}

// clockSeconds assembles HH:MM[:SS[.frac]] tokens into seconds. The
// fraction, when present, arrives as a fourth numeric token whose digit
// count fixes its scale.
func clockSeconds(toks []dateTok) (float64, bool) {
	if len(toks) < 2 || len(toks) > 4 {
		return 0, false
	}
	for _, t := range toks {
		if t.num < 0 {
			return 0, false
		}
	}
	h, m := toks[0].num, toks[1].num
	s := 0
	if len(toks) >= 3 {
		s = toks[2].num
	}
	if m > 59 || s > 59 {
		return 0, false
	}
	total := float64(h*3600 + m*60 + s)
	if len(toks) == 4 {
		frac := float64(toks[3].num)
		for i := 0; i < toks[3].digits; i++ {
			frac /= 10
		}
		total += frac
	}
	return total, true
}

// parseDateTime parses text under one of the date/time formats, producing
// seconds since the epoch for dates and plain seconds for durations.
func parseDateTime(text string, t FormatType) (float64, bool) {
	toks, ok := tokenizeDate(text)
	if !ok {
		return 0, false
	}

	switch t {
	case FormatDate, FormatEDate:
		return parseDayMonthYear(toks, 0, 1, 2)
	case FormatADate:
		return parseDayMonthYear(toks, 1, 0, 2)
	case FormatSDate:
		return parseDayMonthYear(toks, 2, 1, 0)
	case FormatMoYr:
		if len(toks) != 2 {
			return 0, false
		}
		m, ok := monthNumber(toks[0])
		if !ok {
			return 0, false
		}
		y, ok := expandYear(toks[1])
		if !ok {
			return 0, false
		}
		return dateSeconds(y, m, 1)
	case FormatQYr:
		if len(toks) != 3 || toks[1].word != "q" || toks[0].num < 1 || toks[0].num > 4 {
			return 0, false
		}
		y, ok := expandYear(toks[2])
		if !ok {
			return 0, false
		}
		return dateSeconds(y, (toks[0].num-1)*3+1, 1)
	case FormatWkYr:
		if len(toks) != 3 || toks[1].word != "wk" || toks[0].num < 1 || toks[0].num > 53 {
			return 0, false
		}
		y, ok := expandYear(toks[2])
		if !ok {
			return 0, false
		}
		base, ok := dateSeconds(y, 1, 1)
		if !ok {
			return 0, false
		}
		return base + float64((toks[0].num-1)*7)*86400, true
	case FormatDateTime:
		if len(toks) < 5 {
			return 0, false
		}
		date, ok := parseDayMonthYear(toks[:3], 0, 1, 2)
		if !ok {
			return 0, false
		}
		clock, ok := clockSeconds(toks[3:])
		if !ok {
			return 0, false
		}
		return date + clock, true
	case FormatYMDHMS:
		if len(toks) < 5 {
			return 0, false
		}
		date, ok := parseDayMonthYear(toks[:3], 2, 1, 0)
		if !ok {
			return 0, false
		}
		clock, ok := clockSeconds(toks[3:])
		if !ok {
			return 0, false
		}
		return date + clock, true
	case FormatTime:
		return clockSeconds(toks)
	case FormatDTime:
		if len(toks) < 3 || toks[0].num < 0 {
			return 0, false
		}
		clock, ok := clockSeconds(toks[1:])
		if !ok {
			return 0, false
		}
		return float64(toks[0].num)*86400 + clock, true
	case FormatWkDay:
		if len(toks) != 1 || len(toks[0].word) < 2 {
			return 0, false
		}
		d, ok := weekdayNames[toks[0].word[:2]]
		return float64(d), ok
	case FormatMonth:
		if len(toks) != 1 {
			return 0, false
		}
		m, ok := monthNumber(toks[0])
		return float64(m), ok
	}
	return 0, false
}

// parseDayMonthYear interprets three date tokens with the day, month, and
// year at the given positions.
func parseDayMonthYear(toks []dateTok, dayIdx, monthIdx, yearIdx int) (float64, bool) {
	if len(toks) != 3 {
		return 0, false
	}
	m, ok := monthNumber(toks[monthIdx])
	if !ok {
		return 0, false
	}
	y, ok := expandYear(toks[yearIdx])
	if !ok {
		return 0, false
	}
	if toks[dayIdx].num < 0 {
		return 0, false
	}
	return dateSeconds(y, m, toks[dayIdx].num)
}
