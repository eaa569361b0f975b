package model

import "strings"

// dateToken classifies one lexical unit of a potential date or time field.
// The type is a bitmap: a single token often has several possible roles.
// The number "1" can be a quarter, a month, an hour, a day of the month, a
// week of the year, or a count of days; the ambiguity is resolved at the
// level of whole fields and then whole columns.
type dateToken uint32

const (
	dtDay          dateToken = 1 << iota // dd: day of the month
	dtMonth                              // mm: month
	dtEnglishMonth                       // mmm: spelled-out month, e.g. "jan"
	dtYear                               // yy: year

	dtHour   // HH: hour
	dtMinute // MM: minute
	dtSecond // SS: second

	dtWeekday // www: day of the week

	dtDayCount // D: number of days
	dtWeek     // ww: week of the year
	dtQuarter  // q: quarter of the year

	dtQ  // literal "Q"
	dtWK // literal "WK"

	dtDelim // one of -/., or white space
	dtSpace // any white space
	dtColon // :
)

// maxDateTokens is the longest token sequence any recognized syntax uses.
const maxDateTokens = 11

// dateSyntax is the shape of one date or time format, in terms of the
// tokens that compose it.
type dateSyntax struct {
	format FormatType
	tokens []dateToken
}

// dateSyntaxes lists every date and time shape the guesser can recognize.
//
// Order matters for tie-breaking: DATE precedes EDATE so that spelled-out
// months yield DATE, and EDATE precedes ADATE so that ambiguous dates like
// "1/1/99" resolve to the European reading. Syntaxes sharing a format type
// must stay adjacent.
var dateSyntaxes = []dateSyntax{
	// dd-mmm-yy
	{FormatDate, []dateToken{dtDay, dtDelim, dtEnglishMonth, dtDelim, dtYear}},
	// dd.mm.yy
	{FormatEDate, []dateToken{dtDay, dtDelim, dtMonth, dtDelim, dtYear}},
	// mm/dd/yy
	{FormatADate, []dateToken{dtMonth, dtDelim, dtDay, dtDelim, dtYear}},
	// yy/mm/dd
	{FormatSDate, []dateToken{dtYear, dtDelim, dtMonth, dtDelim, dtDay}},
	// mmm yy
	{FormatMoYr, []dateToken{dtMonth, dtDelim, dtYear}},
	// q Q yy
	{FormatQYr, []dateToken{dtQuarter, dtQ, dtYear}},
	// ww WK yy
	{FormatWkYr, []dateToken{dtWeek, dtWK, dtYear}},
	// dd-mm-yyyy HH:MM
	{FormatDateTime, []dateToken{dtDay, dtDelim, dtMonth, dtDelim, dtYear,
		dtSpace, dtHour, dtColon, dtMinute}},
	// dd-mm-yyyy HH:MM:SS
	{FormatDateTime, []dateToken{dtDay, dtDelim, dtMonth, dtDelim, dtYear,
		dtSpace, dtHour, dtColon, dtMinute, dtColon, dtSecond}},
	// yyyy-mm-dd HH:MM
	{FormatYMDHMS, []dateToken{dtYear, dtDelim, dtMonth, dtDelim, dtDay,
		dtSpace, dtHour, dtColon, dtMinute}},
	// yyyy-mm-dd HH:MM:SS
	{FormatYMDHMS, []dateToken{dtYear, dtDelim, dtMonth, dtDelim, dtDay,
		dtSpace, dtHour, dtColon, dtMinute, dtColon, dtSecond}},
	// HH:MM
	{FormatTime, []dateToken{dtHour, dtColon, dtMinute}},
	// HH:MM:SS
	{FormatTime, []dateToken{dtHour, dtColon, dtMinute, dtColon, dtSecond}},
	// D HH:MM
	{FormatDTime, []dateToken{dtDayCount, dtSpace, dtHour, dtColon, dtMinute}},
	// D HH:MM:SS
	{FormatDTime, []dateToken{dtDayCount, dtSpace, dtHour, dtColon, dtMinute,
		dtColon, dtSecond}},
	// www
	{FormatWkDay, []dateToken{dtWeekday}},
	// mmm
	//
	// A spelled-out English month is required here so that single-character
	// Roman numerals like "i" and "x" are not detected as months. Those are
	// common in the password field of /etc/passwd-like files.
	{FormatMonth, []dateToken{dtEnglishMonth}},
}

// allSyntaxes is the mask with one bit set per entry of dateSyntaxes.
var allSyntaxes = uint32(1)<<len(dateSyntaxes) - 1

// FormatGuesser accumulates sample field texts for one column and guesses
// the format that describes all of them.
//
// Narrowing is strict and monotonic: a column is numeric only if every
// counted sample parsed as a number, and a date column's candidate syntax
// set only ever shrinks as samples arrive. Once a single non-conforming
// sample demotes the column, no later sample can promote it back.
type FormatGuesser struct {
	// width is the maximum observed input width.
	width int

	// decimals sums the digits after the decimal point in each input;
	// divide by count for the average.
	decimals int

	// count is the number of non-empty, non-missing inputs.
	count int

	anyNumeric int // inputs that parsed as some numeric format
	f          int
	comma      int
	dot        int
	dollar     int
	pct        int
	e          int

	// anyDate counts inputs that matched at least one date syntax, and
	// date counts the matches per syntax. dateMask is the intersection of
	// every counted sample's matching syntaxes; once a bit clears it stays
	// cleared.
	anyDate  int
	date     []int
	dateMask uint32
}

// NewFormatGuesser returns a guesser with no samples observed.
func NewFormatGuesser() *FormatGuesser {
	return &FormatGuesser{
		date:     make([]int, len(dateSyntaxes)),
		dateMask: allSyntaxes,
	}
}

// Count returns the number of non-empty, non-missing samples observed.
func (g *FormatGuesser) Count() int { return g.count }

// Observe appends one sample field text to the stream the guesser is
// analyzing. Empty fields and the missing-value indicator "." contribute
// only to the width.
func (g *FormatGuesser) Observe(sample string) {
	if len(sample) > g.width {
		g.width = len(sample)
	}
	s := strings.TrimSpace(sample)
	if s == "" || s == "." {
		return
	}

	g.count++
	if g.addNumeric(s) {
		// A numeric sample matches no date syntax.
		g.dateMask = 0
		return
	}
	g.addDateTime(s)
}

// Guess returns the format covering every observed sample. With no samples
// at all it falls back to F8.2. The result may need Fix to become a valid
// input format.
func (g *FormatGuesser) Guess() FormatSpec {
	if g.count == 0 {
		return FormatSpec{Type: FormatF, W: 8, D: 2}
	}

	spec := FormatSpec{Type: FormatA, W: g.width}
	if g.anyNumeric == g.count {
		g.guessNumeric(&spec)
	} else if g.anyDate == g.count && g.dateMask != 0 {
		g.guessDateTime(&spec)
	}
	return spec
}

// addNumeric tries to parse s as one of the numeric formats, updating the
// counters on success. It accepts exactly the strings the numeric value
// parsers accept.
func (g *FormatGuesser) addNumeric(s string) bool {
	hasDollar := false
	if rest, ok := strings.CutPrefix(s, "$"); ok {
		hasDollar = true
		s = strings.TrimLeft(rest, " ")
	}
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}

	// Scan digits punctuated by commas and dots. Whether the decimal point
	// is a comma or a dot is not yet known, so just count both.
	digits, dots, commas := 0, 0, 0
	delimDigits := 0
	prevDelim := byte(0)
	i := 0
scan:
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
			if dots > 0 || commas > 0 {
				delimDigits++
			}
		case c == '.':
			dots++
			prevDelim = c
			delimDigits = 0
		case c == ',':
			commas++
			prevDelim = c
			delimDigits = 0
		default:
			break scan
		}
	}
	if digits == 0 || (dots > 1 && commas > 1) {
		// A valid number has at least one digit and cannot have more than
		// one decimal point.
		return false
	}
	s = s[i:]

	// Optional exponent.
	hasExp := false
	if len(s) > 0 && (s[0] == 'e' || s[0] == 'E' || s[0] == 'd' || s[0] == 'D') {
		hasExp = true
		s = s[1:]
	}
	hasExpSign := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		hasExpSign = true
		s = strings.TrimPrefix(s[1:], " ")
	}
	expDigits := 0
	for expDigits < len(s) && s[expDigits] >= '0' && s[expDigits] <= '9' {
		expDigits++
	}
	s = s[expDigits:]
	if (hasExp || hasExpSign) && expDigits == 0 {
		return false
	}

	hasPercent := false
	if rest, ok := strings.CutSuffix(s, "%"); ok && rest == "" {
		hasPercent = true
		s = rest
	}
	if hasDollar && hasPercent {
		return false
	}
	if s != "" {
		return false
	}

	// Decide which character is the decimal point and how many digits
	// follow it. Sometimes the answer is ambiguous.
	var decimal byte
	precision := 0
	switch {
	case dots > 1 && prevDelim == '.':
		// Multiple dots, so '.' must be the grouping character.
		decimal = ','
	case commas > 1 && prevDelim == ',':
		decimal = '.'
	case delimDigits == 3 && (dots == 0 || commas == 0):
		// "1.234" or "1,234": could be grouping or a decimal point. Read
		// it with '.' as the decimal character.
		if prevDelim == '.' {
			decimal = prevDelim
			precision = delimDigits
		} else {
			decimal = '.'
		}
	default:
		decimal = prevDelim
		precision = delimDigits
	}

	g.anyNumeric++
	g.decimals += precision
	switch {
	case hasDollar:
		g.dollar++
	case hasPercent:
		g.pct++
	case commas > 0 && decimal == '.':
		g.comma++
	case dots > 0 && decimal == ',':
		g.dot++
	case hasExp || hasExpSign:
		g.e++
	default:
		g.f++
	}
	return true
}

// guessNumeric picks the numeric format the counted samples favor. The
// width was already set by the caller.
func (g *FormatGuesser) guessNumeric(spec *FormatSpec) {
	spec.D = g.decimals / g.count
	switch {
	case g.pct > 0:
		spec.Type = FormatPct
	case g.dollar > 0:
		spec.Type = FormatDollar
	case g.comma > g.dot:
		spec.Type = FormatComma
	case g.dot > g.comma:
		spec.Type = FormatDot
	case g.e > g.anyNumeric/2:
		spec.Type = FormatE
	default:
		spec.Type = FormatF
	}
}

// addDateTime tries to parse s as a date, time, or date component field,
// intersecting the column's candidate syntax mask with the set of syntaxes
// s matches. A sample matching nothing clears the mask permanently.
//
// This is somewhat pickier than the value parsers: minutes and seconds are
// only recognized with exactly two digits, so "1:02:03" is a valid time but
// "1:2:3" is rejected.
func (g *FormatGuesser) addDateTime(s string) {
	var toks []dateToken
	var seen dateToken
	decimals := 0
	for s != "" {
		if len(toks) >= maxDateTokens {
			g.dateMask = 0
			return
		}
		var tok dateToken
		tok, s = parseDateGuessToken(s, seen, &decimals)
		if tok == 0 {
			g.dateMask = 0
			return
		}
		toks = append(toks, tok)
		seen |= tok
	}

	var sampleMask uint32
	for i, syn := range dateSyntaxes {
		if matchDateSyntax(toks, syn.tokens) {
			sampleMask |= 1 << i
			g.date[i]++
		}
	}
	g.dateMask &= sampleMask
	if sampleMask != 0 {
		g.anyDate++
		g.decimals += decimals
	}
}

// matchDateSyntax reports whether every observed token admits the role the
// syntax assigns to its position.
func matchDateSyntax(toks []dateToken, pattern []dateToken) bool {
	if len(toks) != len(pattern) {
		return false
	}
	for i, t := range toks {
		if t&pattern[i] == 0 {
			return false
		}
	}
	return true
}

// guessDateTime picks the date or time format from the syntaxes that
// matched every sample, choosing the one matched by the most samples and
// breaking ties in table order.
func (g *FormatGuesser) guessDateTime(spec *FormatSpec) {
	max := 0
	for i := 0; i < len(dateSyntaxes); {
		j := i + 1
		sum := 0
		if g.dateMask&(1<<i) != 0 {
			sum = g.date[i]
		}
		for ; j < len(dateSyntaxes) && dateSyntaxes[j].format == dateSyntaxes[i].format; j++ {
			if g.dateMask&(1<<j) != 0 {
				sum += g.date[j]
			}
		}
		if sum > max {
			spec.Type = dateSyntaxes[i].format
			max = sum
		}
		i = j
	}

	// Formats that include a time have an optional seconds field. When any
	// sample carried one, widen the field to hold it.
	switch spec.Type {
	case FormatDateTime, FormatYMDHMS, FormatTime, FormatDTime:
		for i, syn := range dateSyntaxes {
			if g.date[i] > 0 && syn.tokens[len(syn.tokens)-1] == dtSecond {
				spec.D = g.decimals / g.count
				if w := minInputWidth[spec.Type] + 3; spec.W < w {
					spec.W = w
				}
				break
			}
		}
	}
}

// parseDateGuessToken extracts the next date token from the head of s,
// returning the token bitmap and the remainder. A zero token means s cannot
// be a date. seen carries the tokens already found in this field, which
// resolves some ambiguities; *decimals receives the digit count after a
// seconds field's decimal point.
func parseDateGuessToken(s string, seen dateToken, decimals *int) (dateToken, string) {
	switch c := s[0]; {
	case c >= '0' && c <= '9':
		return parseDateGuessNumber(s, seen, decimals)

	case c == '+' || c == '-':
		// A sign at the start of the field or after a space can introduce
		// a time: "-1:00" in TIME, "-1 1:00" in DTIME.
		if (seen == 0 || seen&dtSpace != 0) && len(s) > 1 && isDigit(s[1]) {
			s = strings.TrimLeft(s[1:], "0123456789")
			return dtDayCount | dtHour, s
		}
		if c == '+' {
			return 0, s
		}
		return dtDelim, s[1:]

	case c == '/' || c == '.' || c == ',':
		return dtDelim, s[1:]

	case c == ':':
		return dtColon, s[1:]

	case c == ' ' || c == '\t':
		tok, rest := recognizeDateIdent(s[1:])
		if tok != 0 {
			if rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
				rest = rest[1:]
			}
			return tok, rest
		}
		return dtDelim | dtSpace, s[1:]

	default:
		return recognizeDateIdent(s)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseDateGuessNumber classifies a digit sequence by the roles its value
// and digit count allow.
func parseDateGuessNumber(s string, seen dateToken, decimals *int) (dateToken, string) {
	nDigits := 0
	value := 0
	for nDigits < len(s) && isDigit(s[nDigits]) {
		if value <= 9999 {
			value = value*10 + int(s[nDigits]-'0')
		}
		nDigits++
	}
	s = s[nDigits:]

	if strings.HasPrefix(s, ".") && seen&dtColon != 0 && value <= 59 {
		// Fractional seconds.
		frac := strings.TrimLeft(s[1:], "0123456789")
		*decimals = len(s) - 1 - len(frac)
		return dtSecond, frac
	}

	var tok dateToken
	switch {
	case value <= 4:
		tok = dtQuarter | dtMonth | dtHour | dtDay | dtWeek | dtDayCount
	case value <= 12:
		tok = dtMonth | dtHour | dtDay | dtWeek | dtDayCount
	case value <= 23:
		tok = dtHour | dtDay | dtWeek | dtDayCount
	case value <= 31:
		tok = dtDay | dtWeek | dtDayCount
	case value <= 52:
		tok = dtWeek | dtDayCount
	default:
		tok = dtDayCount
	}
	if nDigits == 2 {
		tok |= dtYear
		if value <= 59 {
			tok |= dtMinute | dtSecond
		}
	} else if nDigits == 4 {
		tok |= dtYear
	}
	return tok, s
}

// recognizeDateIdent matches the word at the head of s against month names,
// weekday names, Roman-numeral months, and the QYR/WKYR literals.
func recognizeDateIdent(s string) (dateToken, string) {
	n := 0
	for n < len(s) && isLetter(s[n]) {
		n++
	}
	if n == 0 {
		return 0, s
	}
	word := strings.ToLower(s[:n])

	var tok dateToken
	switch n {
	case 1:
		switch word {
		case "i", "v", "x":
			tok = dtMonth
		case "q":
			tok = dtQ
		}
	case 2:
		tok = recognizeId2(word[0], word[1], false)
		if tok == 0 && word == "wk" {
			tok = dtWK
		}
	default:
		tok = recognizeId2(word[0], word[1], true)
		if tok == 0 {
			tok = recognizeId3(word[0], word[1], word[2], n > 3)
		}
		if tok == 0 && word == "viii" {
			tok = dtMonth
		}
	}
	if tok == 0 {
		return 0, s
	}
	return tok, s[n:]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func recognizeId2(s0, s1 byte, more bool) dateToken {
	weekday := false
	switch s0 {
	case 's':
		weekday = s1 == 'a' || s1 == 'u'
	case 'm':
		weekday = s1 == 'o'
	case 't':
		weekday = s1 == 'u' || s1 == 'h'
	case 'w':
		weekday = s1 == 'e'
	case 'f':
		weekday = s1 == 'r'
	}
	if weekday {
		return dtWeekday
	}

	if !more {
		month := false
		switch s0 {
		case 'i':
			month = s1 == 'i' || s1 == 'v' || s1 == 'x'
		case 'v', 'x':
			month = s1 == 'i'
		}
		if month {
			return dtMonth
		}
	}
	return 0
}

func recognizeId3(s0, s1, s2 byte, more bool) dateToken {
	month := false
	switch s0 {
	case 'j':
		month = (s1 == 'a' && s2 == 'n') || (s1 == 'u' && (s2 == 'n' || s2 == 'l'))
	case 'f':
		month = s1 == 'e' && s2 == 'b'
	case 'm':
		month = s1 == 'a' && (s2 == 'r' || s2 == 'y')
	case 'a':
		month = (s1 == 'p' && s2 == 'r') || (s1 == 'u' && s2 == 'g')
	case 's':
		month = s1 == 'e' && s2 == 'p'
	case 'o':
		month = s1 == 'c' && s2 == 't'
	case 'n':
		month = s1 == 'o' && s2 == 'v'
	case 'd':
		month = s1 == 'e' && s2 == 'c'
	}
	if month {
		return dtMonth | dtEnglishMonth
	}

	if !more {
		switch s0 {
		case 'i', 'x', 'v':
			if s1 == 'i' && s2 == 'i' {
				return dtMonth
			}
		}
	}
	return 0
}
