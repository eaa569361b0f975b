package model

import (
	"strings"
	"unicode/utf8"
)

// DelimiterSet is a field-splitting configuration: a set of hard delimiters
// (every occurrence breaks a field), at most one soft delimiter (a run of
// consecutive occurrences breaks a field once), and at most one quote rune.
//
// Quoting convention: while inside an enclosure opened by Quote, delimiters
// do not break fields; a doubled quote inside the enclosure is an escaped
// literal quote; an unterminated enclosure closes implicitly at end of line.
type DelimiterSet struct {
	// Hard delimiters. Each occurrence ends the current field.
	Hard []rune
	// Soft delimiter, or 0 for none. Consecutive occurrences collapse into a
	// single field break.
	Soft rune
	// Quote rune, or 0 to disable quoting.
	Quote rune
}

// NewDelimiterSet builds a DelimiterSet from the user's chosen delimiter
// runes and quote. A space delimiter is treated as soft (a run of spaces is
// one separator); all other delimiters are hard.
func NewDelimiterSet(delimiters []rune, quote rune) DelimiterSet {
	d := DelimiterSet{Quote: quote}
	for _, r := range delimiters {
		if r == ' ' {
			d.Soft = ' '
		} else {
			d.Hard = append(d.Hard, r)
		}
	}
	return d
}

// Equal reports whether two delimiter sets are the same configuration.
func (d DelimiterSet) Equal(o DelimiterSet) bool {
	if d.Soft != o.Soft || d.Quote != o.Quote || len(d.Hard) != len(o.Hard) {
		return false
	}
	for i, r := range d.Hard {
		if o.Hard[i] != r {
			return false
		}
	}
	return true
}

func (d DelimiterSet) isHard(r rune) bool {
	for _, h := range d.Hard {
		if h == r {
			return true
		}
	}
	return false
}

func (d DelimiterSet) isSoft(r rune) bool {
	return d.Soft != 0 && r == d.Soft
}

func (d DelimiterSet) isSeparator(r rune) bool {
	return d.isSoft(r) || d.isHard(r)
}

// Split divides line into its delimited fields. Field strings are substrings
// of line except where a doubled-quote unescape forces a copy.
//
// A trailing hard delimiter is consumed without producing a final empty
// field, so lines with fewer delimiters than the widest row simply yield
// fewer fields.
func (d DelimiterSet) Split(line string) []string {
	var fields []string
	for {
		p := trimLeftSoft(line, d)
		if p == "" {
			return fields
		}
		var field string
		field, line = d.cutField(p)
		fields = append(fields, field)
	}
}

// CountFields returns the number of fields Split would produce without
// retaining them.
func (d DelimiterSet) CountFields(line string) int {
	n := 0
	for {
		p := trimLeftSoft(line, d)
		if p == "" {
			return n
		}
		_, line = d.cutField(p)
		n++
	}
}

// cutField extracts one field from the start of p, which must be non-empty
// and must not begin with a soft delimiter. It returns the field content and
// the remainder of the line positioned at the start of the next field.
func (d DelimiterSet) cutField(p string) (field, rest string) {
	r, size := utf8.DecodeRuneInString(p)
	if d.Quote != 0 && r == d.Quote {
		field, p = d.cutQuotedField(p[size:])
	} else {
		end := strings.IndexFunc(p, d.isSeparator)
		if end < 0 {
			end = len(p)
		}
		field, p = p[:end], p[end:]
	}

	// Skip trailing soft separators and a single hard separator if present.
	p = trimLeftSoft(p, d)
	if p != "" {
		next, size := utf8.DecodeRuneInString(p)
		if d.isHard(next) {
			p = trimLeftSoft(p[size:], d)
		}
	}
	return field, p
}

// cutQuotedField reads an enclosed field from p, which starts just after the
// opening quote. A doubled quote is an escaped literal; a missing closing
// quote closes the enclosure at end of line.
func (d DelimiterSet) cutQuotedField(p string) (field, rest string) {
	quote := string(d.Quote)

	end := strings.Index(p, quote)
	if end < 0 {
		return p, ""
	}
	field, p = p[:end], p[end+len(quote):]

	if !strings.HasPrefix(p, quote) {
		return field, p
	}

	// Doubled quotes: unescape into a copy.
	var b strings.Builder
	b.WriteString(field)
	for strings.HasPrefix(p, quote) {
		b.WriteString(quote)
		p = p[len(quote):]
		end = strings.Index(p, quote)
		if end < 0 {
			b.WriteString(p)
			p = ""
			break
		}
		b.WriteString(p[:end])
		p = p[end+len(quote):]
	}
	return b.String(), p
}

// trimLeftSoft strips leading soft delimiters from s.
func trimLeftSoft(s string, d DelimiterSet) string {
	if d.Soft == 0 {
		return s
	}
	return strings.TrimLeft(s, string(d.Soft))
}
