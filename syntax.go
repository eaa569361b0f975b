package textimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/textimport/domain/model"
)

// Syntax serializes the session's finalized configuration as a GET DATA
// command, the durable artifact a user saves and replays. The session must
// be readable, since the command embeds the per-variable formats.
//
// A FirstNLines or FirstPercent row limit appends a SELECT IF or SAMPLE
// command after the GET DATA block.
func (s *Session) Syntax() (string, error) {
	schema, err := s.Schema()
	if err != nil {
		return "", err
	}
	if schema.Len() == 0 {
		return "", ErrEmptySchema
	}

	var b strings.Builder
	b.WriteString("GET DATA\n")
	b.WriteString("  /TYPE=TXT\n")
	fmt.Fprintf(&b, "  /FILE=%s\n", quoteSyntax(s.file.Path()))
	if !model.EncodingIsAuto(s.requestedEncoding) {
		fmt.Fprintf(&b, "  /ENCODING=%s\n", quoteSyntax(s.file.Encoding()))
	}
	b.WriteString("  /ARRANGEMENT=DELIMITED\n")
	b.WriteString("  /DELCASE=LINE\n")
	if first := s.table.FirstLine(); first > 0 {
		fmt.Fprintf(&b, "  /FIRSTCASE=%d\n", first+1)
	}
	fmt.Fprintf(&b, "  /DELIMITERS=\"%s\"\n", escapeDelimiters(s.delimiterRunes()))
	if q := s.table.Delimiters().Quote; q != 0 {
		fmt.Fprintf(&b, "  /QUALIFIER=%s\n", quoteSyntax(string(q)))
	}

	b.WriteString("  /VARIABLES=\n")
	for i := 0; i < schema.Len(); i++ {
		v := schema.Var(i)
		terminator := ""
		if i == schema.Len()-1 {
			terminator = "."
		}
		fmt.Fprintf(&b, "    %s %s%s\n", v.Name, v.Spec, terminator)
	}

	switch s.limit.kind {
	case limitCases:
		fmt.Fprintf(&b, "SELECT IF ($CASENUM <= %d).\n", s.limit.n)
	case limitPercent:
		fmt.Fprintf(&b, "SAMPLE %.4g.\n", s.limit.percent/100)
	}
	return b.String(), nil
}

// delimiterRunes reconstructs the configured delimiter runes, tab first so
// the escaped form leads the DELIMITERS literal.
func (s *Session) delimiterRunes() []rune {
	d := s.table.Delimiters()
	var out []rune
	for _, r := range d.Hard {
		if r == '\t' {
			out = append(out, r)
		}
	}
	for _, r := range d.Hard {
		if r != '\t' {
			out = append(out, r)
		}
	}
	if d.Soft != 0 {
		out = append(out, d.Soft)
	}
	return out
}

// escapeDelimiters renders delimiter runes for the DELIMITERS string
// literal. Tab is the only rune needing an escape.
func escapeDelimiters(delims []rune) string {
	var b strings.Builder
	for _, r := range delims {
		if r == '\t' {
			b.WriteString(`\t`)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// quoteSyntax renders a double-quoted string literal with embedded quotes
// doubled.
func quoteSyntax(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// unquoteSyntax reverses quoteSyntax.
func unquoteSyntax(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", ErrInvalidSyntax
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`), nil
}

// Config is a GET DATA command reconstructed by ParseSyntax. It carries
// everything needed to rebuild the session that generated it.
type Config struct {
	File       string
	Encoding   string
	FirstCase  int
	Delimiters []rune
	Qualifier  rune
	Variables  []model.Variable
}

// ParseSyntax reads a GET DATA /TYPE=TXT command produced by Syntax back
// into a configuration. Generation and parsing round-trip: parsing the
// emitted text always reproduces the configuration that emitted it.
func ParseSyntax(text string) (*Config, error) {
	cfg := &Config{}
	sawGetData := false
	inVariables := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if inVariables {
			done := strings.HasSuffix(line, ".")
			v, err := parseVariableLine(strings.TrimSuffix(line, "."))
			if err != nil {
				return nil, err
			}
			cfg.Variables = append(cfg.Variables, v)
			if done {
				inVariables = false
			}
			continue
		}

		switch {
		case line == "GET DATA":
			sawGetData = true
		case line == "/TYPE=TXT", line == "/ARRANGEMENT=DELIMITED", line == "/DELCASE=LINE":
			// Fixed subcommands.
		case strings.HasPrefix(line, "/FILE="):
			f, err := unquoteSyntax(line[len("/FILE="):])
			if err != nil {
				return nil, err
			}
			cfg.File = f
		case strings.HasPrefix(line, "/ENCODING="):
			e, err := unquoteSyntax(line[len("/ENCODING="):])
			if err != nil {
				return nil, err
			}
			cfg.Encoding = e
		case strings.HasPrefix(line, "/FIRSTCASE="):
			n, err := strconv.Atoi(line[len("/FIRSTCASE="):])
			if err != nil || n < 1 {
				return nil, ErrInvalidSyntax
			}
			cfg.FirstCase = n
		case strings.HasPrefix(line, "/DELIMITERS="):
			d, err := unquoteSyntax(line[len("/DELIMITERS="):])
			if err != nil {
				return nil, err
			}
			cfg.Delimiters = []rune(strings.ReplaceAll(d, `\t`, "\t"))
		case strings.HasPrefix(line, "/QUALIFIER="):
			q, err := unquoteSyntax(line[len("/QUALIFIER="):])
			if err != nil {
				return nil, err
			}
			runes := []rune(q)
			if len(runes) != 1 {
				return nil, ErrInvalidSyntax
			}
			cfg.Qualifier = runes[0]
		case line == "/VARIABLES=":
			inVariables = true
		case strings.HasPrefix(line, "SELECT IF"), strings.HasPrefix(line, "SAMPLE"):
			// Row-limit commands after the GET DATA block.
		default:
			return nil, fmt.Errorf("%w: unexpected line %q", ErrInvalidSyntax, line)
		}
	}

	if !sawGetData || cfg.File == "" || len(cfg.Variables) == 0 {
		return nil, ErrInvalidSyntax
	}
	return cfg, nil
}

func parseVariableLine(line string) (model.Variable, error) {
	name, format, ok := strings.Cut(line, " ")
	if !ok {
		return model.Variable{}, ErrInvalidSyntax
	}
	spec, err := model.ParseFormatSpec(strings.TrimSpace(format))
	if err != nil {
		return model.Variable{}, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
	}
	return model.Variable{Name: name, Spec: spec}, nil
}
