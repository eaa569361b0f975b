package model

import (
	"fmt"
	"strings"
	"unicode"
)

// Variable is one dataset column: a unique name plus the format that parses
// its field text.
type Variable struct {
	Name string
	Spec FormatSpec
}

// CaseSchema is a frozen ordered list of variables. Once built it never
// changes, so repeated reads of the same row always convert through the
// same formats.
type CaseSchema struct {
	vars  []Variable
	index map[string]int
}

// NewCaseSchema builds a schema from an ordered variable list. Duplicate
// names get a numeric suffix to keep every name unique.
func NewCaseSchema(vars []Variable) *CaseSchema {
	s := &CaseSchema{index: make(map[string]int, len(vars))}
	for _, v := range vars {
		s.add(v.Name, v.Spec)
	}
	return s
}

func (s *CaseSchema) add(name string, spec FormatSpec) {
	if _, taken := s.index[name]; taken {
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("%s_%d", name, i)
			if _, taken := s.index[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	s.index[name] = len(s.vars)
	s.vars = append(s.vars, Variable{Name: name, Spec: spec})
}

// Len returns the number of variables.
func (s *CaseSchema) Len() int { return len(s.vars) }

// Var returns variable i.
func (s *CaseSchema) Var(i int) Variable { return s.vars[i] }

// Vars returns a copy of the variable list.
func (s *CaseSchema) Vars() []Variable {
	out := make([]Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Lookup returns the position of the named variable.
func (s *CaseSchema) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// BuildSchema infers a schema for dt: one variable per table column, with
// the format guessed from every data field in the bounded preview. When
// useHeader is set, names come from the header line, sanitized into valid
// identifiers; columns past the header's width, and all columns otherwise,
// get generated VAR00001-style names.
func BuildSchema(dt *DelimitedText, useHeader bool) *CaseSchema {
	cols := dt.ColumnCount()
	rows := dt.RowCount()

	guessers := make([]*FormatGuesser, cols)
	for c := range guessers {
		guessers[c] = NewFormatGuesser()
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if text, ok := dt.Field(r, c); ok {
				guessers[c].Observe(text)
			}
		}
	}

	schema := &CaseSchema{index: make(map[string]int, cols)}
	auto := 0
	for c := 0; c < cols; c++ {
		name := ""
		if useHeader {
			if h, ok := dt.HeaderField(c); ok {
				name = sanitizeName(h)
			}
		}
		if name == "" {
			auto++
			name = fmt.Sprintf("VAR%05d", auto)
		}
		schema.add(name, guessers[c].Guess().Fix())
	}
	return schema
}

// sanitizeName turns header text into a valid variable name: letters,
// digits, and a few punctuation characters, not starting with a digit.
// Unusable text yields "" and the caller generates a name instead.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || r == '_' || r == '@' || r == '#' || r == '$':
			b.WriteRune(r)
		case unicode.IsDigit(r) || r == '.':
			if b.Len() == 0 {
				b.WriteRune('v')
			}
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || name == "." || strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}
