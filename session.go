package textimport

import (
	"fmt"

	"github.com/nao1215/textimport/domain/model"
)

// rowLimitKind selects a row-limit policy.
type rowLimitKind int

const (
	limitAll rowLimitKind = iota
	limitCases
	limitPercent
)

// RowLimit bounds how many data rows an import uses. Construct one with
// AllLines, FirstNLines, or FirstPercent.
type RowLimit struct {
	kind    rowLimitKind
	n       int
	percent float64
}

// AllLines imposes no row limit.
func AllLines() RowLimit { return RowLimit{kind: limitAll} }

// FirstNLines limits the import to the first n data rows.
func FirstNLines(n int) RowLimit { return RowLimit{kind: limitCases, n: n} }

// FirstPercent limits the import to a random p percent of rows. Within the
// preview it bounds the window to p percent of the data rows.
func FirstPercent(p float64) RowLimit { return RowLimit{kind: limitPercent, percent: p} }

// Session is one text-file import in progress. It owns the line cache, the
// splitting configuration, and, once built, the frozen schema and its row
// reader. The session is not safe for concurrent use; every operation runs
// to completion on the caller's goroutine.
//
// A new session starts without a schema. Building one makes the session
// readable; changing any configuration drops the schema and reader together
// so a reader can never observe stale splits.
type Session struct {
	file  *model.TextFile
	table *model.DelimitedText

	// requestedEncoding is what the caller asked for, which may be an
	// auto-detection request; the file records what was resolved.
	requestedEncoding string

	useHeader bool
	limit     RowLimit

	schema *model.CaseSchema
	reader *model.CaseReader
}

// SessionOption configures NewSession.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	encoding string
}

// WithEncoding names the file's character encoding instead of detecting it.
func WithEncoding(name string) SessionOption {
	return func(c *sessionConfig) { c.encoding = name }
}

// NewSession opens path, fills the preview line cache, and returns a
// session with the default configuration: comma delimiter, double-quote
// enclosure, no header, no row limit.
func NewSession(path string, opts ...SessionOption) (*Session, error) {
	cfg := sessionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	file, err := model.NewTextFile(path, cfg.encoding)
	if err != nil {
		return nil, fmt.Errorf("textimport: %w", err)
	}
	return &Session{
		file:              file,
		table:             model.NewDelimitedText(file),
		requestedEncoding: cfg.encoding,
		limit:             AllLines(),
	}, nil
}

// File returns the underlying line cache.
func (s *Session) File() *model.TextFile { return s.file }

// Table returns the delimited preview table.
func (s *Session) Table() *model.DelimitedText { return s.table }

// Readable reports whether a schema has been built since the last
// configuration change.
func (s *Session) Readable() bool { return s.schema != nil }

// SetDelimiters replaces the field delimiter runes. A space delimiter
// collapses runs; all others split on every occurrence.
func (s *Session) SetDelimiters(delims []rune) {
	q := s.table.Delimiters().Quote
	s.table.SetDelimiters(model.NewDelimiterSet(delims, q))
	s.invalidate()
}

// SetQuote replaces the enclosure rune. Zero disables quoting.
func (s *Session) SetQuote(q rune) {
	d := s.table.Delimiters()
	d.Quote = q
	s.table.SetDelimiters(d)
	s.invalidate()
}

// SetFirstDataLine sets the zero-based index of the first data line. Lines
// before it are skipped; with UseHeaderLine the line just before it names
// the columns.
func (s *Session) SetFirstDataLine(n int) {
	s.table.SetFirstLine(n)
	s.invalidate()
}

// UseHeaderLine controls whether the line preceding the first data line
// supplies variable names. It has no effect while the first data line is 0.
func (s *Session) UseHeaderLine(use bool) {
	s.useHeader = use
	s.invalidate()
}

// SetRowLimit replaces the row-limit policy.
func (s *Session) SetRowLimit(limit RowLimit) error {
	switch limit.kind {
	case limitCases:
		if limit.n < 0 {
			return ErrInvalidRowLimit
		}
	case limitPercent:
		if limit.percent <= 0 || limit.percent > 100 {
			return ErrInvalidRowLimit
		}
	}
	s.limit = limit
	s.invalidate()
	return nil
}

// invalidate drops the schema and reader together.
func (s *Session) invalidate() {
	s.schema = nil
	s.reader = nil
}

// effectiveLines converts the row-limit policy into a preview-line bound,
// header included.
func (s *Session) effectiveLines() int {
	total := s.file.LineCount()
	first := s.table.FirstLine()
	switch s.limit.kind {
	case limitCases:
		n := first + s.limit.n
		if n > total {
			n = total
		}
		return n
	case limitPercent:
		rows := total - first
		if rows < 0 {
			rows = 0
		}
		n := first + int(float64(rows)*s.limit.percent/100)
		if n > total {
			n = total
		}
		return n
	default:
		return total
	}
}

// BuildSchema runs format inference over the bounded preview and freezes
// the result, making the session readable. It may be called again after any
// reconfiguration; the previous schema and reader are discarded.
func (s *Session) BuildSchema() *model.CaseSchema {
	s.table.SetMaximumLines(s.effectiveLines())
	s.schema = model.BuildSchema(s.table, s.useHeader)
	s.reader = model.NewCaseReader(s.table, s.schema)
	return s.schema
}

// Schema returns the frozen schema, or ErrNotReadable before BuildSchema or
// after a reconfiguration.
func (s *Session) Schema() (*model.CaseSchema, error) {
	if s.schema == nil {
		return nil, ErrNotReadable
	}
	return s.schema, nil
}

// Reader returns the typed row reader, or ErrNotReadable before BuildSchema
// or after a reconfiguration.
func (s *Session) Reader() (*model.CaseReader, error) {
	if s.reader == nil {
		return nil, ErrNotReadable
	}
	return s.reader, nil
}
