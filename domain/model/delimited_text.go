package model

// DelimitedText presents the cached preview lines of a TextFile as a
// random-access table of delimited fields. It owns the current splitting
// configuration, the discovered maximum field count, and a single-slot
// cache holding the split result of the most recently accessed line, so the
// common "read columns left to right, then move to the next row" pattern
// costs one split per row.
//
// Row indexes are data-row indexes: row r maps to preview line r+FirstLine.
type DelimitedText struct {
	file   *TextFile
	delims DelimiterSet

	// firstLine is the index of the first data line. When a header is in
	// use it sits at firstLine-1.
	firstLine int

	// maximumLines bounds how many preview lines are considered, for the
	// "first N cases / first P percent" row-limit policies.
	maximumLines int

	// maxFields is the widest field count observed across all preview lines.
	maxFields int

	cacheLine   int
	cacheFields []string
}

// NewDelimitedText wraps file with the default configuration: comma
// delimiter, double-quote enclosure, no lines skipped.
func NewDelimitedText(file *TextFile) *DelimitedText {
	dt := &DelimitedText{
		file:         file,
		maximumLines: file.LineCount(),
		cacheLine:    -1,
	}
	dt.SetDelimiters(NewDelimiterSet([]rune{','}, '"'))
	return dt
}

// SetDelimiters replaces the splitting configuration, invalidates the split
// cache, and recounts the maximum field count across the preview.
func (dt *DelimitedText) SetDelimiters(d DelimiterSet) {
	dt.delims = d
	dt.invalidate()
}

// SetFirstLine sets the index of the first data line and invalidates
// derived state.
func (dt *DelimitedText) SetFirstLine(n int) {
	if n < 0 {
		n = 0
	}
	if n > dt.file.LineCount() {
		n = dt.file.LineCount()
	}
	dt.firstLine = n
	dt.invalidate()
}

// SetMaximumLines bounds the preview to the first n lines (header included).
func (dt *DelimitedText) SetMaximumLines(n int) {
	if n < 0 || n > dt.file.LineCount() {
		n = dt.file.LineCount()
	}
	dt.maximumLines = n
	dt.invalidate()
}

// Delimiters returns the current splitting configuration.
func (dt *DelimitedText) Delimiters() DelimiterSet { return dt.delims }

// FirstLine returns the index of the first data line.
func (dt *DelimitedText) FirstLine() int { return dt.firstLine }

// File returns the underlying line cache.
func (dt *DelimitedText) File() *TextFile { return dt.file }

// RowCount returns the number of data rows in the bounded preview.
func (dt *DelimitedText) RowCount() int {
	n := dt.maximumLines - dt.firstLine
	if n < 0 {
		return 0
	}
	return n
}

// ColumnCount returns the dataset column count: the maximum field count
// observed across all cached preview lines, which may exceed the field
// count of any individual line.
func (dt *DelimitedText) ColumnCount() int { return dt.maxFields }

// Field returns the text of column col in data row row. The second return
// is false when the row has fewer fields than col+1; an absent field is
// distinct from an empty one.
func (dt *DelimitedText) Field(row, col int) (string, bool) {
	if row < 0 || row >= dt.RowCount() || col < 0 {
		return "", false
	}
	fields := dt.splitLine(row + dt.firstLine)
	if col >= len(fields) {
		return "", false
	}
	return fields[col], true
}

// HeaderField returns the text of column col on the designated header line,
// which is the line preceding the first data line. It returns false when no
// header line exists or the header has no such field.
func (dt *DelimitedText) HeaderField(col int) (string, bool) {
	if dt.firstLine <= 0 || col < 0 {
		return "", false
	}
	fields := dt.splitLine(dt.firstLine - 1)
	if col >= len(fields) {
		return "", false
	}
	return fields[col], true
}

// splitLine splits preview line n into fields, reusing the single-slot
// cache when n was the last line split.
func (dt *DelimitedText) splitLine(n int) []string {
	if n == dt.cacheLine {
		return dt.cacheFields
	}
	dt.cacheFields = dt.delims.Split(dt.file.Line(n))
	dt.cacheLine = n
	return dt.cacheFields
}

// invalidate drops the split cache and recounts the widest row. The column
// count scans every cached preview line, not just the bounded window, so
// that widening the row limit never changes the schema shape.
func (dt *DelimitedText) invalidate() {
	dt.cacheLine = -1
	dt.cacheFields = nil

	dt.maxFields = 0
	for i := 0; i < dt.file.LineCount(); i++ {
		if n := dt.delims.CountFields(dt.file.Line(i)); n > dt.maxFields {
			dt.maxFields = n
		}
	}
}
