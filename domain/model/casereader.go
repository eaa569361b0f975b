package model

import "fmt"

// Case is one converted data row, with one value per schema variable.
type Case []Value

// CaseReader converts cached preview rows into typed cases against a frozen
// schema. Reads are random-access and idempotent: the same row always
// yields the same case, because both the cached text and the schema are
// immutable for the reader's lifetime.
type CaseReader struct {
	dt     *DelimitedText
	schema *CaseSchema
}

// NewCaseReader binds a reader to a table and a schema. The schema's
// variable count fixes the case width regardless of how many fields any
// particular row has.
func NewCaseReader(dt *DelimitedText, schema *CaseSchema) *CaseReader {
	return &CaseReader{dt: dt, schema: schema}
}

// Schema returns the schema cases are converted against.
func (r *CaseReader) Schema() *CaseSchema { return r.schema }

// RowCount returns the number of readable cases.
func (r *CaseReader) RowCount() int { return r.dt.RowCount() }

// Read converts data row i into a case. A field that is absent from the
// row, or that does not parse under its variable's format, becomes the
// system-missing sentinel. Neither case aborts the read.
func (r *CaseReader) Read(i int) (Case, error) {
	if i < 0 || i >= r.dt.RowCount() {
		return nil, fmt.Errorf("row %d of %d: %w", i, r.dt.RowCount(), ErrRowOutOfRange)
	}

	c := make(Case, r.schema.Len())
	for col := range c {
		text, ok := r.dt.Field(i, col)
		if !ok {
			// Absent field, as opposed to a present-but-empty one.
			c[col] = SysMissing()
			continue
		}
		c[col] = r.schema.Var(col).Spec.ParseValue(text)
	}
	return c, nil
}
