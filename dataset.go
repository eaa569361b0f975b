package textimport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// SQLite driver for dataset materialization.
	_ "modernc.org/sqlite"

	"github.com/nao1215/textimport/domain/model"
)

// OpenDataset materializes a readable session into a new in-memory SQLite
// database holding a single table. The caller owns the returned handle and
// must Close it.
func OpenDataset(ctx context.Context, s *Session, table string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("textimport: open database: %w", err)
	}
	if err := s.WriteDataset(ctx, db, table); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// WriteDataset creates table in db from the session's frozen schema and
// loads every readable row into it. Numeric and date variables become REAL
// columns, string variables TEXT; system-missing values become NULL.
func (s *Session) WriteDataset(ctx context.Context, db *sql.DB, table string) error {
	reader, err := s.Reader()
	if err != nil {
		return err
	}
	schema := reader.Schema()
	if schema.Len() == 0 {
		return ErrEmptySchema
	}

	if _, err := db.ExecContext(ctx, createTableSQL(table, schema)); err != nil {
		return fmt.Errorf("textimport: create table %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("textimport: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, schema))
	if err != nil {
		return fmt.Errorf("textimport: prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, schema.Len())
	for i := 0; i < reader.RowCount(); i++ {
		c, err := reader.Read(i)
		if err != nil {
			return fmt.Errorf("textimport: %w", err)
		}
		for col, v := range c {
			args[col] = datasetValue(schema.Var(col).Spec, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("textimport: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("textimport: commit: %w", err)
	}
	return nil
}

// datasetValue converts a typed cell to a database/sql argument.
func datasetValue(spec model.FormatSpec, v model.Value) any {
	if v.Missing {
		return nil
	}
	if spec.Type == model.FormatA {
		return v.Str
	}
	return v.Num
}

func createTableSQL(table string, schema *model.CaseSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", quoteIdent(table))
	for i := 0; i < schema.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		v := schema.Var(i)
		colType := "REAL"
		if v.Spec.Type == model.FormatA {
			colType = "TEXT"
		}
		fmt.Fprintf(&b, "%s %s", quoteIdent(v.Name), colType)
	}
	b.WriteString(")")
	return b.String()
}

func insertSQL(table string, schema *model.CaseSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s VALUES (", quoteIdent(table))
	for i := 0; i < schema.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
	}
	b.WriteString(")")
	return b.String()
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
