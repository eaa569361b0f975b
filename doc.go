// Package textimport turns delimited text files into typed, queryable
// datasets. It previews a bounded window of a possibly huge file, splits it
// into fields under a configurable delimiter and quote convention, infers a
// per-column format from the previewed values, and then reads rows as typed
// cases against that frozen schema.
//
// # Features
//
//   - Bounded line cache: the first 1000 lines are read once and kept
//     verbatim; the total line count is exact for small files and
//     estimated for large ones
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Character-encoding detection (BOM, UTF-16/32 heuristics, UTF-8
//     validity) with graceful fallback
//   - Quote-aware field splitting with doubled-quote escapes
//   - Format inference for numbers, currencies, percentages, scientific
//     notation, dates, times, and date components
//   - GET DATA command-text generation and round-trip parsing
//   - Materialization into an in-memory SQLite database
//
// # Basic Usage
//
// Open a session, build the schema, and read rows:
//
//	s, err := textimport.NewSession("data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.SetFirstDataLine(1)
//	s.UseHeaderLine(true)
//	schema := s.BuildSchema()
//
//	reader, _ := s.Reader()
//	for i := 0; i < reader.RowCount(); i++ {
//	    c, _ := reader.Read(i)
//	    _ = c
//	}
//	_ = schema
//
// # Querying with SQL
//
// A readable session can be loaded into SQLite:
//
//	db, err := textimport.OpenDataset(ctx, s, "data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	rows, err := db.QueryContext(ctx, `SELECT * FROM data WHERE id > 1`)
//
// Reconfiguring delimiters, quote, header, or row limits invalidates the
// schema and reader; call BuildSchema again afterwards.
package textimport
