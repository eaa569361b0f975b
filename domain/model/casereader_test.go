package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestCaseReaderEndToEnd(t *testing.T) {
	t.Parallel()

	dt := NewDelimitedText(previewFile(t, "id,value\n1,3.5\n2,\n3,abc\n"))
	dt.SetFirstLine(1)

	schema := BuildSchema(dt, true)
	if schema.Len() != 2 {
		t.Fatalf("Len = %d, want 2", schema.Len())
	}
	if v := schema.Var(0); v.Name != "id" || !v.Spec.Type.IsNumeric() {
		t.Fatalf("Var(0) = %+v, want numeric id", v)
	}
	// "abc" demotes the value column to string.
	if v := schema.Var(1); v.Name != "value" || v.Spec.Type != FormatA {
		t.Fatalf("Var(1) = %+v, want string value", v)
	}

	r := NewCaseReader(dt, schema)
	if r.RowCount() != 3 {
		t.Fatalf("RowCount = %d, want 3", r.RowCount())
	}

	c0, err := r.Read(0)
	if err != nil {
		t.Fatal(err)
	}
	if c0[0].Num != 1 || c0[0].Missing {
		t.Errorf("row 0 id = %+v, want 1", c0[0])
	}
	if c0[1].Str != "3.5" || c0[1].Missing {
		t.Errorf("row 0 value = %+v, want \"3.5\"", c0[1])
	}

	// "2," has one field: the value column is absent, hence missing.
	c1, err := r.Read(1)
	if err != nil {
		t.Fatal(err)
	}
	if c1[0].Num != 2 {
		t.Errorf("row 1 id = %+v, want 2", c1[0])
	}
	if !c1[1].Missing {
		t.Errorf("row 1 value = %+v, want missing", c1[1])
	}

	c2, err := r.Read(2)
	if err != nil {
		t.Fatal(err)
	}
	if c2[0].Num != 3 || c2[1].Str != "abc" {
		t.Errorf("row 2 = %+v", c2)
	}
}

func TestCaseReaderConversionFailureIsMissing(t *testing.T) {
	t.Parallel()

	// Freeze a numeric schema by hand, then read a row that does not
	// parse under it: the failure degrades to system-missing.
	dt := NewDelimitedText(previewFile(t, "1\noops\n3\n"))
	schema := NewCaseSchema([]Variable{{"n", FormatSpec{FormatF, 8, 2}}})
	r := NewCaseReader(dt, schema)

	c, err := r.Read(1)
	if err != nil {
		t.Fatal(err)
	}
	if !c[0].Missing {
		t.Errorf("unparseable cell = %+v, want missing", c[0])
	}
	if c2, _ := r.Read(2); c2[0].Num != 3 {
		t.Errorf("later rows unaffected: %+v", c2[0])
	}
}

func TestCaseReaderIdempotentReads(t *testing.T) {
	t.Parallel()

	dt := NewDelimitedText(previewFile(t, "a,b\n1,2\n3\n"))
	dt.SetFirstLine(1)
	r := NewCaseReader(dt, BuildSchema(dt, true))

	first, err := r.Read(1)
	if err != nil {
		t.Fatal(err)
	}
	// Interleave another row to evict the split cache, then re-read.
	if _, err := r.Read(0); err != nil {
		t.Fatal(err)
	}
	second, err := r.Read(1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads differ: %+v vs %+v", first, second)
	}
}

func TestCaseReaderOutOfRange(t *testing.T) {
	t.Parallel()

	dt := NewDelimitedText(previewFile(t, "1\n2\n"))
	r := NewCaseReader(dt, BuildSchema(dt, false))

	for _, i := range []int{-1, 2, 100} {
		if _, err := r.Read(i); !errors.Is(err, ErrRowOutOfRange) {
			t.Errorf("Read(%d) err = %v, want ErrRowOutOfRange", i, err)
		}
	}
}

func TestCaseReaderDateColumn(t *testing.T) {
	t.Parallel()

	dt := NewDelimitedText(previewFile(t, "1-Jan-1999\n2-Feb-2000\n"))
	schema := BuildSchema(dt, false)
	if schema.Var(0).Spec.Type != FormatDate {
		t.Fatalf("inferred %v, want DATE", schema.Var(0).Spec)
	}

	r := NewCaseReader(dt, schema)
	c0, err := r.Read(0)
	if err != nil {
		t.Fatal(err)
	}
	c1, err := r.Read(1)
	if err != nil {
		t.Fatal(err)
	}
	// 1-Jan-1999 to 2-Feb-2000 is 397 days.
	if got := (c1[0].Num - c0[0].Num) / 86400; got != 397 {
		t.Errorf("date difference = %v days, want 397", got)
	}
}
