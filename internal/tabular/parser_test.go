package tabular

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := "name,age\nAlice,30\nBob,25\n"

	table, err := Parse("people.csv", []byte(data))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(table.Headers) != 2 || table.Headers[0] != "name" || table.Headers[1] != "age" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "Alice" || table.Rows[1][1] != "25" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseCSVStripsByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,value\n1,x\n")...)

	table, err := Parse("data.csv", data)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if table.Headers[0] != "id" {
		t.Fatalf("expected BOM to be stripped, got header %q", table.Headers[0])
	}
}

func TestParseSanitizesAndDeduplicatesHeaders(t *testing.T) {
	data := "Full Name,full.name,amount-due,\nAlice,alice,10,x\n"

	table, err := Parse("data.csv", []byte(data))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	want := []string{"Full_Name", "full_name", "amount_due", "column_4"}
	for i, header := range want {
		if table.Headers[i] != header {
			t.Fatalf("expected header %q at %d, got %q", header, i, table.Headers[i])
		}
	}
}

func TestParseNormalizesRaggedRows(t *testing.T) {
	data := "name,age\nAlice\nBob,25,extra\n"

	table, err := Parse("data.csv", []byte(data))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	// Short rows are padded to the header width.
	if len(table.Rows[0]) != 2 || table.Rows[0][0] != "Alice" || table.Rows[0][1] != "" {
		t.Fatalf("unexpected padded row: %v", table.Rows[0])
	}
	// Cells past the header width have no column and are dropped.
	if len(table.Rows[1]) != 2 || table.Rows[1][1] != "25" {
		t.Fatalf("unexpected truncated row: %v", table.Rows[1])
	}
}

func TestParseSkipsEmptyRows(t *testing.T) {
	data := "name\n\nAlice\n , \nBob\n"

	table, err := Parse("data.csv", []byte(data))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(table.Rows), table.Rows)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "name")
	_ = f.SetCellValue(sheet, "B1", "score")
	_ = f.SetCellValue(sheet, "A2", "Alpha")
	_ = f.SetCellValue(sheet, "B2", 42)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to build xlsx fixture: %v", err)
	}

	table, err := Parse("data.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(table.Headers) != 2 || table.Headers[1] != "score" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "Alpha" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	_, err := Parse("data.pdf", []byte("x"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestColumnIndex(t *testing.T) {
	table := Table{Headers: []string{"a", "b"}}
	if idx, ok := table.ColumnIndex("b"); !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d %v", idx, ok)
	}
	if _, ok := table.ColumnIndex("missing"); ok {
		t.Fatalf("did not expect a match for a missing column")
	}
}
