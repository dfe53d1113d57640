package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestXLSXRenderer_RoundTrip(t *testing.T) {
	iter := &stubIterator{rows: []Row{
		{"alpha", "1 Main St", 37.77, 4.5, int64(120)},
		{"beta", nil, nil, nil, nil},
	}}

	buf := &bytes.Buffer{}
	stats, err := XLSXRenderer{}.Render(context.Background(), Schema{Columns: placeColumns}, iter, buf, RenderOptions{
		XLSX: XLSXOptions{IncludeHeaders: true},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", stats.Rows)
	}
	if stats.Bytes == 0 {
		t.Fatalf("expected bytes written")
	}

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := file.GetRows(defaultSheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "name" {
		t.Fatalf("expected header cell, got %q", rows[0][0])
	}
	if rows[1][0] != "alpha" {
		t.Fatalf("expected first data cell, got %q", rows[1][0])
	}
}

func TestXLSXStyles_ColumnFormatWins(t *testing.T) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	styles, err := buildXLSXStyles(file)
	if err != nil {
		t.Fatalf("build styles: %v", err)
	}

	columns := []Column{
		{Name: "rating", Type: "float", Format: ColumnFormat{Excel: "0.0"}},
		{Name: "lat", Type: "float"},
		{Name: "fetched_at", Type: "datetime"},
		{Name: "name"},
	}
	ids, err := styles.forColumns(columns)
	if err != nil {
		t.Fatalf("resolve column styles: %v", err)
	}

	if ids[0] == 0 || ids[0] == styles.floatID {
		t.Fatalf("expected custom style for rating, got %d", ids[0])
	}
	if ids[1] != styles.floatID {
		t.Fatalf("expected float default for lat, got %d", ids[1])
	}
	if ids[2] != styles.dateTimeID {
		t.Fatalf("expected datetime default for fetched_at, got %d", ids[2])
	}
	if ids[3] != 0 {
		t.Fatalf("expected no style for name, got %d", ids[3])
	}

	again, err := styles.forColumns(columns[:1])
	if err != nil {
		t.Fatalf("resolve column styles: %v", err)
	}
	if again[0] != ids[0] {
		t.Fatalf("expected cached custom style %d, got %d", ids[0], again[0])
	}
}

func TestXLSXRenderer_SheetName(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := (XLSXRenderer{}).Render(context.Background(), Schema{Columns: placeColumns}, &stubIterator{}, buf, RenderOptions{
		XLSX: XLSXOptions{IncludeHeaders: true, SheetName: "Restaurants"},
	}); err != nil {
		t.Fatalf("render: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if file.GetSheetName(0) != "Restaurants" {
		t.Fatalf("expected custom sheet name, got %q", file.GetSheetName(0))
	}
}
