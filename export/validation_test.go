package export

import (
	"testing"
	"time"
)

func testDefinition() ResolvedDefinition {
	return ResolvedDefinition{ExportDefinition: ExportDefinition{
		Name:         "restaurants",
		RowSourceKey: "stub",
		AllowedFormats: []Format{
			FormatCSV, FormatJSON, FormatNDJSON, FormatXLSX,
		},
		Schema: Schema{Columns: []Column{
			{Name: "name"},
			{Name: "rating", Type: "float"},
			{Name: "city"},
		}},
		DefaultColumns: []string{"name", "rating"},
	}}
}

func TestResolveExport_Defaults(t *testing.T) {
	resolved, err := ResolveExport(ExportRequest{Definition: "restaurants"}, testDefinition(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.Request.Format != FormatCSV {
		t.Fatalf("expected csv default, got %s", resolved.Request.Format)
	}
	if !resolved.Request.RenderOptions.CSV.IncludeHeaders {
		t.Fatalf("expected headers on by default")
	}
	if len(resolved.Columns) != 2 {
		t.Fatalf("expected default projection of 2 columns, got %d", len(resolved.Columns))
	}
	if resolved.ColumnNames[0] != "name" || resolved.ColumnNames[1] != "rating" {
		t.Fatalf("unexpected default columns %v", resolved.ColumnNames)
	}
}

func TestResolveExport_NDJSONMode(t *testing.T) {
	resolved, err := ResolveExport(ExportRequest{
		Definition: "restaurants",
		Format:     FormatNDJSON,
	}, testDefinition(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Request.RenderOptions.JSON.Mode != JSONModeLines {
		t.Fatalf("expected ndjson mode, got %s", resolved.Request.RenderOptions.JSON.Mode)
	}
}

func TestResolveExport_TimezonePropagates(t *testing.T) {
	resolved, err := ResolveExport(ExportRequest{
		Definition: "restaurants",
		Timezone:   "America/Chicago",
	}, testDefinition(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Request.RenderOptions.Format.Timezone != "America/Chicago" {
		t.Fatalf("expected timezone to reach the format options, got %q",
			resolved.Request.RenderOptions.Format.Timezone)
	}
}

func TestResolveExport_ExplicitColumns(t *testing.T) {
	resolved, err := ResolveExport(ExportRequest{
		Definition: "restaurants",
		Columns:    []string{"city", "name", "city"},
	}, testDefinition(), time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved.Columns) != 2 {
		t.Fatalf("expected duplicates collapsed, got %v", resolved.ColumnNames)
	}
	if resolved.ColumnNames[0] != "city" || resolved.ColumnNames[1] != "name" {
		t.Fatalf("expected requested order preserved, got %v", resolved.ColumnNames)
	}
}

func TestResolveExport_UnknownColumn(t *testing.T) {
	_, err := ResolveExport(ExportRequest{
		Definition: "restaurants",
		Columns:    []string{"bogus"},
	}, testDefinition(), time.Now())
	if err == nil {
		t.Fatalf("expected error for unknown column")
	}
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation kind, got %s", KindFromError(err))
	}
}

func TestResolveExport_FormatNotAllowed(t *testing.T) {
	def := testDefinition()
	def.AllowedFormats = []Format{FormatCSV}

	_, err := ResolveExport(ExportRequest{
		Definition: "restaurants",
		Format:     FormatXLSX,
	}, def, time.Now())
	if err == nil {
		t.Fatalf("expected error for disallowed format")
	}
}
