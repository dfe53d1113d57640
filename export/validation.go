package export

import (
	"fmt"
	"strings"
	"time"
)

// ResolvedExport contains validated inputs for a run.
type ResolvedExport struct {
	Request     ExportRequest
	Definition  ResolvedDefinition
	Columns     []Column
	ColumnNames []string
	Filename    string
}

// ResolveExport validates and resolves a request against a definition.
func ResolveExport(req ExportRequest, def ResolvedDefinition, now time.Time) (ResolvedExport, error) {
	req = normalizeRequest(req)

	if req.Definition == "" {
		return ResolvedExport{}, NewError(KindValidation, "definition is required", nil)
	}
	if !formatAllowed(req.Format, def.AllowedFormats) {
		return ResolvedExport{}, NewError(KindValidation, fmt.Sprintf("format %q not allowed", req.Format), nil)
	}

	columns, columnNames, err := resolveColumns(def.Schema.Columns, req.Columns, def.DefaultColumns)
	if err != nil {
		return ResolvedExport{}, err
	}

	filename, err := renderFilename(def, req, now)
	if err != nil {
		return ResolvedExport{}, NewError(KindValidation, "invalid filename template", err)
	}

	return ResolvedExport{
		Request:     req,
		Definition:  def,
		Columns:     columns,
		ColumnNames: columnNames,
		Filename:    filename,
	}, nil
}

func normalizeRequest(req ExportRequest) ExportRequest {
	if req.Format == "" {
		req.Format = FormatCSV
	}
	if req.RenderOptions.CSV.Delimiter == 0 {
		req.RenderOptions.CSV.Delimiter = ','
	}
	if !req.RenderOptions.CSV.HeadersSet {
		req.RenderOptions.CSV.IncludeHeaders = true
	}
	if !req.RenderOptions.XLSX.HeadersSet {
		req.RenderOptions.XLSX.IncludeHeaders = true
	}
	if req.RenderOptions.JSON.Mode == "" && req.Format == FormatNDJSON {
		req.RenderOptions.JSON.Mode = JSONModeLines
	}
	if req.RenderOptions.JSON.Mode == "" {
		req.RenderOptions.JSON.Mode = JSONModeArray
	}
	if req.RenderOptions.Format.Timezone == "" {
		req.RenderOptions.Format.Timezone = req.Timezone
	}
	return req
}

func formatAllowed(format Format, allowed []Format) bool {
	for _, f := range allowed {
		if f == format {
			return true
		}
	}
	return false
}

// resolveColumns projects the requested column names onto the schema. An
// empty request falls back to the definition defaults, then to the full
// schema order.
func resolveColumns(schema []Column, requested, defaults []string) ([]Column, []string, error) {
	if len(schema) == 0 {
		return nil, nil, NewError(KindValidation, "schema has no columns", nil)
	}

	schemaSet := make(map[string]Column, len(schema))
	for _, col := range schema {
		schemaSet[col.Name] = col
	}

	projection := requested
	if len(projection) == 0 {
		projection = defaults
	}
	if len(projection) == 0 {
		for _, col := range schema {
			projection = append(projection, col.Name)
		}
	}

	columns := make([]Column, 0, len(projection))
	columnNames := make([]string, 0, len(projection))
	seen := make(map[string]struct{}, len(projection))
	for _, name := range projection {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		col, ok := schemaSet[name]
		if !ok {
			return nil, nil, NewError(KindValidation, fmt.Sprintf("unknown column %q", name), nil)
		}
		columns = append(columns, col)
		columnNames = append(columnNames, col.Name)
	}

	if len(columns) == 0 {
		return nil, nil, NewError(KindValidation, "no columns selected", nil)
	}
	return columns, columnNames, nil
}
