package export

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Format is the export output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatXLSX   Format = "xlsx"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", NewError(KindValidation, fmt.Sprintf("unknown format %q", raw), nil)
}

// ExportRequest captures a single export run.
type ExportRequest struct {
	Definition    string
	Format        Format
	City          string
	Columns       []string
	Timezone      string
	Output        io.Writer
	RenderOptions RenderOptions
}

// ExportDefinition declares an exportable dataset.
type ExportDefinition struct {
	Name            string
	Resource        string
	Schema          Schema
	DefaultColumns  []string
	AllowedFormats  []Format
	DefaultFilename string
	RowSourceKey    string
}

// ResolvedDefinition is a definition looked up for a request.
type ResolvedDefinition struct {
	ExportDefinition
}

// Column defines a column in the export schema.
type Column struct {
	Name   string
	Label  string
	Type   string
	Format ColumnFormat
}

// ColumnFormat provides renderer-specific formatting hints.
type ColumnFormat struct {
	Layout string
	Number string
	Excel  string
}

// Schema defines the columns for a dataset.
type Schema struct {
	Columns []Column
}

// Row is a column-aligned record. Optional fields that are absent in the
// store appear as nil entries, never as a shorter row.
type Row []any

// RowSourceSpec is passed to RowSource.Open.
type RowSourceSpec struct {
	Definition ResolvedDefinition
	Request    ExportRequest
	Columns    []Column
}

// RowSource provides row iterators for exports.
type RowSource interface {
	Open(ctx context.Context, spec RowSourceSpec) (RowIterator, error)
}

// RowIterator streams rows.
type RowIterator interface {
	Next(ctx context.Context) (Row, error)
	Close() error
}

// Renderer writes rows to the destination.
type Renderer interface {
	Render(ctx context.Context, schema Schema, rows RowIterator, w io.Writer, opts RenderOptions) (RenderStats, error)
}

// RenderStats capture renderer output.
type RenderStats struct {
	Rows  int64
	Bytes int64
}

// ExportResult captures a completed export.
type ExportResult struct {
	ID       string
	Format   Format
	Rows     int64
	Bytes    int64
	Filename string
}

// JSONMode configures JSON rendering.
type JSONMode string

const (
	JSONModeArray JSONMode = "array"
	JSONModeLines JSONMode = "ndjson"
)

// CSVOptions configures CSV output.
type CSVOptions struct {
	IncludeHeaders bool
	Delimiter      rune
	HeadersSet     bool
}

// JSONOptions configures JSON output.
type JSONOptions struct {
	Mode JSONMode
}

// XLSXOptions configures XLSX output.
type XLSXOptions struct {
	IncludeHeaders bool
	HeadersSet     bool
	SheetName      string
}

// FormatOptions configures timezone-aware value formatting.
type FormatOptions struct {
	Timezone string
}

// RenderOptions configures renderer behavior.
type RenderOptions struct {
	CSV    CSVOptions
	JSON   JSONOptions
	XLSX   XLSXOptions
	Format FormatOptions
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}
