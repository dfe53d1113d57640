package export

import (
	"context"
	"encoding/json"
	"io"
)

// JSONRenderer renders JSON output.
type JSONRenderer struct{}

// Render streams rows as a JSON array or NDJSON. Every record carries the
// full set of projected keys; optional fields that are absent in the store
// serialize as null.
func (r JSONRenderer) Render(ctx context.Context, schema Schema, rows RowIterator, w io.Writer, opts RenderOptions) (RenderStats, error) {
	cw := &countingWriter{w: w}
	stats := RenderStats{}

	formatter, err := newFormatContext(opts.Format)
	if err != nil {
		return stats, err
	}

	mode := opts.JSON.Mode
	if mode == "" {
		mode = JSONModeArray
	}

	if mode == JSONModeLines {
		encoder := json.NewEncoder(cw)
		for {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			row, err := rows.Next(ctx)
			if err != nil {
				if err == io.EOF {
					break
				}
				return stats, err
			}

			obj, err := buildObject(schema, row, formatter)
			if err != nil {
				return stats, err
			}
			if err := encoder.Encode(obj); err != nil {
				return stats, err
			}
			stats.Rows++
		}

		stats.Bytes = cw.count
		return stats, nil
	}

	if _, err := cw.Write([]byte("[")); err != nil {
		return stats, err
	}

	first := true
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		row, err := rows.Next(ctx)
		if err != nil {
			if err == io.EOF {
				break
			}
			return stats, err
		}

		obj, err := buildObject(schema, row, formatter)
		if err != nil {
			return stats, err
		}
		payload, err := json.Marshal(obj)
		if err != nil {
			return stats, err
		}
		if !first {
			if _, err := cw.Write([]byte(",")); err != nil {
				return stats, err
			}
		}
		first = false
		if _, err := cw.Write(payload); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	if _, err := cw.Write([]byte("]")); err != nil {
		return stats, err
	}

	stats.Bytes = cw.count
	return stats, nil
}

func buildObject(schema Schema, row Row, formatter formatContext) (map[string]any, error) {
	if len(row) != len(schema.Columns) {
		return nil, NewError(KindMalformed, "row length does not match schema", nil)
	}
	obj := make(map[string]any, len(schema.Columns))
	for i, col := range schema.Columns {
		value, err := formatter.formatJSONValue(col, row[i])
		if err != nil {
			return nil, err
		}
		obj[col.Name] = value
	}
	return obj, nil
}
