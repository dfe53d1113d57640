package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type formatContext struct {
	location *time.Location
}

func newFormatContext(opts FormatOptions) (formatContext, error) {
	ctx := formatContext{}
	if tz := strings.TrimSpace(opts.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return formatContext{}, NewError(KindValidation, "invalid timezone", err)
		}
		ctx.location = loc
	}
	return ctx, nil
}

func (f formatContext) applyTimezone(value time.Time) time.Time {
	if f.location == nil {
		return value
	}
	return value.In(f.location)
}

// formatTextValue renders a single cell for text-based formats. Nil values
// become the empty string so optional fields keep their position in the row.
func (f formatContext) formatTextValue(col Column, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	switch normalizeColumnType(col.Type) {
	case "datetime":
		timeValue, ok := coerceTime(value)
		if !ok {
			return "", NewError(KindMalformed, fmt.Sprintf("invalid time for column %q", col.Name), nil)
		}
		timeValue = f.applyTimezone(timeValue)
		layout := strings.TrimSpace(col.Format.Layout)
		if layout == "" {
			layout = time.RFC3339
		}
		return timeValue.Format(layout), nil
	case "int":
		intValue, ok := coerceInt(value)
		if !ok {
			return "", NewError(KindMalformed, fmt.Sprintf("invalid int for column %q", col.Name), nil)
		}
		return strconv.FormatInt(intValue, 10), nil
	case "float":
		floatValue, ok := coerceFloat(value)
		if !ok {
			return "", NewError(KindMalformed, fmt.Sprintf("invalid number for column %q", col.Name), nil)
		}
		if format := strings.TrimSpace(col.Format.Number); format != "" && strings.Contains(format, "%") {
			return fmt.Sprintf(format, floatValue), nil
		}
		return strconv.FormatFloat(floatValue, 'f', -1, 64), nil
	default:
		return stringify(value), nil
	}
}

// formatJSONValue keeps typed values typed and leaves nil as nil so absent
// optional fields serialize as JSON null rather than disappearing.
func (f formatContext) formatJSONValue(col Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch normalizeColumnType(col.Type) {
	case "datetime":
		text, err := f.formatTextValue(col, value)
		if err != nil {
			return nil, err
		}
		return text, nil
	case "int":
		intValue, ok := coerceInt(value)
		if !ok {
			return nil, NewError(KindMalformed, fmt.Sprintf("invalid int for column %q", col.Name), nil)
		}
		return intValue, nil
	case "float":
		floatValue, ok := coerceFloat(value)
		if !ok {
			return nil, NewError(KindMalformed, fmt.Sprintf("invalid number for column %q", col.Name), nil)
		}
		return floatValue, nil
	default:
		switch value.(type) {
		case string, bool, int, int64, float64, float32:
			return value, nil
		default:
			return stringify(value), nil
		}
	}
}

func normalizeColumnType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "string", "text", "varchar":
		return "string"
	case "int", "integer", "int64", "bigint":
		return "int"
	case "float", "float64", "decimal", "number", "real":
		return "float"
	case "datetime", "timestamp", "date":
		return "datetime"
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func coerceInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseTimeString(v)
	case int64:
		return time.Unix(v, 0), true
	default:
		return time.Time{}, false
	}
}

func parseTimeString(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
