package certificate

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// truthy follows the loose rule used for non-amount fields: null, "", 0,
// false and empty collections all count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t != ""
		}
		return f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

type fieldReader struct {
	rec  map[string]any
	page int
}

// field is set when the source value is truthy.
func (r fieldReader) field(key string) *Field {
	v := r.rec[key]
	if !truthy(v) {
		return nil
	}
	return &Field{Value: v, Position: Position{Page: r.page}}
}

// amount is set whenever the key is present and not null, so a zero
// amount survives.
func (r fieldReader) amount(key string) *Field {
	v, ok := r.rec[key]
	if !ok || v == nil {
		return nil
	}
	return &Field{Value: v, Position: Position{Page: r.page}}
}

// text is a bare string, nil when the value is absent or prints empty.
func (r fieldReader) text(key string) *string {
	v := r.rec[key]
	if !truthy(v) {
		return nil
	}
	s := stringify(v)
	if s == "" {
		return nil
	}
	return &s
}
