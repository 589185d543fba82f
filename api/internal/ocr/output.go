package ocr

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one JSON object returned by the model. Numbers are kept as
// json.Number so that 0 and "missing" stay distinguishable and amounts are
// not rounded through float64.
type Record map[string]any

// Output is the parsed model response. An object response becomes a single
// record, an array response keeps its object elements in order.
type Output struct {
	Records []Record
	// Malformed is set when the text was not valid JSON. Records is empty in
	// that case, exactly as for a model that found nothing.
	Malformed bool
}

// First returns the first record or nil.
func (o Output) First() Record {
	if len(o.Records) == 0 {
		return nil
	}
	return o.Records[0]
}

// StripCodeFences removes ```json / ``` markers the model sometimes wraps
// around its JSON despite the response MIME type.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseOutput turns raw model text into records. It never fails: text that is
// not JSON yields an empty, Malformed output.
func ParseOutput(text string) Output {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return Output{Records: []Record{}}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Output{Records: []Record{}, Malformed: true}
	}
	// trailing garbage after the first value
	if dec.More() {
		return Output{Records: []Record{}, Malformed: true}
	}

	switch t := v.(type) {
	case map[string]any:
		return Output{Records: []Record{Record(t)}}
	case []any:
		out := make([]Record, 0, len(t))
		for _, el := range t {
			if m, ok := el.(map[string]any); ok {
				out = append(out, Record(m))
			}
		}
		return Output{Records: out}
	default:
		return Output{Records: []Record{}}
	}
}
