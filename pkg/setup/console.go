package setup

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Console is the interactive surface the workflow drives. The
// implementation decides presentation; the workflow only distinguishes
// plain lines, outcomes, section titles, indexed list entries and
// key/value fields.
type Console interface {
	// Prompt asks for a line of free text.
	Prompt(label string) (string, error)

	// PromptInt asks for an integer, re-asking on unparseable input.
	PromptInt(label string) (int, error)

	Printf(format string, args ...any)
	Successf(format string, args ...any)
	Errorf(format string, args ...any)
	Titlef(format string, args ...any)
	Item(index int, text string)
	Field(key, value string)
}

// entityField is one top-level field of a server entity.
type entityField struct {
	Key   string
	Value string
}

// entityFields flattens a raw JSON object into displayable fields,
// preserving the server's field order. Nested values render as compact
// JSON.
func entityFields(raw json.RawMessage) ([]entityField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("setup: decode entity: %w", err)
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("setup: entity is not an object")
	}

	var fields []entityField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("setup: decode entity key: %w", err)
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("setup: decode entity value: %w", err)
		}
		fields = append(fields, entityField{Key: key, Value: formatValue(value)})
	}
	return fields, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// displayEntity renders every field of a flat server object in order.
func (w *Workflow) displayEntity(raw json.RawMessage) {
	fields, err := entityFields(raw)
	if err != nil {
		w.con.Errorf("%v", err)
		return
	}
	for _, f := range fields {
		w.con.Field(f.Key, f.Value)
	}
}
