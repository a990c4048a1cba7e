package output

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Detail renders one record as FIELD/VALUE rows. Nested objects are
// flattened into dotted field names ("data.title"), array elements are
// indexed ("tags.0").
func Detail(v any) (*Table, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	flatten(table, "", gjson.ParseBytes(raw))
	return table, nil
}

func flatten(t *Table, prefix string, r gjson.Result) {
	switch {
	case r.IsObject():
		empty := true
		r.ForEach(func(k, v gjson.Result) bool {
			empty = false
			flatten(t, joinPath(prefix, k.String()), v)
			return true
		})
		if empty && prefix != "" {
			t.AddRow(prefix, "-")
		}
	case r.IsArray():
		items := r.Array()
		if len(items) == 0 {
			t.AddRow(fieldName(prefix), "-")
			return
		}
		for i, item := range items {
			flatten(t, joinPath(prefix, strconv.Itoa(i)), item)
		}
	case r.Type == gjson.Null:
		t.AddRow(fieldName(prefix), "-")
	default:
		t.AddRow(fieldName(prefix), orDash(clean(r.String())))
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func fieldName(path string) string {
	if path == "" {
		return "value"
	}
	return path
}
