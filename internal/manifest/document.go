package manifest

// Document is a decoded TOML table with get-by-key helpers. Getters return
// the supplied default when a key is absent or holds the wrong type.
type Document map[string]interface{}

// String returns the string at key.
func (d Document) String(key, def string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the boolean at key.
func (d Document) Bool(key string, def bool) bool {
	if v, ok := d[key].(bool); ok {
		return v
	}
	return def
}

// Strings returns the string elements of the array at key, skipping
// non-string elements. ok is false when key is not an array.
func (d Document) Strings(key string) ([]string, bool) {
	switch arr := d[key].(type) {
	case []string:
		return append([]string{}, arr...), true
	case []interface{}:
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Tables returns the table elements of the array at key, skipping
// non-table elements.
func (d Document) Tables(key string) []Document {
	var out []Document
	switch arr := d[key].(type) {
	case []map[string]interface{}:
		for _, t := range arr {
			out = append(out, Document(t))
		}
	case []interface{}:
		for _, v := range arr {
			if t, ok := v.(map[string]interface{}); ok {
				out = append(out, Document(t))
			}
		}
	}
	return out
}

// Table returns the table at key.
func (d Document) Table(key string) (Document, bool) {
	if t, ok := d[key].(map[string]interface{}); ok {
		return Document(t), true
	}
	return nil, false
}
