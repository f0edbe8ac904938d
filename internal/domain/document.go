package domain

// Document is a client-owned JSON object. The server only looks at a few
// top-level keys and otherwise stores it untouched.
type Document map[string]any

const DocumentElementsKey = "elements"

// Elements returns the "elements" sequence, if the document has one.
func (d Document) Elements() ([]any, bool) {
	if d == nil {
		return nil, false
	}

	raw, ok := d[DocumentElementsKey]
	if !ok {
		return nil, false
	}

	elements, ok := raw.([]any)

	return elements, ok
}

// Clone returns a deep copy so callers can add keys without touching the input.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Document(t).Clone())
	case Document:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return t
	}
}
