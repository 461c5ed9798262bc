package fss

// Field is a single protocol field name/value pair
type Field struct {
	Key   string
	Value string
}

// Fields is a finalized, ordered set of request fields
type Fields struct {
	entries []Field
}

// Len returns the number of fields
func (f Fields) Len() int {
	return len(f.entries)
}

// Get returns the value of the last field named key
func (f Fields) Get(key string) (string, bool) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].Key == key {
			return f.entries[i].Value, true
		}
	}
	return "", false
}

// Has reports whether a field named key is present
func (f Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Keys returns field names in encoding order
func (f Fields) Keys() []string {
	keys := make([]string, len(f.entries))
	for i, e := range f.entries {
		keys[i] = e.Key
	}
	return keys
}

// All returns a copy of the fields in encoding order
func (f Fields) All() []Field {
	out := make([]Field, len(f.entries))
	copy(out, f.entries)
	return out
}

// FieldBuilder accumulates fields without mutating earlier builders.
// The zero value is ready to use.
type FieldBuilder struct {
	entries []Field
}

// With returns a builder with key=value appended
func (b FieldBuilder) With(key, value string) FieldBuilder {
	next := make([]Field, len(b.entries), len(b.entries)+1)
	copy(next, b.entries)
	return FieldBuilder{entries: append(next, Field{Key: key, Value: value})}
}

// WithOptional appends key=value only when value is non-empty
func (b FieldBuilder) WithOptional(key, value string) FieldBuilder {
	if value == "" {
		return b
	}
	return b.With(key, value)
}

// Build finalizes the accumulated fields
func (b FieldBuilder) Build() Fields {
	out := make([]Field, len(b.entries))
	copy(out, b.entries)
	return Fields{entries: out}
}
