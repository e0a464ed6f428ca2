// Package record provides the ordered string-keyed record that source rows
// and output tree nodes are built from. Field order is insertion order, and
// that order is what gets serialized: source columns first, appended child
// lists last.
package record

import (
	"bytes"
	"encoding/json"
)

// Record is a row or tree node. A field holds either a string value or a
// list of child records, never both.
type Record struct {
	keys    []string
	scalars map[string]string
	lists   map[string][]*Record
}

// New returns an empty record.
func New() *Record {
	return &Record{
		scalars: make(map[string]string),
		lists:   make(map[string][]*Record),
	}
}

// Set stores a string value under key. A new key is appended to the field
// order; setting an existing key overwrites in place.
func (r *Record) Set(key, value string) {
	if !r.has(key) {
		r.keys = append(r.keys, key)
	}
	r.scalars[key] = value
}

// Get returns the string value for key, or "" when the key is absent or
// holds a child list.
func (r *Record) Get(key string) string {
	return r.scalars[key]
}

// Has reports whether key is present, as either a scalar or a list.
func (r *Record) Has(key string) bool {
	return r.has(key)
}

// Keys returns the field names in insertion order. The returned slice is
// shared; callers must not modify it.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// SetList stores a child list under key, appending the key to the field
// order when new.
func (r *Record) SetList(key string, children []*Record) {
	if !r.has(key) {
		r.keys = append(r.keys, key)
	}
	delete(r.scalars, key)
	r.lists[key] = children
}

// Append adds child to the list under key, creating the list (and the key,
// at the end of the field order) when absent.
func (r *Record) Append(key string, child *Record) {
	if !r.has(key) {
		r.keys = append(r.keys, key)
	}
	r.lists[key] = append(r.lists[key], child)
}

// List returns the child list under key, or nil.
func (r *Record) List(key string) []*Record {
	return r.lists[key]
}

func (r *Record) has(key string) bool {
	if _, ok := r.scalars[key]; ok {
		return true
	}
	_, ok := r.lists[key]
	return ok
}

// MarshalJSON serializes the record as a JSON object with fields in
// insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		var v []byte
		if children, ok := r.lists[key]; ok {
			v, err = json.Marshal(children)
		} else {
			v, err = json.Marshal(r.scalars[key])
		}
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
