package tree

import (
	"bytes"
	"encoding/json"
)

// Mapping is a nested, insertion-ordered string-keyed mapping.
// It marshals to a JSON object whose keys keep insertion order.
type Mapping struct {
	keys   []string
	values map[string]*Mapping
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]*Mapping)}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return m.keys
}

// Get returns the child mapping stored under key.
func (m *Mapping) Get(key string) (*Mapping, bool) {
	child, ok := m.values[key]
	return child, ok
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Put stores child under key. An existing key keeps its position.
// A nil child is stored as an empty mapping.
func (m *Mapping) Put(key string, child *Mapping) {
	if child == nil {
		child = NewMapping()
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = child
}

// child returns the mapping under key, creating it when missing.
func (m *Mapping) child(key string) *Mapping {
	if existing, ok := m.values[key]; ok {
		return existing
	}
	c := NewMapping()
	m.keys = append(m.keys, key)
	m.values[key] = c
	return c
}

// MarshalJSON implements json.Marshaler.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := m.values[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToMapping serializes the subtree below the root, keyed by key(node.Value).
// Siblings with equal keys collapse into one entry and their subtrees merge.
func (t *Tree[T]) ToMapping(key func(T) string) *Mapping {
	m := NewMapping()
	if t.root != nil {
		fillMapping(t.root, m, key)
	}
	return m
}

func fillMapping[T any](node *Node[T], m *Mapping, key func(T) string) {
	for _, child := range node.children {
		fillMapping(child, m.child(key(child.Value)), key)
	}
}
