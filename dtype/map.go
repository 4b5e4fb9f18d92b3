package dtype

import "sort"

// Map is a string-to-DType associative container with two
// interchangeable backends: a hash backend whose iteration order is
// deterministic but not insertion-based, and an insertion-order
// preserving backend. The backend is fixed at construction; no read or
// write operation branches on it afterwards.
//
// The two backends are behaviorally substitutable for every operation;
// callers must not depend on iteration order unless the map was created
// with NewOrderedMap.
type Map struct {
	backend mapBackend
}

type mapBackend interface {
	set(key string, value DType) (DType, bool)
	get(key string) (DType, bool)
	delete(key string) (DType, bool)
	len() int
	keys() []string
}

// NewMap creates an empty Map with the hash backend. Iteration visits
// keys in sorted order.
func NewMap() *Map {
	return &Map{backend: make(hashMap)}
}

// NewOrderedMap creates an empty Map that preserves insertion order.
func NewOrderedMap() *Map {
	return &Map{backend: &orderedMap{
		entries: make(map[string]DType),
		index:   make(map[string]int),
	}}
}

func newMapWith(preserveOrder bool) *Map {
	if preserveOrder {
		return NewOrderedMap()
	}
	return NewMap()
}

// Ordered reports whether the map preserves insertion order.
func (m *Map) Ordered() bool {
	_, ok := m.backend.(*orderedMap)
	return ok
}

// Set inserts or updates a key. It returns the previous value and true
// if the key already existed. Updating an existing key never moves its
// position under the ordered backend.
func (m *Map) Set(key string, value DType) (DType, bool) {
	return m.backend.set(key, value)
}

// Get returns the value for a key, and whether it was present.
func (m *Map) Get(key string) (DType, bool) {
	return m.backend.get(key)
}

// Delete removes a key, returning the removed value and whether it was
// present. Under the ordered backend removal swaps the last key into
// the vacated position, as insertion-order indexes do.
func (m *Map) Delete(key string) (DType, bool) {
	return m.backend.delete(key)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return m.backend.len()
}

// IsEmpty reports whether the map has no entries.
func (m *Map) IsEmpty() bool {
	return m.backend.len() == 0
}

// Keys returns the keys in the backend's iteration order: insertion
// order for ordered maps, sorted order otherwise.
func (m *Map) Keys() []string {
	return m.backend.keys()
}

// Range calls fn for each entry in iteration order until fn returns
// false.
func (m *Map) Range(fn func(key string, value DType) bool) {
	for _, k := range m.backend.keys() {
		v, _ := m.backend.get(k)
		if !fn(k, v) {
			return
		}
	}
}

// sortedKeys returns the keys in sorted order regardless of backend,
// for order-independent comparisons.
func sortedKeys(m *Map) []string {
	ks := m.Keys()
	sort.Strings(ks)
	return ks
}

// hashMap is the order-irrelevant backend.
type hashMap map[string]DType

func (h hashMap) set(key string, value DType) (DType, bool) {
	prev, ok := h[key]
	h[key] = value
	return prev, ok
}

func (h hashMap) get(key string) (DType, bool) {
	v, ok := h[key]
	return v, ok
}

func (h hashMap) delete(key string) (DType, bool) {
	v, ok := h[key]
	if ok {
		delete(h, key)
	}
	return v, ok
}

func (h hashMap) len() int { return len(h) }

func (h hashMap) keys() []string {
	ks := make([]string, 0, len(h))
	for k := range h {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// orderedMap is the insertion-order preserving backend: a hash map for
// values plus a key slice for order and a key→position index so every
// operation stays constant time.
type orderedMap struct {
	entries map[string]DType
	order   []string
	index   map[string]int
}

func (o *orderedMap) set(key string, value DType) (DType, bool) {
	prev, ok := o.entries[key]
	o.entries[key] = value
	if !ok {
		o.index[key] = len(o.order)
		o.order = append(o.order, key)
	}
	return prev, ok
}

func (o *orderedMap) get(key string) (DType, bool) {
	v, ok := o.entries[key]
	return v, ok
}

func (o *orderedMap) delete(key string) (DType, bool) {
	v, ok := o.entries[key]
	if !ok {
		return DType{}, false
	}
	pos := o.index[key]
	last := len(o.order) - 1
	if pos != last {
		moved := o.order[last]
		o.order[pos] = moved
		o.index[moved] = pos
	}
	o.order = o.order[:last]
	delete(o.entries, key)
	delete(o.index, key)
	return v, true
}

func (o *orderedMap) len() int { return len(o.entries) }

func (o *orderedMap) keys() []string {
	ks := make([]string, len(o.order))
	copy(ks, o.order)
	return ks
}
