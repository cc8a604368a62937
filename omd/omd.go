// Package omd implements an ordered multimap: a key/value container that
// allows multiple values per key while maintaining a single total ordering
// across all entries.
//
// The structure underneath is a doubly linked list of (key, value) nodes
// combined with an index from key to its ordered nodes, which keeps the
// common operations O(1) amortized.
package omd

import (
	"iter"

	"github.com/cockroachdb/errors"
)

var (
	// ErrKeyNotFound is returned by operations on a key with no entries.
	ErrKeyNotFound = errors.New("omd: key not found")

	// ErrEmpty is returned when popping from an empty map.
	ErrEmpty = errors.New("omd: map is empty")
)

type node[K comparable, V any] struct {
	prev, next *node[K, V]
	key        K
	value      V
}

// Pair is a single key/value entry, used for ordered bulk operations.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an ordered multimap. The zero value is not usable; create
// instances with [New].
type Map[K comparable, V any] struct {
	index      map[K][]*node[K, V]
	head, tail *node[K, V]
	size       int
}

// New creates an empty ordered multimap, appending any provided pairs
// in order.
func New[K comparable, V any](pairs ...Pair[K, V]) *Map[K, V] {
	m := &Map[K, V]{index: make(map[K][]*node[K, V])}
	m.Update(pairs)

	return m
}

// Len returns the total number of entries, counting duplicate keys.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Has reports whether at least one entry exists for the key.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Set appends a new entry at the tail of the global order. It never
// overwrites an existing entry for the key.
func (m *Map[K, V]) Set(key K, value V) {
	n := &node[K, V]{key: key, value: value}
	if m.head == nil {
		m.head = n
	} else {
		n.prev = m.tail
		m.tail.next = n
	}

	m.tail = n
	m.index[key] = append(m.index[key], n)
	m.size++
}

// Get returns the most recently set value for the key.
func (m *Map[K, V]) Get(key K) (V, error) {
	nodes, ok := m.index[key]
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}

	return nodes[len(nodes)-1].value, nil
}

// GetDefault returns the most recently set value for the key, or def if
// the key has no entries.
func (m *Map[K, V]) GetDefault(key K, def V) V {
	v, err := m.Get(key)
	if err != nil {
		return def
	}

	return v
}

// Delete removes only the most recently set entry for the key; an older
// entry for the same key (if any) becomes current.
func (m *Map[K, V]) Delete(key K) error {
	_, err := m.Pop(key)
	return err
}

// Pop removes and returns the most recently set value for the key. Other
// values for the key may remain.
func (m *Map[K, V]) Pop(key K) (V, error) {
	if _, ok := m.index[key]; !ok {
		var zero V
		return zero, ErrKeyNotFound
	}

	return m.removeLast(key), nil
}

// PopItem removes and returns whichever single entry comes last in the
// global order. Other values for that entry's key may remain.
func (m *Map[K, V]) PopItem() (K, V, error) {
	if m.tail == nil {
		var (
			zeroK K
			zeroV V
		)

		return zeroK, zeroV, ErrEmpty
	}

	key := m.tail.key

	return key, m.removeLast(key), nil
}

// SetDefault returns the most recent value for the key, first inserting
// the provided value if the key has no entries yet.
func (m *Map[K, V]) SetDefault(key K, value V) V {
	if nodes, ok := m.index[key]; ok {
		return nodes[len(nodes)-1].value
	}

	m.Set(key, value)

	return value
}

// Update appends all pairs in order, preserving duplicates.
func (m *Map[K, V]) Update(pairs []Pair[K, V]) {
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
}

// All iterates over every (key, value) entry in global insertion order,
// including duplicate keys.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := m.head; n != nil; n = n.next {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Keys iterates over each distinct key once, ordered by first occurrence.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		shown := make(map[K]struct{}, len(m.index))
		for n := m.head; n != nil; n = n.next {
			if _, ok := shown[n.key]; ok {
				continue
			}

			shown[n.key] = struct{}{}
			if !yield(n.key) {
				return
			}
		}
	}
}

// Values iterates over all values in global insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for n := m.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// GetAll returns every value for the key in insertion order.
func (m *Map[K, V]) GetAll(key K) []V {
	nodes := m.index[key]
	if len(nodes) == 0 {
		return nil
	}

	values := make([]V, len(nodes))
	for i, n := range nodes {
		values[i] = n.value
	}

	return values
}

// PopAll removes and returns every value for the key in insertion order.
func (m *Map[K, V]) PopAll(key K) ([]V, error) {
	nodes, ok := m.index[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	delete(m.index, key)

	values := make([]V, len(nodes))
	for i, n := range nodes {
		m.unlink(n)
		values[i] = n.value
	}

	return values, nil
}

// PopItemAll removes every value for whichever key comes last in the
// global order, returning the key and its values.
func (m *Map[K, V]) PopItemAll() (K, []V, error) {
	if m.tail == nil {
		var zeroK K
		return zeroK, nil, ErrEmpty
	}

	key := m.tail.key
	values, _ := m.PopAll(key)

	return key, values, nil
}

// Replace removes every existing value for the key, then inserts the
// provided value once at the tail of the global order.
func (m *Map[K, V]) Replace(key K, value V) {
	for _, n := range m.index[key] {
		m.unlink(n)
	}

	delete(m.index, key)
	m.Set(key, value)
}

// LastItems returns one (key, most-recent-value) pair per distinct key,
// ordered by the key's first occurrence.
func (m *Map[K, V]) LastItems() []Pair[K, V] {
	var pairs []Pair[K, V]
	for key := range m.Keys() {
		nodes := m.index[key]
		pairs = append(pairs, Pair[K, V]{Key: key, Value: nodes[len(nodes)-1].value})
	}

	return pairs
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.index = make(map[K][]*node[K, V])
	m.head, m.tail = nil, nil
	m.size = 0
}

// Copy returns an independent snapshot; mutating the copy never affects
// the original.
func (m *Map[K, V]) Copy() *Map[K, V] {
	cp := New[K, V]()
	for key, value := range m.All() {
		cp.Set(key, value)
	}

	return cp
}

// unlink detaches a node from the global list only; the caller maintains
// the key index.
func (m *Map[K, V]) unlink(n *node[K, V]) {
	m.size--

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}

	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
}

// removeLast removes the most recent node for a key that is known to be
// present, returning its value.
func (m *Map[K, V]) removeLast(key K) V {
	nodes := m.index[key]
	n := nodes[len(nodes)-1]

	if len(nodes) == 1 {
		delete(m.index, key)
	} else {
		m.index[key] = nodes[:len(nodes)-1]
	}

	m.unlink(n)

	return n.value
}
