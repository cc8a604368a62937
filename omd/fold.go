package omd

import (
	"iter"
	"strings"
)

// variants tracks the distinct original-case spellings seen for one folded
// key: an ordered list (by first occurrence) plus a membership set.
type variants struct {
	list []string
	seen map[string]struct{}
}

// Fold wraps a string-keyed [Map] with case-insensitive key resolution.
// Keys are stored and enumerated with their original casing; every lookup
// and mutation routes through a fold-case index instead. It is a composed
// wrapper, not a specialization: all storage behavior comes from the
// embedded base map by delegation.
type Fold[V any] struct {
	base    *Map[string, V]
	casemap map[string]*variants
}

// NewFold creates an empty case-insensitive ordered multimap, appending
// any provided pairs in order.
func NewFold[V any](pairs ...Pair[string, V]) *Fold[V] {
	f := &Fold[V]{
		base:    New[string, V](),
		casemap: make(map[string]*variants),
	}
	f.Update(pairs)

	return f
}

// fold normalizes a key for case-insensitive comparison. Header field
// names are ASCII so plain lowering suffices.
func fold(key string) string {
	return strings.ToLower(key)
}

// Len returns the total number of entries, counting duplicate keys.
func (f *Fold[V]) Len() int {
	return f.base.Len()
}

// Has reports case-insensitively whether at least one entry exists for
// the key.
func (f *Fold[V]) Has(key string) bool {
	_, ok := f.casemap[fold(key)]
	return ok
}

// Set appends a new entry under the exact key given, recording the
// spelling as a case variant if it is new.
func (f *Fold[V]) Set(key string, value V) {
	f.base.Set(key, value)

	vs, ok := f.casemap[fold(key)]
	if !ok {
		vs = &variants{seen: make(map[string]struct{})}
		f.casemap[fold(key)] = vs
	}

	if _, ok := vs.seen[key]; !ok {
		vs.seen[key] = struct{}{}
		vs.list = append(vs.list, key)
	}
}

// Get returns the most recent value stored under the most recently
// introduced case variant of the key.
func (f *Fold[V]) Get(key string) (V, error) {
	vs, ok := f.casemap[fold(key)]
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}

	return f.base.Get(vs.list[len(vs.list)-1])
}

// GetDefault returns the most recent value for the key compared
// case-insensitively, or def if no entry exists.
func (f *Fold[V]) GetDefault(key string, def V) V {
	v, err := f.Get(key)
	if err != nil {
		return def
	}

	return v
}

// Delete removes the most recent entry for any case variant of the key.
func (f *Fold[V]) Delete(key string) error {
	_, err := f.Pop(key)
	return err
}

// Pop removes and returns the most recent value for the most recently
// introduced case variant of the key. A variant whose last entry is
// removed is retired from the index; retiring the last variant removes
// the folded key entirely.
func (f *Fold[V]) Pop(key string) (V, error) {
	folded := fold(key)

	vs, ok := f.casemap[folded]
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}

	variant := vs.list[len(vs.list)-1]
	value, err := f.base.Pop(variant)
	if err != nil {
		return value, err
	}

	f.retireIfEmpty(folded, variant)

	return value, nil
}

// PopItem removes and returns whichever single entry comes last in the
// global order.
func (f *Fold[V]) PopItem() (string, V, error) {
	key, value, err := f.base.PopItem()
	if err != nil {
		return key, value, err
	}

	f.retireIfEmpty(fold(key), key)

	return key, value, nil
}

// SetDefault returns the most recent value for the key compared
// case-insensitively, first inserting the provided value under the exact
// key given if no variant exists yet.
func (f *Fold[V]) SetDefault(key string, value V) V {
	if v, err := f.Get(key); err == nil {
		return v
	}

	f.Set(key, value)

	return value
}

// Update appends all pairs in order, preserving duplicates and casing.
func (f *Fold[V]) Update(pairs []Pair[string, V]) {
	for _, p := range pairs {
		f.Set(p.Key, p.Value)
	}
}

// All iterates over every entry in global insertion order, reporting
// keys with their original casing.
func (f *Fold[V]) All() iter.Seq2[string, V] {
	return f.base.All()
}

// Keys iterates over each distinct original-case key once, ordered by
// first occurrence.
func (f *Fold[V]) Keys() iter.Seq[string] {
	return f.base.Keys()
}

// Values iterates over all values in global insertion order.
func (f *Fold[V]) Values() iter.Seq[V] {
	return f.base.Values()
}

// GetAll returns the values stored under every case variant of the key,
// grouped by variant in first-occurrence order.
func (f *Fold[V]) GetAll(key string) []V {
	vs, ok := f.casemap[fold(key)]
	if !ok {
		return nil
	}

	var values []V
	for _, variant := range vs.list {
		values = append(values, f.base.GetAll(variant)...)
	}

	return values
}

// PopAll removes and returns the values stored under every case variant
// of the key.
func (f *Fold[V]) PopAll(key string) ([]V, error) {
	folded := fold(key)

	vs, ok := f.casemap[folded]
	if !ok {
		return nil, ErrKeyNotFound
	}

	delete(f.casemap, folded)

	var values []V
	for _, variant := range vs.list {
		popped, _ := f.base.PopAll(variant)
		values = append(values, popped...)
	}

	return values, nil
}

// Replace removes every value stored under every case variant sharing
// the folded key, then inserts the value once under exactly the key
// given here.
func (f *Fold[V]) Replace(key string, value V) {
	folded := fold(key)

	if vs, ok := f.casemap[folded]; ok {
		for _, variant := range vs.list {
			f.base.PopAll(variant) //nolint:errcheck // variant is known present
		}

		delete(f.casemap, folded)
	}

	f.Set(key, value)
}

// LastItems returns one (key, most-recent-value) pair per distinct
// original-case key, ordered by the key's first occurrence.
func (f *Fold[V]) LastItems() []Pair[string, V] {
	return f.base.LastItems()
}

// Clear removes all entries and all recorded case variants.
func (f *Fold[V]) Clear() {
	f.base.Clear()
	f.casemap = make(map[string]*variants)
}

// Copy returns an independent snapshot; mutating the copy never affects
// the original.
func (f *Fold[V]) Copy() *Fold[V] {
	cp := NewFold[V]()
	for key, value := range f.All() {
		cp.Set(key, value)
	}

	return cp
}

// retireIfEmpty drops the variant from the fold index once the base map
// holds no more entries for it, removing the folded key when its last
// variant goes.
func (f *Fold[V]) retireIfEmpty(folded, variant string) {
	if f.base.Has(variant) {
		return
	}

	vs, ok := f.casemap[folded]
	if !ok {
		return
	}

	delete(vs.seen, variant)
	for i, v := range vs.list {
		if v == variant {
			vs.list = append(vs.list[:i], vs.list[i+1:]...)
			break
		}
	}

	if len(vs.list) == 0 {
		delete(f.casemap, folded)
	}
}
