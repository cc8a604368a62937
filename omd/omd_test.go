package omd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvdm/wayfind/omd"
)

func pairs(kvs ...string) []omd.Pair[string, string] {
	ps := make([]omd.Pair[string, string], 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		ps = append(ps, omd.Pair[string, string]{Key: kvs[i], Value: kvs[i+1]})
	}

	return ps
}

func collect(m *omd.Map[string, string]) []omd.Pair[string, string] {
	var ps []omd.Pair[string, string]
	for k, v := range m.All() {
		ps = append(ps, omd.Pair[string, string]{Key: k, Value: v})
	}

	return ps
}

func TestSetGetMostRecent(t *testing.T) {
	m := omd.New[string, string]()
	m.Set("a", "1")
	m.Set("a", "2")

	v, err := m.Get("a")
	require.NoError(t, err)
	require.Equal(t, "2", v)
	require.Equal(t, 2, m.Len())
}

func TestGetAbsent(t *testing.T) {
	m := omd.New[string, string]()

	_, err := m.Get("nope")
	require.ErrorIs(t, err, omd.ErrKeyNotFound)
	require.Equal(t, "fallback", m.GetDefault("nope", "fallback"))
}

func TestDeleteLeavesOlderValues(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "x", "a", "2")...)

	require.NoError(t, m.Delete("a"))

	v, err := m.Get("a")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	require.NoError(t, m.Delete("a"))
	require.ErrorIs(t, m.Delete("a"), omd.ErrKeyNotFound)
	require.False(t, m.Has("a"))
	require.True(t, m.Has("b"))
}

func TestIterGoesInOrderWithDuplicates(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3", "c", "4")...)

	require.Equal(t, pairs("a", "1", "b", "2", "a", "3", "c", "4"), collect(m))
}

func TestDeletePreservesRemainingOrder(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3", "c", "4")...)

	require.NoError(t, m.Delete("a"))
	require.Equal(t, pairs("a", "1", "b", "2", "c", "4"), collect(m))
}

func TestKeysSkipDuplicatesByFirstOccurrence(t *testing.T) {
	m := omd.New(pairs("b", "1", "a", "2", "b", "3", "c", "4")...)

	var keys []string
	for k := range m.Keys() {
		keys = append(keys, k)
	}

	require.Equal(t, []string{"b", "a", "c"}, keys)
}

func TestValuesInOrder(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3")...)

	var values []string
	for v := range m.Values() {
		values = append(values, v)
	}

	require.Equal(t, []string{"1", "2", "3"}, values)
}

func TestGetAll(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3")...)

	require.Equal(t, []string{"1", "3"}, m.GetAll("a"))
	require.Nil(t, m.GetAll("nope"))
}

func TestPopAll(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3")...)

	values, err := m.PopAll("a")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3"}, values)
	require.False(t, m.Has("a"))
	require.Equal(t, 1, m.Len())

	_, err = m.PopAll("a")
	require.ErrorIs(t, err, omd.ErrKeyNotFound)
}

func TestPop(t *testing.T) {
	m := omd.New(pairs("a", "1", "a", "2")...)

	v, err := m.Pop("a")
	require.NoError(t, err)
	require.Equal(t, "2", v)

	_, err = m.Pop("missing")
	require.ErrorIs(t, err, omd.ErrKeyNotFound)
}

func TestPopItem(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2")...)

	k, v, err := m.PopItem()
	require.NoError(t, err)
	require.Equal(t, "b", k)
	require.Equal(t, "2", v)

	_, _, err = m.PopItem()
	require.NoError(t, err)

	_, _, err = m.PopItem()
	require.ErrorIs(t, err, omd.ErrEmpty)
}

func TestPopItemAll(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3")...)

	k, values, err := m.PopItemAll()
	require.NoError(t, err)
	require.Equal(t, "a", k)
	require.Equal(t, []string{"1", "3"}, values)

	_, _, err = omd.New[string, string]().PopItemAll()
	require.ErrorIs(t, err, omd.ErrEmpty)
}

func TestReplace(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3")...)
	m.Replace("a", "9")

	require.Equal(t, []string{"9"}, m.GetAll("a"))
	require.Equal(t, pairs("b", "2", "a", "9"), collect(m))
}

func TestSetDefault(t *testing.T) {
	m := omd.New(pairs("a", "1")...)

	require.Equal(t, "1", m.SetDefault("a", "x"))
	require.Equal(t, "y", m.SetDefault("b", "y"))
	require.Equal(t, 2, m.Len())
}

func TestLastItems(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2", "a", "3")...)

	require.Equal(t, pairs("a", "3", "b", "2"), m.LastItems())
}

func TestCopyIndependence(t *testing.T) {
	m := omd.New(pairs("a", "1", "a", "2")...)
	cp := m.Copy()

	cp.Set("a", "3")
	require.NoError(t, m.Delete("a"))

	require.Equal(t, []string{"1"}, m.GetAll("a"))
	require.Equal(t, []string{"1", "2", "3"}, cp.GetAll("a"))
}

func TestClear(t *testing.T) {
	m := omd.New(pairs("a", "1", "b", "2")...)
	m.Clear()

	require.Equal(t, 0, m.Len())
	require.Empty(t, collect(m))

	m.Set("c", "3")
	require.Equal(t, pairs("c", "3"), collect(m))
}

func TestNodeCountInvariant(t *testing.T) {
	m := omd.New[string, string]()
	for _, p := range pairs("a", "1", "b", "2", "a", "3", "c", "4", "b", "5") {
		m.Set(p.Key, p.Value)
	}

	total := 0
	for k := range m.Keys() {
		total += len(m.GetAll(k))
	}

	entries := 0
	for range m.All() {
		entries++
	}

	require.Equal(t, m.Len(), total)
	require.Equal(t, m.Len(), entries)
}
