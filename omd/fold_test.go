package omd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvdm/wayfind/omd"
)

func foldCollect(f *omd.Fold[string]) []omd.Pair[string, string] {
	var ps []omd.Pair[string, string]
	for k, v := range f.All() {
		ps = append(ps, omd.Pair[string, string]{Key: k, Value: v})
	}

	return ps
}

func TestFoldGetIgnoresCase(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")

	v, err := f.Get("x-foo")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	v, err = f.Get("X-FOO")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	require.True(t, f.Has("x-FOO"))
	require.False(t, f.Has("x-bar"))
}

func TestFoldEnumerationKeepsOriginalCasing(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Set("Accept", "text/html")

	var keys []string
	for k := range f.Keys() {
		keys = append(keys, k)
	}

	require.Equal(t, []string{"X-Foo", "Accept"}, keys)
}

func TestFoldGetResolvesNewestVariant(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Set("x-foo", "2")
	f.Set("X-Foo", "3")

	// lookups route through the most recently introduced case variant,
	// and "x-foo" was introduced after "X-Foo".
	v, err := f.Get("X-FOO")
	require.NoError(t, err)
	require.Equal(t, "2", v)
}

func TestFoldGetAllSpansVariants(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Set("x-foo", "2")
	f.Set("X-Foo", "3")

	require.Equal(t, []string{"1", "3", "2"}, f.GetAll("x-FOO"))
}

func TestFoldPopRetiresVariant(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Set("x-foo", "2")

	v, err := f.Pop("X-FOO")
	require.NoError(t, err)
	require.Equal(t, "2", v)

	v, err = f.Get("x-foo")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	_, err = f.Pop("x-foo")
	require.NoError(t, err)

	_, err = f.Pop("x-foo")
	require.ErrorIs(t, err, omd.ErrKeyNotFound)
	require.False(t, f.Has("X-Foo"))
}

func TestFoldPopAll(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Set("other", "o")
	f.Set("x-foo", "2")

	values, err := f.PopAll("X-FOO")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, values)
	require.False(t, f.Has("x-foo"))
	require.Equal(t, 1, f.Len())

	_, err = f.PopAll("x-foo")
	require.ErrorIs(t, err, omd.ErrKeyNotFound)
}

func TestFoldReplaceDropsEveryVariant(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Set("x-foo", "2")
	f.Set("X-FOO", "3")
	f.Set("other", "o")

	f.Replace("x-Foo", "9")

	require.Equal(t, []string{"9"}, f.GetAll("X-FOO"))
	require.Equal(t, []omd.Pair[string, string]{
		{Key: "other", Value: "o"},
		{Key: "x-Foo", Value: "9"},
	}, foldCollect(f))
}

func TestFoldDelete(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("A", "1")

	require.NoError(t, f.Delete("a"))
	require.ErrorIs(t, f.Delete("a"), omd.ErrKeyNotFound)
}

func TestFoldPopItem(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("A", "1")
	f.Set("b", "2")

	k, v, err := f.PopItem()
	require.NoError(t, err)
	require.Equal(t, "b", k)
	require.Equal(t, "2", v)
	require.False(t, f.Has("B"))

	_, _, err = f.PopItem()
	require.NoError(t, err)

	_, _, err = f.PopItem()
	require.ErrorIs(t, err, omd.ErrEmpty)
}

func TestFoldSetDefault(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")

	require.Equal(t, "1", f.SetDefault("x-foo", "ignored"))
	require.Equal(t, "2", f.SetDefault("X-Bar", "2"))
	require.Equal(t, "2", f.GetDefault("x-bar", "def"))
	require.Equal(t, "def", f.GetDefault("x-baz", "def"))
}

func TestFoldCopyIndependence(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")

	cp := f.Copy()
	cp.Set("x-foo", "2")

	require.Equal(t, []string{"1"}, f.GetAll("x-foo"))
	require.Equal(t, []string{"1", "2"}, cp.GetAll("x-foo"))
}

func TestFoldClear(t *testing.T) {
	f := omd.NewFold[string]()
	f.Set("X-Foo", "1")
	f.Clear()

	require.Equal(t, 0, f.Len())
	require.False(t, f.Has("x-foo"))

	f.Set("x-foo", "2")

	var keys []string
	for k := range f.Keys() {
		keys = append(keys, k)
	}

	require.Equal(t, []string{"x-foo"}, keys)
}
