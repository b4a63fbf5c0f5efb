package slicerb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	cfg := Config{KeySize: 16, ValSize: 16, MaxNodes: 64}
	newTree := func(t *testing.T) *RBTree[string, string] {
		buf := make([]byte, TreeSize(cfg.KeySize, cfg.ValSize, cfg.MaxNodes))
		tree, err := InitTree[string, string](buf, cfg, new(StringCodec), new(StringCodec))
		require.NoError(t, err)
		return tree
	}
	t.Run("PutGetDel", func(t *testing.T) {
		tree := newTree(t)
		require.True(t, tree.IsEmpty())
		_, replaced, err := tree.Put("apple", "red")
		require.NoError(t, err)
		require.False(t, replaced)
		_, _, err = tree.Put("banana", "yellow")
		require.NoError(t, err)
		_, _, err = tree.Put("cherry", "dark red")
		require.NoError(t, err)
		require.EqualValues(t, 3, tree.Len())
		v, found, err := tree.Get("banana")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "yellow", v)
		has, err := tree.ContainsKey("cherry")
		require.NoError(t, err)
		require.True(t, has)
		has, err = tree.ContainsKey("durian")
		require.NoError(t, err)
		require.False(t, has)
		old, found, err := tree.Del("apple")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "red", old)
		require.EqualValues(t, 2, tree.Len())
		require.NoError(t, tree.Check())
	})
	t.Run("EntryAndBounds", func(t *testing.T) {
		tree := newTree(t)
		for _, k := range []string{"m", "c", "x", "a", "t"} {
			_, _, err := tree.Put(k, "v-"+k)
			require.NoError(t, err)
		}
		k, v, found, err := tree.MinEntry()
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "a", k)
		require.Equal(t, "v-a", v)
		k, _, found, err = tree.MaxEntry()
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "x", k)
		k, v, found, err = tree.GetEntry("t")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "t", k)
		require.Equal(t, "v-t", v)
		k, v, found, err = tree.DelEntry("c")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "c", k)
		require.Equal(t, "v-c", v)
		found, err = tree.Delete("m")
		require.NoError(t, err)
		require.True(t, found)
		require.EqualValues(t, 3, tree.Len())
	})
	t.Run("PairsSorted", func(t *testing.T) {
		tree := newTree(t)
		for _, k := range []string{"pear", "fig", "kiwi", "date"} {
			_, _, err := tree.Put(k, k)
			require.NoError(t, err)
		}
		it := tree.Pairs()
		var got []string
		for {
			k, v, ok, err := it.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			require.Equal(t, k, v)
			got = append(got, k)
		}
		require.Equal(t, []string{"date", "fig", "kiwi", "pear"}, got)
	})
	t.Run("ClearAndReattach", func(t *testing.T) {
		tree := newTree(t)
		for _, k := range []string{"one", "two", "three"} {
			_, _, err := tree.Put(k, k)
			require.NoError(t, err)
		}
		require.NoError(t, tree.Clear())
		require.True(t, tree.IsEmpty())
		require.EqualValues(t, cfg.MaxNodes, tree.FreeNodesLeft())
		_, _, err := tree.Put("four", "four")
		require.NoError(t, err)
		attached, err := AttachTree[string, string](tree.Forest().buf, cfg, new(StringCodec), new(StringCodec))
		require.NoError(t, err)
		v, found, err := attached.Get("four")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "four", v)
	})
	t.Run("ClearMatchesFreshInit", func(t *testing.T) {
		tree := newTree(t)
		fresh := bytes.Clone(tree.Forest().buf)
		for _, k := range []string{"pear", "fig", "kiwi", "date"} {
			_, _, err := tree.Put(k, k)
			require.NoError(t, err)
		}
		found, err := tree.Delete("fig")
		require.NoError(t, err)
		require.True(t, found)
		require.NoError(t, tree.Clear())
		require.Equal(t, fresh, tree.Forest().buf)
		// init does not trust the buffer content either
		dirty := make([]byte, len(fresh))
		for i := range dirty {
			dirty[i] = 0xA5
		}
		_, err = InitTree[string, string](dirty, cfg, new(StringCodec), new(StringCodec))
		require.NoError(t, err)
		require.Equal(t, fresh, dirty)
	})
}
