package slicerb

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkRBTree(b *testing.B) {
	const capacity = 128 * 1024
	cfg := Config{KeySize: 8, ValSize: 64, MaxNodes: capacity}
	si := func() *RBTree[uint64, string] {
		buf := make([]byte, TreeSize(cfg.KeySize, cfg.ValSize, cfg.MaxNodes))
		tree, err := InitTree[uint64, string](buf, cfg, new(Uint64Codec), new(JsonTypeCodec[string]))
		require.NoError(b, err)
		return tree
	}
	b.Run("Put", func(b *testing.B) {
		tree := si()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _, err := tree.Put(uint64(i)%capacity, "hello world")
			require.NoError(b, err)
		}
	})
	b.Run("PureRead", func(b *testing.B) {
		tree := si()
		for i := uint64(0); i < capacity; i++ {
			_, _, err := tree.Put(i, "hello world")
			require.NoError(b, err)
		}
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			n := rand.Uint64N(capacity - 1)
			_, found, err := tree.Get(n)
			require.NoError(b, err)
			require.True(b, found)
		}
	})
	b.Run("PutDel", func(b *testing.B) {
		tree := si()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			k := rand.Uint64N(capacity)
			_, _, err := tree.Put(k, "hello world")
			require.NoError(b, err)
			_, err = tree.Delete(k)
			require.NoError(b, err)
		}
	})
	b.Run("Iterate", func(b *testing.B) {
		tree := si()
		for i := uint64(0); i < 4096; i++ {
			_, _, err := tree.Put(i, "hello world")
			require.NoError(b, err)
		}
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			it := tree.Keys()
			for {
				_, ok, err := it.Next()
				require.NoError(b, err)
				if !ok {
					break
				}
			}
		}
	})
}
