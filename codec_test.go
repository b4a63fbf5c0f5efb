package slicerb

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64CodecOrdering(t *testing.T) {
	// cell byte order must equal numeric order
	var c Uint64Codec
	for i := 0; i < 1024; i++ {
		a, b := rand.Uint64(), rand.Uint64()
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		ea, err := c.Marshal(&a)
		require.NoError(t, err)
		eb, err := c.Marshal(&b)
		require.NoError(t, err)
		require.Negative(t, bytes.Compare(ea, eb))
	}
	var v uint64
	enc, err := c.Marshal(ptr(uint64(0xdeadbeef)))
	require.NoError(t, err)
	require.NoError(t, c.Unmarshal(enc, &v))
	require.EqualValues(t, 0xdeadbeef, v)
}

func TestStringCodecPadding(t *testing.T) {
	var c StringCodec
	enc, err := c.Marshal(ptr("hello"))
	require.NoError(t, err)
	cell := make([]byte, 32)
	copy(cell, enc)
	var got string
	require.NoError(t, c.Unmarshal(cell, &got))
	require.Equal(t, "hello", got)
}

func TestJsonTypeCodecPadding(t *testing.T) {
	var c JsonTypeCodec[map[string]int]
	enc, err := c.Marshal(ptr(map[string]int{"a": 1, "b": 2}))
	require.NoError(t, err)
	cell := make([]byte, 64)
	copy(cell, enc)
	var got map[string]int
	require.NoError(t, c.Unmarshal(cell, &got))
	require.Equal(t, map[string]int{"a": 1, "b": 2}, got)
}

func TestCborTypeCodec(t *testing.T) {
	type point struct {
		X int    `cbor:"x"`
		Y int    `cbor:"y"`
		L string `cbor:"l"`
	}
	var c CborTypeCodec[point]
	t.Run("PaddingRoundTrip", func(t *testing.T) {
		enc, err := c.Marshal(&point{X: 3, Y: -7, L: "origin"})
		require.NoError(t, err)
		cell := make([]byte, 64)
		copy(cell, enc)
		var got point
		require.NoError(t, c.Unmarshal(cell, &got))
		require.Equal(t, point{X: 3, Y: -7, L: "origin"}, got)
	})
	t.Run("Deterministic", func(t *testing.T) {
		// canonical mode sorts map keys, equal values encode equal
		var m CborTypeCodec[map[string]int]
		v := map[string]int{"alpha": 1, "beta": 2, "gamma": 3, "delta": 4}
		first, err := m.Marshal(&v)
		require.NoError(t, err)
		for i := 0; i < 16; i++ {
			again, err := m.Marshal(&v)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	})
	t.Run("UsableAsKeyCodec", func(t *testing.T) {
		cfg := Config{KeySize: 32, ValSize: 16, MaxRoots: 1, MaxNodes: 8}
		buf := make([]byte, ForestSize(cfg.KeySize, cfg.ValSize, cfg.MaxRoots, cfg.MaxNodes))
		f, err := InitForest[point, uint64](buf, cfg, new(CborTypeCodec[point]), new(Uint64Codec))
		require.NoError(t, err)
		_, _, err = f.Put(0, point{X: 1, Y: 2, L: "a"}, 42)
		require.NoError(t, err)
		v, found, err := f.Get(0, point{X: 1, Y: 2, L: "a"})
		require.NoError(t, err)
		require.True(t, found)
		require.EqualValues(t, 42, v)
	})
}

func ptr[T any](v T) *T {
	return &v
}
