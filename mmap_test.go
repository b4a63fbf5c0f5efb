package slicerb

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func initTest(t *testing.T) {
	err := os.RemoveAll("testdata")
	require.NoError(t, err)
	err = os.Mkdir("testdata", 0755)
	if err != nil && !os.IsExist(err) {
		t.Fatal(err)
	}
}

func TestMappedBuffer(t *testing.T) {
	initTest(t)
	cfg := Config{KeySize: 8, ValSize: 64, MaxNodes: 128}
	size := TreeSize(cfg.KeySize, cfg.ValSize, cfg.MaxNodes)
	m, err := OpenMapped("testdata/tree.map", size)
	require.NoError(t, err)
	tree, err := InitTree[uint64, string](m.Bytes(), cfg, new(Uint64Codec), new(JsonTypeCodec[string]))
	require.NoError(t, err)
	for i := uint64(0); i < 64; i++ {
		_, _, err = tree.Put(i, "hello world")
		require.NoError(t, err)
	}
	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())
	// a fresh mapping of the same file sees the tree
	m2, err := OpenMapped("testdata/tree.map", size)
	require.NoError(t, err)
	tree2, err := AttachTree[uint64, string](m2.Bytes(), cfg, new(Uint64Codec), new(JsonTypeCodec[string]))
	require.NoError(t, err)
	require.EqualValues(t, 64, tree2.Len())
	v, found, err := tree2.Get(33)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "hello world", v)
	require.NoError(t, tree2.Check())
	require.NoError(t, m2.Close())
	// size mismatch on an existing file is refused
	_, err = OpenMapped("testdata/tree.map", size*2)
	require.ErrorIs(t, err, ErrWrongBufferSize)
}
