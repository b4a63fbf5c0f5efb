package main

import (
	"fmt"
	"github.com/nyan233/slicerb"
	"math/rand/v2"
	"strconv"
)

func main() {
	cfg := slicerb.Config{
		KeySize:  8,
		ValSize:  32,
		MaxNodes: 128,
	}
	// create file with path is dbset/quick_start, the whole tree lives in
	// the mapped bytes
	m, err := slicerb.OpenMapped("dbset/quick_start", slicerb.TreeSize(cfg.KeySize, cfg.ValSize, cfg.MaxNodes))
	if err != nil {
		panic(err)
	}
	t, err := slicerb.InitTree[uint64, string](m.Bytes(), cfg, new(slicerb.Uint64Codec), new(slicerb.JsonTypeCodec[string]))
	if err != nil {
		panic(err)
	}
	// write data
	for i := uint64(0); i < 64; i++ {
		_, _, err = t.Put(i, strconv.FormatUint(rand.Uint64(), 10))
		if err != nil {
			panic(fmt.Errorf("put err:%v", err))
		}
	}
	// attach a second view over the same bytes, read data back
	t2, err := slicerb.AttachTree[uint64, string](m.Bytes(), cfg, new(slicerb.Uint64Codec), new(slicerb.JsonTypeCodec[string]))
	if err != nil {
		panic(fmt.Errorf("attach err:%v", err))
	}
	for i := 0; i < 64; i++ {
		k := rand.Uint64N(63)
		v, found, err := t2.Get(k)
		if err != nil {
			panic(err)
		}
		if !found {
			panic(fmt.Errorf("not found :%d", k))
		}
		fmt.Printf("tree.getVal key=%d, val=%s\n", k, v)
	}
	// flush the page, wait all data on disk
	err = m.Close()
	if err != nil {
		panic(fmt.Errorf("close err:%v", err))
	}
}
