package slicerb

// Iterators walk the tree in key order through the parent links, no heap
// state besides the current slot. Exhausted iterators keep returning
// ok == false. Mutating the forest while an iterator is live gives
// unspecified results, create a fresh one afterwards.

type PairsIterator[K any, V any] struct {
	f   *RBForest[K, V]
	cur uint32
}

type KeysIterator[K any, V any] struct {
	f   *RBForest[K, V]
	cur uint32
}

type ValuesIterator[K any, V any] struct {
	f   *RBForest[K, V]
	cur uint32
}

func (f *RBForest[K, V]) firstSlot(treeID uint32) uint32 {
	root := f.rootOf(treeID)
	if root == nilSlot {
		return nilSlot
	}
	return f.minFrom(root)
}

// Pairs iterates key-value pairs in ascending key order.
func (f *RBForest[K, V]) Pairs(treeID uint32) (*PairsIterator[K, V], error) {
	if err := f.checkRoot(treeID); err != nil {
		return nil, err
	}
	return &PairsIterator[K, V]{f: f, cur: f.firstSlot(treeID)}, nil
}

// Keys iterates keys in ascending order.
func (f *RBForest[K, V]) Keys(treeID uint32) (*KeysIterator[K, V], error) {
	if err := f.checkRoot(treeID); err != nil {
		return nil, err
	}
	return &KeysIterator[K, V]{f: f, cur: f.firstSlot(treeID)}, nil
}

// Values iterates values in ascending key order.
func (f *RBForest[K, V]) Values(treeID uint32) (*ValuesIterator[K, V], error) {
	if err := f.checkRoot(treeID); err != nil {
		return nil, err
	}
	return &ValuesIterator[K, V]{f: f, cur: f.firstSlot(treeID)}, nil
}

func (it *PairsIterator[K, V]) Next() (k K, v V, ok bool, err error) {
	if it.cur == nilSlot {
		return
	}
	if k, err = it.f.decodeKey(it.f.keyCell(it.cur)); err != nil {
		it.cur = nilSlot
		return
	}
	if v, err = it.f.decodeVal(it.f.valCell(it.cur)); err != nil {
		it.cur = nilSlot
		return
	}
	it.cur = it.f.successor(it.cur)
	ok = true
	return
}

func (it *KeysIterator[K, V]) Next() (k K, ok bool, err error) {
	if it.cur == nilSlot {
		return
	}
	if k, err = it.f.decodeKey(it.f.keyCell(it.cur)); err != nil {
		it.cur = nilSlot
		return
	}
	it.cur = it.f.successor(it.cur)
	ok = true
	return
}

func (it *ValuesIterator[K, V]) Next() (v V, ok bool, err error) {
	if it.cur == nilSlot {
		return
	}
	if v, err = it.f.decodeVal(it.f.valCell(it.cur)); err != nil {
		it.cur = nilSlot
		return
	}
	it.cur = it.f.successor(it.cur)
	ok = true
	return
}
