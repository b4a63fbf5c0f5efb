package slicerb

// RBTree is a single-tree view, an RBForest with one root. Use it when the
// buffer should hold exactly one ordered map.
type RBTree[K any, V any] struct {
	forest *RBForest[K, V]
}

// InitTree formats buf as an empty tree. cfg.MaxRoots is ignored.
func InitTree[K any, V any](buf []byte, cfg Config, kc Codec[K], vc Codec[V]) (*RBTree[K, V], error) {
	cfg.MaxRoots = 1
	forest, err := InitForest(buf, cfg, kc, vc)
	if err != nil {
		return nil, err
	}
	return &RBTree[K, V]{forest: forest}, nil
}

// AttachTree returns a view over a buffer previously formatted by InitTree.
func AttachTree[K any, V any](buf []byte, cfg Config, kc Codec[K], vc Codec[V]) (*RBTree[K, V], error) {
	cfg.MaxRoots = 1
	forest, err := AttachForest(buf, cfg, kc, vc)
	if err != nil {
		return nil, err
	}
	return &RBTree[K, V]{forest: forest}, nil
}

// Forest exposes the underlying forest view.
func (t *RBTree[K, V]) Forest() *RBForest[K, V] {
	return t.forest
}

func (t *RBTree[K, V]) Get(k K) (V, bool, error) {
	return t.forest.Get(0, k)
}

func (t *RBTree[K, V]) GetEntry(k K) (K, V, bool, error) {
	return t.forest.GetEntry(0, k)
}

func (t *RBTree[K, V]) ContainsKey(k K) (bool, error) {
	return t.forest.ContainsKey(0, k)
}

func (t *RBTree[K, V]) Put(k K, v V) (V, bool, error) {
	return t.forest.Put(0, k, v)
}

func (t *RBTree[K, V]) Del(k K) (V, bool, error) {
	return t.forest.Del(0, k)
}

func (t *RBTree[K, V]) DelEntry(k K) (K, V, bool, error) {
	return t.forest.DelEntry(0, k)
}

func (t *RBTree[K, V]) Delete(k K) (bool, error) {
	return t.forest.Delete(0, k)
}

func (t *RBTree[K, V]) MinEntry() (K, V, bool, error) {
	return t.forest.MinEntry(0)
}

func (t *RBTree[K, V]) MaxEntry() (K, V, bool, error) {
	return t.forest.MaxEntry(0)
}

func (t *RBTree[K, V]) Len() uint32 {
	return t.forest.lenOf(0)
}

func (t *RBTree[K, V]) IsEmpty() bool {
	return t.forest.rootOf(0) == nilSlot
}

func (t *RBTree[K, V]) Clear() error {
	return t.forest.Clear(0)
}

func (t *RBTree[K, V]) FreeNodesLeft() uint32 {
	return t.forest.FreeNodesLeft()
}

func (t *RBTree[K, V]) Pairs() *PairsIterator[K, V] {
	it, _ := t.forest.Pairs(0)
	return it
}

func (t *RBTree[K, V]) Keys() *KeysIterator[K, V] {
	it, _ := t.forest.Keys(0)
	return it
}

func (t *RBTree[K, V]) Values() *ValuesIterator[K, V] {
	it, _ := t.forest.Values(0)
	return it
}

func (t *RBTree[K, V]) Cursor() *ForestCursor[K, V] {
	c, _ := t.forest.Cursor(0)
	return c
}

func (t *RBTree[K, V]) Check() error {
	return t.forest.Check()
}
