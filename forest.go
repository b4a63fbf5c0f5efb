package slicerb

import (
	"bytes"
	"fmt"
)

// RBForest is a set of red-black trees packed into one caller-provided byte
// slice. All trees share a single node pool, every mutation lands in the
// buffer before the call returns. The forest itself holds no state besides
// the codecs, the decoded header dimensions, the strict flag and two scratch
// cells for encoding, two views over the same buffer observe each other's
// writes.
//
// Not safe for concurrent use.
type RBForest[K any, V any] struct {
	buf []byte
	kc  Codec[K]
	vc  Codec[V]

	kSize    int
	vSize    int
	linkOff  int
	nodeSize int
	poolOff  int
	maxRoots uint32
	maxNodes uint32
	strict   bool

	kBuf []byte
	vBuf []byte
}

func newForestView[K any, V any](buf []byte, cfg Config, kc Codec[K], vc Codec[V]) *RBForest[K, V] {
	kSize, vSize := int(cfg.KeySize), int(cfg.ValSize)
	return &RBForest[K, V]{
		buf:      buf,
		kc:       kc,
		vc:       vc,
		kSize:    kSize,
		vSize:    vSize,
		linkOff:  kSize + vSize,
		nodeSize: kSize + vSize + nodeMetaSize,
		poolOff:  headerSize + int(cfg.MaxRoots)*rootSlotSize,
		maxRoots: cfg.MaxRoots,
		maxNodes: cfg.MaxNodes,
		strict:   cfg.Strict,
		kBuf:     make([]byte, kSize),
		vBuf:     make([]byte, vSize),
	}
}

func checkDims(buf []byte, cfg Config) error {
	if cfg.KeySize == 0 || cfg.MaxNodes == 0 {
		return ErrZeroCapacity
	}
	if cfg.MaxNodes >= nilSlot {
		return fmt.Errorf("%w: %d nodes do not fit the slot width", ErrWrongBufferSize, cfg.MaxNodes)
	}
	if cfg.MaxRoots == 0 || cfg.MaxRoots >= nilSlot {
		return fmt.Errorf("%w: %d", ErrTooManyRoots, cfg.MaxRoots)
	}
	want := ForestSize(cfg.KeySize, cfg.ValSize, cfg.MaxRoots, cfg.MaxNodes)
	if len(buf) != want {
		return fmt.Errorf("%w: want %d, got %d", ErrWrongBufferSize, want, len(buf))
	}
	return nil
}

// InitForest formats buf as an empty forest and returns a view over it.
// The buffer must have exactly ForestSize bytes, previous content is lost.
func InitForest[K any, V any](buf []byte, cfg Config, kc Codec[K], vc Codec[V]) (*RBForest[K, V], error) {
	if err := checkDims(buf, cfg); err != nil {
		return nil, err
	}
	f := newForestView(buf, cfg, kc, vc)
	f.format()
	return f, nil
}

// AttachForest returns a view over a buffer previously formatted by
// InitForest. The magic tag and all four dimensions must match cfg. With
// cfg.Strict the whole topology is verified before the view is handed out.
func AttachForest[K any, V any](buf []byte, cfg Config, kc Codec[K], vc Codec[V]) (*RBForest[K, V], error) {
	if err := checkDims(buf, cfg); err != nil {
		return nil, err
	}
	if bytesIsZero(buf) {
		return nil, ErrUninitialized
	}
	if !bytes.Equal(buf[offMagic:offMagic+4], headerMagic[:]) {
		return nil, ErrWrongMagic
	}
	if endian.Uint16(buf[offKeySize:]) != cfg.KeySize ||
		endian.Uint16(buf[offValSize:]) != cfg.ValSize ||
		endian.Uint32(buf[offMaxRoots:]) != cfg.MaxRoots ||
		endian.Uint32(buf[offMaxNodes:]) != cfg.MaxNodes {
		return nil, fmt.Errorf("%w: header k=%d v=%d roots=%d nodes=%d",
			ErrDimensionMismatch,
			endian.Uint16(buf[offKeySize:]), endian.Uint16(buf[offValSize:]),
			endian.Uint32(buf[offMaxRoots:]), endian.Uint32(buf[offMaxNodes:]))
	}
	f := newForestView(buf, cfg, kc, vc)
	if cfg.Strict {
		if err := f.Check(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// format zeroes the buffer before laying out the header, root table and free
// list, so formatted buffers with equal dimensions are bit-equal.
func (f *RBForest[K, V]) format() {
	clear(f.buf)
	copy(f.buf[offMagic:], headerMagic[:])
	endian.PutUint16(f.buf[offKeySize:], uint16(f.kSize))
	endian.PutUint16(f.buf[offValSize:], uint16(f.vSize))
	endian.PutUint32(f.buf[offMaxRoots:], f.maxRoots)
	endian.PutUint32(f.buf[offMaxNodes:], f.maxNodes)
	for i := uint32(0); i < f.maxRoots; i++ {
		f.setRoot(i, nilSlot)
		f.setLen(i, 0)
	}
	f.relinkFreeList()
}

// relinkFreeList threads every pool slot onto the free list in slot order
func (f *RBForest[K, V]) relinkFreeList() {
	for i := uint32(0); i < f.maxNodes; i++ {
		f.setFlags(i, flagFree)
		if i+1 < f.maxNodes {
			f.setParentOrNext(i, i+1)
		} else {
			f.setParentOrNext(i, nilSlot)
		}
	}
	f.setFreeHead(0)
}

// MaxRoots returns the number of trees in the forest.
func (f *RBForest[K, V]) MaxRoots() uint32 {
	return f.maxRoots
}

// FreeNodesLeft walks the free list and counts the slots still available to
// Put, O(n) in the number of free nodes.
func (f *RBForest[K, V]) FreeNodesLeft() uint32 {
	var n uint32
	for s := f.freeHead(); s != nilSlot; s = f.parentOrNext(s) {
		n++
	}
	return n
}

func (f *RBForest[K, V]) checkRoot(treeID uint32) error {
	if treeID >= f.maxRoots {
		return fmt.Errorf("%w: tree %d of %d", ErrNoSuchRoot, treeID, f.maxRoots)
	}
	return nil
}

func (f *RBForest[K, V]) afterMutate() error {
	if !f.strict {
		return nil
	}
	return f.Check()
}

func (f *RBForest[K, V]) encodeKey(k *K) ([]byte, error) {
	raw, err := f.kc.Marshal(k)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeySerialization, err)
	}
	if len(raw) > f.kSize {
		return nil, fmt.Errorf("%w: %d bytes into a %d byte cell", ErrKeyTooLarge, len(raw), f.kSize)
	}
	clear(f.kBuf)
	copy(f.kBuf, raw)
	return f.kBuf, nil
}

func (f *RBForest[K, V]) encodeVal(v *V) ([]byte, error) {
	raw, err := f.vc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValueSerialization, err)
	}
	if len(raw) > f.vSize {
		return nil, fmt.Errorf("%w: %d bytes into a %d byte cell", ErrValueTooLarge, len(raw), f.vSize)
	}
	clear(f.vBuf)
	copy(f.vBuf, raw)
	return f.vBuf, nil
}

func (f *RBForest[K, V]) decodeKey(cell []byte) (k K, err error) {
	if err = f.kc.Unmarshal(cell, &k); err != nil {
		err = fmt.Errorf("%w: %s", ErrKeyDeserialization, err)
	}
	return
}

func (f *RBForest[K, V]) decodeVal(cell []byte) (v V, err error) {
	if err = f.vc.Unmarshal(cell, &v); err != nil {
		err = fmt.Errorf("%w: %s", ErrValueDeserialization, err)
	}
	return
}

// search runs a plain BST descent comparing encoded cells byte-wise
func (f *RBForest[K, V]) search(treeID uint32, cell []byte) uint32 {
	cur := f.rootOf(treeID)
	for cur != nilSlot {
		switch cmp := bytes.Compare(cell, f.keyCell(cur)); {
		case cmp < 0:
			cur = f.left(cur)
		case cmp > 0:
			cur = f.right(cur)
		default:
			return cur
		}
	}
	return nilSlot
}

func (f *RBForest[K, V]) minFrom(slot uint32) uint32 {
	for {
		l := f.left(slot)
		if l == nilSlot {
			return slot
		}
		slot = l
	}
}

func (f *RBForest[K, V]) maxFrom(slot uint32) uint32 {
	for {
		r := f.right(slot)
		if r == nilSlot {
			return slot
		}
		slot = r
	}
}

func (f *RBForest[K, V]) successor(slot uint32) uint32 {
	if r := f.right(slot); r != nilSlot {
		return f.minFrom(r)
	}
	p := f.parentOrNext(slot)
	for p != nilSlot && slot == f.right(p) {
		slot, p = p, f.parentOrNext(p)
	}
	return p
}

func (f *RBForest[K, V]) predecessor(slot uint32) uint32 {
	if l := f.left(slot); l != nilSlot {
		return f.maxFrom(l)
	}
	p := f.parentOrNext(slot)
	for p != nilSlot && slot == f.left(p) {
		slot, p = p, f.parentOrNext(p)
	}
	return p
}

// Get returns the value stored under k.
func (f *RBForest[K, V]) Get(treeID uint32, k K) (v V, found bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	cell, err := f.encodeKey(&k)
	if err != nil {
		return
	}
	slot := f.search(treeID, cell)
	if slot == nilSlot {
		return
	}
	if v, err = f.decodeVal(f.valCell(slot)); err != nil {
		return
	}
	found = true
	return
}

// GetEntry returns the stored key-value pair, both decoded from the buffer.
func (f *RBForest[K, V]) GetEntry(treeID uint32, k K) (sk K, v V, found bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	cell, err := f.encodeKey(&k)
	if err != nil {
		return
	}
	slot := f.search(treeID, cell)
	if slot == nilSlot {
		return
	}
	if sk, err = f.decodeKey(f.keyCell(slot)); err != nil {
		return
	}
	if v, err = f.decodeVal(f.valCell(slot)); err != nil {
		return
	}
	found = true
	return
}

// ContainsKey reports whether k is present without decoding anything.
func (f *RBForest[K, V]) ContainsKey(treeID uint32, k K) (bool, error) {
	if err := f.checkRoot(treeID); err != nil {
		return false, err
	}
	cell, err := f.encodeKey(&k)
	if err != nil {
		return false, err
	}
	return f.search(treeID, cell) != nilSlot, nil
}

// Put inserts k/v or replaces the value stored under k. On a root, codec or
// capacity error the buffer is left exactly as it was; a strict-mode
// violation is reported after the write has landed.
func (f *RBForest[K, V]) Put(treeID uint32, k K, v V) (old V, replaced bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	kCell, err := f.encodeKey(&k)
	if err != nil {
		return
	}
	vCell, err := f.encodeVal(&v)
	if err != nil {
		return
	}
	parent := nilSlot
	cur := f.rootOf(treeID)
	var cmp int
	for cur != nilSlot {
		cmp = bytes.Compare(kCell, f.keyCell(cur))
		if cmp == 0 {
			if old, err = f.decodeVal(f.valCell(cur)); err != nil {
				return
			}
			copy(f.valCell(cur), vCell)
			replaced = true
			err = f.afterMutate()
			return
		}
		parent = cur
		if cmp < 0 {
			cur = f.left(cur)
		} else {
			cur = f.right(cur)
		}
	}
	slot, err := f.allocNode()
	if err != nil {
		return
	}
	copy(f.keyCell(slot), kCell)
	copy(f.valCell(slot), vCell)
	f.setLeft(slot, nilSlot)
	f.setRight(slot, nilSlot)
	f.setParentOrNext(slot, parent)
	f.setFlags(slot, flagRed)
	switch {
	case parent == nilSlot:
		f.setRoot(treeID, slot)
	case cmp < 0:
		f.setLeft(parent, slot)
	default:
		f.setRight(parent, slot)
	}
	f.insertFixup(treeID, slot)
	f.setLen(treeID, f.lenOf(treeID)+1)
	err = f.afterMutate()
	return
}

// Del removes k and returns the decoded old value.
func (f *RBForest[K, V]) Del(treeID uint32, k K) (old V, found bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	cell, err := f.encodeKey(&k)
	if err != nil {
		return
	}
	slot := f.search(treeID, cell)
	if slot == nilSlot {
		return
	}
	// 解码必须发生在节点被断开之前
	if old, err = f.decodeVal(f.valCell(slot)); err != nil {
		return
	}
	f.removeSlot(treeID, slot)
	found = true
	err = f.afterMutate()
	return
}

// DelEntry removes k and returns the stored pair, both decoded.
func (f *RBForest[K, V]) DelEntry(treeID uint32, k K) (sk K, old V, found bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	cell, err := f.encodeKey(&k)
	if err != nil {
		return
	}
	slot := f.search(treeID, cell)
	if slot == nilSlot {
		return
	}
	if sk, err = f.decodeKey(f.keyCell(slot)); err != nil {
		return
	}
	if old, err = f.decodeVal(f.valCell(slot)); err != nil {
		return
	}
	f.removeSlot(treeID, slot)
	found = true
	err = f.afterMutate()
	return
}

// Delete removes k without decoding the stored value.
func (f *RBForest[K, V]) Delete(treeID uint32, k K) (found bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	cell, err := f.encodeKey(&k)
	if err != nil {
		return
	}
	slot := f.search(treeID, cell)
	if slot == nilSlot {
		return
	}
	f.removeSlot(treeID, slot)
	found = true
	err = f.afterMutate()
	return
}

// MinEntry returns the smallest pair of the tree.
func (f *RBForest[K, V]) MinEntry(treeID uint32) (k K, v V, found bool, err error) {
	return f.edgeEntry(treeID, true)
}

// MaxEntry returns the biggest pair of the tree.
func (f *RBForest[K, V]) MaxEntry(treeID uint32) (k K, v V, found bool, err error) {
	return f.edgeEntry(treeID, false)
}

func (f *RBForest[K, V]) edgeEntry(treeID uint32, min bool) (k K, v V, found bool, err error) {
	if err = f.checkRoot(treeID); err != nil {
		return
	}
	root := f.rootOf(treeID)
	if root == nilSlot {
		return
	}
	var slot uint32
	if min {
		slot = f.minFrom(root)
	} else {
		slot = f.maxFrom(root)
	}
	if k, err = f.decodeKey(f.keyCell(slot)); err != nil {
		return
	}
	if v, err = f.decodeVal(f.valCell(slot)); err != nil {
		return
	}
	found = true
	return
}

// Len returns the number of pairs in the tree, O(1).
func (f *RBForest[K, V]) Len(treeID uint32) (uint32, error) {
	if err := f.checkRoot(treeID); err != nil {
		return 0, err
	}
	return f.lenOf(treeID), nil
}

// IsEmpty reports whether the tree holds no pairs.
func (f *RBForest[K, V]) IsEmpty(treeID uint32) (bool, error) {
	if err := f.checkRoot(treeID); err != nil {
		return false, err
	}
	return f.rootOf(treeID) == nilSlot, nil
}

// Clear releases every node of one tree back to the free list. With a single
// root the tree owns the whole pool and the buffer is reformatted instead,
// it ends up byte-equal to a freshly initialized one.
func (f *RBForest[K, V]) Clear(treeID uint32) error {
	if err := f.checkRoot(treeID); err != nil {
		return err
	}
	if f.maxRoots == 1 {
		f.format()
		return f.afterMutate()
	}
	var st slotStack
	if root := f.rootOf(treeID); root != nilSlot {
		st.push(root)
	}
	for {
		s, ok := st.pop()
		if !ok {
			break
		}
		if l := f.left(s); l != nilSlot {
			st.push(l)
		}
		if r := f.right(s); r != nilSlot {
			st.push(r)
		}
		f.freeNode(s)
	}
	f.setRoot(treeID, nilSlot)
	f.setLen(treeID, 0)
	return f.afterMutate()
}

// ClearAll reformats the buffer: every root reset, the free list rebuilt in
// slot order, stale node cells wiped.
func (f *RBForest[K, V]) ClearAll() {
	f.format()
}

func (f *RBForest[K, V]) rotateLeft(treeID uint32, x uint32) {
	y := f.right(x)
	yl := f.left(y)
	f.setRight(x, yl)
	if yl != nilSlot {
		f.setParentOrNext(yl, x)
	}
	p := f.parentOrNext(x)
	f.setParentOrNext(y, p)
	switch {
	case p == nilSlot:
		f.setRoot(treeID, y)
	case f.left(p) == x:
		f.setLeft(p, y)
	default:
		f.setRight(p, y)
	}
	f.setLeft(y, x)
	f.setParentOrNext(x, y)
}

func (f *RBForest[K, V]) rotateRight(treeID uint32, x uint32) {
	y := f.left(x)
	yr := f.right(y)
	f.setLeft(x, yr)
	if yr != nilSlot {
		f.setParentOrNext(yr, x)
	}
	p := f.parentOrNext(x)
	f.setParentOrNext(y, p)
	switch {
	case p == nilSlot:
		f.setRoot(treeID, y)
	case f.left(p) == x:
		f.setLeft(p, y)
	default:
		f.setRight(p, y)
	}
	f.setRight(y, x)
	f.setParentOrNext(x, y)
}

func (f *RBForest[K, V]) insertFixup(treeID uint32, z uint32) {
	for {
		p := f.parentOrNext(z)
		if !f.redSlot(p) {
			break
		}
		g := f.parentOrNext(p)
		if p == f.left(g) {
			u := f.right(g)
			if f.redSlot(u) {
				f.setRed(p, false)
				f.setRed(u, false)
				f.setRed(g, true)
				z = g
				continue
			}
			if z == f.right(p) {
				z = p
				f.rotateLeft(treeID, z)
				p = f.parentOrNext(z)
				g = f.parentOrNext(p)
			}
			f.setRed(p, false)
			f.setRed(g, true)
			f.rotateRight(treeID, g)
		} else {
			u := f.left(g)
			if f.redSlot(u) {
				f.setRed(p, false)
				f.setRed(u, false)
				f.setRed(g, true)
				z = g
				continue
			}
			if z == f.left(p) {
				z = p
				f.rotateRight(treeID, z)
				p = f.parentOrNext(z)
				g = f.parentOrNext(p)
			}
			f.setRed(p, false)
			f.setRed(g, true)
			f.rotateLeft(treeID, g)
		}
	}
	f.setRed(f.rootOf(treeID), false)
}

// transplant replaces the subtree rooted at u with the one rooted at v
func (f *RBForest[K, V]) transplant(treeID uint32, u, v uint32) {
	p := f.parentOrNext(u)
	switch {
	case p == nilSlot:
		f.setRoot(treeID, v)
	case f.left(p) == u:
		f.setLeft(p, v)
	default:
		f.setRight(p, v)
	}
	if v != nilSlot {
		f.setParentOrNext(v, p)
	}
}

func (f *RBForest[K, V]) removeSlot(treeID uint32, z uint32) {
	y := z
	yWasRed := f.redSlot(y)
	var x, xp uint32
	switch {
	case f.left(z) == nilSlot:
		x = f.right(z)
		xp = f.parentOrNext(z)
		f.transplant(treeID, z, x)
	case f.right(z) == nilSlot:
		x = f.left(z)
		xp = f.parentOrNext(z)
		f.transplant(treeID, z, x)
	default:
		y = f.minFrom(f.right(z))
		yWasRed = f.redSlot(y)
		x = f.right(y)
		if f.parentOrNext(y) == z {
			xp = y
		} else {
			xp = f.parentOrNext(y)
			f.transplant(treeID, y, x)
			f.setRight(y, f.right(z))
			f.setParentOrNext(f.right(y), y)
		}
		f.transplant(treeID, z, y)
		f.setLeft(y, f.left(z))
		f.setParentOrNext(f.left(y), y)
		f.setRed(y, f.redSlot(z))
	}
	if !yWasRed {
		f.deleteFixup(treeID, x, xp)
	}
	f.freeNode(z)
	f.setLen(treeID, f.lenOf(treeID)-1)
}

// deleteFixup carries the parent of x explicitly, x can be nilSlot
func (f *RBForest[K, V]) deleteFixup(treeID uint32, x, xp uint32) {
	for x != f.rootOf(treeID) && !f.redSlot(x) {
		if x == f.left(xp) {
			w := f.right(xp)
			if f.redSlot(w) {
				f.setRed(w, false)
				f.setRed(xp, true)
				f.rotateLeft(treeID, xp)
				w = f.right(xp)
			}
			if !f.redSlot(f.left(w)) && !f.redSlot(f.right(w)) {
				f.setRed(w, true)
				x = xp
				xp = f.parentOrNext(x)
			} else {
				if !f.redSlot(f.right(w)) {
					f.setRed(f.left(w), false)
					f.setRed(w, true)
					f.rotateRight(treeID, w)
					w = f.right(xp)
				}
				f.setRed(w, f.redSlot(xp))
				f.setRed(xp, false)
				f.setRed(f.right(w), false)
				f.rotateLeft(treeID, xp)
				x = f.rootOf(treeID)
			}
		} else {
			w := f.left(xp)
			if f.redSlot(w) {
				f.setRed(w, false)
				f.setRed(xp, true)
				f.rotateRight(treeID, xp)
				w = f.left(xp)
			}
			if !f.redSlot(f.left(w)) && !f.redSlot(f.right(w)) {
				f.setRed(w, true)
				x = xp
				xp = f.parentOrNext(x)
			} else {
				if !f.redSlot(f.left(w)) {
					f.setRed(f.right(w), false)
					f.setRed(w, true)
					f.rotateLeft(treeID, w)
					w = f.left(xp)
				}
				f.setRed(w, f.redSlot(xp))
				f.setRed(xp, false)
				f.setRed(f.left(w), false)
				f.rotateRight(treeID, xp)
				x = f.rootOf(treeID)
			}
		}
	}
	if x != nilSlot {
		f.setRed(x, false)
	}
}
