package slicerb

// Node cells live back to back in the pool. parentOrNext holds the parent
// slot for live nodes and the next free slot for nodes on the free list.

func (f *RBForest[K, V]) nodeOff(slot uint32) int {
	return f.poolOff + int(slot)*f.nodeSize
}

func (f *RBForest[K, V]) keyCell(slot uint32) []byte {
	off := f.nodeOff(slot)
	return f.buf[off : off+f.kSize]
}

func (f *RBForest[K, V]) valCell(slot uint32) []byte {
	off := f.nodeOff(slot) + f.kSize
	return f.buf[off : off+f.vSize]
}

func (f *RBForest[K, V]) left(slot uint32) uint32 {
	return endian.Uint32(f.buf[f.nodeOff(slot)+f.linkOff:])
}

func (f *RBForest[K, V]) setLeft(slot uint32, v uint32) {
	endian.PutUint32(f.buf[f.nodeOff(slot)+f.linkOff:], v)
}

func (f *RBForest[K, V]) right(slot uint32) uint32 {
	return endian.Uint32(f.buf[f.nodeOff(slot)+f.linkOff+4:])
}

func (f *RBForest[K, V]) setRight(slot uint32, v uint32) {
	endian.PutUint32(f.buf[f.nodeOff(slot)+f.linkOff+4:], v)
}

func (f *RBForest[K, V]) parentOrNext(slot uint32) uint32 {
	return endian.Uint32(f.buf[f.nodeOff(slot)+f.linkOff+8:])
}

func (f *RBForest[K, V]) setParentOrNext(slot uint32, v uint32) {
	endian.PutUint32(f.buf[f.nodeOff(slot)+f.linkOff+8:], v)
}

func (f *RBForest[K, V]) flags(slot uint32) uint8 {
	return f.buf[f.nodeOff(slot)+f.linkOff+12]
}

func (f *RBForest[K, V]) setFlags(slot uint32, v uint8) {
	f.buf[f.nodeOff(slot)+f.linkOff+12] = v
}

// redSlot treats nilSlot as black
func (f *RBForest[K, V]) redSlot(slot uint32) bool {
	return slot != nilSlot && f.flags(slot)&flagRed != 0
}

func (f *RBForest[K, V]) setRed(slot uint32, red bool) {
	if red {
		f.setFlags(slot, f.flags(slot)|flagRed)
	} else {
		f.setFlags(slot, f.flags(slot)&^flagRed)
	}
}

func (f *RBForest[K, V]) allocNode() (uint32, error) {
	head := f.freeHead()
	if head == nilSlot {
		return 0, ErrPoolFull
	}
	f.setFreeHead(f.parentOrNext(head))
	f.setFlags(head, 0)
	return head, nil
}

func (f *RBForest[K, V]) freeNode(slot uint32) {
	f.setFlags(slot, flagFree)
	f.setParentOrNext(slot, f.freeHead())
	f.setFreeHead(slot)
}
