package slicerb

import "encoding/binary"

var endian = binary.LittleEndian

// on-buffer layout:
//
//	header   : magic | kSize | vSize | maxRoots | maxNodes | freeHead
//	rootTable: maxRoots x { root u32 | len u32 }
//	nodePool : maxNodes x { key | value | left u32 | right u32 | parentOrNext u32 | flags u8 }
var headerMagic = [4]byte{'s', 'r', 'b', '1'}

const (
	offMagic    = 0
	offKeySize  = 4
	offValSize  = 6
	offMaxRoots = 8
	offMaxNodes = 12
	offFreeHead = 16

	headerSize   = 20
	rootSlotSize = 8
	nodeMetaSize = 13

	// nilSlot marks an absent child/parent/root and terminates the free list
	nilSlot = ^uint32(0)

	flagRed  uint8 = 1 << 0
	flagFree uint8 = 1 << 1
)

// Config describes the forest dimensions. All four sizes are baked into the
// buffer header at init time and verified again on attach.
type Config struct {
	KeySize  uint16
	ValSize  uint16
	MaxRoots uint32
	MaxNodes uint32
	// Strict re-verifies the whole on-buffer topology after every mutation
	// except ClearAll, and before every attach. Debug aid, it costs a full
	// traversal.
	Strict bool
}

// ForestSize returns the exact buffer length required by a forest with the
// given dimensions.
func ForestSize(kSize, vSize uint16, maxRoots, maxNodes uint32) int {
	return headerSize + int(maxRoots)*rootSlotSize + int(maxNodes)*(int(kSize)+int(vSize)+nodeMetaSize)
}

// TreeSize returns the exact buffer length required by a single tree.
func TreeSize(kSize, vSize uint16, maxNodes uint32) int {
	return ForestSize(kSize, vSize, 1, maxNodes)
}

func (f *RBForest[K, V]) freeHead() uint32 {
	return endian.Uint32(f.buf[offFreeHead:])
}

func (f *RBForest[K, V]) setFreeHead(s uint32) {
	endian.PutUint32(f.buf[offFreeHead:], s)
}

func (f *RBForest[K, V]) rootOf(treeID uint32) uint32 {
	return endian.Uint32(f.buf[headerSize+int(treeID)*rootSlotSize:])
}

func (f *RBForest[K, V]) setRoot(treeID uint32, s uint32) {
	endian.PutUint32(f.buf[headerSize+int(treeID)*rootSlotSize:], s)
}

func (f *RBForest[K, V]) lenOf(treeID uint32) uint32 {
	return endian.Uint32(f.buf[headerSize+int(treeID)*rootSlotSize+4:])
}

func (f *RBForest[K, V]) setLen(treeID uint32, n uint32) {
	endian.PutUint32(f.buf[headerSize+int(treeID)*rootSlotSize+4:], n)
}
