package slicerb

import (
	"bytes"
	"fmt"
)

// Check verifies the whole on-buffer topology: free list shape, parent
// links, red-black coloring, black heights, key order and the stored
// per-root lengths. It returns the first violation found. Strict mode runs
// it after every mutation except ClearAll, tests use it directly.
func (f *RBForest[K, V]) Check() error {
	free, err := f.checkFreeList()
	if err != nil {
		return err
	}
	var live uint32
	for t := uint32(0); t < f.maxRoots; t++ {
		n, err := f.checkTree(t)
		if err != nil {
			return err
		}
		live += n
	}
	if live+free != f.maxNodes {
		return fmt.Errorf("%w: %d live + %d free != %d pool slots",
			ErrCorruptFreeList, live, free, f.maxNodes)
	}
	return nil
}

func (f *RBForest[K, V]) checkFreeList() (uint32, error) {
	var n uint32
	for s := f.freeHead(); s != nilSlot; s = f.parentOrNext(s) {
		if s >= f.maxNodes {
			return 0, fmt.Errorf("%w: slot %d outside the pool", ErrCorruptFreeList, s)
		}
		if n >= f.maxNodes {
			return 0, fmt.Errorf("%w: cycle", ErrCorruptFreeList)
		}
		if f.flags(s)&flagFree == 0 {
			return 0, fmt.Errorf("%w: live node %d on the free list", ErrCorruptFreeList, s)
		}
		n++
	}
	return n, nil
}

type checkFrame struct {
	slot uint32
	// black nodes still expected below, current node included
	black int
}

func (f *RBForest[K, V]) checkTree(treeID uint32) (uint32, error) {
	root := f.rootOf(treeID)
	if root == nilSlot {
		if f.lenOf(treeID) != 0 {
			return 0, fmt.Errorf("%w: tree %d is empty, header says %d",
				ErrLengthMismatch, treeID, f.lenOf(treeID))
		}
		return 0, nil
	}
	if root >= f.maxNodes {
		return 0, fmt.Errorf("%w: root slot %d outside the pool", ErrBrokenParentLink, root)
	}
	if f.redSlot(root) {
		return 0, fmt.Errorf("%w: tree %d", ErrRootNotBlack, treeID)
	}
	if f.parentOrNext(root) != nilSlot {
		return 0, fmt.Errorf("%w: root %d has a parent", ErrBrokenParentLink, root)
	}
	expect := 0
	for s, depth := root, uint32(0); s != nilSlot; s, depth = f.left(s), depth+1 {
		if s >= f.maxNodes || depth >= f.maxNodes {
			return 0, fmt.Errorf("%w: leftmost path from root %d", ErrBrokenParentLink, treeID)
		}
		if !f.redSlot(s) {
			expect++
		}
	}
	var count uint32
	st := []checkFrame{{root, expect}}
	for len(st) > 0 {
		fr := st[len(st)-1]
		st = st[:len(st)-1]
		s := fr.slot
		if s >= f.maxNodes {
			return 0, fmt.Errorf("%w: slot %d outside the pool", ErrBrokenParentLink, s)
		}
		if f.flags(s)&flagFree != 0 {
			return 0, fmt.Errorf("%w: free node %d reachable from root %d", ErrCorruptFreeList, s, treeID)
		}
		count++
		if count > f.maxNodes {
			return 0, fmt.Errorf("%w: cycle below root %d", ErrBrokenParentLink, treeID)
		}
		black := fr.black
		if !f.redSlot(s) {
			black--
		}
		l, r := f.left(s), f.right(s)
		for _, ch := range [2]uint32{l, r} {
			if ch != nilSlot && ch >= f.maxNodes {
				return 0, fmt.Errorf("%w: slot %d outside the pool", ErrBrokenParentLink, ch)
			}
		}
		if f.redSlot(s) && (f.redSlot(l) || f.redSlot(r)) {
			return 0, fmt.Errorf("%w: node %d", ErrRedRedViolation, s)
		}
		for _, ch := range [2]uint32{l, r} {
			if ch == nilSlot {
				if black != 0 {
					return 0, fmt.Errorf("%w: below node %d", ErrBlackHeightMismatch, s)
				}
				continue
			}
			if f.parentOrNext(ch) != s {
				return 0, fmt.Errorf("%w: node %d does not point back to %d", ErrBrokenParentLink, ch, s)
			}
			st = append(st, checkFrame{ch, black})
		}
	}
	prev := nilSlot
	for s := f.minFrom(root); s != nilSlot; s = f.successor(s) {
		if prev != nilSlot && bytes.Compare(f.keyCell(prev), f.keyCell(s)) >= 0 {
			return 0, fmt.Errorf("%w: slots %d and %d", ErrOrderViolation, prev, s)
		}
		prev = s
	}
	if count != f.lenOf(treeID) {
		return 0, fmt.Errorf("%w: tree %d holds %d nodes, header says %d",
			ErrLengthMismatch, treeID, count, f.lenOf(treeID))
	}
	return count, nil
}
