package slicerb

import "bytes"

type Cursor[K any, V any] interface {
	Min() K
	Max() K
	Prev() (bool, error)
	Next() (bool, error)
	Seek(key K, isStart bool) error
	Key() K
	Value() V
}

var _ Cursor[uint64, string] = new(ForestCursor[uint64, string])

// ForestCursor walks one tree of a forest in both directions. An unpositioned
// cursor (fresh, or after a Seek that found nothing) yields zero values from
// Key and Value, Next and Prev on it return false.
type ForestCursor[K any, V any] struct {
	f      *RBForest[K, V]
	treeID uint32
	cur    uint32
}

// Cursor returns a cursor over the given tree, initially unpositioned.
func (f *RBForest[K, V]) Cursor(treeID uint32) (*ForestCursor[K, V], error) {
	if err := f.checkRoot(treeID); err != nil {
		return nil, err
	}
	return &ForestCursor[K, V]{f: f, treeID: treeID, cur: nilSlot}, nil
}

// Min positions at the smallest entry and returns its key.
func (c *ForestCursor[K, V]) Min() K {
	root := c.f.rootOf(c.treeID)
	if root == nilSlot {
		c.cur = nilSlot
		var zero K
		return zero
	}
	c.cur = c.f.minFrom(root)
	return c.Key()
}

// Max positions at the biggest entry and returns its key.
func (c *ForestCursor[K, V]) Max() K {
	root := c.f.rootOf(c.treeID)
	if root == nilSlot {
		c.cur = nilSlot
		var zero K
		return zero
	}
	c.cur = c.f.maxFrom(root)
	return c.Key()
}

// Next moves to the next bigger entry, false when already at the end.
func (c *ForestCursor[K, V]) Next() (bool, error) {
	if c.cur == nilSlot {
		return false, nil
	}
	next := c.f.successor(c.cur)
	if next == nilSlot {
		return false, nil
	}
	c.cur = next
	return true, nil
}

// Prev moves to the next smaller entry, false when already at the start.
func (c *ForestCursor[K, V]) Prev() (bool, error) {
	if c.cur == nilSlot {
		return false, nil
	}
	prev := c.f.predecessor(c.cur)
	if prev == nilSlot {
		return false, nil
	}
	c.cur = prev
	return true, nil
}

// Seek positions the cursor relative to key. With isStart it lands on the
// first entry >= key, otherwise on the last entry <= key. Finding no such
// entry leaves the cursor unpositioned.
func (c *ForestCursor[K, V]) Seek(key K, isStart bool) error {
	cell, err := c.f.encodeKey(&key)
	if err != nil {
		return err
	}
	best := nilSlot
	cur := c.f.rootOf(c.treeID)
	for cur != nilSlot {
		cmp := bytes.Compare(cell, c.f.keyCell(cur))
		if cmp == 0 {
			best = cur
			break
		}
		if isStart {
			if cmp < 0 {
				best = cur
				cur = c.f.left(cur)
			} else {
				cur = c.f.right(cur)
			}
		} else {
			if cmp > 0 {
				best = cur
				cur = c.f.right(cur)
			} else {
				cur = c.f.left(cur)
			}
		}
	}
	c.cur = best
	return nil
}

// Key decodes the key under the cursor, zero value when unpositioned.
func (c *ForestCursor[K, V]) Key() (k K) {
	if c.cur == nilSlot {
		return
	}
	k, _ = c.f.decodeKey(c.f.keyCell(c.cur))
	return
}

// Value decodes the value under the cursor, zero value when unpositioned.
func (c *ForestCursor[K, V]) Value() (v V) {
	if c.cur == nilSlot {
		return
	}
	v, _ = c.f.decodeVal(c.f.valCell(c.cur))
	return
}
