package slicerb

import "errors"

var (
	ErrWrongBufferSize   = errors.New("wrong buffer size")
	ErrWrongMagic        = errors.New("wrong magic tag")
	ErrUninitialized     = errors.New("buffer is not initialized")
	ErrDimensionMismatch = errors.New("header dimensions mismatch")
	ErrZeroCapacity      = errors.New("zero capacity")
	ErrTooManyRoots      = errors.New("too many roots")
	ErrPoolFull          = errors.New("node pool is full")
	ErrNoSuchRoot        = errors.New("no such root")
)

var (
	ErrKeyTooLarge          = errors.New("encoded key does not fit the key cell")
	ErrValueTooLarge        = errors.New("encoded value does not fit the value cell")
	ErrKeySerialization     = errors.New("key serialization failed")
	ErrValueSerialization   = errors.New("value serialization failed")
	ErrKeyDeserialization   = errors.New("key deserialization failed")
	ErrValueDeserialization = errors.New("value deserialization failed")
)

// strict mode violations, see Config.Strict
var (
	ErrCorruptFreeList     = errors.New("corrupt free list")
	ErrBrokenParentLink    = errors.New("broken parent link")
	ErrRedRedViolation     = errors.New("red node has a red child")
	ErrBlackHeightMismatch = errors.New("black height mismatch")
	ErrOrderViolation      = errors.New("key order violation")
	ErrRootNotBlack        = errors.New("root is not black")
	ErrLengthMismatch      = errors.New("stored length mismatch")
)
