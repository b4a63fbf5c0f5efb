package slicerb

import "unsafe"

func bytesIsZero(data []byte) bool {
	var v uint64
	for len(data) >= 32 {
		v |= *(*uint64)(unsafe.Pointer(&data[0]))
		v |= *(*uint64)(unsafe.Pointer(&data[8]))
		v |= *(*uint64)(unsafe.Pointer(&data[16]))
		v |= *(*uint64)(unsafe.Pointer(&data[24]))
		data = data[32:]
	}
	for _, b := range data {
		v |= uint64(b)
	}
	return v == 0
}
