package slicerb

import (
	"fmt"
	"os"

	"github.com/nyan233/slicerb/internal/sys"
)

// MappedBuffer is a file-backed buffer for a forest, the buffer handed to
// InitForest or AttachForest is a live mapping of the file. A fresh file is
// truncated to size, an existing file must already have exactly size bytes.
type MappedBuffer struct {
	file *os.File
	dat  []byte
}

// OpenMapped opens or creates path and maps exactly size bytes of it.
func OpenMapped(path string, size int) (*MappedBuffer, error) {
	if size <= 0 {
		return nil, ErrZeroCapacity
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err = file.Truncate(int64(size)); err != nil {
			_ = file.Close()
			return nil, err
		}
	} else if info.Size() != int64(size) {
		_ = file.Close()
		return nil, fmt.Errorf("%w: file holds %d bytes, want %d", ErrWrongBufferSize, info.Size(), size)
	}
	dat, err := sys.MMap(file, uint64(size))
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &MappedBuffer{file: file, dat: dat}, nil
}

// Bytes returns the mapped buffer.
func (m *MappedBuffer) Bytes() []byte {
	return m.dat
}

// Sync flushes the mapping to disk.
func (m *MappedBuffer) Sync() error {
	return sys.MSync(m.dat)
}

// Close flushes, unmaps and closes the file. The buffer must not be used
// afterwards.
func (m *MappedBuffer) Close() error {
	if err := sys.MSync(m.dat); err != nil {
		return err
	}
	if err := sys.MUnmap(m.file, m.dat); err != nil {
		return err
	}
	m.dat = nil
	return m.file.Close()
}
