package rom

import (
	"errors"
	"fmt"
)

var ErrAllocationExhausted = errors.New("free space exhausted")

// freeFill is written over the unused tail of data shrunk in place.
const freeFill = 0xFF

// FreeSpace is a bump allocator over a reserved region [Start, End) of the image.
type FreeSpace struct {
	Start int
	End   int

	watermark int
}

func NewFreeSpace(start, end int) *FreeSpace {
	return &FreeSpace{Start: start, End: end, watermark: start}
}

// Used reports how many bytes have been handed out, alignment included.
func (f *FreeSpace) Used() int {
	return f.watermark - f.Start
}

func (f *FreeSpace) Remaining() int {
	return f.End - f.watermark
}

// Alloc reserves n bytes at a 4-byte aligned address. The watermark only moves
// on success.
func (f *FreeSpace) Alloc(n int) (int, error) {
	addr := (f.watermark + 3) &^ 3
	if n < 0 || addr+n > f.End {
		return 0, fmt.Errorf("need $%X bytes, $%X left in [$%X, $%X): %w",
			n, f.End-addr, f.Start, f.End, ErrAllocationExhausted)
	}
	f.watermark = addr + n
	return addr, nil
}

// SetFreeSpace installs the allocator used by WriteRepointable.
func (r *Rom) SetFreeSpace(f *FreeSpace) {
	r.free = f
}

func (r *Rom) FreeSpace() *FreeSpace {
	return r.free
}

// WriteRepointable replaces the data referenced by the pointer at ptrAddr,
// which currently occupies origLen bytes. Data that fits is written in place;
// otherwise it is copied into free space and every pointer in refs is updated
// to the new location. Returns the offset the data now lives at.
func (r *Rom) WriteRepointable(ptrAddr int, origLen int, data []byte, refs []int) (int, error) {
	addr, err := r.ReadPtr(ptrAddr)
	if err != nil {
		return 0, err
	}

	if len(data) <= origLen {
		if addr+origLen > len(r.Data) {
			return 0, fmt.Errorf("data at $%X+$%X: %w", addr, origLen, ErrBadPointer)
		}
		r.WriteBytes(addr, data)
		for i := addr + len(data); i < addr+origLen; i++ {
			r.Data[i] = freeFill
		}
		return addr, nil
	}

	if r.free == nil {
		return 0, fmt.Errorf("no free space configured for $%X bytes: %w", len(data), ErrAllocationExhausted)
	}
	if r.free.End > len(r.Data) {
		return 0, fmt.Errorf("free space end $%X is past end of image: %w", r.free.End, ErrAllocationExhausted)
	}
	newAddr, err := r.free.Alloc(len(data))
	if err != nil {
		return 0, err
	}

	// copy first, repoint after:
	r.WriteBytes(newAddr, data)
	for _, ref := range refs {
		r.WritePtr(ref, newAddr)
	}
	return newAddr, nil
}
