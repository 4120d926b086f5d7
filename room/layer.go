package room

import (
	"errors"
	"fmt"

	"metpatch/rom"
)

var ErrOutOfBounds = errors.New("block outside layer bounds")

// Layer is a decoded block layer (BG1 or clipdata) of one room. Values are
// kept in memory until Flush.
type Layer struct {
	Width  int
	Height int

	blocks  []uint16
	ptrAddr int // address of the room entry field pointing at the data
	origLen int // compressed length including the size header
	dirty   bool
}

// LoadLayer decodes the layer whose pointer is stored at ptrAddr.
func LoadLayer(r *rom.Rom, ptrAddr int) (*Layer, error) {
	addr, err := r.ReadPtr(ptrAddr)
	if err != nil {
		return nil, err
	}
	if addr+2 > r.Size() {
		return nil, fmt.Errorf("layer header at $%X: %w", addr, ErrCorrupt)
	}
	w, h := int(r.Read8(addr)), int(r.Read8(addr+1))

	raw, n, err := DecompressRLE(r.Data[addr+2:], w*h*2)
	if err != nil {
		return nil, fmt.Errorf("layer at $%X: %w", addr, err)
	}

	l := &Layer{
		Width:   w,
		Height:  h,
		blocks:  make([]uint16, w*h),
		ptrAddr: ptrAddr,
		origLen: n + 2,
	}
	for i := range l.blocks {
		l.blocks[i] = uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
	}
	return l, nil
}

// NewLayer creates an empty layer; used when building images from scratch.
func NewLayer(w, h int) *Layer {
	return &Layer{Width: w, Height: h, blocks: make([]uint16, w*h)}
}

func (l *Layer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.Width && y < l.Height
}

func (l *Layer) Get(x, y int) (uint16, error) {
	if !l.inBounds(x, y) {
		return 0, fmt.Errorf("get (%d,%d) in %dx%d: %w", x, y, l.Width, l.Height, ErrOutOfBounds)
	}
	return l.blocks[y*l.Width+x], nil
}

func (l *Layer) Set(x, y int, v uint16) error {
	if !l.inBounds(x, y) {
		return fmt.Errorf("set (%d,%d) in %dx%d: %w", x, y, l.Width, l.Height, ErrOutOfBounds)
	}
	i := y*l.Width + x
	if l.blocks[i] != v {
		l.blocks[i] = v
		l.dirty = true
	}
	return nil
}

func (l *Layer) Dirty() bool {
	return l.dirty
}

// Encode returns the size header followed by the compressed blocks.
func (l *Layer) Encode() []byte {
	raw := make([]byte, len(l.blocks)*2)
	for i, v := range l.blocks {
		raw[i*2] = byte(v)
		raw[i*2+1] = byte(v >> 8)
	}
	return append([]byte{byte(l.Width), byte(l.Height)}, CompressRLE(raw)...)
}

// Flush writes a modified layer back, relocating it into free space if it no
// longer fits where it was.
func (l *Layer) Flush(r *rom.Rom) error {
	if !l.dirty {
		return nil
	}
	data := l.Encode()
	if _, err := r.WriteRepointable(l.ptrAddr, l.origLen, data, []int{l.ptrAddr}); err != nil {
		return fmt.Errorf("flush layer at $%X: %w", l.ptrAddr, err)
	}
	if len(data) > l.origLen {
		l.origLen = len(data)
	}
	l.dirty = false
	return nil
}
