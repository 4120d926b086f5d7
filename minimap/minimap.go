package minimap

import (
	"errors"
	"fmt"

	"metpatch/rom"
)

const (
	Width  = 32
	Height = 32
)

var ErrOutOfBounds = errors.New("cell outside minimap")

// Cell is one decoded minimap entry.
type Cell struct {
	Tile    uint16 // 10-bit tile id
	Palette uint8
	HFlip   bool
	VFlip   bool
}

func decodeCell(v uint16) Cell {
	return Cell{
		Tile:    v & 0x3FF,
		Palette: uint8(v >> 12),
		HFlip:   v&0x400 != 0,
		VFlip:   v&0x800 != 0,
	}
}

func (c Cell) encode() uint16 {
	v := c.Tile&0x3FF | uint16(c.Palette&0xF)<<12
	if c.HFlip {
		v |= 0x400
	}
	if c.VFlip {
		v |= 0x800
	}
	return v
}

func (c Cell) String() string {
	return fmt.Sprintf("tile $%03X pal %d hflip %t vflip %t", c.Tile, c.Palette, c.HFlip, c.VFlip)
}

// Minimap is the decompressed cell grid of one area's map.
type Minimap struct {
	ID int

	cells   [Width * Height]uint16
	ptrAddr int
	origLen int
	dirty   bool
}

// Load decompresses minimap id; tablePtrs is the address of the minimap
// pointer list.
func Load(r *rom.Rom, tablePtrs int, id int) (*Minimap, error) {
	ptrAddr := tablePtrs + id*4
	addr, err := r.ReadPtr(ptrAddr)
	if err != nil {
		return nil, fmt.Errorf("minimap %d: %w", id, err)
	}
	raw, n, err := Decompress(r.Data[addr:])
	if err != nil {
		return nil, fmt.Errorf("minimap %d at $%X: %w", id, addr, err)
	}
	if len(raw) != Width*Height*2 {
		return nil, fmt.Errorf("minimap %d is $%X bytes: %w", id, len(raw), ErrCorrupt)
	}

	m := &Minimap{ID: id, ptrAddr: ptrAddr, origLen: n}
	for i := range m.cells {
		m.cells[i] = uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
	}
	return m, nil
}

func inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < Width && y < Height
}

func (m *Minimap) Get(x, y int) (Cell, error) {
	if !inBounds(x, y) {
		return Cell{}, fmt.Errorf("minimap %d get (%d,%d): %w", m.ID, x, y, ErrOutOfBounds)
	}
	return decodeCell(m.cells[y*Width+x]), nil
}

func (m *Minimap) Set(x, y int, c Cell) error {
	if !inBounds(x, y) {
		return fmt.Errorf("minimap %d set (%d,%d): %w", m.ID, x, y, ErrOutOfBounds)
	}
	v := c.encode()
	if m.cells[y*Width+x] != v {
		m.cells[y*Width+x] = v
		m.dirty = true
	}
	return nil
}

func (m *Minimap) Dirty() bool {
	return m.dirty
}

// Encode returns the compressed cell grid.
func (m *Minimap) Encode() []byte {
	raw := make([]byte, len(m.cells)*2)
	for i, v := range m.cells {
		raw[i*2] = byte(v)
		raw[i*2+1] = byte(v >> 8)
	}
	return Compress(raw)
}

// Flush recompresses a modified minimap and writes it back.
func (m *Minimap) Flush(r *rom.Rom) error {
	if !m.dirty {
		return nil
	}
	data := m.Encode()
	if _, err := r.WriteRepointable(m.ptrAddr, m.origLen, data, []int{m.ptrAddr}); err != nil {
		return fmt.Errorf("flush minimap %d: %w", m.ID, err)
	}
	if len(data) > m.origLen {
		m.origLen = len(data)
	}
	m.dirty = false
	return nil
}
