package room

import (
	"fmt"

	"metpatch/rom"
)

// Layout gives the size of a room entry and where its fields live.
type Layout struct {
	Size int
	BG1  int // pointer to BG1 blocks
	Clip int // pointer to clipdata blocks
	MapX int
	MapY int
}

// FusionLayout matches the 0x3C-byte room entries of Metroid Fusion.
var FusionLayout = Layout{
	Size: 0x3C,
	BG1:  0x0C,
	Clip: 0x14,
	MapX: 0x36,
	MapY: 0x37,
}

// Entry is the part of a room header the door pass cares about.
type Entry struct {
	Area int
	Room int
	Addr int

	MapX int
	MapY int

	layout Layout
}

// LoadEntry reads a room entry. tablePtrs is the address of the per-area list
// of room entry table pointers.
func LoadEntry(r *rom.Rom, layout Layout, tablePtrs int, area, room int) (*Entry, error) {
	base, err := r.ReadPtr(tablePtrs + area*4)
	if err != nil {
		return nil, fmt.Errorf("room table for area %d: %w", area, err)
	}
	addr := base + room*layout.Size
	if addr+layout.Size > r.Size() {
		return nil, fmt.Errorf("room %d-%02X entry at $%X: %w", area, room, addr, rom.ErrBadPointer)
	}
	return &Entry{
		Area:   area,
		Room:   room,
		Addr:   addr,
		MapX:   int(r.Read8(addr + layout.MapX)),
		MapY:   int(r.Read8(addr + layout.MapY)),
		layout: layout,
	}, nil
}

func (e *Entry) String() string {
	return fmt.Sprintf("%d-%02X", e.Area, e.Room)
}

func (e *Entry) LoadBG1(r *rom.Rom) (*Layer, error) {
	l, err := LoadLayer(r, e.Addr+e.layout.BG1)
	if err != nil {
		return nil, fmt.Errorf("room %s BG1: %w", e, err)
	}
	return l, nil
}

func (e *Entry) LoadClip(r *rom.Rom) (*Layer, error) {
	l, err := LoadLayer(r, e.Addr+e.layout.Clip)
	if err != nil {
		return nil, fmt.Errorf("room %s clipdata: %w", e, err)
	}
	return l, nil
}
