package doorlocks

import (
	"fmt"

	"metpatch/rom"
)

// door record layout
const (
	doorSize      = 0x0C
	doorKind      = 0
	doorRoom      = 1
	doorX         = 2
	doorY         = 4
	doorExitX     = 7
	deletedRoom   = 0xFF
	facingRightLt = 0x80 // exit distances below this face right
)

// Door is one entry of an area's door table.
type Door struct {
	Area  int
	Index int
	Addr  int

	Kind  uint8
	Room  uint8
	X     int
	Y     int
	ExitX uint8
}

func (d *Door) String() string {
	return fmt.Sprintf("door %d-%02X", d.Area, d.Index)
}

// Lockable reports whether the door is a hatch.
func (d *Door) Lockable() bool {
	return d.Kind&0x0F == 4
}

func (d *Door) Deleted() bool {
	return d.Room == deletedRoom
}

func (d *Door) FacesRight() bool {
	return d.ExitX < facingRightLt
}

// Hatch returns the block the hatch graphic starts at, one block into the
// room from the door.
func (d *Door) Hatch() (x, y int) {
	if d.FacesRight() {
		return d.X + 1, d.Y
	}
	return d.X - 1, d.Y
}

func readDoor(r *rom.Rom, area, index, addr int) Door {
	return Door{
		Area:  area,
		Index: index,
		Addr:  addr,
		Kind:  r.Read8(addr + doorKind),
		Room:  r.Read8(addr + doorRoom),
		X:     int(r.Read8(addr + doorX)),
		Y:     int(r.Read8(addr + doorY)),
		ExitX: r.Read8(addr + doorExitX),
	}
}

// markDeleted removes the door from traversal.
func markDeleted(r *rom.Rom, d *Door) {
	r.Write8(d.Addr+doorRoom, deletedRoom)
	d.Room = deletedRoom
}

// doorTable walks an area's door table until the terminating zero kind.
func doorTable(r *rom.Rom, pol *Policy, area int, fn func(d *Door) error) error {
	base, err := r.ReadPtr(pol.DoorTablePtrs + area*4)
	if err != nil {
		return fmt.Errorf("door table for area %d: %w", area, err)
	}
	for i := 0; i < pol.MaxDoors; i++ {
		addr := base + i*doorSize
		if addr+doorSize > r.Size() {
			return fmt.Errorf("door %d-%02X at $%X: %w", area, i, addr, rom.ErrBadPointer)
		}
		d := readDoor(r, area, i, addr)
		if d.Kind == 0 {
			return nil
		}
		if err = fn(&d); err != nil {
			return err
		}
	}
	return nil
}
