package doorlocks

import (
	"go.uber.org/zap"

	"metpatch/rom"
)

// hatch lock event record: event, area, room+1, slot mask, padding
const (
	eventSize  = 5
	eventArea  = 1
	eventRoom  = 2
	eventSlots = 3
	slotMask   = 1<<SlotCount - 1
)

// remapSlots moves each remapped slot's bit to its new position. Bits of
// slots that no remap targets are kept, as are the bits above the slot mask.
func remapSlots(flags uint8, remap map[int]int) uint8 {
	var moved uint8
	keep := uint8(slotMask)
	for from, to := range remap {
		if flags&(1<<from) != 0 {
			moved |= 1 << to
		}
		keep &^= 1 << to
	}
	return flags&^slotMask | moved | flags&keep
}

// fixEvents rewrites the slot masks of hatch lock events in remapped rooms
// and returns how many changed.
func fixEvents(r *rom.Rom, pol *Policy, remaps map[RoomKey]map[int]int, log *zap.Logger) int {
	fixed := 0
	for i := 0; i < pol.HatchEventCount; i++ {
		addr := pol.HatchEvents + i*eventSize
		key := RoomKey{
			Area: int(r.Read8(addr + eventArea)),
			Room: int(r.Read8(addr+eventRoom)) - 1,
		}
		remap := remaps[key]
		if len(remap) == 0 {
			continue
		}
		old := r.Read8(addr + eventSlots)
		flags := remapSlots(old, remap)
		if flags == old {
			continue
		}
		r.Write8(addr+eventSlots, flags)
		fixed++
		log.Debug("hatch lock event remapped",
			zap.Int("event", int(r.Read8(addr))),
			zap.Stringer("room", key),
			zap.Uint8("old", old),
			zap.Uint8("new", flags),
		)
	}
	return fixed
}
