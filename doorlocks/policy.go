package doorlocks

import (
	"github.com/zyedidia/generic/mapset"

	"metpatch/room"
	"metpatch/tiles"
)

// DoorKey identifies a door by area and index in the area's door table.
type DoorKey struct {
	Area int
	Door int
}

// Policy holds everything game specific the door lock pass needs.
type Policy struct {
	Areas    int
	MaxDoors int

	DoorTablePtrs int // per-area door table pointers
	RoomTablePtrs int // per-area room entry table pointers
	RoomLayout    room.Layout

	MinimapPtrs int
	// MinimapAliases lists every minimap an area's edits are written to;
	// areas not listed only write their own.
	MinimapAliases map[int][]int

	HatchEvents     int // 5-byte hatch lock event records
	HatchEventCount int

	// Excluded doors never have their lock changed.
	Excluded mapset.Set[DoorKey]

	Tiles *tiles.Table

	// minimap cell geometry: a screen is ScreenW x ScreenH blocks after
	// skipping Margin blocks of room border
	ScreenW int
	ScreenH int
	Margin  int
}

func (p *Policy) minimapsFor(area int) []int {
	if ids, ok := p.MinimapAliases[area]; ok {
		return ids
	}
	return []int{area}
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// cellOffset converts a hatch block to the minimap cell offset from the
// room's origin.
func (p *Policy) cellOffset(hx, hy int) (int, int) {
	return floorDiv(hx-p.Margin, p.ScreenW), floorDiv(hy-p.Margin, p.ScreenH)
}
