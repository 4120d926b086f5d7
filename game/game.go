package game

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"metpatch/doorlocks"
	"metpatch/rom"
	"metpatch/room"
	"metpatch/tiles"
)

// Data holds the addresses and tables the patcher needs for one game.
type Data struct {
	Game rom.Game

	FreeSpaceStart int // patcher free space, reserved by the base patch
	FreeSpaceEnd   int

	SoundTable int // 8-byte sound data entries

	CreditsPtr int // pointer to the credits line table; 0 if unsupported
	CreditsLen int

	// DoorLocks is nil when door locks aren't supported.
	DoorLocks *doorlocks.Policy

	// ExtractPointers fills in addresses the base patch publishes in the
	// image itself.
	ExtractPointers func(d *Data, r *rom.Rom) error
}

func fusion() *Data {
	return &Data{
		Game:           rom.GameFusion,
		FreeSpaceStart: 0x7D_0000,
		FreeSpaceEnd:   0x7F_0000,
		SoundTable:     0x0A_8D3C,
		CreditsPtr:     0x0A_231C,
		CreditsLen:     0x2B98,
		DoorLocks: &doorlocks.Policy{
			Areas:           7,
			MaxDoors:        256,
			DoorTablePtrs:   0x79_B894,
			RoomTablePtrs:   0x79_B8BC,
			RoomLayout:      room.FusionLayout,
			MinimapPtrs:     0x79_BE5C,
			MinimapAliases:  map[int][]int{0: {0, 9}}, // main deck has two maps
			HatchEvents:     0x3C_8748,
			HatchEventCount: 0x2B,
			Excluded:        fusionExcluded(),
			Tiles:           tiles.Fusion,
			ScreenW:         15,
			ScreenH:         10,
			Margin:          2,
		},
	}
}

func fusionExcluded() mapset.Set[doorlocks.DoorKey] {
	s := mapset.New[doorlocks.DoorKey]()
	// restricted lab escape
	s.Put(doorlocks.DoorKey{Area: 0, Door: 0xB4})
	return s
}

// zero mission base patch pointer table
const (
	zmRandoPointers = 0x7D_0000
	zmSoundDataPtr  = zmRandoPointers + 0x38
)

func zeroMission() *Data {
	return &Data{
		Game:           rom.GameZeroMission,
		FreeSpaceStart: 0x7C_0000,
		FreeSpaceEnd:   zmRandoPointers,
		ExtractPointers: func(d *Data, r *rom.Rom) error {
			if zmSoundDataPtr+4 > r.Size() {
				return fmt.Errorf("image ends before the base patch pointers: %w", rom.ErrBadPointer)
			}
			var err error
			if d.SoundTable, err = r.ReadPtr(zmSoundDataPtr); err != nil {
				return fmt.Errorf("sound data pointer: %w", err)
			}
			return nil
		},
	}
}

// For returns the data for r's game with published pointers extracted, and
// claims the game's free space on r.
func For(r *rom.Rom) (*Data, error) {
	var d *Data
	switch r.Game {
	case rom.GameFusion:
		d = fusion()
	case rom.GameZeroMission:
		d = zeroMission()
	default:
		return nil, fmt.Errorf("%s: %w", r.Game, rom.ErrUnknownGame)
	}

	if d.ExtractPointers != nil {
		if err := d.ExtractPointers(d, r); err != nil {
			return nil, fmt.Errorf("%s: %w", d.Game, err)
		}
	}
	if d.FreeSpaceEnd > r.Size() {
		return nil, fmt.Errorf("%s: free space ends at $%X past image end $%X: %w",
			d.Game, d.FreeSpaceEnd, r.Size(), rom.ErrBadPointer)
	}
	r.SetFreeSpace(rom.NewFreeSpace(d.FreeSpaceStart, d.FreeSpaceEnd))
	return d, nil
}
