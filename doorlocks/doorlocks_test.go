package doorlocks

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"metpatch/minimap"
	"metpatch/rom"
	"metpatch/room"
	"metpatch/tiles"
)

const (
	fxDoorPtrs    = 0x100
	fxRoomPtrs    = 0x140
	fxMinimapPtrs = 0x180
	fxEvents      = 0x200
	fxLayers      = 0x4000
	fxMinimaps    = 0x8000
	fxFreeStart   = 0x18000
	fxSize        = 0x20000
	fxMinimapIDs  = 10
)

// fixture builds a small synthetic image with door tables, rooms, minimaps
// and hatch lock events.
type fixture struct {
	t   *testing.T
	r   *rom.Rom
	pol *Policy

	nextLayer int
	cells     [fxMinimapIDs][minimap.Width * minimap.Height]uint16
	events    int
}

func newFixture(t *testing.T) *fixture {
	r := rom.NewWithGame(make([]byte, fxSize), rom.GameFusion)
	r.SetFreeSpace(rom.NewFreeSpace(fxFreeStart, fxSize))
	f := &fixture{
		t:         t,
		r:         r,
		nextLayer: fxLayers,
		pol: &Policy{
			Areas:          2,
			MaxDoors:       256,
			DoorTablePtrs:  fxDoorPtrs,
			RoomTablePtrs:  fxRoomPtrs,
			RoomLayout:     room.FusionLayout,
			MinimapPtrs:    fxMinimapPtrs,
			MinimapAliases: map[int][]int{},
			HatchEvents:    fxEvents,
			Excluded:       mapset.New[DoorKey](),
			Tiles:          tiles.Fusion,
			ScreenW:        15,
			ScreenH:        10,
			Margin:         2,
		},
	}
	for a := 0; a < 2; a++ {
		r.WritePtr(fxDoorPtrs+a*4, 0x1000+a*0x800)
		r.WritePtr(fxRoomPtrs+a*4, 0x2000+a*0x1000)
	}
	return f
}

type block struct{ x, y int }

// addRoom writes a room entry with empty BG1 and clipdata of the given size,
// except for the listed clipdata blocks.
func (f *fixture) addRoom(area, id, w, h, mapX, mapY int, clip map[block]uint16) {
	entry := 0x2000 + area*0x1000 + id*room.FusionLayout.Size
	f.r.Write8(entry+room.FusionLayout.MapX, uint8(mapX))
	f.r.Write8(entry+room.FusionLayout.MapY, uint8(mapY))

	bg1 := room.NewLayer(w, h)
	cl := room.NewLayer(w, h)
	for b, v := range clip {
		if err := cl.Set(b.x, b.y, v); err != nil {
			f.t.Fatal(err)
		}
	}
	f.writeLayer(entry+room.FusionLayout.BG1, bg1)
	f.writeLayer(entry+room.FusionLayout.Clip, cl)
}

func (f *fixture) writeLayer(ptr int, l *room.Layer) {
	data := l.Encode()
	f.r.WriteBytes(f.nextLayer, data)
	f.r.WritePtr(ptr, f.nextLayer)
	f.nextLayer += (len(data) + 3) &^ 3
}

// addDoor writes a door record; exitX below $80 faces right.
func (f *fixture) addDoor(area, index int, kind, roomID uint8, x, y int, exitX uint8) {
	addr := 0x1000 + area*0x800 + index*doorSize
	f.r.Write8(addr+doorKind, kind)
	f.r.Write8(addr+doorRoom, roomID)
	f.r.Write8(addr+doorX, uint8(x))
	f.r.Write8(addr+doorY, uint8(y))
	f.r.Write8(addr+doorExitX, exitX)
}

func (f *fixture) setCell(id, x, y int, tile uint16, palette uint8, hflip, vflip bool) {
	v := tile | uint16(palette)<<12
	if hflip {
		v |= 0x400
	}
	if vflip {
		v |= 0x800
	}
	f.cells[id][y*minimap.Width+x] = v
}

func (f *fixture) addEvent(area, roomID int, slots uint8) int {
	addr := fxEvents + f.events*eventSize
	f.r.WriteBytes(addr, []byte{0x40 + uint8(f.events), uint8(area), uint8(roomID + 1), slots, 0})
	f.events++
	f.pol.HatchEventCount = f.events
	return addr
}

// finish compresses the minimaps; call before Apply.
func (f *fixture) finish() {
	addr := fxMinimaps
	for id := range f.cells {
		raw := make([]byte, len(f.cells[id])*2)
		for i, v := range f.cells[id] {
			raw[i*2] = byte(v)
			raw[i*2+1] = byte(v >> 8)
		}
		data := minimap.Compress(raw)
		f.r.WriteBytes(addr, data)
		f.r.WritePtr(fxMinimapPtrs+id*4, addr)
		addr += len(data)
	}
}

func (f *fixture) apply(locks map[DoorKey]HatchLock) *Result {
	f.t.Helper()
	res, err := Apply(f.r, f.pol, locks, nil)
	if err != nil {
		f.t.Fatal(err)
	}
	return res
}

func (f *fixture) layers(area, id int) (*room.Layer, *room.Layer) {
	f.t.Helper()
	e, err := room.LoadEntry(f.r, room.FusionLayout, fxRoomPtrs, area, id)
	if err != nil {
		f.t.Fatal(err)
	}
	bg1, err := e.LoadBG1(f.r)
	if err != nil {
		f.t.Fatal(err)
	}
	clip, err := e.LoadClip(f.r)
	if err != nil {
		f.t.Fatal(err)
	}
	return bg1, clip
}

func (f *fixture) cell(id, x, y int) minimap.Cell {
	f.t.Helper()
	m, err := minimap.Load(f.r, fxMinimapPtrs, id)
	if err != nil {
		f.t.Fatal(err)
	}
	c, err := m.Get(x, y)
	if err != nil {
		f.t.Fatal(err)
	}
	return c
}

// checkHatch verifies the 4-block column of a hatch.
func (f *fixture) checkHatch(area, id, x, y int, bg1Top, clip uint16) {
	f.t.Helper()
	bg1, cl := f.layers(area, id)
	for row := 0; row < 4; row++ {
		if v, _ := bg1.Get(x, y+row); v != bg1Top+uint16(row)*0x10 {
			f.t.Errorf("room %d-%02X BG1 (%d,%d): expected $%04X, got $%04X", area, id, x, y+row, bg1Top+uint16(row)*0x10, v)
		}
		if v, _ := cl.Get(x, y+row); v != clip {
			f.t.Errorf("room %d-%02X clip (%d,%d): expected $%02X, got $%02X", area, id, x, y+row, clip, v)
		}
	}
}

func TestHatchLockTables(t *testing.T) {
	owner := map[uint16]HatchLock{}
	for l := Open; l <= Locked; l++ {
		for slot := 0; slot < SlotCount; slot++ {
			v := l.Clip(slot)
			if prev, ok := owner[v]; ok && prev != l {
				t.Fatalf("clip $%02X shared by %s and %s", v, prev, l)
			}
			owner[v] = l
			if got, ok := LockForClip(v); !ok || got != l {
				t.Fatalf("reverse lookup of $%02X gave %s", v, got)
			}
		}
	}
	if _, ok := LockForClip(0x20); ok {
		t.Fatalf("$20 is not a hatch clip value")
	}

	for _, name := range []string{"Open", "Level0", "Level4", "Locked"} {
		l, err := ParseHatchLock(name)
		if err != nil || l.String() != name {
			t.Fatalf("%s: parsed as %s (%v)", name, l, err)
		}
	}
	if _, err := ParseHatchLock("Level5"); err == nil {
		t.Fatalf("Level5 accepted")
	}
}

func TestLockedCappedDoor(t *testing.T) {
	f := newFixture(t)
	// door 0 faces right (hatch at 2,5, capped), door 1 faces left (hatch at 19,5, capless)
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.addDoor(0, 1, 0x04, 1, 20, 5, 0xF0)
	f.setCell(0, 3, 4, 0x124, 2, false, false) // W D W W
	f.finish()

	res := f.apply(map[DoorKey]HatchLock{{0, 0}: Locked})

	if got := f.r.Read8(0x1000 + doorRoom); got != 0xFF {
		t.Fatalf("locked door room byte: expected $FF, got $%02X", got)
	}
	if got := f.r.Read8(0x1000 + doorSize + doorRoom); got != 1 {
		t.Fatalf("other door room byte changed to $%02X", got)
	}
	// original slot 0 kept
	f.checkHatch(0, 1, 2, 5, 0x819A+1, 0x10)
	// capless door keeps slot 5 and the open graphic
	f.checkHatch(0, 1, 19, 5, 0x0004, 0x00)

	if len(res.Remaps) != 0 {
		t.Fatalf("expected no slot remaps, got %v", res.Remaps)
	}
	if res.Staged != 1 {
		t.Fatalf("expected the wall edge to be staged, got %d cells", res.Staged)
	}
	if c := f.cell(0, 3, 4); c.Tile != 0x087 || c.Palette != 2 {
		t.Fatalf("expected walled tile $087, got %v", c)
	}
}

func TestLevel2ResolvesDirectly(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.setCell(0, 3, 4, 0x124, 2, false, false)
	f.finish()

	res := f.apply(map[DoorKey]HatchLock{{0, 0}: Level2})

	f.checkHatch(0, 1, 2, 5, 0x000A+1, 0x40)
	want := minimap.Cell{Tile: 0x04D, Palette: 2}
	if c := f.cell(0, 3, 4); c != want {
		t.Fatalf("expected %v, got %v", want, c)
	}
	if res.Resolved != 1 || len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestResolveFlips(t *testing.T) {
	f := newFixture(t)
	// door 0 faces right into cell (3,4); door 1 faces left into cell (4,4)
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
		{19, 5}: 0x31, {19, 6}: 0x31, {19, 7}: 0x31, {19, 8}: 0x31,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.addDoor(0, 1, 0x04, 1, 20, 5, 0xF0)
	// stored mirrored: the gameplay left side is the stored right side
	f.setCell(0, 3, 4, 0x124, 5, true, false)
	// all walls; a yellow right hatch only exists as a mirrored left hatch
	f.setCell(0, 4, 4, 0x087, 5, false, false)
	f.finish()

	f.apply(map[DoorKey]HatchLock{{0, 0}: Level1, {0, 1}: Level3})

	if c, want := f.cell(0, 3, 4), (minimap.Cell{Tile: 0x0E6, Palette: 5, HFlip: true}); c != want {
		t.Errorf("mirrored cell: expected %v, got %v", want, c)
	}
	if c, want := f.cell(0, 4, 4), (minimap.Cell{Tile: 0x057, Palette: 5, HFlip: true}); c != want {
		t.Errorf("flipped cell: expected %v, got %v", want, c)
	}
}

func TestSameCellChangesMerge(t *testing.T) {
	f := newFixture(t)
	// both hatches land in cell (3,4): door 0 on its left side, door 1 on its right
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
		{12, 5}: 0x31, {12, 6}: 0x31, {12, 7}: 0x31, {12, 8}: 0x31,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.addDoor(0, 1, 0x04, 1, 13, 5, 0xF0)
	// W Y Y W with an item; neither edge change alone has a tile
	f.setCell(0, 3, 4, 0x1AC, 4, false, false)
	f.finish()

	res := f.apply(map[DoorKey]HatchLock{{0, 0}: Locked, {0, 1}: Level1})

	if res.Staged != 1 || res.Resolved != 1 {
		t.Fatalf("expected 1 staged and resolved cell, got %d/%d", res.Staged, res.Resolved)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", res.Diagnostics)
	}
	// W W B W is stored as a mirrored W B W W
	if c, want := f.cell(0, 3, 4), (minimap.Cell{Tile: 0x198, Palette: 4, HFlip: true}); c != want {
		t.Fatalf("expected %v, got %v", want, c)
	}
}

func TestResolveFallbacks(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
		{19, 5}: 0x31, {19, 6}: 0x31, {19, 7}: 0x31, {19, 8}: 0x31,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.addDoor(0, 1, 0x04, 1, 20, 5, 0xF0)
	// shortcut with an item: no colored variant in any orientation
	f.setCell(0, 3, 4, 0x0B4, 1, false, false)
	// shortcut, door on the right: degrades back to the plain door
	f.setCell(0, 4, 4, 0x0B6, 1, false, false)
	f.finish()

	res := f.apply(map[DoorKey]HatchLock{{0, 0}: Level1, {0, 1}: Level4})

	if c, want := f.cell(0, 3, 4), (minimap.Cell{Tile: 0x0B4, Palette: 1}); c != want {
		t.Errorf("unresolvable cell changed: %v", c)
	}
	if c, want := f.cell(0, 4, 4), (minimap.Cell{Tile: 0x0B6, Palette: 1}); c != want {
		t.Errorf("degraded cell: expected %v, got %v", want, c)
	}
	if res.Resolved != 1 {
		t.Fatalf("expected 1 resolved cell, got %d", res.Resolved)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Kind != UnresolvedTile || d.Area != 0 || d.X != 3 || d.Y != 4 {
		t.Fatalf("unexpected diagnostic %v", d)
	}
	if d.Message != "desired tile WBDW_xxxx_I" {
		t.Fatalf("unexpected message %q", d.Message)
	}

	// the hatch graphics are written even when the icon can't be
	f.checkHatch(0, 1, 2, 5, 0x0008+1, 0x36)
}

func TestSlotRemapAndEvents(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 2, 40, 12, 0, 0, map[block]uint16{
		{2, 2}: 0x30, {2, 3}: 0x30, {2, 4}: 0x30, {2, 5}: 0x30,
		{10, 2}: 0x31, {10, 3}: 0x31, {10, 4}: 0x31, {10, 5}: 0x31,
	})
	f.addRoom(0, 3, 10, 10, 0, 0, nil)
	f.addDoor(0, 0, 0x04, 2, 1, 2, 0x10)  // capped, slot 0
	f.addDoor(0, 1, 0x14, 2, 9, 2, 0x10)  // capped, slot 1
	f.addDoor(0, 2, 0x04, 2, 20, 2, 0x10) // capless, slot 5
	other := f.addEvent(0, 3, 0xFF)
	ev := f.addEvent(0, 2, 0x80|0b000011)
	f.finish()

	res := f.apply(map[DoorKey]HatchLock{{0, 0}: Open})

	want := map[int]int{0: 5, 1: 0, 5: 4}
	got := res.Remaps[RoomKey{0, 2}]
	if len(got) != len(want) {
		t.Fatalf("expected remap %v, got %v", want, got)
	}
	for from, to := range want {
		if got[from] != to {
			t.Fatalf("expected remap %v, got %v", want, got)
		}
	}

	f.checkHatch(0, 2, 2, 2, 0x0004+1, 0x00)
	f.checkHatch(0, 2, 10, 2, 0x0006+1, 0x30)
	f.checkHatch(0, 2, 21, 2, 0x0004+1, 0x00)

	if v := f.r.Read8(ev + eventSlots); v != 0xA3 {
		t.Fatalf("expected event slots $A3, got $%02X", v)
	}
	if v := f.r.Read8(other + eventSlots); v != 0xFF {
		t.Fatalf("event of untouched room changed to $%02X", v)
	}
	if res.EventsFixed != 1 {
		t.Fatalf("expected 1 fixed event, got %d", res.EventsFixed)
	}
}

func TestRemapSlots(t *testing.T) {
	cases := []struct {
		flags uint8
		remap map[int]int
		want  uint8
	}{
		{0b000001, map[int]int{0: 5}, 0b100000},
		{0b100000, map[int]int{0: 5}, 0b000000},
		{0b000011, map[int]int{0: 1, 1: 0}, 0b000011},
		{0b000010, map[int]int{0: 1, 1: 0}, 0b000001},
		{0b011100, map[int]int{5: 2}, 0b011000},
		{0xC1, map[int]int{0: 3}, 0xC8},
	}
	for _, c := range cases {
		if got := remapSlots(c.flags, c.remap); got != c.want {
			t.Errorf("%08b %v: expected %08b, got %08b", c.flags, c.remap, c.want, got)
		}
	}
}

func TestSlotBudgetExceeded(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 1, 12, 40, 0, 0, nil)
	for i := 0; i < 7; i++ {
		f.addDoor(0, i, 0x04, 1, 1, 2+i*5, 0x10)
	}
	f.finish()

	_, err := Apply(f.r, f.pol, nil, nil)
	if !errors.Is(err, ErrSlotBudgetExceeded) {
		t.Fatalf("expected ErrSlotBudgetExceeded, got %v", err)
	}
}

func TestConflictsAndUnused(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 1, 22, 12, 0, 0, nil)
	f.addDoor(0, 0, 0x01, 1, 1, 5, 0x10) // not a hatch
	f.addDoor(0, 1, 0x04, 1, 1, 5, 0x10) // excluded below
	f.addDoor(0, 2, 0x04, 0xFF, 1, 5, 0x10)
	f.pol.Excluded.Put(DoorKey{0, 1})
	f.finish()
	before := append([]byte(nil), f.r.Data...)

	res := f.apply(map[DoorKey]HatchLock{
		{0, 0}:  Level1,
		{0, 1}:  Level1,
		{0, 2}:  Level1, // deleted door: silently skipped
		{1, 40}: Level1,
	})

	kinds := []DiagnosticKind{ConfigConflict, ConfigConflict, UnusedOverride}
	if len(res.Diagnostics) != len(kinds) {
		t.Fatalf("unexpected diagnostics %v", res.Diagnostics)
	}
	for i, k := range kinds {
		if res.Diagnostics[i].Kind != k {
			t.Fatalf("diagnostic %d: expected %s, got %v", i, k, res.Diagnostics[i])
		}
	}
	if d := res.Diagnostics[2]; d.Area != 1 || d.Door != 40 {
		t.Fatalf("unexpected unused override %v", d)
	}
	if !bytes.Equal(before, f.r.Data) {
		t.Fatalf("ignored overrides modified the image")
	}
}

func TestDiagnosticsLogged(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.addDoor(0, 1, 0x01, 1, 1, 5, 0x10)
	f.setCell(0, 3, 4, 0x0B4, 1, false, false)
	f.finish()

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := Apply(f.r, f.pol, map[DoorKey]HatchLock{
		{0, 0}: Level1,
		{0, 1}: Level1,
		{1, 7}: Level1,
	}, zap.New(core))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", res.Diagnostics)
	}
	if n := logs.Len(); n != len(res.Diagnostics) {
		t.Fatalf("expected one log entry per diagnostic, got %d", n)
	}
}

func TestMinimapAliases(t *testing.T) {
	f := newFixture(t)
	f.pol.MinimapAliases[0] = []int{0, 9}
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.setCell(0, 3, 4, 0x124, 2, false, false)
	f.setCell(9, 3, 4, 0x124, 3, false, false)
	f.finish()

	res := f.apply(map[DoorKey]HatchLock{{0, 0}: Level4})

	if res.Staged != 2 || res.Resolved != 2 {
		t.Fatalf("expected 2 staged and resolved cells, got %d/%d", res.Staged, res.Resolved)
	}
	// red hatch, W R W W
	for id, pal := range map[int]uint8{0: 2, 9: 3} {
		if c, want := f.cell(id, 3, 4), (minimap.Cell{Tile: 0x052, Palette: pal}); c != want {
			t.Errorf("minimap %d: expected %v, got %v", id, want, c)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addRoom(0, 1, 22, 12, 3, 4, map[block]uint16{
		{2, 5}: 0x30, {2, 6}: 0x30, {2, 7}: 0x30, {2, 8}: 0x30,
	})
	f.addDoor(0, 0, 0x04, 1, 1, 5, 0x10)
	f.addDoor(0, 1, 0x04, 1, 20, 5, 0xF0)
	f.setCell(0, 3, 4, 0x124, 2, false, false)
	f.finish()
	locks := map[DoorKey]HatchLock{{0, 0}: Level2}

	f.apply(locks)
	once := append([]byte(nil), f.r.Data...)
	f.apply(locks)
	if !bytes.Equal(once, f.r.Data) {
		t.Fatalf("second application changed the image")
	}
}

func TestApplyUnsupported(t *testing.T) {
	r := rom.NewWithGame(make([]byte, 0x100), rom.GameZeroMission)
	if _, err := Apply(r, nil, nil, nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCellOffset(t *testing.T) {
	p := &Policy{ScreenW: 15, ScreenH: 10, Margin: 2}
	cases := []struct{ hx, hy, cx, cy int }{
		{2, 2, 0, 0},
		{16, 11, 0, 0},
		{17, 12, 1, 1},
		{1, 1, -1, -1},
		{47, 32, 3, 3},
	}
	for _, c := range cases {
		if x, y := p.cellOffset(c.hx, c.hy); x != c.cx || y != c.cy {
			t.Errorf("(%d,%d): expected (%d,%d), got (%d,%d)", c.hx, c.hy, c.cx, c.cy, x, y)
		}
	}
}
