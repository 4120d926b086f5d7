package music

import (
	"bytes"
	"errors"
	"testing"

	"metpatch/rom"
)

func testRom(table int, lib Library) *rom.Rom {
	r := rom.NewWithGame(make([]byte, 0x1000), rom.GameFusion)
	for _, i := range lib {
		for b := 0; b < entrySize; b++ {
			r.Write8(table+i*entrySize+b, uint8(i))
		}
	}
	return r
}

func entry(r *rom.Rom, table, i int) []byte {
	return r.ReadBytes(table+i*entrySize, entrySize)
}

func TestReplaceSwaps(t *testing.T) {
	const table = 0x100
	r := testRom(table, Fusion)

	err := Replace(r, table, Fusion, map[string]string{
		"Sector1":   "Title",
		"Title":     "Sector1",
		"SAXBattle": "BoxBattle",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct{ track, from int }{
		{0x04, 0x4A},
		{0x4A, 0x04},
		{0x51, 0x1B},
		{0x1B, 0x1B},
		{0x06, 0x06},
	}
	for _, c := range cases {
		want := bytes.Repeat([]byte{uint8(c.from)}, entrySize)
		if got := entry(r, table, c.track); !bytes.Equal(got, want) {
			t.Errorf("track $%02X: expected % X, got % X", c.track, want, got)
		}
	}
}

func TestReplaceUnknown(t *testing.T) {
	const table = 0x100
	r := testRom(table, ZeroMission)
	before := append([]byte(nil), r.Data...)

	err := Replace(r, table, ZeroMission, map[string]string{
		"Brinstar": "Sector1",
		"Norfair":  "Kraid",
	}, nil)
	if !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("expected ErrUnknownTrack, got %v", err)
	}
	if !bytes.Equal(before, r.Data) {
		t.Fatalf("image modified despite invalid names")
	}
}

func TestLibraries(t *testing.T) {
	for _, lib := range []Library{Fusion, ZeroMission} {
		seen := map[int]string{}
		for n, i := range lib {
			if prev, ok := seen[i]; ok {
				t.Fatalf("index $%02X used by %s and %s", i, prev, n)
			}
			seen[i] = n
		}
		names := lib.Names()
		for i := 1; i < len(names); i++ {
			if lib[names[i-1]] >= lib[names[i]] {
				t.Fatalf("names out of order: %s, %s", names[i-1], names[i])
			}
		}
	}
	if lib, ok := For(rom.GameZeroMission); !ok || lib["Credits"] != 0x1B {
		t.Fatalf("zero mission library lookup failed")
	}
	if _, ok := For(rom.GameUnknown); ok {
		t.Fatalf("unknown game has a library")
	}
}
