package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"metpatch/credits"
	"metpatch/doorlocks"
	"metpatch/game"
	"metpatch/rom"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "metpatch.toml", `
[logging]
level = "debug"

[output]
tile_sheet = "tiles.png"

[addresses]
hatch_event_count = 12
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Output.TileSheet != "tiles.png" || cfg.Output.TileSheetScale != 2 || cfg.Output.Workers != 4 {
		t.Fatalf("unexpected output config %+v", cfg.Output)
	}

	d, err := game.For(rom.NewWithGame(make([]byte, 0x80_0000), rom.GameFusion))
	if err != nil {
		t.Fatal(err)
	}
	events := d.DoorLocks.HatchEvents
	cfg.Addresses.Override(d)
	if d.DoorLocks.HatchEventCount != 12 || d.DoorLocks.HatchEvents != events {
		t.Fatalf("override: %d events at $%X", d.DoorLocks.HatchEventCount, d.DoorLocks.HatchEvents)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, err := Load(writeFile(t, "bad.toml", "[logging\n")); err == nil {
		t.Fatalf("malformed config accepted")
	}
}

func TestLoadPatch(t *testing.T) {
	path := writeFile(t, "patch.yaml", `
door_locks:
  - {area: 0, door: 0x10, lock: Level2}
  - {area: 3, door: 0x2A, lock: Locked}
credits:
  - {line_type: Blue, text: "RANDOMIZER"}
  - {line_type: White1, text: "left", centered: false, blank_lines: 1}
music:
  Sector1: Title
`)
	p, err := LoadPatch(path)
	if err != nil {
		t.Fatal(err)
	}

	locks, err := p.Locks()
	if err != nil {
		t.Fatal(err)
	}
	if len(locks) != 2 || locks[doorlocks.DoorKey{Area: 0, Door: 0x10}] != doorlocks.Level2 ||
		locks[doorlocks.DoorKey{Area: 3, Door: 0x2A}] != doorlocks.Locked {
		t.Fatalf("unexpected locks %v", locks)
	}

	lines, err := p.CreditLines()
	if err != nil {
		t.Fatal(err)
	}
	want := []credits.Line{
		{Type: credits.Blue, Text: "RANDOMIZER", Centered: true},
		{Type: credits.White1, Text: "left", BlankLines: 1},
	}
	if len(lines) != len(want) || lines[0] != want[0] || lines[1] != want[1] {
		t.Fatalf("expected %+v, got %+v", want, lines)
	}

	if p.Music["Sector1"] != "Title" {
		t.Fatalf("unexpected music %v", p.Music)
	}
}

func TestPatchErrors(t *testing.T) {
	if _, err := LoadPatch(writeFile(t, "bad.yaml", "door_locks:\n  - {area: 0, door: 1, lock: Level9}\n")); err == nil {
		t.Fatalf("unknown lock accepted")
	}

	p := &Patch{DoorLocks: []DoorLockEntry{
		{Area: 1, Door: 2, Lock: doorlocks.Level1},
		{Area: 1, Door: 2, Lock: doorlocks.Open},
	}}
	if _, err := p.Locks(); err == nil {
		t.Fatalf("duplicate door accepted")
	}

	p = &Patch{Credits: []CreditsEntry{{LineType: "Purple"}}}
	if _, err := p.CreditLines(); !errors.Is(err, credits.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
