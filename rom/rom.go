package rom

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// RomBase is the bus address the cartridge image is mapped at; pointers stored
// in the image are bus addresses.
const RomBase = 0x0800_0000

var (
	ErrUnknownGame = errors.New("unrecognized game code in ROM header")
	ErrBadPointer  = errors.New("pointer does not refer to the ROM image")
)

type Game uint8

const (
	GameUnknown Game = iota
	GameFusion
	GameZeroMission
)

func (g Game) String() string {
	switch g {
	case GameFusion:
		return "Metroid Fusion"
	case GameZeroMission:
		return "Metroid Zero Mission"
	default:
		return "unknown"
	}
}

// header game codes, U region only:
var gameCodes = map[string]Game{
	"AMTE": GameFusion,
	"BMXE": GameZeroMission,
}

// Rom is the backing buffer of a cartridge image plus its free-space allocator.
type Rom struct {
	Data []byte
	Game Game

	free *FreeSpace
}

// New wraps an image and identifies the game from its header.
func New(data []byte) (*Rom, error) {
	if len(data) < 0xC0 {
		return nil, fmt.Errorf("image too small (%d bytes): %w", len(data), ErrUnknownGame)
	}
	code := string(data[0xAC:0xB0])
	g, ok := gameCodes[code]
	if !ok {
		return nil, fmt.Errorf("game code %q: %w", code, ErrUnknownGame)
	}
	return &Rom{Data: data, Game: g}, nil
}

// NewWithGame wraps an image without inspecting its header.
func NewWithGame(data []byte, g Game) *Rom {
	return &Rom{Data: data, Game: g}
}

func (r *Rom) Size() int {
	return len(r.Data)
}

func (r *Rom) Read8(addr int) uint8 {
	return r.Data[addr]
}

func (r *Rom) Read16(addr int) uint16 {
	return binary.LittleEndian.Uint16(r.Data[addr : addr+2])
}

func (r *Rom) Read32(addr int) uint32 {
	return binary.LittleEndian.Uint32(r.Data[addr : addr+4])
}

// ReadPtr reads a bus pointer and converts it to an image offset.
func (r *Rom) ReadPtr(addr int) (int, error) {
	v := r.Read32(addr)
	if v < RomBase || int(v-RomBase) >= len(r.Data) {
		return 0, fmt.Errorf("$%07X -> $%08X: %w", addr, v, ErrBadPointer)
	}
	return int(v - RomBase), nil
}

func (r *Rom) ReadBytes(addr, n int) []byte {
	b := make([]byte, n)
	copy(b, r.Data[addr:addr+n])
	return b
}

func (r *Rom) Write8(addr int, v uint8) {
	r.Data[addr] = v
}

func (r *Rom) Write16(addr int, v uint16) {
	binary.LittleEndian.PutUint16(r.Data[addr:addr+2], v)
}

func (r *Rom) Write32(addr int, v uint32) {
	binary.LittleEndian.PutUint32(r.Data[addr:addr+4], v)
}

// WritePtr stores an image offset as a bus pointer.
func (r *Rom) WritePtr(addr int, offset int) {
	r.Write32(addr, uint32(offset)+RomBase)
}

func (r *Rom) WriteBytes(addr int, b []byte) {
	copy(r.Data[addr:addr+len(b)], b)
}
