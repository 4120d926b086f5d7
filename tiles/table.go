package tiles

import (
	"errors"
	"fmt"
	"sort"
)

var ErrDuplicateTile = errors.New("duplicate canonical tile")

// Table maps structural tiles to the tile ids a game's minimap graphics use.
// Every canonical tile has exactly one id. Alias ids decode to a canonical
// tile but are never produced by ToID.
type Table struct {
	ids   map[MapTile]uint16
	tiles map[uint16]MapTile
	order []uint16 // canonical ids, ascending
}

func (t *Table) ToID(tile MapTile) (uint16, bool) {
	id, ok := t.ids[tile]
	return id, ok
}

func (t *Table) FromID(id uint16) (MapTile, bool) {
	tile, ok := t.tiles[id]
	return tile, ok
}

// IsCanonical reports whether id is the id ToID returns for its tile.
func (t *Table) IsCanonical(id uint16) bool {
	tile, ok := t.tiles[id]
	if !ok {
		return false
	}
	return t.ids[tile] == id
}

// IDs returns the canonical ids in ascending order.
func (t *Table) IDs() []uint16 {
	return append([]uint16(nil), t.order...)
}

// Len returns the number of canonical tiles.
func (t *Table) Len() int {
	return len(t.order)
}

// Builder collects table entries and reports the first conflicting
// registration from Build.
type Builder struct {
	t   *Table
	err error
}

func NewBuilder() *Builder {
	return &Builder{t: &Table{
		ids:   make(map[MapTile]uint16),
		tiles: make(map[uint16]MapTile),
	}}
}

// Add registers tile as the canonical tile for id.
func (b *Builder) Add(id uint16, tile MapTile) *Builder {
	if b.err != nil {
		return b
	}
	if prev, ok := b.t.tiles[id]; ok {
		b.err = fmt.Errorf("id $%03X already holds %s, cannot add %s: %w", id, prev, tile, ErrDuplicateTile)
		return b
	}
	if prev, ok := b.t.ids[tile]; ok {
		b.err = fmt.Errorf("tile %s already has id $%03X, cannot add $%03X: %w", tile, prev, id, ErrDuplicateTile)
		return b
	}
	b.t.ids[tile] = id
	b.t.tiles[id] = tile
	b.t.order = append(b.t.order, id)
	return b
}

// Alias registers id as a decode-only duplicate of an already canonical tile.
func (b *Builder) Alias(id uint16, tile MapTile) *Builder {
	if b.err != nil {
		return b
	}
	if prev, ok := b.t.tiles[id]; ok {
		b.err = fmt.Errorf("id $%03X already holds %s, cannot alias %s: %w", id, prev, tile, ErrDuplicateTile)
		return b
	}
	if _, ok := b.t.ids[tile]; !ok {
		b.err = fmt.Errorf("alias $%03X refers to non-canonical tile %s", id, tile)
		return b
	}
	b.t.tiles[id] = tile
	return b
}

func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	t := b.t
	sort.Slice(t.order, func(i, j int) bool { return t.order[i] < t.order[j] })
	b.t = nil
	return t, nil
}

func mustBuild(b *Builder) *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
