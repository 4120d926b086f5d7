package doorlocks

import (
	"fmt"

	"go.uber.org/zap"

	"metpatch/minimap"
	"metpatch/tiles"
)

// cellKey identifies one staged minimap cell. Doors of different rooms that
// share a cell are resolved separately, in staging order.
type cellKey struct {
	Minimap int
	Area    int
	X, Y    int
	Room    int
}

// cellChange holds the requested left and right locks of a cell in gameplay
// direction.
type cellChange struct {
	key cellKey

	left     HatchLock
	hasLeft  bool
	right    HatchLock
	hasRight bool
}

// pendingCells keeps staged changes in the order they were first staged.
type pendingCells struct {
	index map[cellKey]int
	cells []*cellChange
}

func newPendingCells() *pendingCells {
	return &pendingCells{index: make(map[cellKey]int)}
}

func (p *pendingCells) get(k cellKey) *cellChange {
	if i, ok := p.index[k]; ok {
		return p.cells[i]
	}
	c := &cellChange{key: k}
	p.index[k] = len(p.cells)
	p.cells = append(p.cells, c)
	return c
}

func (p *pendingCells) len() int {
	return len(p.cells)
}

func (s *synchronizer) resolveMinimaps() error {
	maps := make(map[int]*minimap.Minimap)
	var order []*minimap.Minimap

	for _, c := range s.pending.cells {
		m, ok := maps[c.key.Minimap]
		if !ok {
			var err error
			if m, err = minimap.Load(s.r, s.pol.MinimapPtrs, c.key.Minimap); err != nil {
				return err
			}
			maps[c.key.Minimap] = m
			order = append(order, m)
		}

		cell, err := m.Get(c.key.X, c.key.Y)
		if err != nil {
			s.unresolved(c, fmt.Sprintf("cell outside minimap: %v", err))
			continue
		}
		out, desired, ok := resolveCell(s.pol.Tiles, cell, c)
		if !ok {
			s.unresolved(c, "desired tile "+desired)
			continue
		}
		if err = m.Set(c.key.X, c.key.Y, out); err != nil {
			return err
		}
		s.res.Resolved++
	}

	for _, m := range order {
		if err := m.Flush(s.r); err != nil {
			return err
		}
	}
	return nil
}

func (s *synchronizer) unresolved(c *cellChange, msg string) {
	s.log.Warn("could not edit minimap door icons",
		zap.Int("area", c.key.Area),
		zap.Int("minimap", c.key.Minimap),
		zap.String("x", fmt.Sprintf("%X", c.key.X)),
		zap.String("y", fmt.Sprintf("%X", c.key.Y)),
		zap.String("detail", msg),
	)
	s.diagnose(Diagnostic{
		Kind:    UnresolvedTile,
		Area:    c.key.Area,
		Minimap: c.key.Minimap,
		X:       c.key.X,
		Y:       c.key.Y,
		Message: msg,
	})
}

// resolveCell finds a tile id and orientation showing the requested edges.
// It returns the new cell, the desired tile description and whether a match
// was found.
func resolveCell(tbl *tiles.Table, cell minimap.Cell, c *cellChange) (minimap.Cell, string, bool) {
	orig, ok := tbl.FromID(cell.Tile)
	if !ok {
		return cell, fmt.Sprintf("unknown (current tile $%03X has no description)", cell.Tile), false
	}

	// gameplay left is storage right while the cell is mirrored
	setLeft, setRight := c.hasLeft, c.hasRight
	left, right := c.left.MapEdge(), c.right.MapEdge()
	if cell.HFlip {
		setLeft, setRight = setRight, setLeft
		left, right = right, left
	}

	desired := orig
	if setLeft {
		desired.Edges.Left = left
	}
	if setRight {
		desired.Edges.Right = right
	}

	try := func(t tiles.MapTile, hflip, vflip bool) (minimap.Cell, bool) {
		id, ok := tbl.ToID(t)
		if !ok {
			return cell, false
		}
		out := cell
		out.Tile = id
		out.HFlip = cell.HFlip != hflip
		out.VFlip = cell.VFlip != vflip
		return out, true
	}

	if out, ok := try(desired, false, false); ok {
		return out, desired.String(), true
	}
	if out, ok := try(desired.HFlip(), true, false); ok {
		return out, desired.String(), true
	}
	if out, ok := try(desired.VFlip(), false, true); ok {
		return out, desired.String(), true
	}
	if out, ok := try(desired.HFlip().VFlip(), true, true); ok {
		return out, desired.String(), true
	}

	// fall back to plain doors on the requested sides that had doors before
	degraded := desired
	if setLeft && orig.Edges.Left.IsDoor() {
		degraded.Edges.Left = tiles.EdgeDoor
	}
	if setRight && orig.Edges.Right.IsDoor() {
		degraded.Edges.Right = tiles.EdgeDoor
	}
	if out, ok := try(degraded, false, false); ok {
		return out, desired.String(), true
	}
	return cell, desired.String(), false
}
