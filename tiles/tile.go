package tiles

import "fmt"

// Edge is one side of a minimap tile. Top and bottom only ever use the plain
// edges; left and right may also hold a colored hatch.
type Edge uint8

const (
	EdgeEmpty    = Edge(iota) // open to the next cell
	EdgeWall                  // solid outline
	EdgeShortcut              // outline drawn for shortcut passages
	EdgeDoor                  // outline with a connection gap
	DoorBlue                  // level 1 hatch
	DoorGreen                 // level 2 hatch
	DoorYellow                // level 3 hatch
	DoorRed                   // level 4 hatch
)

var edgeChars = [...]byte{'x', 'W', 'S', 'D', 'B', 'G', 'Y', 'R'}

func (e Edge) String() string {
	if int(e) >= len(edgeChars) {
		return fmt.Sprintf("Edge(%d)", uint8(e))
	}
	return string(edgeChars[e])
}

// IsColor reports whether e is a colored hatch.
func (e Edge) IsColor() bool {
	return e >= DoorBlue && e <= DoorRed
}

// IsDoor reports whether e is any kind of door, plain or colored.
func (e Edge) IsDoor() bool {
	return e == EdgeDoor || e.IsColor()
}

type TileEdges struct {
	Top    Edge
	Left   Edge
	Right  Edge
	Bottom Edge
}

func (e TileEdges) String() string {
	return e.Top.String() + e.Left.String() + e.Right.String() + e.Bottom.String()
}

func (e TileEdges) HFlip() TileEdges {
	e.Left, e.Right = e.Right, e.Left
	return e
}

func (e TileEdges) VFlip() TileEdges {
	e.Top, e.Bottom = e.Bottom, e.Top
	return e
}

type TileCorners struct {
	TopLeft     bool
	TopRight    bool
	BottomLeft  bool
	BottomRight bool
}

func (c TileCorners) String() string {
	b := [4]byte{'x', 'x', 'x', 'x'}
	for i, set := range [4]bool{c.TopLeft, c.TopRight, c.BottomLeft, c.BottomRight} {
		if set {
			b[i] = 'C'
		}
	}
	return string(b[:])
}

func (c TileCorners) HFlip() TileCorners {
	return TileCorners{
		TopLeft:     c.TopRight,
		TopRight:    c.TopLeft,
		BottomLeft:  c.BottomRight,
		BottomRight: c.BottomLeft,
	}
}

func (c TileCorners) VFlip() TileCorners {
	return TileCorners{
		TopLeft:     c.BottomLeft,
		TopRight:    c.BottomRight,
		BottomLeft:  c.TopLeft,
		BottomRight: c.TopRight,
	}
}

// MapTile is the structural description of a minimap tile. It is comparable
// and used directly as a map key.
type MapTile struct {
	Edges   TileEdges
	Corners TileCorners
	Content Content
}

func (t MapTile) String() string {
	return fmt.Sprintf("%s_%s_%s", t.Edges, t.Corners, t.Content)
}

func (t MapTile) HFlip() MapTile {
	return MapTile{Edges: t.Edges.HFlip(), Corners: t.Corners.HFlip(), Content: t.Content}
}

func (t MapTile) VFlip() MapTile {
	return MapTile{Edges: t.Edges.VFlip(), Corners: t.Corners.VFlip(), Content: t.Content}
}
