package tiles

import (
	"errors"
	"fmt"
)

// Palette indices of the minimap tile graphics.
const (
	ColorWhiteOutline = 1 // walls, and boss icons that stay visible
	ColorConnectionBG = 2 // door gaps; boss icons that disappear when explored
	ColorBG           = 3
	ColorBlankOutline = 4
	ColorBlankBG      = 5
	ColorWhiteItem    = 6
	ColorYellowLetter = 7

	// edge colors turn white while the tile is unexplored
	ColorBlueEdge   = 8
	ColorGreenEdge  = 9
	ColorRedEdge    = 10
	ColorYellowEdge = 11

	// hidden colors turn gray while the tile is unexplored
	hiddenOffset      = 4
	ColorBlueHidden   = ColorBlueEdge + hiddenOffset
	ColorGreenHidden  = ColorGreenEdge + hiddenOffset
	ColorRedHidden    = ColorRedEdge + hiddenOffset
	ColorYellowHidden = ColorYellowEdge + hiddenOffset
)

// TileSize is the size of one 8x8 4bpp tile.
const TileSize = 32

var (
	ErrNoDoorSide = errors.New("tunnel tile has no door side")
	ErrNoArt      = errors.New("no art for tile content")
)

// HatchStyle selects how colored hatches are drawn.
type HatchStyle uint8

const (
	HatchFusion HatchStyle = iota
	HatchZeroMission
)

// Renderer draws minimap tiles.
type Renderer struct {
	Hatch HatchStyle
}

// Render draws t in the Fusion style.
func Render(t MapTile) ([TileSize]byte, error) {
	return Renderer{}.Render(t)
}

type side uint8

const (
	sideTop side = iota
	sideLeft
	sideRight
	sideBottom
)

// gfx is a 4bpp tile; even x pixels live in the low nibble.
type gfx [TileSize]byte

func (g *gfx) set(color uint8, x, y int) {
	i := (y*8 + x) / 2
	if x&1 == 0 {
		g[i] = g[i]&0xF0 | color
	} else {
		g[i] = g[i]&0x0F | color<<4
	}
}

// Pixel returns the palette index at (x, y) of a rendered tile.
func Pixel(b [TileSize]byte, x, y int) uint8 {
	v := b[(y*8+x)/2]
	if x&1 == 0 {
		return v & 0xF
	}
	return v >> 4
}

func edgeColor(e Edge) uint8 {
	switch e {
	case DoorBlue:
		return ColorBlueEdge
	case DoorGreen:
		return ColorGreenEdge
	case DoorYellow:
		return ColorYellowEdge
	case DoorRed:
		return ColorRedEdge
	}
	return 0
}

func (r Renderer) Render(t MapTile) ([TileSize]byte, error) {
	var g gfx
	for i := range g {
		g[i] = ColorBG<<4 | ColorBG
	}

	if t.Content == ContentTunnel {
		if err := g.tunnel(t.Edges); err != nil {
			return g, fmt.Errorf("%s: %w", t, err)
		}
		return g, nil
	}

	if t.Corners.TopLeft {
		g.set(ColorWhiteOutline, 0, 0)
	}
	if t.Corners.TopRight {
		g.set(ColorWhiteOutline, 7, 0)
	}
	if t.Corners.BottomLeft {
		g.set(ColorWhiteOutline, 0, 7)
	}
	if t.Corners.BottomRight {
		g.set(ColorWhiteOutline, 7, 7)
	}

	for s, e := range [4]Edge{t.Edges.Top, t.Edges.Left, t.Edges.Right, t.Edges.Bottom} {
		switch {
		case e == EdgeWall:
			g.wall(side(s))
		case e == EdgeDoor:
			g.connection(side(s))
		case e.IsColor():
			if r.Hatch == HatchZeroMission {
				g.hatchZM(edgeColor(e), side(s))
			} else {
				g.hatch(edgeColor(e), side(s))
			}
		}
	}

	if t.Content.hasRedOutline() {
		g.redOutline(t.Edges)
	}

	switch t.Content {
	case ContentEmpty, ContentEmptyRedWalls:
	case ContentNavigation:
		g.art(ColorYellowLetter, artNavigation)
	case ContentSave:
		g.art(ColorYellowLetter, artSave)
	case ContentRecharge:
		g.art(ColorYellowLetter, artRecharge)
	case ContentHiddenRecharge:
		g.art(ColorYellowHidden, artRecharge)
	case ContentData:
		g.art(ColorYellowLetter, artData)
	case ContentSecurity:
		g.art(ColorYellowLetter, artSecurity)
	case ContentAuxiliaryPower:
		g.art(ColorYellowLetter, artAuxiliary)
	case ContentMap:
		g.art(ColorYellowLetter, artMap)
	case ContentItem:
		g.art(ColorWhiteItem, artItem)
	case ContentObtainedItem:
		for _, p := range [4][2]int{{3, 3}, {3, 4}, {4, 3}, {4, 4}} {
			g.set(ColorWhiteItem, p[0], p[1])
		}
	case ContentMajorItem:
		g.coloredArt(artMajor)
	case ContentChozoStatue:
		g.coloredArt(artChozo)
	case ContentBossRightDownloaded:
		g.boss(ColorConnectionBG, 2, 1)
	case ContentBossBottomLeftExplored:
		g.boss(ColorWhiteItem, 0, 2)
	case ContentBossTopLeftDownloaded:
		g.boss(ColorConnectionBG, 0, 0)
	case ContentBossLeftExplored:
		g.boss(ColorWhiteItem, 0, 1)
	case ContentBossTopRightBoth:
		g.boss(ColorWhiteOutline, 2, 0)
	case ContentBossTopRightExplored:
		g.boss(ColorWhiteItem, 2, 0)
	case ContentGunshipEdge:
		g.set(ColorYellowLetter, 7, 5)
	default:
		return g, fmt.Errorf("%s: %w", t, ErrNoArt)
	}

	return g, nil
}

func (g *gfx) wall(s side) {
	n := 7
	if s == sideTop || s == sideLeft {
		n = 0
	}
	for i := 0; i < 8; i++ {
		if s == sideTop || s == sideBottom {
			g.set(ColorWhiteOutline, i, n)
		} else {
			g.set(ColorWhiteOutline, n, i)
		}
	}
}

// gapPixels are the two outline pixels a door opens on each side.
var gapPixels = [4][2][2]int{
	sideTop:    {{3, 0}, {4, 0}},
	sideLeft:   {{0, 3}, {0, 4}},
	sideRight:  {{7, 3}, {7, 4}},
	sideBottom: {{3, 7}, {4, 7}},
}

func (g *gfx) connection(s side) {
	g.wall(s)
	for _, p := range gapPixels[s] {
		g.set(ColorConnectionBG, p[0], p[1])
	}
}

// hatch draws a Fusion hatch: the gap in the edge color and a 4 pixel bar of
// the hidden color just inside it. Only left and right sides hold hatches.
func (g *gfx) hatch(color uint8, s side) {
	g.wall(s)
	if s != sideLeft && s != sideRight {
		return
	}
	for _, p := range gapPixels[s] {
		g.set(color, p[0], p[1])
	}
	x := 1
	if s == sideRight {
		x = 6
	}
	for y := 2; y < 6; y++ {
		g.set(color+hiddenOffset, x, y)
	}
}

// hatchZM caps the inner bar with white pixels.
func (g *gfx) hatchZM(color uint8, s side) {
	g.hatch(color, s)
	if s != sideLeft && s != sideRight {
		return
	}
	x := 1
	if s == sideRight {
		x = 6
	}
	g.set(ColorWhiteItem, x, 2)
	g.set(ColorWhiteItem, x, 5)
}

func (g *gfx) redOutline(e TileEdges) {
	if e.Top == EdgeWall {
		for x := 1; x < 7; x++ {
			g.set(ColorRedEdge, x, 0)
		}
	}
	if e.Bottom == EdgeWall {
		for x := 1; x < 7; x++ {
			g.set(ColorRedEdge, x, 7)
		}
	}
	for _, y := range [4]int{0, 1, 6, 7} {
		g.set(ColorRedEdge, 0, y)
		g.set(ColorRedEdge, 7, y)
	}

	// walls turn red; anything else loses its inner hatch pixels
	for _, lr := range [2]struct {
		edge  Edge
		x, in int
	}{{e.Left, 0, 1}, {e.Right, 7, 6}} {
		for y := 2; y < 6; y++ {
			if lr.edge == EdgeWall {
				g.set(ColorRedEdge, lr.x, y)
			} else {
				g.set(ColorBG, lr.in, y)
			}
		}
	}
}

// art draws a monochrome glyph; '#' is color, '-' is background.
func (g *gfx) art(color uint8, rows [8]string) {
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '#':
				g.set(color, x, y)
			case '-':
				g.set(ColorBG, x, y)
			}
		}
	}
}

// coloredArt draws a glyph whose cells are hex palette indices.
func (g *gfx) coloredArt(rows [8]string) {
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			c := row[x]
			switch {
			case c == '.':
			case c == '-':
				g.set(ColorBG, x, y)
			case c >= '0' && c <= '9':
				g.set(c-'0', x, y)
			case c >= 'A' && c <= 'F':
				g.set(c-'A'+10, x, y)
			}
		}
	}
}

// boss draws the 6x6 boss skull offset from the top left corner.
func (g *gfx) boss(color uint8, dx, dy int) {
	for y, row := range artBoss {
		for x := 0; x < len(row); x++ {
			if row[x] == '#' {
				g.set(color, x+dx, y+dy)
			}
		}
	}
}

// tunnel draws the arrow glyph pointing away from the door side, with the
// door's hatch color on the door pixels.
func (g *gfx) tunnel(e TileEdges) error {
	var door Edge
	x := 0
	switch {
	case e.Left.IsDoor():
		g.coloredArt(artTunnel)
		door = e.Left
	case e.Right.IsDoor():
		var mirrored [8]string
		for i, row := range artTunnel {
			b := []byte(row)
			for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
				b[l], b[r] = b[r], b[l]
			}
			mirrored[i] = string(b)
		}
		g.coloredArt(mirrored)
		door = e.Right
		x = 7
	default:
		return ErrNoDoorSide
	}

	if door.IsColor() {
		g.set(edgeColor(door), x, 3)
		g.set(edgeColor(door), x, 4)
	}
	return nil
}

var (
	artItem = [8]string{
		"........",
		"........",
		"...##...",
		"..#..#..",
		"..#..#..",
		"...##...",
		"........",
		"........",
	}
	artNavigation = [8]string{
		"........",
		"........",
		"..#..#..",
		"..##.#..",
		"..#.##..",
		"..#..#..",
		"........",
		"........",
	}
	artSave = [8]string{
		"........",
		"........",
		"...###..",
		"..#.....",
		"...##...",
		".....#..",
		"..###...",
		"........",
	}
	artRecharge = [8]string{
		"........",
		"........",
		"..###...",
		"..#..#..",
		"..###...",
		"..#..#..",
		"........",
		"........",
	}
	artData = [8]string{
		"........",
		"........",
		"..###...",
		"..#..#..",
		"..#..#..",
		"..###...",
		"........",
		"........",
	}
	artSecurity = [8]string{
		"........",
		"........",
		"..#.#...",
		"..##....",
		"..#.#...",
		"..#.#...",
		"........",
		"........",
	}
	artAuxiliary = [8]string{
		"........",
		"........",
		".-#.#...",
		".-.#....",
		".-#.#...",
		".-#.#...",
		"........",
		"........",
	}
	artMap = [8]string{
		"........",
		"........",
		".#...#..",
		".##.##..",
		".#.#.#..",
		".#...#..",
		"........",
		"........",
	}
	artBoss = [6]string{
		".#..#.",
		".####.",
		"######",
		"#.##.#",
		".####.",
		".#..#.",
	}
	artTunnel = [8]string{
		"44444444",
		"45551554",
		"11151154",
		"45551114",
		"45551154",
		"11151554",
		"45555554",
		"44444444",
	}
	artMajor = [8]string{
		"........",
		"...66...",
		".-6CC6-.",
		".6C6CC6.",
		".6CCCC6.",
		".-6CC6-.",
		"...66...",
		"........",
	}
	artChozo = [8]string{
		"........",
		"..666...",
		".6EEE6-.",
		".EE6EE6.",
		".EEEEE6.",
		".E6EEE6.",
		".66EEE6.",
		"........",
	}
)
