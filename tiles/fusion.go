package tiles

// short names for the tables below
const (
	eX = EdgeEmpty
	eW = EdgeWall
	eS = EdgeShortcut
	eD = EdgeDoor
	cB = DoorBlue
	cG = DoorGreen
	cY = DoorYellow
	cR = DoorRed
)

func mk(top, left, right, bottom Edge) MapTile {
	return MapTile{Edges: TileEdges{Top: top, Left: left, Right: right, Bottom: bottom}}
}

func (t MapTile) tr() MapTile { t.Corners.TopRight = true; return t }
func (t MapTile) bl() MapTile { t.Corners.BottomLeft = true; return t }
func (t MapTile) br() MapTile { t.Corners.BottomRight = true; return t }

func (t MapTile) with(c Content) MapTile { t.Content = c; return t }

const rowSize = 0x20

type colorPair struct{ left, right Edge }

var colorPairs = [...]colorPair{
	{cB, cG},
	{cB, cR},
	{cB, cY},
	{cG, cR},
	{cG, cY},
	{cR, cY},
}

// each hatch color has a 5x5 block of tiles along the top of the tile set
var colorBatches = [...]struct {
	color Edge
	start uint16
}{
	{cB, 0x005},
	{cG, 0x00A},
	{cR, 0x00F},
	{cY, 0x014},
}

type tileEntry struct {
	offset uint16
	tile   MapTile
}

func basicColorTiles(c Edge) []tileEntry {
	const r = rowSize
	return []tileEntry{
		{r*0 + 0, mk(eW, c, eX, eX)},
		{r*0 + 1, mk(eD, c, eX, eX)},
		{r*0 + 2, mk(eD, c, eX, eX).br()},
		{r*0 + 3, mk(eD, c, c, eD)},
		{r*0 + 4, mk(eD, c, c, eX)},
		{r*1 + 0, mk(eX, c, eX, eX)},
		{r*1 + 1, mk(eX, c, eX, eX).tr().br()},
		{r*1 + 2, mk(eD, c, eW, eD)},
		{r*1 + 3, mk(eD, c, eD, eX)},
		{r*1 + 4, mk(eD, c, c, eW)},
		{r*2 + 0, mk(eW, c, eX, eW)},
		{r*2 + 1, mk(eD, c, eX, eD)},
		{r*2 + 2, mk(eD, c, eX, eW)},
		{r*2 + 3, mk(eW, c, eW, eW)},
		{r*2 + 4, mk(eW, c, c, eW)},
		{r*3 + 0, mk(eD, c, eW, eX)},
		{r*3 + 1, mk(eW, c, eD, eX)},
		{r*3 + 3, mk(eW, c, eW, eX)},
		{r*3 + 4, mk(eW, c, c, eX)},
		{r*4 + 0, mk(eD, c, eW, eW)},
		{r*4 + 1, mk(eX, c, eD, eX)},
		{r*4 + 3, mk(eX, c, eW, eX)},
		{r*4 + 4, mk(eX, c, c, eX)},
	}
}

// special rooms have one tile per hatch side plus one with both
func specialRoomTiles(b *Builder, start uint16, c Edge, content Content) {
	b.Add(start+0, mk(eW, c, eW, eW).with(content))
	b.Add(start+1, mk(eW, eW, c, eW).with(content))
	b.Add(start+2, mk(eW, c, c, eW).with(content))
}

func addFusionColored(b *Builder) {
	// row 0 column 2 of the green, red and yellow blocks repeats a row 7
	// tile; the row 7 id is canonical
	type alias struct {
		id   uint16
		tile MapTile
	}
	var aliases []alias

	for _, batch := range colorBatches {
		for _, e := range basicColorTiles(batch.color) {
			if e.offset == 2 && batch.color != cB {
				aliases = append(aliases, alias{batch.start + e.offset, e.tile})
				continue
			}
			b.Add(batch.start+e.offset, e.tile)
		}
	}

	// the 6x5 block near the top right
	for row, tb := range [...][2]Edge{{eD, eX}, {eD, eW}, {eW, eW}, {eW, eX}, {eX, eX}} {
		for col, p := range colorPairs {
			b.Add(0x019+uint16(row*rowSize+col), mk(tb[0], p.left, p.right, tb[1]))
		}
	}

	// the 1x5 block at the top right, plus the pair that didn't fit
	for i, p := range colorPairs[:len(colorPairs)-1] {
		b.Add(0x01F+uint16(i*rowSize), mk(eD, p.left, p.right, eD))
	}
	last := colorPairs[len(colorPairs)-1]
	b.Add(0x096, mk(eD, last.left, last.right, eD))

	for _, batch := range colorBatches {
		start := rowSize*7 + batch.start
		if batch.color != cB {
			b.Add(start, mk(eD, batch.color, eX, eX).br())
		}
		b.Add(start+1, mk(eW, eD, batch.color, eW))
		b.Add(start+2, mk(eD, eD, batch.color, eW))
		b.Add(start+3, mk(eD, eD, batch.color, eD))
	}
	b.Add(0x0F8, mk(eW, cY, eX, eX).br())
	b.Add(0x06C, mk(eW, cG, eX, eX).br())

	for i, batch := range colorBatches {
		off := uint16(i * 3)
		specialRoomTiles(b, 0x140+off, batch.color, ContentRecharge)
		specialRoomTiles(b, 0x14C+off, batch.color, ContentNavigation)
		specialRoomTiles(b, 0x160+off, batch.color, ContentData)
	}

	b.Add(0x128, mk(eW, cR, eD, eW).with(ContentRecharge))
	b.Add(0x15E, mk(eW, eD, cY, eW).with(ContentRecharge))
	b.Add(0x17E, mk(eW, cR, cR, eW).with(ContentSave))
	b.Add(0x17F, mk(eW, cY, eD, eW).with(ContentSave))
	b.Add(0x198, mk(eW, cB, eW, eW).with(ContentItem))
	b.Add(0x199, mk(eW, cB, eW, eW).with(ContentObtainedItem))
	b.Add(0x19E, mk(eW, cG, eW, eW).with(ContentItem))
	b.Add(0x19F, mk(eW, cG, eW, eW).with(ContentObtainedItem))
	b.Add(0x1AC, mk(eW, cY, cY, eW).with(ContentItem))
	b.Add(0x1AD, mk(eW, cY, cY, eW).with(ContentObtainedItem))

	for _, a := range aliases {
		b.Alias(a.id, a.tile)
	}
}

var fusionNormal = [...]tileEntry{
	{0x000, mk(eW, eW, eX, eX)},
	{0x001, mk(eW, eX, eX, eX)},
	{0x002, mk(eD, eW, eX, eX)},
	{0x003, mk(eD, eX, eX, eX)},
	{0x004, mk(eD, eW, eX, eX).br()},
	{0x020, mk(eX, eW, eX, eX)},
	{0x021, mk(eX, eD, eX, eX)},
	{0x022, mk(eW, eX, eX, eX).bl().br()},
	{0x023, mk(eX, eW, eX, eX).tr().br()},
	{0x024, mk(eD, eW, eW, eD)},
	{0x040, mk(eW, eW, eX, eW)},
	{0x041, mk(eW, eX, eX, eW)},
	{0x042, mk(eD, eW, eX, eD)},
	{0x043, mk(eD, eW, eX, eW)},
	{0x044, mk(eD, eX, eX, eD)},
	{0x060, mk(eD, eW, eW, eX)},
	{0x061, mk(eW, eD, eW, eX)},
	{0x062, mk(eW, eD, eD, eX)},
	{0x063, mk(eW, eW, eW, eX)},
	{0x064, mk(eD, eX, eX, eW)},
	{0x080, mk(eD, eW, eW, eW)},
	{0x081, mk(eX, eD, eW, eX)},
	{0x082, mk(eX, eD, eD, eX)},
	{0x083, mk(eX, eW, eW, eX)},
	{0x084, mk(eW, eD, eD, eW)},
	{0x087, mk(eW, eW, eW, eW)},
	{0x0B4, mk(eW, eS, eD, eW).with(ContentItem)},
	{0x0B6, mk(eW, eS, eD, eW)},
	{0x0E0, mk(eD, eD, eX, eW)},
	{0x0E1, mk(eD, eD, eX, eD)},
	{0x0E2, mk(eD, eD, eW, eX)},
	{0x0E3, mk(eD, eD, eD, eX)},
	{0x0E4, mk(eW, eW, eX, eX).br()},
	{0x0E5, mk(eX, eW, eX, eX).br()},
	{0x100, mk(eD, eX, eX, eX).bl().br()},
	{0x101, mk(eX, eD, eX, eX).tr().br()},
	{0x102, mk(eD, eD, eX, eX).br()},
	{0x104, mk(eW, eD, eX, eX).br()},
	{0x105, mk(eX, eD, eX, eX).tr()},
	{0x108, mk(eX, eX, eD, eW).with(ContentBoss)},
	{0x109, mk(eW, eD, eX, eW).with(ContentBoss)},
	{0x10D, mk(eX, eX, eD, eX).with(ContentBoss)},
	{0x10F, mk(eX, eD, eX, eW).with(ContentBoss)},
	{0x120, mk(eD, eD, eW, eW)},
	{0x121, mk(eD, eD, eD, eW)},
	{0x122, mk(eD, eD, eW, eD)},
	{0x123, mk(eD, eD, eD, eD)},
	{0x124, mk(eW, eD, eW, eW)},
	{0x125, mk(eW, eD, eX, eX)},
	{0x126, mk(eX, eX, eX, eX)},
	{0x127, mk(eW, eX, eX, eX).br()},
	{0x129, mk(eW, eD, eX, eW).with(ContentGunshipEdge)},
	{0x12A, mk(eW, eX, eW, eW).with(ContentGunship)},
	{0x12B, mk(eW, eD, eX, eW)},
	{0x12C, mk(eD, eD, eX, eX)},
	{0x138, mk(eW, eD, eW, eW).with(ContentHiddenRecharge)},
	{0x139, mk(eW, eW, eD, eW).with(ContentHiddenRecharge)},
	{0x13A, mk(eW, eD, eD, eW).with(ContentHiddenRecharge)},
	{0x158, mk(eW, eD, eW, eW).with(ContentRecharge)},
	{0x159, mk(eW, eW, eD, eW).with(ContentRecharge)},
	{0x15A, mk(eW, eD, eD, eW).with(ContentRecharge)},
	{0x15B, mk(eW, eD, eW, eW).with(ContentData)},
	{0x15C, mk(eW, eW, eD, eW).with(ContentData)},
	{0x15D, mk(eW, eD, eD, eW).with(ContentData)},
	{0x178, mk(eW, eD, eW, eW).with(ContentNavigation)},
	{0x179, mk(eW, eW, eD, eW).with(ContentNavigation)},
	{0x17A, mk(eW, eD, eD, eW).with(ContentNavigation)},
	{0x17B, mk(eW, eD, eW, eW).with(ContentSave)},
	{0x17C, mk(eW, eW, eD, eW).with(ContentSave)},
	{0x17D, mk(eW, eD, eD, eW).with(ContentSave)},
	{0x180, mk(eW, eD, eW, eW).with(ContentItem)},
	{0x181, mk(eW, eD, eW, eW).with(ContentObtainedItem)},
	{0x182, mk(eW, eW, eX, eW).with(ContentItem)},
	{0x183, mk(eW, eW, eX, eW).with(ContentObtainedItem)},
	{0x184, mk(eW, eD, eD, eW).with(ContentItem)},
	{0x185, mk(eW, eD, eD, eW).with(ContentObtainedItem)},
	{0x186, mk(eW, eW, eX, eX).with(ContentItem)},
	{0x187, mk(eW, eW, eX, eX).with(ContentObtainedItem)},
	{0x188, mk(eW, eD, eX, eW).with(ContentItem)},
	{0x189, mk(eW, eD, eX, eW).with(ContentObtainedItem)},
	{0x18A, mk(eX, eW, eX, eX).with(ContentItem)},
	{0x18B, mk(eX, eW, eX, eX).with(ContentObtainedItem)},
	{0x18C, mk(eX, eD, eX, eX).with(ContentItem)},
	{0x18D, mk(eX, eD, eX, eX).with(ContentObtainedItem)},
	{0x18E, mk(eW, eD, eX, eX).with(ContentItem)},
	{0x18F, mk(eW, eD, eX, eX).with(ContentObtainedItem)},
	{0x190, mk(eW, eX, eX, eX).with(ContentItem)},
	{0x191, mk(eW, eX, eX, eX).with(ContentObtainedItem)},
	{0x192, mk(eW, eX, eX, eW).with(ContentItem)},
	{0x193, mk(eW, eX, eX, eW).with(ContentObtainedItem)},
	{0x194, mk(eW, eW, eW, eX).with(ContentItem)},
	{0x195, mk(eW, eW, eW, eX).with(ContentObtainedItem)},
	{0x196, mk(eD, eD, eD, eW).with(ContentItem)},
	{0x197, mk(eD, eD, eD, eW).with(ContentObtainedItem)},
	{0x19A, mk(eX, eD, eD, eW).with(ContentItem)},
	{0x19B, mk(eX, eD, eD, eW).with(ContentObtainedItem)},
	{0x19C, mk(eW, eW, eD, eX).with(ContentItem)},
	{0x19D, mk(eW, eW, eD, eX).with(ContentObtainedItem)},
	{0x1A0, mk(eX, eW, eW, eD).with(ContentItem)},
	{0x1A1, mk(eX, eW, eW, eD).with(ContentObtainedItem)},
	{0x1A2, mk(eW, eW, eW, eD).with(ContentItem)},
	{0x1A3, mk(eW, eW, eW, eD).with(ContentObtainedItem)},
	{0x1A4, mk(eX, eX, eX, eX).with(ContentItem)},
	{0x1A5, mk(eX, eX, eX, eX).with(ContentObtainedItem)},
	{0x1A6, mk(eW, eW, eX, eD).with(ContentItem)},
	{0x1A7, mk(eW, eW, eX, eD).with(ContentObtainedItem)},
	{0x1A8, mk(eX, eW, eW, eX).with(ContentItem)},
	{0x1A9, mk(eX, eW, eW, eX).with(ContentObtainedItem)},
	{0x1AA, mk(eD, eD, eW, eW).with(ContentItem)},
	{0x1AB, mk(eD, eD, eW, eW).with(ContentObtainedItem)},
}

func buildFusion() *Builder {
	b := NewBuilder()
	addFusionColored(b)
	for _, e := range fusionNormal {
		b.Add(e.offset, e.tile)
	}
	// 0x103 draws the same tile as 0x004
	b.Alias(0x103, mk(eD, eW, eX, eX).br())
	return b
}

// Fusion is the canonical door tile table of Metroid Fusion's minimaps.
var Fusion = mustBuild(buildFusion())
