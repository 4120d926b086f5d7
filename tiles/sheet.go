package tiles

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"metpatch/taskqueue"
)

// previewPalette approximates the explored minimap colors.
var previewPalette = color.Palette{
	color.RGBA{0, 0, 0, 0},
	color.RGBA{0xF8, 0xF8, 0xF8, 0xFF}, // white outline
	color.RGBA{0xC0, 0x58, 0xB0, 0xFF}, // connection
	color.RGBA{0xC0, 0x58, 0xB0, 0xFF}, // background
	color.RGBA{0x58, 0x58, 0x58, 0xFF},
	color.RGBA{0x20, 0x20, 0x28, 0xFF},
	color.RGBA{0xF8, 0xF8, 0xF8, 0xFF}, // item
	color.RGBA{0xF8, 0xE0, 0x00, 0xFF}, // letter
	color.RGBA{0x30, 0x78, 0xF8, 0xFF},
	color.RGBA{0x30, 0xC8, 0x30, 0xFF},
	color.RGBA{0xF0, 0x30, 0x30, 0xFF},
	color.RGBA{0xF8, 0xC8, 0x00, 0xFF},
	color.RGBA{0x18, 0x50, 0xC0, 0xFF},
	color.RGBA{0x18, 0x90, 0x18, 0xFF},
	color.RGBA{0xB0, 0x18, 0x18, 0xFF},
	color.RGBA{0xC0, 0x98, 0x00, 0xFF},
}

type SheetOptions struct {
	Scale   int // pixel scale of each 8x8 tile
	Columns int
	Workers int
}

func (o *SheetOptions) normalize() {
	if o.Scale < 1 {
		o.Scale = 4
	}
	if o.Columns < 1 {
		o.Columns = 16
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
}

type sheetItem struct {
	id   uint16
	tile MapTile
	at   image.Point // top left of the tile's cell
}

// Sheet renders every canonical tile of tbl into one labelled image. Tiles
// whose content has no art are left blank.
func Sheet(tbl *Table, r Renderer, opts SheetOptions, log *zap.Logger) (*image.RGBA, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts.normalize()

	tileW := 8 * opts.Scale
	cellW := tileW + 8
	if cellW < 40 {
		cellW = 40
	}
	cellH := tileW + 20

	ids := tbl.IDs()
	rows := (len(ids) + opts.Columns - 1) / opts.Columns
	g := image.NewRGBA(image.Rect(0, 0, opts.Columns*cellW, rows*cellH))
	draw.Draw(g, g.Bounds(), image.Black, image.Point{}, draw.Src)

	var skipped atomic.Int32
	// each job writes only inside its own cell
	q := taskqueue.NewQ[sheetItem](opts.Workers, 64, func(_ *taskqueue.Q[sheetItem], it sheetItem) error {
		px, err := r.Render(it.tile)
		if errors.Is(err, ErrNoArt) {
			skipped.Add(1)
			log.Debug("no art for tile", zap.String("id", fmt.Sprintf("%03X", it.id)), zap.Stringer("tile", it.tile))
			return nil
		}
		if err != nil {
			return fmt.Errorf("tile $%03X: %w", it.id, err)
		}

		src := image.NewPaletted(image.Rect(0, 0, 8, 8), previewPalette)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				src.SetColorIndex(x, y, Pixel(px, x, y))
			}
		}
		dst := image.Rect(it.at.X, it.at.Y, it.at.X+tileW, it.at.Y+tileW)
		draw.NearestNeighbor.Scale(g, dst, src, src.Bounds(), draw.Src, nil)
		return nil
	})

	for i, id := range ids {
		tile, _ := tbl.FromID(id)
		at := image.Pt((i%opts.Columns)*cellW+4, (i/opts.Columns)*cellH+2)
		q.SubmitItem(sheetItem{id: id, tile: tile, at: at})
	}
	err := q.Wait()
	q.Close()
	if err != nil {
		return nil, err
	}

	// labels overlap neighbouring cells, so draw them afterwards:
	for i, id := range ids {
		x := (i%opts.Columns)*cellW + 4
		y := (i/opts.Columns)*cellH + 2 + tileW + 14
		drawShadowedString(g, image.White, fixed.P(x, y), fmt.Sprintf("%03X", id))
	}

	log.Info("rendered tile sheet",
		zap.Int("tiles", len(ids)),
		zap.Int32("skipped", skipped.Load()),
	)
	return g, nil
}

func drawShadowedString(g draw.Image, clr image.Image, dot fixed.Point26_6, s string) {
	// shadow:
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			(&font.Drawer{
				Dst:  g,
				Src:  image.Black,
				Face: inconsolata.Regular8x16,
				Dot:  fixed.Point26_6{X: dot.X + fixed.I(ox), Y: dot.Y + fixed.I(oy)},
			}).DrawString(s)
		}
	}

	(&font.Drawer{
		Dst:  g,
		Src:  clr,
		Face: inconsolata.Regular8x16,
		Dot:  dot,
	}).DrawString(s)
}

// ExportPNG writes g to name.
func ExportPNG(name string, g image.Image) (err error) {
	var po *os.File

	po, err = os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer func() {
		if cerr := po.Close(); err == nil {
			err = cerr
		}
	}()

	bo := bufio.NewWriterSize(po, 1024*1024)
	if err = png.Encode(bo, g); err != nil {
		return
	}
	return bo.Flush()
}
