package render

import (
	"image"
	"image/color"
	"io"

	"gridwraith/internal/game"

	"github.com/fogleman/gg"
)

// DefaultCellSize is the rendered size of one board cell in pixels.
const DefaultCellSize = 48

// Board renders end-of-turn snapshots of one level as raster frames.
// The terrain is fixed per level, so one Board can draw every turn of a match.
type Board struct {
	level    game.LevelConfig
	cellSize int
}

// NewBoard creates a renderer for the given level. cellSize <= 0 falls back
// to DefaultCellSize.
func NewBoard(level game.LevelConfig, cellSize int) *Board {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Board{level: level, cellSize: cellSize}
}

// PixelSize returns the frame dimensions in pixels.
func (b *Board) PixelSize() (int, int) {
	return b.level.Width * b.cellSize, b.level.Height * b.cellSize
}

// Render draws the snapshot onto a fresh context and returns the image.
func (b *Board) Render(snap game.Snapshot) image.Image {
	return b.draw(snap).Image()
}

// EncodePNG renders the snapshot and writes it as PNG.
func (b *Board) EncodePNG(w io.Writer, snap game.Snapshot) error {
	return b.draw(snap).EncodePNG(w)
}

func (b *Board) draw(snap game.Snapshot) *gg.Context {
	w, h := b.PixelSize()
	dc := gg.NewContext(w, h)

	// Background
	dc.SetColor(color.RGBA{245, 245, 250, 255})
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	// Terrain cells under the grid lines
	for _, p := range b.level.Mud {
		b.fillCell(dc, p, color.RGBA{150, 111, 51, 255})
	}
	for _, p := range b.level.Obstacles {
		b.fillCell(dc, p, color.RGBA{40, 40, 50, 255})
	}
	b.fillCell(dc, b.level.Goal, color.RGBA{240, 200, 60, 255})

	b.drawGrid(dc)

	for _, en := range snap.Enemies {
		b.drawEnemy(dc, en)
	}
	b.drawPlayer(dc, snap.Player)

	return dc
}

func (b *Board) drawGrid(dc *gg.Context) {
	w, h := b.PixelSize()
	dc.SetColor(color.RGBA{200, 200, 210, 255})
	dc.SetLineWidth(1)

	for x := 0; x <= b.level.Width; x++ {
		px := float64(x * b.cellSize)
		dc.DrawLine(px, 0, px, float64(h))
		dc.Stroke()
	}
	for y := 0; y <= b.level.Height; y++ {
		py := float64(y * b.cellSize)
		dc.DrawLine(0, py, float64(w), py)
		dc.Stroke()
	}
}

func (b *Board) drawEnemy(dc *gg.Context, en game.EnemySnapshot) {
	cx, cy := b.cellCenter(en.Pos)
	radius := float64(b.cellSize) * 0.35

	switch en.State {
	case game.StateDormant:
		// Outline only until something wakes it
		dc.SetColor(enemyColor(en.Color))
		dc.SetLineWidth(2)
		dc.DrawCircle(cx, cy, radius)
		dc.Stroke()

	case game.StateTrapped:
		// Shrunken disc with a mud ring
		dc.SetColor(color.RGBA{150, 111, 51, 255})
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
		dc.SetColor(enemyColor(en.Color))
		dc.DrawCircle(cx, cy, radius*0.6)
		dc.Fill()

	default:
		dc.SetColor(enemyColor(en.Color))
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
	}
}

func (b *Board) drawPlayer(dc *gg.Context, pos game.Position) {
	cx, cy := b.cellCenter(pos)
	radius := float64(b.cellSize) * 0.3

	// Drop shadow
	dc.SetColor(color.RGBA{0, 0, 0, 70})
	dc.DrawCircle(cx, cy+3, radius)
	dc.Fill()

	dc.SetColor(color.RGBA{255, 255, 255, 255})
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()
	dc.SetColor(color.RGBA{40, 40, 50, 255})
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()
}

func (b *Board) fillCell(dc *gg.Context, p game.Position, c color.Color) {
	px, py := b.cellOrigin(p)
	dc.SetColor(c)
	dc.DrawRectangle(px, py, float64(b.cellSize), float64(b.cellSize))
	dc.Fill()
}

// cellOrigin maps a board cell to its top-left pixel. Board Y grows upward
// while image Y grows downward, so rows are flipped.
func (b *Board) cellOrigin(p game.Position) (float64, float64) {
	px := float64(p.X * b.cellSize)
	py := float64((b.level.Height - 1 - p.Y) * b.cellSize)
	return px, py
}

func (b *Board) cellCenter(p game.Position) (float64, float64) {
	px, py := b.cellOrigin(p)
	half := float64(b.cellSize) / 2
	return px + half, py + half
}

func enemyColor(c game.Color) color.RGBA {
	switch c {
	case game.ColorRed:
		return color.RGBA{226, 59, 59, 255}
	case game.ColorPurple:
		return color.RGBA{141, 79, 211, 255}
	case game.ColorGreen:
		return color.RGBA{59, 178, 115, 255}
	default:
		return color.RGBA{120, 120, 130, 255}
	}
}
