package render

import (
	"bytes"
	"testing"

	"gridwraith/internal/game"
)

// TestBoardPixelSize tests cell-to-pixel sizing
func TestBoardPixelSize(t *testing.T) {
	level := game.DefaultLevel()
	b := NewBoard(level, 16)

	w, h := b.PixelSize()
	if w != level.Width*16 || h != level.Height*16 {
		t.Errorf("Expected %dx%d, got %dx%d", level.Width*16, level.Height*16, w, h)
	}

	// Zero cell size falls back to the default
	b = NewBoard(level, 0)
	w, _ = b.PixelSize()
	if w != level.Width*DefaultCellSize {
		t.Errorf("Expected default cell size, got width %d", w)
	}
}

// TestBoardRender tests drawing a snapshot with every entity kind
func TestBoardRender(t *testing.T) {
	level := game.DefaultLevel()
	b := NewBoard(level, 16)

	snap := game.Snapshot{
		Player: game.Position{X: 0, Y: 0},
		Enemies: []game.EnemySnapshot{
			{ID: 0, Pos: game.Position{X: 4, Y: 0}, Color: game.ColorRed, State: game.StateActive},
			{ID: 1, Pos: game.Position{X: 0, Y: 4}, Color: game.ColorGreen, State: game.StateTrapped, TrappedTurns: 1},
			{ID: 2, Pos: game.Position{X: 2, Y: 2}, Color: game.ColorPurple, State: game.StateDormant},
		},
		LiveCount: 3,
	}

	img := b.Render(snap)
	bounds := img.Bounds()
	if bounds.Dx() != 80 || bounds.Dy() != 80 {
		t.Errorf("Expected 80x80 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

// TestBoardEncodePNG tests PNG encoding
func TestBoardEncodePNG(t *testing.T) {
	b := NewBoard(game.DefaultLevel(), 8)

	var buf bytes.Buffer
	if err := b.EncodePNG(&buf, game.Snapshot{Player: game.Position{X: 1, Y: 1}}); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Encoded PNG is empty")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("Missing PNG magic, got % x", buf.Bytes()[:4])
	}
}
