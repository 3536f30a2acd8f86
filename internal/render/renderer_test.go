package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/park285/Cheese-ClickChess/internal/engine"
)

func centerOf(sq engine.Square, l layout) image.Point {
	r := squareRect(sq, l.square, l.origin())
	return image.Pt(r.Min.X+l.square/2, r.Min.Y+l.square/2)
}

func sameRGBA(a color.Color, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestRenderPNGStartingBoard(t *testing.T) {
	r := NewPNGRenderer()
	data, err := r.RenderPNG(context.Background(), engine.StartingBoard(), Options{SquareSize: 40, HUDHeader: "room", HUDTurn: "white to move"})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	l := newLayout(40)
	w, h := l.size()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("unexpected size %v, want %dx%d", img.Bounds(), w, h)
	}

	// a6 light, b6 dark, both empty
	if p := centerOf(engine.Sq(2, 0), l); !sameRGBA(img.At(p.X, p.Y), lightSquare) {
		t.Fatalf("a6 should be light, got %v", img.At(p.X, p.Y))
	}
	if p := centerOf(engine.Sq(2, 1), l); !sameRGBA(img.At(p.X, p.Y), darkSquare) {
		t.Fatalf("b6 should be dark, got %v", img.At(p.X, p.Y))
	}
}

func TestPiecesAreDrawn(t *testing.T) {
	r := NewPNGRenderer()
	ctx := context.Background()
	withPieces, err := r.Render(ctx, engine.StartingBoard(), Options{SquareSize: 32})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	empty, err := r.Render(ctx, engine.EmptyBoard(), Options{SquareSize: 32})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	l := newLayout(32)
	rect := squareRect(engine.Sq(7, 4), l.square, l.origin()) // e1 king
	diff := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if withPieces.RGBAAt(x, y) != empty.RGBAAt(x, y) {
				diff++
			}
		}
	}
	if diff == 0 {
		t.Fatalf("king square identical to empty board")
	}
}

func TestSelectionAndTargetsChangePixels(t *testing.T) {
	r := NewPNGRenderer()
	ctx := context.Background()
	base, err := r.Render(ctx, engine.StartingBoard(), Options{SquareSize: 32})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	sel := engine.Sq(6, 4)
	marked, err := r.Render(ctx, engine.StartingBoard(), Options{
		SquareSize: 32,
		Selected:   &sel,
		Targets:    []engine.Square{engine.Sq(5, 4), engine.Sq(4, 4)},
		LastMove:   &MoveHighlight{From: engine.Sq(1, 4), To: engine.Sq(3, 4)},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	l := newLayout(32)
	for _, sq := range []engine.Square{engine.Sq(5, 4), engine.Sq(4, 4)} {
		p := centerOf(sq, l)
		if base.RGBAAt(p.X, p.Y) == marked.RGBAAt(p.X, p.Y) {
			t.Fatalf("target %s not marked", sq)
		}
	}
	corner := squareRect(sel, l.square, l.origin()).Min
	if base.RGBAAt(corner.X, corner.Y) == marked.RGBAAt(corner.X, corner.Y) {
		t.Fatalf("selected square not highlighted")
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPNGRenderer().RenderPNG(ctx, engine.StartingBoard(), Options{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestPieceCacheReuse(t *testing.T) {
	ResetPieceCache()
	t.Cleanup(ResetPieceCache)
	if err := Preload(24); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	a, err := renderPieceImage("wK", 24)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, _ := renderPieceImage("wK", 24)
	if a != b {
		t.Fatalf("expected cached image to be reused")
	}
	if _, err := renderPieceImage(engine.Empty, 24); err == nil {
		t.Fatalf("expected error for empty piece")
	}
}

func TestLoadPieceSetSanitizes(t *testing.T) {
	ResetPieceCache()
	t.Cleanup(ResetPieceCache)
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="0" y="0" width="10" height="10" style="fill: #ff0000"/></svg>`
	if err := os.WriteFile(filepath.Join(dir, "wp.svg"), []byte(svg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	n, err := LoadPieceSet(dir)
	if err != nil {
		t.Fatalf("LoadPieceSet: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 custom piece, got %d", n)
	}
	img, err := renderPieceImage("wp", 10)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r, g, b, a := img.At(5, 5).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 || a>>8 != 255 {
		t.Fatalf("custom red square not rendered: %v", img.At(5, 5))
	}
}

func TestSanitizeSVG(t *testing.T) {
	got := string(sanitizeSVG([]byte(`style="fill:000000; stroke: #fff"`)))
	if got != `style="fill:#000000; stroke:#fff"` {
		t.Fatalf("unexpected sanitize result %q", got)
	}
}
