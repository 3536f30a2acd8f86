package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	"github.com/park285/Cheese-ClickChess/internal/engine"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Piece images are rasterized once per (piece, size) and shared by every
// renderer in the process. ResetPieceCache drops them.

type pieceCacheKey struct {
	piece engine.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceSources = map[engine.Piece][]byte{}
	pieceCacheMu sync.RWMutex
)

// LoadPieceSet reads <code>.svg files (wp.svg, bK.svg, ...) from dir and
// uses them in place of the built-in shapes. Missing files keep the
// built-in shape.
func LoadPieceSet(dir string) (int, error) {
	loaded := make(map[engine.Piece][]byte)
	for _, p := range engine.Pieces {
		path := filepath.Join(dir, string(p)+".svg")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("read piece asset %s: %w", path, err)
		}
		if _, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data))); err != nil {
			return 0, fmt.Errorf("parse piece asset %s: %w", path, err)
		}
		loaded[p] = data
	}

	pieceCacheMu.Lock()
	for p, data := range loaded {
		pieceSources[p] = data
	}
	pieceCache = map[pieceCacheKey]image.Image{}
	pieceCacheMu.Unlock()
	return len(loaded), nil
}

// Preload rasterizes all twelve pieces at size.
func Preload(size int) error {
	for _, p := range engine.Pieces {
		if _, err := renderPieceImage(p, size); err != nil {
			return err
		}
	}
	return nil
}

// ResetPieceCache forgets rasterized images and loaded piece sets.
func ResetPieceCache() {
	pieceCacheMu.Lock()
	pieceCache = map[pieceCacheKey]image.Image{}
	pieceSources = map[engine.Piece][]byte{}
	pieceCacheMu.Unlock()
}

func renderPieceImage(piece engine.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	data, custom := pieceSources[piece]
	pieceCacheMu.RUnlock()

	if !custom {
		var err error
		if data, err = builtinPieceSVG(piece); err != nil {
			return nil, err
		}
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", piece, err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

// Built-in shapes on a 45x45 canvas; fill and stroke depend on side.
var pieceShapes = map[engine.PieceKind]string{
	engine.Pawn: `<circle cx="22.5" cy="15" r="6"/>
<path d="M 13 38 L 32 38 L 29 33 L 26 24 L 19 24 L 16 33 Z"/>`,
	engine.Rook: `<path d="M 11 38 L 34 38 L 34 34 L 31 34 L 31 17 L 34 17 L 34 10 L 30 10 L 30 13 L 26 13 L 26 10 L 19 10 L 19 13 L 15 13 L 15 10 L 11 10 L 11 17 L 14 17 L 14 34 L 11 34 Z"/>`,
	engine.Knight: `<path d="M 12 38 L 34 38 L 33 30 L 31 20 L 27 12 L 21 9 L 20 12 L 16 16 L 10 24 L 12 27 L 18 24 L 21 25 L 15 33 Z"/>
<circle cx="21" cy="15" r="1.5"/>`,
	engine.Bishop: `<path d="M 12 38 L 33 38 L 30 34 L 15 34 Z"/>
<path d="M 22.5 8 L 30 20 L 28 31 L 17 31 L 15 20 Z"/>
<circle cx="22.5" cy="7" r="2.5"/>`,
	engine.Queen: `<path d="M 10 38 L 35 38 L 33 32 L 36 14 L 29 25 L 26 11 L 22.5 24 L 19 11 L 16 25 L 9 14 L 12 32 Z"/>
<circle cx="9" cy="12" r="2"/><circle cx="19" cy="9" r="2"/><circle cx="26" cy="9" r="2"/><circle cx="36" cy="12" r="2"/>`,
	engine.King: `<path d="M 21 5 L 24 5 L 24 9 L 28 9 L 28 12 L 24 12 L 24 16 L 21 16 L 21 12 L 17 12 L 17 9 L 21 9 Z"/>
<path d="M 11 38 L 34 38 L 32 32 L 37 22 L 30 18 L 22.5 22 L 15 18 L 8 22 L 13 32 Z"/>`,
}

func builtinPieceSVG(piece engine.Piece) ([]byte, error) {
	shape, ok := pieceShapes[piece.Kind()]
	if !ok {
		return nil, fmt.Errorf("no shape for piece %q", piece)
	}
	fill, stroke := "#ffffff", "#000000"
	if piece.Color() == engine.Black {
		fill, stroke = "#202020", "#e8e8e8"
	}
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">
<g fill="%s" stroke="%s" stroke-width="1.5" stroke-linejoin="round">
%s
</g>
</svg>`, fill, stroke, shape)
	return []byte(svg), nil
}
