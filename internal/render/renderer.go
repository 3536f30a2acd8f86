// Package render draws an engine board as a PNG image.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/park285/Cheese-ClickChess/internal/engine"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MoveHighlight marks the last move played.
type MoveHighlight struct {
	From engine.Square
	To   engine.Square
}

type Options struct {
	// SquareSize in pixels; DefaultSquareSize when zero.
	SquareSize int
	// Selected is the square picked by the first click, if any.
	Selected *engine.Square
	// Targets are destinations reachable from Selected.
	Targets   []engine.Square
	LastMove  *MoveHighlight
	HUDHeader string
	HUDTurn   string
}

const DefaultSquareSize = 64

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board engine.Board, opts Options) ([]byte, error)
	Render(ctx context.Context, board engine.Board, opts Options) (*image.RGBA, error)
}

type pngBoardRenderer struct {
	face font.Face
}

func NewPNGRenderer() BoardRenderer {
	return &pngBoardRenderer{face: basicfont.Face7x13}
}

// layout is derived from the square size.
type layout struct {
	square      int
	board       int
	sideMargin  int
	topMargin   int
	bottomMarg  int
	hudHeight   int
	panelRadius int
}

func newLayout(squareSize int) layout {
	if squareSize <= 0 {
		squareSize = DefaultSquareSize
	}
	l := layout{
		square:      squareSize,
		board:       squareSize * engine.BoardSize,
		sideMargin:  squareSize / 2,
		bottomMarg:  squareSize / 2,
		hudHeight:   squareSize / 2,
		panelRadius: squareSize / 8,
	}
	l.topMargin = l.hudHeight + squareSize/2
	return l
}

func (l layout) size() (int, int) {
	return l.board + l.sideMargin*2, l.board + l.topMargin + l.bottomMarg
}

func (l layout) origin() image.Point { return image.Point{X: l.sideMargin, Y: l.topMargin} }

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, board engine.Board, opts Options) ([]byte, error) {
	img, err := r.Render(ctx, board, opts)
	if err != nil {
		return nil, err
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func (r *pngBoardRenderer) Render(ctx context.Context, board engine.Board, opts Options) (*image.RGBA, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	l := newLayout(opts.SquareSize)
	w, h := l.size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	origin := l.origin()
	boardRect := image.Rect(origin.X, origin.Y, origin.X+l.board, origin.Y+l.board)

	drawBoardShadow(img, boardRect)
	drawSquares(img, l.square, origin)
	if opts.Selected != nil && opts.Selected.Valid() {
		drawSquareOverlay(img, *opts.Selected, l.square, origin, selectedColor)
	}
	if err := drawPieces(img, &board, l.square, origin); err != nil {
		return nil, err
	}
	for _, sq := range opts.Targets {
		if sq.Valid() {
			drawTargetMarker(img, &board, sq, l.square, origin)
		}
	}
	if hl := opts.LastMove; hl != nil && hl.From.Valid() && hl.To.Valid() {
		drawArrow(img, hl.From, hl.To, l.square, origin, lastMoveArrow)
	}
	drawHUD(img, r.face, opts, boardRect, l)
	drawCoordinates(img, r.face, l.square, origin, l.sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return img, nil
}

var (
	backgroundColor     = color.RGBA{38, 36, 33, 255}
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	selectedColor       = color.NRGBA{R: 255, G: 228, B: 120, A: 150}
	targetColor         = color.NRGBA{R: 40, G: 40, B: 40, A: 110}
	captureTargetColor  = color.NRGBA{R: 200, G: 40, B: 40, A: 120}
	lastMoveArrow       = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor    = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

// squareColor: a8 (row 0, col 0) is light.
func squareColor(sq engine.Square) color.Color {
	if (sq.Row+sq.Col)%2 == 0 {
		return lightSquare
	}
	return darkSquare
}

func squareRect(sq engine.Square, squareSize int, origin image.Point) image.Rectangle {
	x := origin.X + sq.Col*squareSize
	y := origin.Y + sq.Row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+6,
		boardRect.Max.X+6,
		boardRect.Max.Y+8,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			sq := engine.Sq(row, col)
			imagedraw.Draw(dst, squareRect(sq, squareSize, origin), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *engine.Board, squareSize int, origin image.Point) error {
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			sq := engine.Sq(row, col)
			piece := board.At(sq)
			if piece.IsEmpty() {
				continue
			}
			img, err := renderPieceImage(piece, squareSize)
			if err != nil {
				return err
			}
			imagedraw.Draw(dst, squareRect(sq, squareSize, origin), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawSquareOverlay(img *image.RGBA, sq engine.Square, squareSize int, origin image.Point, clr color.Color) {
	imagedraw.Draw(img, squareRect(sq, squareSize, origin), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

// drawTargetMarker puts a dot on empty targets and a corner frame on captures.
func drawTargetMarker(img *image.RGBA, board *engine.Board, sq engine.Square, squareSize int, origin image.Point) {
	rect := squareRect(sq, squareSize, origin)
	if board.At(sq).IsEmpty() {
		center := image.Pt(rect.Min.X+squareSize/2, rect.Min.Y+squareSize/2)
		drawDisc(img, center, squareSize/8, targetColor)
		return
	}
	t := squareSize / 12
	if t < 1 {
		t = 1
	}
	fill := image.NewUniform(captureTargetColor)
	for _, edge := range []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t),
		image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y+t, rect.Min.X+t, rect.Max.Y-t),
		image.Rect(rect.Max.X-t, rect.Min.Y+t, rect.Max.X, rect.Max.Y-t),
	} {
		imagedraw.Draw(img, edge, fill, image.Point{}, imagedraw.Over)
	}
}

func drawHUD(img *image.RGBA, face font.Face, opts Options, boardRect image.Rectangle, l layout) {
	if face == nil {
		return
	}
	drawer := &font.Drawer{Dst: img, Face: face}

	header := strings.TrimSpace(opts.HUDHeader)
	if header == "" {
		header = "Chess"
	}
	turn := strings.TrimSpace(opts.HUDTurn)

	bottom := boardRect.Min.Y - l.square/4
	panel := image.Rect(boardRect.Min.X, bottom-l.hudHeight, boardRect.Max.X, bottom)
	drawRoundedPanel(img, panel, l.panelRadius, hudPanelColor)

	pad := l.square / 4
	half := panel.Dx() / 2
	left := image.Rect(panel.Min.X+pad, panel.Min.Y, panel.Min.X+half, panel.Max.Y)
	right := image.Rect(panel.Min.X+half, panel.Min.Y, panel.Max.X-pad, panel.Max.Y)

	header = truncateWithEllipsis(face, header, left.Dx())
	drawAlignedString(drawer, left, header, hudTextPrimary, false)
	if turn != "" {
		turn = truncateWithEllipsis(face, turn, right.Dx())
		drawAlignedString(drawer, right, turn, hudTurnTextColor, true)
	}
}

func drawCoordinates(dst imagedraw.Image, face font.Face, squareSize int, origin image.Point, margin int) {
	if face == nil {
		return
	}
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	boardEnd := origin.Y + engine.BoardSize*squareSize

	for i := 0; i < engine.BoardSize; i++ {
		name := engine.Sq(i, i).Name()
		rankCenter := origin.Y + i*squareSize + squareSize/2
		drawCenteredText(drawer, name[1:], origin.X-margin/2, rankCenter+ascent/2)
		fileCenter := origin.X + i*squareSize + squareSize/2
		drawCenteredText(drawer, name[:1], fileCenter, boardEnd+ascent+2)
	}
}

func drawAlignedString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color, alignRight bool) {
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	x := rect.Min.X
	if alignRight {
		x = rect.Max.X - drawer.MeasureString(text).Round()
		if x < rect.Min.X {
			x = rect.Min.X
		}
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	const ellipsis = "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius <= 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	// body without the corner squares, then one disc per corner
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawQuarterDisc(img, center, radius, clr, rect)
	}
}

// drawQuarterDisc fills the part of a disc that lies in the corner
// squares of rect, so overlapping body fills are not blended twice.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius int, clr color.Color, rect image.Rectangle) {
	rSquared := radius * radius
	inner := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	side := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			p := image.Pt(center.X+x, center.Y+y)
			if !p.In(rect) || p.In(inner) || p.In(side) {
				continue
			}
			blendPixel(img, p.X, p.Y, clr)
		}
	}
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func drawArrow(img *image.RGBA, from, to engine.Square, squareSize int, origin image.Point, clr color.Color) {
	if from == to {
		return
	}
	startRect := squareRect(from, squareSize, origin)
	endRect := squareRect(to, squareSize, origin)
	sx := float64(startRect.Min.X + squareSize/2)
	sy := float64(startRect.Min.Y + squareSize/2)
	ex := float64(endRect.Min.X + squareSize/2)
	ey := float64(endRect.Min.Y + squareSize/2)

	dx, dy := ex-sx, ey-sy
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	baseLength := length - float64(squareSize)*0.45
	if baseLength < float64(squareSize)*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := float64(squareSize) * 0.12
	headWidth := float64(squareSize) * 0.32

	baseX := sx + dirX*baseLength
	baseY := sy + dirY*baseLength

	fillQuad(img,
		pointF{sx - perpX*halfWidth, sy - perpY*halfWidth},
		pointF{sx + perpX*halfWidth, sy + perpY*halfWidth},
		pointF{baseX + perpX*halfWidth, baseY + perpY*halfWidth},
		pointF{baseX - perpX*halfWidth, baseY - perpY*halfWidth},
		clr,
	)
	fillTriangleF(img,
		pointF{ex, ey},
		pointF{baseX - perpX*headWidth/2, baseY - perpY*headWidth/2},
		pointF{baseX + perpX*headWidth/2, baseY + perpY*headWidth/2},
		clr,
	)
}

type pointF struct {
	X float64
	Y float64
}

func fillQuad(img *image.RGBA, p0, p1, p2, p3 pointF, clr color.Color) {
	fillTriangleF(img, p0, p1, p2, clr)
	fillTriangleF(img, p0, p2, p3, clr)
}

func fillTriangleF(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func pointInTriangle(x, y float64, a, b, c pointF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}

// blendPixel composites clr over the pixel at (x, y) (source-over).
func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	inv := 65535 - sa
	// premultiplied: out = src + dst*(1-srcA)
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((sr + uint32(dst.R)*0x101*inv/65535) >> 8),
		G: uint8((sg + uint32(dst.G)*0x101*inv/65535) >> 8),
		B: uint8((sb + uint32(dst.B)*0x101*inv/65535) >> 8),
		A: uint8((sa + uint32(dst.A)*0x101*inv/65535) >> 8),
	})
}
