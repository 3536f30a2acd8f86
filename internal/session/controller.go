package session

import (
	"fmt"

	"github.com/park285/Cheese-ClickChess/internal/engine"
	"github.com/park285/Cheese-ClickChess/pkg/chessdto"
)

// ClickEvent is the controller's answer to one board click.
type ClickEvent struct {
	Outcome chessdto.ClickOutcome
	Square  engine.Square
	Move    engine.Move
}

// Controller turns square clicks into moves on a GameState. The first
// click selects a square, clicking it again clears the selection and a
// second click on another square is matched against the cached valid
// moves. A second click that matches nothing becomes the new selection.
type Controller struct {
	gs       *engine.GameState
	selected *engine.Square
	clicks   []engine.Square
	valid    []engine.Move
}

func NewController(gs *engine.GameState) *Controller {
	if gs == nil {
		gs = engine.NewGameState()
	}
	c := &Controller{gs: gs}
	c.refresh()
	return c
}

func (c *Controller) Game() *engine.GameState { return c.gs }

// ValidMoves returns the cached move list. It is recomputed only after a
// move is made or undone.
func (c *Controller) ValidMoves() []engine.Move {
	return append([]engine.Move(nil), c.valid...)
}

func (c *Controller) Selected() (engine.Square, bool) {
	if c.selected == nil {
		return engine.Square{}, false
	}
	return *c.selected, true
}

func (c *Controller) Clicks() []engine.Square {
	return append([]engine.Square(nil), c.clicks...)
}

// Targets lists destinations of cached valid moves that start on the
// selected square, in generation order.
func (c *Controller) Targets() []engine.Square {
	if c.selected == nil {
		return nil
	}
	var out []engine.Square
	for _, m := range c.valid {
		if m.Start() == *c.selected {
			out = append(out, m.End())
		}
	}
	return out
}

func (c *Controller) Click(sq engine.Square) (ClickEvent, error) {
	if !sq.Valid() {
		return ClickEvent{}, fmt.Errorf("click %d,%d: %w", sq.Row, sq.Col, engine.ErrInvalidSquare)
	}
	if c.selected != nil && *c.selected == sq {
		c.clearSelection()
		return ClickEvent{Outcome: chessdto.ClickCleared, Square: sq}, nil
	}
	picked := sq
	c.selected = &picked
	c.clicks = append(c.clicks, sq)
	if len(c.clicks) < 2 {
		return ClickEvent{Outcome: chessdto.ClickSelected, Square: sq}, nil
	}

	candidate := engine.NewMove(c.clicks[0], c.clicks[1], c.gs.BoardRef())
	if m, ok := c.match(candidate); ok {
		c.apply(m)
		return ClickEvent{Outcome: chessdto.ClickMoved, Square: sq, Move: m}, nil
	}
	c.clicks = []engine.Square{sq}
	return ClickEvent{Outcome: chessdto.ClickReselected, Square: sq, Move: candidate}, nil
}

// Play applies the listed move from start to end, bypassing the click
// sequence. The selection is cleared on success.
func (c *Controller) Play(start, end engine.Square) (engine.Move, bool) {
	m, ok := c.match(engine.NewMove(start, end, c.gs.BoardRef()))
	if !ok {
		return engine.Move{}, false
	}
	c.apply(m)
	return m, true
}

// Undo takes back the last move. The current selection is kept.
func (c *Controller) Undo() (engine.Move, bool) {
	m, ok := c.gs.UndoMove()
	if ok {
		c.refresh()
	}
	return m, ok
}

// selection is the click state saved around a change that may be rolled
// back.
type selection struct {
	selected *engine.Square
	clicks   []engine.Square
}

func (c *Controller) saveSelection() selection {
	sel := selection{clicks: append([]engine.Square(nil), c.clicks...)}
	if c.selected != nil {
		sq := *c.selected
		sel.selected = &sq
	}
	return sel
}

func (c *Controller) restoreSelection(sel selection) {
	c.selected = sel.selected
	c.clicks = sel.clicks
}

func (c *Controller) match(candidate engine.Move) (engine.Move, bool) {
	for _, m := range c.valid {
		if candidate.Equal(m) {
			return m, true
		}
	}
	return engine.Move{}, false
}

func (c *Controller) apply(m engine.Move) {
	c.gs.MakeMove(m)
	c.clearSelection()
	c.refresh()
}

func (c *Controller) clearSelection() {
	c.selected = nil
	c.clicks = nil
}

func (c *Controller) refresh() {
	c.valid = c.gs.ValidMoves()
}
