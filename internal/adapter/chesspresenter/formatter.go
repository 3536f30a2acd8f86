package chesspresenter

import (
	"errors"
	"strings"

	"github.com/park285/Cheese-ClickChess/internal/engine"
	"github.com/park285/Cheese-ClickChess/internal/msgcat"
	"github.com/park285/Cheese-ClickChess/pkg/chessdto"
)

const genericError = "Something went wrong. Please try again."

// Formatter renders service results into chat text through the catalog.
type Formatter struct {
	catalog *msgcat.Catalog
	prefix  string
}

func NewFormatter(catalog *msgcat.Catalog, prefix string) *Formatter {
	return &Formatter{catalog: catalog, prefix: strings.TrimSpace(prefix)}
}

func (f *Formatter) Prefix() string { return f.prefix }

func (f *Formatter) render(key string, data map[string]any) string {
	return f.catalog.RenderOr(key, data, genericError)
}

func (f *Formatter) Help() string {
	return f.render("help", map[string]any{"Prefix": f.prefix})
}

func (f *Formatter) UnknownCommand() string {
	return f.render("error.command", map[string]any{"Prefix": f.prefix})
}

func (f *Formatter) Click(res *chessdto.ClickResult) string {
	if res == nil || res.State == nil {
		return ""
	}
	switch res.Outcome {
	case chessdto.ClickSelected:
		piece := engine.Piece(res.Piece)
		if piece.IsEmpty() || piece.Color().String() != res.State.Turn {
			return f.render("select.empty", map[string]any{"Square": res.Square})
		}
		return f.render("select.picked", map[string]any{"Square": res.Square, "Piece": res.Piece})
	case chessdto.ClickCleared:
		return f.render("select.cleared", nil)
	case chessdto.ClickMoved:
		return f.render("move.applied", map[string]any{"Move": res.Move})
	case chessdto.ClickReselected:
		return f.render("move.rejected", map[string]any{"Move": res.Move, "Square": res.Square})
	default:
		return ""
	}
}

func (f *Formatter) Move(res *chessdto.MoveResult) string {
	if res == nil {
		return ""
	}
	return f.render("move.applied", map[string]any{"Move": res.Move})
}

func (f *Formatter) Undo(res *chessdto.UndoResult) string {
	if res == nil || !res.Undone {
		return f.render("undo.empty", nil)
	}
	return f.render("undo.applied", map[string]any{"Move": res.Move})
}

func (f *Formatter) Board(state *chessdto.BoardState) string {
	if state == nil {
		return ""
	}
	return f.render("board.caption", map[string]any{"Side": sideTitle(state.Turn), "Count": state.ValidMoves})
}

func (f *Formatter) Moves(state *chessdto.BoardState, moves []string) string {
	side := ""
	if state != nil {
		side = sideTitle(state.Turn)
	}
	if len(moves) == 0 {
		return f.render("moves.none", map[string]any{"Side": side})
	}
	return f.render("moves.list", map[string]any{"Side": side, "Moves": strings.Join(moves, " ")})
}

func (f *Formatter) NewGame(state *chessdto.BoardState) string {
	id := ""
	if state != nil {
		id = shortID(state.GameID)
	}
	return f.render("game.new", map[string]any{"ID": id})
}

func (f *Formatter) History(room string, games []*chessdto.GameSummary) string {
	if len(games) == 0 {
		return f.render("history.none", nil)
	}
	var sb strings.Builder
	sb.WriteString(f.render("history.header", map[string]any{"Room": room}))
	for _, g := range games {
		sb.WriteByte('\n')
		sb.WriteString(f.render("history.entry", map[string]any{"ID": g.ID, "Plies": g.Plies, "MoveText": g.MoveText}))
	}
	return sb.String()
}

func (f *Formatter) Game(g *chessdto.GameSummary) string {
	if g == nil {
		return ""
	}
	return f.render("game.detail", map[string]any{"ID": g.ID, "Plies": g.Plies, "MoveText": g.MoveText})
}

// Error maps a service error to user text by its chessdto code. input is
// the command argument that caused it.
func (f *Formatter) Error(err error, input string) string {
	if err == nil {
		return ""
	}
	var de chessdto.DomainError
	if !errors.As(err, &de) {
		return f.render("error.generic", nil)
	}
	switch de.Code {
	case chessdto.CodeInvalidSquare:
		return f.render("move.unknown", map[string]any{"Move": strings.TrimSpace(input)})
	case chessdto.CodeIllegalMove:
		return f.render("move.illegal", map[string]any{"Move": strings.TrimSpace(input)})
	case chessdto.CodeRoomDenied:
		return f.render("error.room", nil)
	case chessdto.CodeGameNotFound:
		return f.render("game.missing", map[string]any{"ID": strings.TrimSpace(input)})
	case chessdto.CodeInternal, "":
		return f.render("error.generic", nil)
	default:
		return de.Error()
	}
}

func sideTitle(turn string) string {
	switch turn {
	case "white":
		return "White"
	case "black":
		return "Black"
	default:
		return turn
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
