package chessdto

type ClickOutcome string

const (
	ClickSelected   ClickOutcome = "selected"
	ClickCleared    ClickOutcome = "cleared"
	ClickMoved      ClickOutcome = "moved"
	ClickReselected ClickOutcome = "reselected"
)

// ClickResult describes what a single board click did.
type ClickResult struct {
	Outcome  ClickOutcome
	Square   string
	Piece    string
	Move     string
	Captured string
	State    *BoardState
}

type MoveResult struct {
	Move     string
	Captured string
	State    *BoardState
}

type UndoResult struct {
	Move   string
	Undone bool
	State  *BoardState
}
