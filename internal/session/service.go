// Package session runs one click-driven game per chat room.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Cheese-ClickChess/internal/archive"
	"github.com/park285/Cheese-ClickChess/internal/domain"
	"github.com/park285/Cheese-ClickChess/internal/engine"
	"github.com/park285/Cheese-ClickChess/internal/msgcat"
	"github.com/park285/Cheese-ClickChess/internal/render"
	"github.com/park285/Cheese-ClickChess/internal/store"
	"github.com/park285/Cheese-ClickChess/pkg/chessdto"
)

var (
	ErrIllegalMove    = errors.New("move not available")
	ErrUnknownRoom    = errors.New("room not specified")
	ErrRoomNotAllowed = errors.New("room not allowed")
	ErrGameNotFound   = errors.New("archived game not found")
)

const maxHistoryLimit = 50

type Config struct {
	SquareSize   int
	HistoryLimit int
	AllowedRooms []string
}

type Service struct {
	store        store.Store
	archive      archive.Repository
	renderer     render.BoardRenderer
	catalog      *msgcat.Catalog
	cfg          Config
	allowedRooms map[string]struct{}
	logger       *zap.Logger
	now          func() time.Time

	mu    sync.Mutex
	rooms map[string]*roomGame
}

type roomGame struct {
	mu        sync.Mutex
	loaded    bool
	id        string
	ctrl      *Controller
	startedAt time.Time
	updatedAt time.Time
}

func NewService(st store.Store, repo archive.Repository, renderer render.BoardRenderer, catalog *msgcat.Catalog, cfg Config, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("game store is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("archive repository is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("board renderer is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("message catalog is required")
	}
	if cfg.SquareSize <= 0 {
		cfg.SquareSize = render.DefaultSquareSize
	}
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > maxHistoryLimit {
		cfg.HistoryLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{})
	for _, room := range cfg.AllowedRooms {
		if r := strings.TrimSpace(room); r != "" {
			allowed[r] = struct{}{}
		}
	}
	return &Service{
		store:        st,
		archive:      repo,
		renderer:     renderer,
		catalog:      catalog,
		cfg:          cfg,
		allowedRooms: allowed,
		logger:       logger,
		now:          time.Now,
		rooms:        make(map[string]*roomGame),
	}, nil
}

// Click feeds one square click ("e2" or "6 4") into the room's controller.
func (s *Service) Click(ctx context.Context, meta chessdto.RequestMeta, square string) (*chessdto.ClickResult, error) {
	sq, err := ParseClick(square)
	if err != nil {
		return nil, domainError(err)
	}
	var out *chessdto.ClickResult
	err = s.withRoom(ctx, meta, func(rg *roomGame) error {
		board := rg.ctrl.Game().Board()
		sel := rg.ctrl.saveSelection()
		ev, err := rg.ctrl.Click(sq)
		if err != nil {
			return err
		}
		res := &chessdto.ClickResult{
			Outcome: ev.Outcome,
			Square:  sq.Name(),
			Piece:   board.At(sq).String(),
		}
		if ev.Outcome == chessdto.ClickMoved || ev.Outcome == chessdto.ClickReselected {
			res.Move = ev.Move.Algebraic()
		}
		if ev.Outcome == chessdto.ClickMoved {
			res.Captured = capturedCode(ev.Move)
			if err := s.persist(ctx, meta.Room, rg); err != nil {
				rg.ctrl.Undo()
				rg.ctrl.restoreSelection(sel)
				return err
			}
			s.logger.Info("game_move_applied",
				zap.String("room", meta.Room),
				zap.String("move", res.Move),
				zap.String("source", "click"),
			)
		}
		res.State = s.stateOf(ctx, meta.Room, rg, true)
		out = res
		return nil
	})
	return out, domainError(err)
}

// Move plays a square-pair move ("e2e4") directly.
func (s *Service) Move(ctx context.Context, meta chessdto.RequestMeta, text string) (*chessdto.MoveResult, error) {
	var out *chessdto.MoveResult
	err := s.withRoom(ctx, meta, func(rg *roomGame) error {
		candidate, err := engine.ParseMove(text, rg.ctrl.Game().BoardRef())
		if err != nil {
			return err
		}
		sel := rg.ctrl.saveSelection()
		m, ok := rg.ctrl.Play(candidate.Start(), candidate.End())
		if !ok {
			return fmt.Errorf("%s: %w", candidate.Algebraic(), ErrIllegalMove)
		}
		if err := s.persist(ctx, meta.Room, rg); err != nil {
			rg.ctrl.Undo()
			rg.ctrl.restoreSelection(sel)
			return err
		}
		s.logger.Info("game_move_applied",
			zap.String("room", meta.Room),
			zap.String("move", m.Algebraic()),
			zap.String("source", "text"),
		)
		out = &chessdto.MoveResult{
			Move:     m.Algebraic(),
			Captured: capturedCode(m),
			State:    s.stateOf(ctx, meta.Room, rg, true),
		}
		return nil
	})
	return out, domainError(err)
}

func (s *Service) Undo(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.UndoResult, error) {
	var out *chessdto.UndoResult
	err := s.withRoom(ctx, meta, func(rg *roomGame) error {
		sel := rg.ctrl.saveSelection()
		m, ok := rg.ctrl.Undo()
		res := &chessdto.UndoResult{Undone: ok}
		if ok {
			res.Move = m.Algebraic()
			if err := s.persist(ctx, meta.Room, rg); err != nil {
				rg.ctrl.Play(m.Start(), m.End())
				rg.ctrl.restoreSelection(sel)
				return err
			}
			s.logger.Info("game_move_undone", zap.String("room", meta.Room), zap.String("move", res.Move))
		}
		res.State = s.stateOf(ctx, meta.Room, rg, ok)
		out = res
		return nil
	})
	return out, domainError(err)
}

// Moves lists the side to move's valid moves in generation order.
func (s *Service) Moves(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.BoardState, []string, error) {
	var (
		state *chessdto.BoardState
		moves []string
	)
	err := s.withRoom(ctx, meta, func(rg *roomGame) error {
		for _, m := range rg.ctrl.ValidMoves() {
			moves = append(moves, m.Algebraic())
		}
		state = s.stateOf(ctx, meta.Room, rg, false)
		return nil
	})
	return state, moves, domainError(err)
}

func (s *Service) Board(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.BoardState, error) {
	var state *chessdto.BoardState
	err := s.withRoom(ctx, meta, func(rg *roomGame) error {
		state = s.stateOf(ctx, meta.Room, rg, true)
		return nil
	})
	return state, domainError(err)
}

// NewGame archives the room's current game when it has moves and starts
// a fresh one.
func (s *Service) NewGame(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.BoardState, error) {
	var state *chessdto.BoardState
	err := s.withRoom(ctx, meta, func(rg *roomGame) error {
		if err := s.archiveGame(ctx, meta.Room, rg); err != nil {
			s.logger.Warn("game_archive_failed", zap.String("room", meta.Room), zap.Error(err))
		}
		id, ctrl, started, updated := rg.id, rg.ctrl, rg.startedAt, rg.updatedAt
		s.reset(rg)
		if err := s.persist(ctx, meta.Room, rg); err != nil {
			rg.id, rg.ctrl, rg.startedAt, rg.updatedAt = id, ctrl, started, updated
			return err
		}
		s.logger.Info("game_started", zap.String("room", meta.Room), zap.String("game_id", rg.id))
		state = s.stateOf(ctx, meta.Room, rg, true)
		return nil
	})
	return state, domainError(err)
}

func (s *Service) History(ctx context.Context, meta chessdto.RequestMeta, limit int) ([]*chessdto.GameSummary, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, domainError(err)
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	games, err := s.archive.RecentGames(ctx, meta.Room, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	out := make([]*chessdto.GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, &chessdto.GameSummary{
			ID:       g.ID,
			GameID:   g.GameUUID,
			Room:     g.Room,
			Plies:    g.Plies,
			MoveText: g.MoveText,
			EndedAt:  g.EndedAt,
		})
	}
	return out, nil
}

// Game returns one archived game of the room by its archive id.
func (s *Service) Game(ctx context.Context, meta chessdto.RequestMeta, id int64) (*chessdto.GameSummary, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, domainError(err)
	}
	if id <= 0 {
		return nil, domainError(fmt.Errorf("game %d: %w", id, ErrGameNotFound))
	}
	g, err := s.archive.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get game %d: %w", id, err)
	}
	if g == nil || g.Room != strings.TrimSpace(meta.Room) {
		return nil, domainError(fmt.Errorf("game %d: %w", id, ErrGameNotFound))
	}
	return &chessdto.GameSummary{
		ID:       g.ID,
		GameID:   g.GameUUID,
		Room:     g.Room,
		Plies:    g.Plies,
		MoveText: g.MoveText,
		EndedAt:  g.EndedAt,
	}, nil
}

// Restore loads every persisted game of an allowed room, so broken
// records are replaced at startup. It returns the number of rooms loaded.
func (s *Service) Restore(ctx context.Context) (int, error) {
	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		return 0, fmt.Errorf("list rooms: %w", err)
	}
	n := 0
	for _, room := range rooms {
		if !s.roomAllowed(room) {
			continue
		}
		if err := s.withRoom(ctx, chessdto.RequestMeta{Room: room}, func(*roomGame) error { return nil }); err != nil {
			return n, fmt.Errorf("restore room %s: %w", room, err)
		}
		n++
	}
	return n, nil
}

func (s *Service) withRoom(ctx context.Context, meta chessdto.RequestMeta, fn func(*roomGame) error) error {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	room := strings.TrimSpace(meta.Room)

	s.mu.Lock()
	rg, ok := s.rooms[room]
	if !ok {
		rg = &roomGame{}
		s.rooms[room] = rg
	}
	s.mu.Unlock()

	rg.mu.Lock()
	defer rg.mu.Unlock()
	if !rg.loaded {
		if err := s.load(ctx, room, rg); err != nil {
			return err
		}
		rg.loaded = true
	}
	return fn(rg)
}

func (s *Service) ensureRoomAllowed(meta chessdto.RequestMeta) error {
	room := strings.TrimSpace(meta.Room)
	if room == "" {
		return ErrUnknownRoom
	}
	if s.roomAllowed(room) {
		return nil
	}
	s.logger.Info("room_access_denied",
		zap.String("room", room),
		zap.String("sender", strings.TrimSpace(meta.Sender)),
	)
	return ErrRoomNotAllowed
}

func (s *Service) roomAllowed(room string) bool {
	if len(s.allowedRooms) == 0 {
		return true
	}
	_, ok := s.allowedRooms[room]
	return ok
}

func (s *Service) load(ctx context.Context, room string, rg *roomGame) error {
	rec, err := s.store.Load(ctx, room)
	if errors.Is(err, store.ErrNotFound) {
		s.reset(rg)
		return nil
	}
	if err != nil {
		return err
	}
	gs, err := Replay(rec.Moves)
	if err != nil {
		s.logger.Warn("game_replay_failed", zap.String("room", room), zap.String("game_id", rec.ID), zap.Error(err))
		if err := s.store.Delete(ctx, room); err != nil {
			s.logger.Warn("game_record_delete_failed", zap.String("room", room), zap.Error(err))
		}
		s.reset(rg)
		return nil
	}
	rg.id = rec.ID
	rg.ctrl = NewController(gs)
	rg.startedAt = rec.CreatedAt
	rg.updatedAt = rec.UpdatedAt
	s.logger.Debug("game_restored", zap.String("room", room), zap.String("game_id", rec.ID), zap.Int("plies", len(rec.Moves)))
	return nil
}

func (s *Service) reset(rg *roomGame) {
	now := s.now()
	rg.id = uuid.NewString()
	rg.ctrl = NewController(engine.NewGameState())
	rg.startedAt = now
	rg.updatedAt = now
}

func (s *Service) persist(ctx context.Context, room string, rg *roomGame) error {
	rec := &store.GameRecord{
		ID:        rg.id,
		Room:      room,
		Moves:     moveList(rg.ctrl.Game()),
		CreatedAt: rg.startedAt,
		UpdatedAt: s.now(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("persist game: %w", err)
	}
	rg.updatedAt = rec.UpdatedAt
	return nil
}

func (s *Service) archiveGame(ctx context.Context, room string, rg *roomGame) error {
	moves := moveList(rg.ctrl.Game())
	if len(moves) == 0 {
		return nil
	}
	ended := s.now()
	game := &domain.ArchivedGame{
		GameUUID:  rg.id,
		Room:      room,
		Moves:     moves,
		MoveText:  archive.MoveText(moves),
		Plies:     len(moves),
		StartedAt: rg.startedAt,
		EndedAt:   ended,
		Duration:  ended.Sub(rg.startedAt),
	}
	id, err := s.archive.InsertGame(ctx, game)
	if err != nil {
		return err
	}
	s.logger.Info("game_archived", zap.String("room", room), zap.Int64("archive_id", id), zap.Int("plies", len(moves)))
	return nil
}

func (s *Service) stateOf(ctx context.Context, room string, rg *roomGame, withImage bool) *chessdto.BoardState {
	gs := rg.ctrl.Game()
	state := &chessdto.BoardState{
		GameID:     rg.id,
		Room:       room,
		Turn:       gs.Turn().String(),
		Ply:        len(gs.MoveLog()),
		Moves:      moveList(gs),
		ValidMoves: len(rg.ctrl.ValidMoves()),
		StartedAt:  rg.startedAt,
		UpdatedAt:  rg.updatedAt,
	}
	var opts render.Options
	if last, ok := gs.LastMove(); ok {
		state.LastMove = last.Algebraic()
		opts.LastMove = &render.MoveHighlight{From: last.Start(), To: last.End()}
	}
	if sel, ok := rg.ctrl.Selected(); ok {
		state.Selected = sel.Name()
		opts.Selected = &sel
		opts.Targets = rg.ctrl.Targets()
		for _, t := range opts.Targets {
			state.Targets = append(state.Targets, t.Name())
		}
	}
	if !withImage {
		return state
	}

	opts.SquareSize = s.cfg.SquareSize
	opts.HUDHeader = s.catalog.RenderOr("hud.header", map[string]any{"Room": room}, room)
	opts.HUDTurn = s.catalog.RenderOr("hud.turn", map[string]any{"Side": sideLabel(gs.Turn()), "Ply": state.Ply}, state.Turn)
	data, err := s.renderer.RenderPNG(ctx, gs.Board(), opts)
	if err != nil {
		s.logger.Warn("board_render_failed", zap.String("room", room), zap.Error(err))
		return state
	}
	state.BoardImage = data
	return state
}

// Replay rebuilds a game from square-pair moves, checking each against
// the valid moves of its position.
func Replay(moves []string) (*engine.GameState, error) {
	gs := engine.NewGameState()
	for i, raw := range moves {
		candidate, err := engine.ParseMove(raw, gs.BoardRef())
		if err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
		m, ok := gs.FindMove(candidate.Start(), candidate.End())
		if !ok {
			return nil, fmt.Errorf("replay ply %d %s: %w", i+1, raw, ErrIllegalMove)
		}
		gs.MakeMove(m)
	}
	return gs, nil
}

// ParseClick accepts a square name ("e2") or a "row col" pair with row 0
// at the black back rank.
func ParseClick(raw string) (engine.Square, error) {
	fields := strings.Fields(raw)
	switch len(fields) {
	case 1:
		return engine.ParseSquare(fields[0])
	case 2:
		r, errR := strconv.Atoi(fields[0])
		c, errC := strconv.Atoi(fields[1])
		sq := engine.Sq(r, c)
		if errR != nil || errC != nil || !sq.Valid() {
			return engine.Square{}, fmt.Errorf("click %q: %w", raw, engine.ErrInvalidSquare)
		}
		return sq, nil
	default:
		return engine.Square{}, fmt.Errorf("click %q: %w", raw, engine.ErrInvalidSquare)
	}
}

// domainError tags user-correctable failures with a chessdto code. Other
// errors pass through unchanged.
func domainError(err error) error {
	if err == nil {
		return nil
	}
	var code string
	switch {
	case errors.Is(err, ErrIllegalMove):
		code = chessdto.CodeIllegalMove
	case errors.Is(err, engine.ErrInvalidSquare):
		code = chessdto.CodeInvalidSquare
	case errors.Is(err, ErrRoomNotAllowed), errors.Is(err, ErrUnknownRoom):
		code = chessdto.CodeRoomDenied
	case errors.Is(err, ErrGameNotFound):
		code = chessdto.CodeGameNotFound
	default:
		return err
	}
	return chessdto.DomainError{Code: code, Message: err.Error(), Err: err}
}

func moveList(gs *engine.GameState) []string {
	log := gs.MoveLog()
	out := make([]string, 0, len(log))
	for _, m := range log {
		out = append(out, m.Algebraic())
	}
	return out
}

func capturedCode(m engine.Move) string {
	if !m.IsCapture() {
		return ""
	}
	return m.PieceCaptured().String()
}

func sideLabel(c engine.Color) string {
	switch c {
	case engine.White:
		return "White"
	case engine.Black:
		return "Black"
	default:
		return ""
	}
}
