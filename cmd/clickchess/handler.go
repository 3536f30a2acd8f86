package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/park285/Cheese-ClickChess/internal/adapter/chesspresenter"
	"github.com/park285/Cheese-ClickChess/internal/relay"
	"github.com/park285/Cheese-ClickChess/pkg/chessdto"
)

type chessService interface {
	Click(ctx context.Context, meta chessdto.RequestMeta, square string) (*chessdto.ClickResult, error)
	Move(ctx context.Context, meta chessdto.RequestMeta, text string) (*chessdto.MoveResult, error)
	Undo(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.UndoResult, error)
	Moves(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.BoardState, []string, error)
	Board(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.BoardState, error)
	NewGame(ctx context.Context, meta chessdto.RequestMeta) (*chessdto.BoardState, error)
	History(ctx context.Context, meta chessdto.RequestMeta, limit int) ([]*chessdto.GameSummary, error)
	Game(ctx context.Context, meta chessdto.RequestMeta, id int64) (*chessdto.GameSummary, error)
}

// handler turns prefixed chat lines into service calls and replies.
type handler struct {
	svc       chessService
	presenter *chesspresenter.Presenter
	formatter *chesspresenter.Formatter
	allowed   func(room string) bool
	logger    *zap.Logger
	timeout   time.Duration
}

// Handle ignores lines without the prefix and rooms outside the allow-list.
func (h *handler) Handle(ctx context.Context, msg *relay.Message) {
	if msg == nil || strings.TrimSpace(msg.Msg) == "" {
		return
	}
	if h.allowed != nil && !h.allowed(msg.Room) {
		h.logger.Debug("ignore_room", zap.String("room", msg.Room))
		return
	}
	text := strings.TrimSpace(msg.Msg)
	prefix := h.formatter.Prefix()
	if !hasCommandPrefix(text, prefix) {
		return
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	raw := strings.TrimSpace(strings.TrimPrefix(text, prefix))
	meta := chessdto.RequestMeta{Room: msg.Room, Sender: msg.Sender}
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		h.reply(ctx, meta.Room, h.formatter.Help())
		return
	}
	cmd := strings.ToLower(parts[0])
	args := strings.Join(parts[1:], " ")

	h.logger.Debug("command_received",
		zap.String("room", meta.Room),
		zap.String("sender", meta.Sender),
		zap.String("cmd", cmd),
	)

	switch cmd {
	case "help":
		h.reply(ctx, meta.Room, h.formatter.Help())
	case "click", "c":
		res, err := h.svc.Click(ctx, meta, args)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.board(ctx, meta.Room, h.formatter.Click(res), res.State)
	case "move", "m":
		res, err := h.svc.Move(ctx, meta, args)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.board(ctx, meta.Room, h.formatter.Move(res), res.State)
	case "undo", "z":
		res, err := h.svc.Undo(ctx, meta)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.board(ctx, meta.Room, h.formatter.Undo(res), res.State)
	case "moves":
		state, moves, err := h.svc.Moves(ctx, meta)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.reply(ctx, meta.Room, h.formatter.Moves(state, moves))
	case "board":
		state, err := h.svc.Board(ctx, meta)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.board(ctx, meta.Room, h.formatter.Board(state), state)
	case "new":
		state, err := h.svc.NewGame(ctx, meta)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.board(ctx, meta.Room, h.formatter.NewGame(state), state)
	case "history":
		limit, _ := strconv.Atoi(strings.TrimSpace(args))
		games, err := h.svc.History(ctx, meta, limit)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.reply(ctx, meta.Room, h.formatter.History(meta.Room, games))
	case "game":
		id, _ := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
		g, err := h.svc.Game(ctx, meta, id)
		if err != nil {
			h.fail(ctx, meta.Room, err, args)
			return
		}
		h.reply(ctx, meta.Room, h.formatter.Game(g))
	default:
		h.reply(ctx, meta.Room, h.formatter.UnknownCommand())
	}
}

// subscribe hands every inbound frame to Handle on its own goroutine.
func (h *handler) subscribe(ctx context.Context, in relay.WSClient) int {
	return in.OnMessage(func(msg *relay.Message) {
		go h.Handle(ctx, msg)
	})
}

// serve connects the ingress, handles messages until ctx ends and then
// closes the ingress.
func serve(ctx context.Context, in relay.WSClient, h *handler) error {
	h.subscribe(context.WithoutCancel(ctx), in)
	in.OnStateChange(func(state relay.WebSocketState) {
		h.logger.Info("relay_ws_state", zap.String("state", string(state)))
	})

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err := in.Connect(cctx)
	cancel()
	if err != nil {
		return fmt.Errorf("connect relay: %w", err)
	}
	<-ctx.Done()

	sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer scancel()
	return in.Close(sctx)
}

// hasCommandPrefix reports whether text starts with prefix as a whole
// word, so "!chessfoo" does not match "!chess".
func hasCommandPrefix(text, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return false
	}
	rest := text[len(prefix):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}

func (h *handler) reply(ctx context.Context, room, text string) {
	if err := h.presenter.Text(ctx, room, text); err != nil {
		h.logger.Warn("reply_failed", zap.String("room", room), zap.Error(err))
	}
}

func (h *handler) board(ctx context.Context, room, text string, state *chessdto.BoardState) {
	if err := h.presenter.Board(ctx, room, text, state); err != nil {
		h.logger.Warn("reply_failed", zap.String("room", room), zap.Error(err))
	}
}

func (h *handler) fail(ctx context.Context, room string, err error, input string) {
	h.logger.Info("command_failed", zap.String("room", room), zap.String("input", input), zap.Error(err))
	h.reply(ctx, room, h.formatter.Error(err, input))
}
