// Package store owns the single authoritative world snapshot and applies
// one action at a time through the rules engine. Actions may arrive from
// any number of goroutines; Dispatch funnels them into one consumer loop so
// no two transitions ever interleave. Committed snapshots are immutable and
// published through an atomic pointer, so readers never block the writer.
package store

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/partydeck/partydeck/internal/catalog"
	"github.com/partydeck/partydeck/internal/game"
)

// ActionType tags an inbound action with the transition it requests.
type ActionType string

const (
	ActionLogin        ActionType = "login"
	ActionLogout       ActionType = "logout"
	ActionCreateGame   ActionType = "create_game"
	ActionJoinGame     ActionType = "join_game"
	ActionStartGame    ActionType = "start_game"
	ActionLeaveGame    ActionType = "leave_game"
	ActionSubmitPlay   ActionType = "submit_play"
	ActionDecideWinner ActionType = "decide_winner"
	ActionNextRound    ActionType = "next_round"
	ActionSetCardTypes ActionType = "set_card_types"
	ActionSetCards     ActionType = "set_cards"
)

// Action is one requested transition. Player and GameName are supplied by
// the transport's session layer and trusted verbatim; Remote marks actions
// that originated from a player connection rather than the process itself.
type Action struct {
	Type      ActionType
	Player    string
	GameName  string
	Password  string
	Winner    string
	Cards     []catalog.Card
	CardTypes []catalog.TypeDef
	Remote    bool
}

// Errors raised by the store itself rather than the engine.
var (
	ErrAdminOnly     = errors.New("action is administrative and cannot originate remotely")
	ErrUnknownAction = errors.New("unknown action type")
)

type request struct {
	action Action
	reply  chan result
}

type result struct {
	state game.State
	err   error
}

// Store serializes transitions over the current snapshot.
type Store struct {
	engine   *game.Engine
	logger   *log.Logger
	requests chan request
	snapshot atomic.Pointer[game.State]
}

// New creates a store over the given initial state.
func New(engine *game.Engine, initial game.State, logger *log.Logger) *Store {
	st := &Store{
		engine:   engine,
		logger:   logger.WithPrefix("store"),
		requests: make(chan request),
	}
	st.snapshot.Store(&initial)
	return st
}

// Snapshot returns the current committed state. The returned value is
// immutable; callers may read it concurrently with dispatches.
func (st *Store) Snapshot() game.State {
	return *st.snapshot.Load()
}

// Run consumes actions until the context is cancelled. Exactly one Run loop
// must be active for Dispatch to make progress.
func (st *Store) Run(ctx context.Context) error {
	st.logger.Info("Store loop started")
	for {
		select {
		case req := <-st.requests:
			next, err := st.apply(st.Snapshot(), req.action)
			if err == nil {
				st.snapshot.Store(&next)
			}
			req.reply <- result{state: next, err: err}

		case <-ctx.Done():
			st.logger.Info("Store loop stopped")
			return ctx.Err()
		}
	}
}

// Dispatch submits one action and waits for its outcome. On success the
// returned state is the newly committed snapshot; on error it is the
// unchanged current one.
func (st *Store) Dispatch(ctx context.Context, action Action) (game.State, error) {
	req := request{action: action, reply: make(chan result, 1)}
	select {
	case st.requests <- req:
	case <-ctx.Done():
		return st.Snapshot(), ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.state, res.err
	case <-ctx.Done():
		return st.Snapshot(), ctx.Err()
	}
}

// apply routes an action to its transition function.
func (st *Store) apply(s game.State, a Action) (game.State, error) {
	switch a.Type {
	case ActionSetCardTypes, ActionSetCards:
		if a.Remote {
			st.logger.Warn("Rejected remote catalog change", "type", a.Type, "player", a.Player)
			return s, ErrAdminOnly
		}
	}

	switch a.Type {
	case ActionLogin:
		return st.engine.Login(s, a.Player)
	case ActionLogout:
		return st.engine.Logout(s, a.Player)
	case ActionCreateGame:
		return st.engine.CreateGame(s, a.Player, a.GameName, a.Password)
	case ActionJoinGame:
		return st.engine.JoinGame(s, a.Player, a.GameName, a.Password)
	case ActionStartGame:
		return st.engine.StartGame(s, a.Player, a.GameName)
	case ActionLeaveGame:
		return st.engine.LeaveGame(s, a.Player, a.GameName)
	case ActionSubmitPlay:
		return st.engine.SubmitPlay(s, a.Player, a.GameName, a.Cards)
	case ActionDecideWinner:
		return st.engine.DecideWinner(s, a.Player, a.GameName, a.Winner)
	case ActionNextRound:
		return st.engine.NextRound(s, a.Player, a.GameName)
	case ActionSetCardTypes:
		return st.engine.SetCardTypes(s, a.CardTypes)
	case ActionSetCards:
		return st.engine.SetCards(s, a.Cards)
	default:
		return s, ErrUnknownAction
	}
}
