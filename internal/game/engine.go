package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/partydeck/partydeck/internal/catalog"
)

// DefaultHandSize is how many cards of each playable type a player holds.
const DefaultHandSize = 4

// Config carries the tunable rules of the engine.
type Config struct {
	// HandSize is the per-playable-type deal amount for new hands and
	// refills. Zero means DefaultHandSize.
	HandSize int
}

// Engine evaluates state transitions. It owns the shuffle RNG; everything
// else it needs arrives in the State it is handed. Transitions never
// mutate their input.
type Engine struct {
	rng      *rand.Rand
	logger   *log.Logger
	handSize int
}

// NewEngine creates an engine with the given RNG. Inject a seeded RNG from
// randutil.New for deterministic tests.
func NewEngine(rng *rand.Rand, cfg Config, logger *log.Logger) *Engine {
	handSize := cfg.HandSize
	if handSize <= 0 {
		handSize = DefaultHandSize
	}
	return &Engine{
		rng:      rng,
		logger:   logger.WithPrefix("engine"),
		handSize: handSize,
	}
}

// HandSize returns the per-type deal amount the engine is configured with.
func (e *Engine) HandSize() int {
	return e.handSize
}

// SetCardTypes installs the card type registry. Administrative: the store
// rejects this transition when it originates from a remote connection.
func (e *Engine) SetCardTypes(s State, defs []catalog.TypeDef) (State, error) {
	types, err := catalog.ValidateTypes(defs)
	if err != nil {
		e.logger.Warn("Rejected card types", "error", err)
		return s, fmt.Errorf("%w: %v", ErrInvalidCardType, err)
	}

	next := s.clone()
	next.Catalog.Types = types
	e.logger.Info("Card types installed", "count", len(types))
	return next, nil
}

// SetCards installs the card definitions. Administrative, like SetCardTypes.
func (e *Engine) SetCards(s State, cards []catalog.Card) (State, error) {
	next := s.clone()
	next.Catalog.Cards = append([]catalog.Card(nil), cards...)
	e.logger.Info("Cards installed", "count", len(cards))
	return next, nil
}

// Login adds a player to the lobby. The name must be unused anywhere in
// the world, lobby or any game.
func (e *Engine) Login(s State, player string) (State, error) {
	if s.nameInUse(player) {
		e.logger.Warn("Login rejected, name taken", "player", player)
		return s, ErrNameTaken
	}

	next := s.clone()
	next.addToLobby(player)
	e.logger.Info("Player logged in", "player", player, "lobby", len(next.Lobby))
	return next, nil
}

// Logout removes a player from the lobby. Removing the last member deletes
// the lobby collection; an empty lobby and an absent one are the same
// state.
func (e *Engine) Logout(s State, player string) (State, error) {
	if !s.InLobby(player) {
		e.logger.Warn("Logout rejected, not in lobby", "player", player)
		return s, ErrPlayerNotInLobby
	}

	next := s.clone()
	next.removeFromLobby(player)
	e.logger.Info("Player logged out", "player", player, "lobby", len(next.Lobby))
	return next, nil
}

// shuffle applies a uniform Fisher-Yates permutation in place.
func (e *Engine) shuffle(cards []catalog.Card) {
	for top := len(cards); top > 1; top-- {
		idx := e.rng.IntN(top)
		cards[top-1], cards[idx] = cards[idx], cards[top-1]
	}
}
