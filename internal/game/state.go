// Package game implements the deterministic rules engine for the party
// card game: the player lobby, game lifecycle (create/join/start/leave),
// per-game decks with reshuffle-on-depletion, slot-based play validation,
// and round judging.
//
// Every transition is a pure function over an immutable State value: it
// either returns a new State built by copying only the modified path, or an
// error from the taxonomy in errors.go with the input left untouched.
// Committed snapshots are never mutated, so concurrent reads of a previous
// snapshot are always safe. Serialization of transitions is the caller's
// job (see internal/store).
package game

import (
	"github.com/partydeck/partydeck/internal/catalog"
)

// State is the whole world: the catalog, the lobby roster, and every active
// game. A nil Lobby and an empty Lobby are the same state.
type State struct {
	Catalog catalog.Catalog
	Lobby   []string
	Games   []*Game
}

// PlayerState is a player's standing within a game.
type PlayerState struct {
	Name  string
	Score int
	Hand  []catalog.Card
}

// SubmittedPlay records one player's submission for the current round, in
// the order the cards were submitted.
type SubmittedPlay struct {
	Player string
	Cards  []catalog.Card
}

// Game holds one game's full state. Players keeps insertion order, which
// drives host succession and decider rotation. Decks and Current are keyed
// by card type name; Current holds the active card for each non-playable
// type.
type Game struct {
	Name       string
	Host       string
	Password   string
	Started    bool
	Decider    string
	Players    []PlayerState
	Decks      map[string][]catalog.Card
	Current    map[string]catalog.Card
	Plays      []SubmittedPlay
	LastWinner string
}

// Player returns the game's state for the named player.
func (g *Game) Player(name string) (*PlayerState, bool) {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// PlayerNames returns the member names in insertion order.
func (g *Game) PlayerNames() []string {
	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = p.Name
	}
	return names
}

// PlayBy returns the submitted play authored by the named player.
func (g *Game) PlayBy(name string) (SubmittedPlay, bool) {
	for _, play := range g.Plays {
		if play.Player == name {
			return play, true
		}
	}
	return SubmittedPlay{}, false
}

// Game returns the active game with the given name.
func (s State) Game(name string) (*Game, bool) {
	for _, g := range s.Games {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// InLobby reports whether the named player is in the lobby.
func (s State) InLobby(name string) bool {
	for _, p := range s.Lobby {
		if p == name {
			return true
		}
	}
	return false
}

// nameInUse reports whether a player name exists anywhere in the world,
// lobby or any game.
func (s State) nameInUse(name string) bool {
	if s.InLobby(name) {
		return true
	}
	for _, g := range s.Games {
		if _, ok := g.Player(name); ok {
			return true
		}
	}
	return false
}

// clone returns a State whose Lobby and Games containers are fresh copies.
// Game pointers are shared; transitions that modify a game must swap in a
// deep copy via cloneGame first.
func (s State) clone() State {
	next := State{Catalog: s.Catalog}
	if s.Lobby != nil {
		next.Lobby = append([]string(nil), s.Lobby...)
	}
	if s.Games != nil {
		next.Games = append([]*Game(nil), s.Games...)
	}
	return next
}

// cloneGame deep-copies a game so the previous snapshot stays untouched.
func cloneGame(g *Game) *Game {
	next := &Game{
		Name:       g.Name,
		Host:       g.Host,
		Password:   g.Password,
		Started:    g.Started,
		Decider:    g.Decider,
		LastWinner: g.LastWinner,
	}
	next.Players = make([]PlayerState, len(g.Players))
	for i, p := range g.Players {
		next.Players[i] = PlayerState{
			Name:  p.Name,
			Score: p.Score,
			Hand:  append([]catalog.Card(nil), p.Hand...),
		}
	}
	if g.Decks != nil {
		next.Decks = make(map[string][]catalog.Card, len(g.Decks))
		for name, deck := range g.Decks {
			next.Decks[name] = append([]catalog.Card(nil), deck...)
		}
	}
	if g.Current != nil {
		next.Current = make(map[string]catalog.Card, len(g.Current))
		for name, card := range g.Current {
			next.Current[name] = card
		}
	}
	if g.Plays != nil {
		next.Plays = make([]SubmittedPlay, len(g.Plays))
		for i, play := range g.Plays {
			next.Plays[i] = SubmittedPlay{
				Player: play.Player,
				Cards:  append([]catalog.Card(nil), play.Cards...),
			}
		}
	}
	return next
}

// replaceGame swaps the named game in a cloned Games slice.
func (s *State) replaceGame(g *Game) {
	for i, existing := range s.Games {
		if existing.Name == g.Name {
			s.Games[i] = g
			return
		}
	}
}

// removeGame drops the named game from a cloned Games slice.
func (s *State) removeGame(name string) {
	for i, g := range s.Games {
		if g.Name == name {
			s.Games = append(s.Games[:i], s.Games[i+1:]...)
			return
		}
	}
}

// addToLobby appends a name to the lobby, creating it if absent.
func (s *State) addToLobby(name string) {
	s.Lobby = append(s.Lobby, name)
}

// removeFromLobby drops a name, deleting the lobby entirely when it empties.
func (s *State) removeFromLobby(name string) {
	for i, p := range s.Lobby {
		if p == name {
			s.Lobby = append(s.Lobby[:i], s.Lobby[i+1:]...)
			break
		}
	}
	if len(s.Lobby) == 0 {
		s.Lobby = nil
	}
}
