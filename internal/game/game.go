package game

import (
	"github.com/partydeck/partydeck/internal/catalog"
)

// CreateGame removes the host from the lobby and inserts a new unstarted
// game with the host as sole member. The password is optional; an empty
// string means the game is open.
func (e *Engine) CreateGame(s State, host, gameName, password string) (State, error) {
	if !s.InLobby(host) {
		e.logger.Warn("Create rejected, host not in lobby", "player", host, "game", gameName)
		return s, ErrNotInLobby
	}
	if _, ok := s.Game(gameName); ok {
		e.logger.Warn("Create rejected, game name taken", "player", host, "game", gameName)
		return s, ErrNameTaken
	}

	next := s.clone()
	next.removeFromLobby(host)
	next.Games = append(next.Games, &Game{
		Name:     gameName,
		Host:     host,
		Password: password,
		Players:  []PlayerState{{Name: host}},
	})
	e.logger.Info("Game created", "player", host, "game", gameName, "password", password != "")
	return next, nil
}

// JoinGame moves a lobby player into a game. Joining an unstarted game
// just records membership; hands and scores arrive at start. Joining a
// started game deals a full hand immediately so latecomers catch up.
func (e *Engine) JoinGame(s State, player, gameName, password string) (State, error) {
	g, ok := s.Game(gameName)
	if !ok {
		e.logger.Warn("Join rejected, game not found", "player", player, "game", gameName)
		return s, ErrGameNotFound
	}
	if g.Password != password {
		e.logger.Warn("Join rejected, wrong password", "player", player, "game", gameName)
		return s, ErrWrongPassword
	}
	if _, ok := g.Player(player); ok {
		e.logger.Warn("Join rejected, already in game", "player", player, "game", gameName)
		return s, ErrAlreadyInGame
	}
	if !s.InLobby(player) {
		e.logger.Warn("Join rejected, not in lobby", "player", player, "game", gameName)
		return s, ErrNotInLobby
	}

	next := s.clone()
	next.removeFromLobby(player)
	ng := cloneGame(g)
	ng.Players = append(ng.Players, PlayerState{Name: player})

	if ng.Started {
		member, _ := ng.Player(player)
		for _, ct := range s.Catalog.PlayableTypes() {
			if err := e.dealPlayable(s.Catalog, ng, member, ct.Name, e.handSize); err != nil {
				return s, err
			}
		}
	}

	next.replaceGame(ng)
	e.logger.Info("Player joined game", "player", player, "game", gameName, "players", len(ng.Players))
	return next, nil
}

// StartGame freezes membership into active play: builds a deck per card
// type, deals every player a hand of each playable type, makes the first
// member the decider, and deals the first current card of every
// non-playable type.
func (e *Engine) StartGame(s State, host, gameName string) (State, error) {
	g, ok := s.Game(gameName)
	if !ok {
		e.logger.Warn("Start rejected, game not found", "player", host, "game", gameName)
		return s, ErrGameNotFound
	}
	if g.Started {
		e.logger.Warn("Start rejected, already started", "player", host, "game", gameName)
		return s, ErrAlreadyStarted
	}
	if g.Host != host {
		e.logger.Warn("Start rejected, not host", "player", host, "game", gameName)
		return s, ErrNotHost
	}
	if len(g.Players) < 2 {
		e.logger.Warn("Start rejected, not enough players", "player", host, "game", gameName, "players", len(g.Players))
		return s, ErrInsufficientPlayers
	}

	next := s.clone()
	ng := cloneGame(g)
	ng.Decks = make(map[string][]catalog.Card, len(s.Catalog.Types))
	return e.finishStart(s, next, ng)
}

// finishStart performs the dealing phase of StartGame against the cloned
// game. Splitting it keeps the precondition block readable.
func (e *Engine) finishStart(s, next State, ng *Game) (State, error) {
	for _, ct := range s.Catalog.Types {
		if err := e.createDeck(s.Catalog, ng, ct.Name); err != nil {
			return s, err
		}
	}

	ng.Decider = ng.Players[0].Name
	for i := range ng.Players {
		ng.Players[i].Score = 0
		for _, ct := range s.Catalog.PlayableTypes() {
			if err := e.dealPlayable(s.Catalog, ng, &ng.Players[i], ct.Name, e.handSize); err != nil {
				return s, err
			}
		}
	}

	ng.Current = make(map[string]catalog.Card, len(s.Catalog.NonPlayableTypes()))
	for _, ct := range s.Catalog.NonPlayableTypes() {
		if err := e.dealNonPlayable(s.Catalog, ng, ct.Name); err != nil {
			return s, err
		}
	}

	ng.Started = true
	next.replaceGame(ng)
	e.logger.Info("Game started", "game", ng.Name, "players", len(ng.Players), "decider", ng.Decider)
	return next, nil
}

// LeaveGame removes a player from a game and returns them to the lobby,
// along with any play they submitted this round. A game that would drop to
// zero members, or to one member while started, is destroyed and everyone
// left goes back to the lobby. Host and decider roles pass to the next
// member in insertion order when their holder departs.
func (e *Engine) LeaveGame(s State, player, gameName string) (State, error) {
	g, ok := s.Game(gameName)
	if !ok {
		e.logger.Warn("Leave rejected, game not found", "player", player, "game", gameName)
		return s, ErrGameNotFound
	}
	if _, ok := g.Player(player); !ok {
		e.logger.Warn("Leave rejected, not in game", "player", player, "game", gameName)
		return s, ErrNotInGame
	}

	next := s.clone()
	next.addToLobby(player)

	ng := cloneGame(g)
	removePlayer(ng, player)
	removePlaysBy(ng, player)

	if len(ng.Players) == 0 || (ng.Started && len(ng.Players) == 1) {
		for _, p := range ng.Players {
			next.addToLobby(p.Name)
		}
		next.removeGame(ng.Name)
		e.logger.Info("Game destroyed", "game", ng.Name, "player", player, "returned", len(ng.Players))
		return next, nil
	}

	if g.Host == player {
		ng.Host = ng.Players[0].Name
	}
	if ng.Started && g.Decider == player {
		ng.Decider = successorOf(g, player, ng)
		// The successor may already have submitted this round; a decider
		// never has a play on record.
		removePlaysBy(ng, ng.Decider)
	}

	next.replaceGame(ng)
	e.logger.Info("Player left game", "player", player, "game", ng.Name, "players", len(ng.Players))
	return next, nil
}

// removePlayer drops the named member, preserving insertion order.
func removePlayer(g *Game, name string) {
	for i := range g.Players {
		if g.Players[i].Name == name {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return
		}
	}
}

// removePlaysBy drops any submitted play authored by the named player.
func removePlaysBy(g *Game, name string) {
	for i := range g.Plays {
		if g.Plays[i].Player == name {
			g.Plays = append(g.Plays[:i], g.Plays[i+1:]...)
			return
		}
	}
}

// successorOf walks the pre-removal insertion order cyclically from name
// and returns the first player still present in the updated game.
func successorOf(before *Game, name string, after *Game) string {
	start := 0
	for i, p := range before.Players {
		if p.Name == name {
			start = i
			break
		}
	}
	for off := 1; off <= len(before.Players); off++ {
		candidate := before.Players[(start+off)%len(before.Players)].Name
		if _, ok := after.Player(candidate); ok {
			return candidate
		}
	}
	return ""
}
