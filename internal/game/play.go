package game

import (
	"github.com/partydeck/partydeck/internal/catalog"
)

// SubmitPlay validates a player's submitted cards against the round's slot
// requirements and records the play. The submitted cards leave the hand and
// the same count of each type is dealt back, so hand size is conserved.
func (e *Engine) SubmitPlay(s State, player, gameName string, cards []catalog.Card) (State, error) {
	g, ok := s.Game(gameName)
	if !ok {
		e.logger.Warn("Play rejected, game not found", "player", player, "game", gameName)
		return s, ErrGameNotFound
	}
	member, ok := g.Player(player)
	if !ok {
		e.logger.Warn("Play rejected, not in game", "player", player, "game", gameName)
		return s, ErrNotInGame
	}
	if !g.Started {
		e.logger.Warn("Play rejected, game not started", "player", player, "game", gameName)
		return s, ErrGameNotStarted
	}
	if player == g.Decider {
		e.logger.Warn("Play rejected, player is decider", "player", player, "game", gameName)
		return s, ErrIsDecider
	}
	if _, ok := g.PlayBy(player); ok {
		e.logger.Warn("Play rejected, already submitted", "player", player, "game", gameName)
		return s, ErrAlreadySubmitted
	}

	remaining, ok := removeFromHand(member.Hand, cards)
	if !ok {
		e.logger.Warn("Play rejected, card not in hand", "player", player, "game", gameName)
		return s, ErrCardNotInHand
	}

	if err := matchSlots(s.Catalog, g, cards); err != nil {
		e.logger.Warn("Play rejected", "player", player, "game", gameName, "error", err)
		return s, err
	}

	next := s.clone()
	ng := cloneGame(g)
	nm, _ := ng.Player(player)
	nm.Hand = remaining

	// Refill the hand with the same per-type counts that were played.
	for _, typeName := range distinctTypes(cards) {
		count := 0
		for _, card := range cards {
			if card.Type == typeName {
				count++
			}
		}
		if err := e.dealPlayable(s.Catalog, ng, nm, typeName, count); err != nil {
			return s, err
		}
	}

	ng.Plays = append(ng.Plays, SubmittedPlay{
		Player: player,
		Cards:  append([]catalog.Card(nil), cards...),
	})
	next.replaceGame(ng)
	e.logger.Info("Play submitted", "player", player, "game", gameName, "cards", len(cards), "plays", len(ng.Plays))
	return next, nil
}

// matchSlots runs the slot queue over the submitted cards. The queue starts
// with the slots of every current non-playable card in catalog type order;
// a submitted chainer card prepends its own slots, so its requirements must
// be satisfied by the cards immediately following it, depth-first.
func matchSlots(cat catalog.Catalog, g *Game, cards []catalog.Card) error {
	var queue []string
	for _, ct := range cat.NonPlayableTypes() {
		if current, ok := g.Current[ct.Name]; ok {
			queue = append(queue, current.Slots...)
		}
	}

	for _, card := range cards {
		if len(queue) == 0 {
			return ErrTooManyCards
		}
		tag := queue[0]
		queue = queue[1:]
		if tag != catalog.SlotAny && tag != card.Type {
			return ErrSlotTypeMismatch
		}
		if len(card.Slots) > 0 {
			queue = append(append([]string(nil), card.Slots...), queue...)
		}
	}
	if len(queue) > 0 {
		return ErrIncompleteSlots
	}
	return nil
}

// removeFromHand removes each submitted card (one hand copy per submitted
// duplicate) and returns the remainder, or false if any card is missing.
func removeFromHand(hand, cards []catalog.Card) ([]catalog.Card, bool) {
	remaining := append([]catalog.Card(nil), hand...)
	for _, card := range cards {
		found := false
		for i, held := range remaining {
			if held.Equal(card) {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return remaining, true
}

// distinctTypes returns the card type names in order of first appearance.
func distinctTypes(cards []catalog.Card) []string {
	var types []string
	for _, card := range cards {
		seen := false
		for _, t := range types {
			if t == card.Type {
				seen = true
				break
			}
		}
		if !seen {
			types = append(types, card.Type)
		}
	}
	return types
}

// DecideWinner records the decider's verdict for the round: the winner's
// score goes up by one and the game remembers who won last.
func (e *Engine) DecideWinner(s State, decider, gameName, winner string) (State, error) {
	g, ok := s.Game(gameName)
	if !ok {
		e.logger.Warn("Decision rejected, game not found", "player", decider, "game", gameName)
		return s, ErrGameNotFound
	}
	if !g.Started {
		e.logger.Warn("Decision rejected, game not started", "player", decider, "game", gameName)
		return s, ErrGameNotStarted
	}
	if decider != g.Decider {
		e.logger.Warn("Decision rejected, not the decider", "player", decider, "game", gameName)
		return s, ErrNotDecider
	}
	if _, ok := g.PlayBy(winner); !ok {
		e.logger.Warn("Decision rejected, winner has no play", "player", decider, "winner", winner, "game", gameName)
		return s, ErrNoSubmission
	}

	next := s.clone()
	ng := cloneGame(g)
	ng.LastWinner = winner
	member, _ := ng.Player(winner)
	member.Score++
	next.replaceGame(ng)
	e.logger.Info("Round decided", "game", gameName, "winner", winner, "score", member.Score)
	return next, nil
}

// NextRound rotates the decider to the next player in insertion order,
// deals a fresh current card for every non-playable type, and clears the
// round's submitted plays.
func (e *Engine) NextRound(s State, host, gameName string) (State, error) {
	g, ok := s.Game(gameName)
	if !ok {
		e.logger.Warn("Next round rejected, game not found", "player", host, "game", gameName)
		return s, ErrGameNotFound
	}
	if g.Host != host {
		e.logger.Warn("Next round rejected, not host", "player", host, "game", gameName)
		return s, ErrNotHost
	}
	if !g.Started {
		e.logger.Warn("Next round rejected, game not started", "player", host, "game", gameName)
		return s, ErrGameNotStarted
	}

	next := s.clone()
	ng := cloneGame(g)

	for i, p := range ng.Players {
		if p.Name == ng.Decider {
			ng.Decider = ng.Players[(i+1)%len(ng.Players)].Name
			break
		}
	}
	for _, ct := range s.Catalog.NonPlayableTypes() {
		if err := e.dealNonPlayable(s.Catalog, ng, ct.Name); err != nil {
			return s, err
		}
	}
	ng.Plays = nil

	next.replaceGame(ng)
	e.logger.Info("Round advanced", "game", gameName, "decider", ng.Decider)
	return next, nil
}
