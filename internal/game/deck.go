package game

import (
	"fmt"

	"github.com/partydeck/partydeck/internal/catalog"
)

// The deck helpers below mutate the game they are given, so callers must
// pass a game already deep-copied for the transition being built. Decks
// are consumed from the front and rebuilt from the full catalog subset
// when a deal would run past the end.

// createDeck installs a freshly shuffled deck of every catalog card of the
// given type.
func (e *Engine) createDeck(cat catalog.Catalog, g *Game, typeName string) error {
	cards := cat.CardsOf(typeName)
	if len(cards) == 0 {
		e.logger.Warn("Cannot build deck, catalog has no cards of type", "game", g.Name, "type", typeName)
		return fmt.Errorf("%w %q", ErrEmptyCatalogForType, typeName)
	}

	deck := append([]catalog.Card(nil), cards...)
	e.shuffle(deck)
	g.Decks[typeName] = deck
	e.logger.Debug("Deck created", "game", g.Name, "type", typeName, "size", len(deck))
	return nil
}

// dealPlayable moves amount cards of the given type from the deck into the
// player's hand. If the deck runs short, the remainder is dealt first and a
// fresh deck covers the shortfall; one replenishment suffices whenever the
// catalog holds at least amount cards of the type, which startup validates
// against the configured hand size.
func (e *Engine) dealPlayable(cat catalog.Catalog, g *Game, player *PlayerState, typeName string, amount int) error {
	deck := g.Decks[typeName]
	if len(deck) < amount {
		player.Hand = append(player.Hand, deck...)
		amount -= len(deck)
		if err := e.createDeck(cat, g, typeName); err != nil {
			return err
		}
		deck = g.Decks[typeName]
		if len(deck) < amount {
			e.logger.Warn("Cannot deal, catalog too small for amount",
				"game", g.Name, "type", typeName, "amount", amount, "catalog", len(deck))
			return fmt.Errorf("%w: %q needs %d, catalog has %d", ErrInsufficientCards, typeName, amount, len(deck))
		}
	}

	player.Hand = append(player.Hand, deck[:amount]...)
	g.Decks[typeName] = deck[amount:]
	e.logger.Debug("Dealt cards", "game", g.Name, "player", player.Name, "type", typeName, "amount", amount)
	return nil
}

// dealNonPlayable pops one card from the front of the deck into the game's
// current slot for that type, replenishing first if the deck is empty.
func (e *Engine) dealNonPlayable(cat catalog.Catalog, g *Game, typeName string) error {
	deck := g.Decks[typeName]
	if len(deck) == 0 {
		if err := e.createDeck(cat, g, typeName); err != nil {
			return err
		}
		deck = g.Decks[typeName]
	}

	g.Current[typeName] = deck[0]
	g.Decks[typeName] = deck[1:]
	e.logger.Debug("Dealt current card", "game", g.Name, "type", typeName, "text", g.Current[typeName].Text)
	return nil
}
