// Package catalog holds the immutable card definitions the rules engine
// draws from: card types (playable or not), individual cards, and their
// slot requirements. A catalog is loaded once at startup and read-only
// thereafter; decks are built by shuffling per-type subsets of it.
package catalog

import (
	"fmt"
)

// CardType is a validated catalog entry for a kind of card. Playable types
// are dealt into player hands; non-playable types (e.g. "situation") are
// dealt to the shared game state and define the slot requirements for a
// round.
type CardType struct {
	Name     string `json:"name"`
	Playable bool   `json:"playable"`
}

// TypeDef is the raw loader input for a card type. The playable flag is a
// pointer so a missing flag is distinguishable from an explicit false;
// Validate rejects definitions that omit it.
type TypeDef struct {
	Name     string `json:"name"`
	Playable *bool  `json:"playable"`
}

// SlotAny is the wildcard slot tag matched by a card of any playable type.
const SlotAny = "any"

// Card is an immutable card definition. Cards are value-equal: two cards
// with the same type, text and slots are indistinguishable, and a catalog
// may contain duplicates on purpose.
type Card struct {
	Type  string   `json:"type"`
	Text  string   `json:"text"`
	Slots []string `json:"slots,omitempty"`
}

// Equal reports whether two cards are the same definition.
func (c Card) Equal(other Card) bool {
	if c.Type != other.Type || c.Text != other.Text || len(c.Slots) != len(other.Slots) {
		return false
	}
	for i, s := range c.Slots {
		if s != other.Slots[i] {
			return false
		}
	}
	return true
}

// Catalog is the process-wide registry of card types and cards. The zero
// value is an empty catalog. Types keeps declaration order, which fixes the
// iteration order for dealing and for building round slot queues.
type Catalog struct {
	Types []CardType
	Cards []Card
}

// ValidateTypes converts raw type definitions into catalog entries,
// rejecting any definition without an explicit playable flag.
func ValidateTypes(defs []TypeDef) ([]CardType, error) {
	types := make([]CardType, 0, len(defs))
	for _, def := range defs {
		if def.Playable == nil {
			return nil, fmt.Errorf("card type %q: missing playable flag", def.Name)
		}
		types = append(types, CardType{Name: def.Name, Playable: *def.Playable})
	}
	return types, nil
}

// TypeDefs converts validated entries back into loader inputs, for feeding
// a loaded catalog through the engine's administrative transitions.
func (c Catalog) TypeDefs() []TypeDef {
	defs := make([]TypeDef, len(c.Types))
	for i, ct := range c.Types {
		playable := ct.Playable
		defs[i] = TypeDef{Name: ct.Name, Playable: &playable}
	}
	return defs
}

// Type returns the card type with the given name.
func (c Catalog) Type(name string) (CardType, bool) {
	for _, ct := range c.Types {
		if ct.Name == name {
			return ct, true
		}
	}
	return CardType{}, false
}

// CardsOf returns the catalog's cards of the given type, in catalog order.
func (c Catalog) CardsOf(typeName string) []Card {
	var cards []Card
	for _, card := range c.Cards {
		if card.Type == typeName {
			cards = append(cards, card)
		}
	}
	return cards
}

// PlayableTypes returns the playable card types in declaration order.
func (c Catalog) PlayableTypes() []CardType {
	var types []CardType
	for _, ct := range c.Types {
		if ct.Playable {
			types = append(types, ct)
		}
	}
	return types
}

// NonPlayableTypes returns the non-playable card types in declaration order.
func (c Catalog) NonPlayableTypes() []CardType {
	var types []CardType
	for _, ct := range c.Types {
		if !ct.Playable {
			types = append(types, ct)
		}
	}
	return types
}

// Validate checks that every card references a declared type, that slot
// tags reference declared types or the "any" wildcard, and that every
// declared type has at least one card to build a deck from.
func (c Catalog) Validate() error {
	if len(c.Types) == 0 {
		return fmt.Errorf("catalog declares no card types")
	}
	for _, card := range c.Cards {
		if _, ok := c.Type(card.Type); !ok {
			return fmt.Errorf("card %q: unknown type %q", card.Text, card.Type)
		}
		for _, slot := range card.Slots {
			if slot == SlotAny {
				continue
			}
			ct, ok := c.Type(slot)
			if !ok {
				return fmt.Errorf("card %q: slot references unknown type %q", card.Text, slot)
			}
			if !ct.Playable {
				return fmt.Errorf("card %q: slot references non-playable type %q", card.Text, slot)
			}
		}
	}
	for _, ct := range c.Types {
		if len(c.CardsOf(ct.Name)) == 0 {
			return fmt.Errorf("card type %q has no cards", ct.Name)
		}
	}
	return nil
}

// ValidateHandSize checks that every playable type has at least handSize
// cards, so a full hand can always be dealt from a single deck.
func (c Catalog) ValidateHandSize(handSize int) error {
	for _, ct := range c.PlayableTypes() {
		if n := len(c.CardsOf(ct.Name)); n < handSize {
			return fmt.Errorf("card type %q has %d cards, hand size %d needs at least %d",
				ct.Name, n, handSize, handSize)
		}
	}
	return nil
}
