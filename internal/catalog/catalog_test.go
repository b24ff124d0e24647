package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestValidateTypes(t *testing.T) {
	types, err := ValidateTypes([]TypeDef{
		{Name: "situation", Playable: boolPtr(false)},
		{Name: "noun", Playable: boolPtr(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, []CardType{
		{Name: "situation", Playable: false},
		{Name: "noun", Playable: true},
	}, types)

	_, err = ValidateTypes([]TypeDef{{Name: "noun"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing playable flag")
}

func TestTypeDefsRoundTrip(t *testing.T) {
	c := Catalog{Types: []CardType{
		{Name: "situation", Playable: false},
		{Name: "noun", Playable: true},
	}}

	types, err := ValidateTypes(c.TypeDefs())
	require.NoError(t, err)
	assert.Equal(t, c.Types, types)
}

func TestCardEqual(t *testing.T) {
	a := Card{Type: "noun", Text: "a rubber duck"}
	assert.True(t, a.Equal(Card{Type: "noun", Text: "a rubber duck"}))
	assert.False(t, a.Equal(Card{Type: "verb", Text: "a rubber duck"}))
	assert.False(t, a.Equal(Card{Type: "noun", Text: "a rubber duck", Slots: []string{"noun"}}))

	b := Card{Type: "noun", Text: "a {}", Slots: []string{"noun"}}
	assert.True(t, b.Equal(Card{Type: "noun", Text: "a {}", Slots: []string{"noun"}}))
	assert.False(t, b.Equal(Card{Type: "noun", Text: "a {}", Slots: []string{"verb"}}))
}

func TestTypePartitions(t *testing.T) {
	c := Catalog{Types: []CardType{
		{Name: "situation", Playable: false},
		{Name: "noun", Playable: true},
		{Name: "verb", Playable: true},
	}}

	assert.Equal(t, []CardType{
		{Name: "noun", Playable: true},
		{Name: "verb", Playable: true},
	}, c.PlayableTypes())
	assert.Equal(t, []CardType{
		{Name: "situation", Playable: false},
	}, c.NonPlayableTypes())
}

func TestValidate(t *testing.T) {
	base := Catalog{
		Types: []CardType{
			{Name: "situation", Playable: false},
			{Name: "noun", Playable: true},
		},
		Cards: []Card{
			{Type: "situation", Text: "behold: {}", Slots: []string{"noun"}},
			{Type: "noun", Text: "a rubber duck"},
		},
	}
	require.NoError(t, base.Validate())

	c := base
	c.Cards = append(c.Cards[:len(c.Cards):len(c.Cards)],
		Card{Type: "adjective", Text: "oops"})
	assert.ErrorContains(t, c.Validate(), `unknown type "adjective"`)

	c = base
	c.Cards = append(c.Cards[:len(c.Cards):len(c.Cards)],
		Card{Type: "situation", Text: "{}", Slots: []string{"adjective"}})
	assert.ErrorContains(t, c.Validate(), `slot references unknown type`)

	c = base
	c.Cards = append(c.Cards[:len(c.Cards):len(c.Cards)],
		Card{Type: "situation", Text: "{}", Slots: []string{"situation"}})
	assert.ErrorContains(t, c.Validate(), `slot references non-playable type`)

	c = base
	c.Cards = c.Cards[:1]
	assert.ErrorContains(t, c.Validate(), `has no cards`)

	assert.ErrorContains(t, Catalog{}.Validate(), "no card types")
}

func TestValidateHandSize(t *testing.T) {
	c := Catalog{
		Types: []CardType{
			{Name: "situation", Playable: false},
			{Name: "noun", Playable: true},
		},
		Cards: []Card{
			{Type: "situation", Text: "behold: {}", Slots: []string{"noun"}},
			{Type: "noun", Text: "a rubber duck"},
			{Type: "noun", Text: "the office stapler"},
		},
	}

	require.NoError(t, c.ValidateHandSize(2))
	assert.ErrorContains(t, c.ValidateHandSize(3), `card type "noun" has 2 cards`)

	// non-playable types are dealt one at a time and never constrain this
	require.NoError(t, Default().ValidateHandSize(4))
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("testdata/catalog.hcl")
	require.NoError(t, err)

	assert.Equal(t, []CardType{
		{Name: "situation", Playable: false},
		{Name: "noun", Playable: true},
		{Name: "verb", Playable: true},
	}, c.Types)
	assert.Len(t, c.Cards, 6)
	assert.Equal(t, Card{
		Type:  "situation",
		Text:  "Caught {} while trying to {}.",
		Slots: []string{"noun", "verb"},
	}, c.Cards[1])
	assert.Equal(t, []string{"noun"}, c.Cards[4].Slots, "chainer slots survive loading")
}

func TestLoadFileMissingPlayable(t *testing.T) {
	_, err := LoadFile("testdata/missing_playable.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing playable flag")
}

func TestLoadFileAbsent(t *testing.T) {
	_, err := LoadFile("testdata/nope.hcl")
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	// slot counts must line up with the {} placeholders in the text
	for _, card := range c.Cards {
		assert.Equal(t, countSlots(card.Text), len(card.Slots), "card %q", card.Text)
	}
}
