package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck/internal/catalog"
	"github.com/partydeck/partydeck/internal/randutil"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testEngine(t *testing.T, handSize int) *Engine {
	t.Helper()
	return NewEngine(randutil.New(42), Config{HandSize: handSize}, testLogger())
}

// testCatalog is small enough to force deck replenishment in tests:
// seven nouns, four verbs, two situations.
func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Types: []catalog.CardType{
			{Name: "situation", Playable: false},
			{Name: "noun", Playable: true},
			{Name: "verb", Playable: true},
		},
		Cards: []catalog.Card{
			{Type: "situation", Text: "behold: {}", Slots: []string{"noun"}},
			{Type: "situation", Text: "{} while {}", Slots: []string{"noun", "verb"}},
			{Type: "noun", Text: "n1"},
			{Type: "noun", Text: "n2"},
			{Type: "noun", Text: "n3"},
			{Type: "noun", Text: "n4"},
			{Type: "noun", Text: "n5"},
			{Type: "noun", Text: "n6"},
			{Type: "noun", Text: "chained {}", Slots: []string{"noun"}},
			{Type: "verb", Text: "v1"},
			{Type: "verb", Text: "v2"},
			{Type: "verb", Text: "v3"},
			{Type: "verb", Text: "v4"},
		},
	}
}

func testState() State {
	return State{Catalog: testCatalog()}
}

func boolPtr(b bool) *bool { return &b }

func TestSetCardTypesRequiresPlayableFlag(t *testing.T) {
	e := testEngine(t, 2)

	_, err := e.SetCardTypes(State{}, []catalog.TypeDef{
		{Name: "noun", Playable: boolPtr(true)},
		{Name: "situation"},
	})
	require.ErrorIs(t, err, ErrInvalidCardType)

	s, err := e.SetCardTypes(State{}, []catalog.TypeDef{
		{Name: "noun", Playable: boolPtr(true)},
		{Name: "situation", Playable: boolPtr(false)},
	})
	require.NoError(t, err)
	assert.Len(t, s.Catalog.Types, 2)
}

func TestLoginAddsToLobby(t *testing.T) {
	e := testEngine(t, 2)

	s, err := e.Login(testState(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, s.Lobby)

	s, err = e.Login(s, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, s.Lobby)
}

func TestLoginRejectsDuplicateName(t *testing.T) {
	e := testEngine(t, 2)

	s, err := e.Login(testState(), "Alice")
	require.NoError(t, err)

	_, err = e.Login(s, "Alice")
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestLoginRejectsNameHeldInsideGame(t *testing.T) {
	e := testEngine(t, 2)

	s, err := e.Login(testState(), "Alice")
	require.NoError(t, err)
	s, err = e.CreateGame(s, "Alice", "G1", "")
	require.NoError(t, err)

	// Alice is no longer in the lobby, but her name is still in use
	_, err = e.Login(s, "Alice")
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestLogoutRemovesFromLobby(t *testing.T) {
	e := testEngine(t, 2)

	s, err := e.Login(testState(), "Alice")
	require.NoError(t, err)
	s, err = e.Login(s, "Bob")
	require.NoError(t, err)

	s, err = e.Logout(s, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, s.Lobby)
}

func TestLogoutLastMemberDeletesLobby(t *testing.T) {
	e := testEngine(t, 2)

	s, err := e.Login(testState(), "Alice")
	require.NoError(t, err)

	s, err = e.Logout(s, "Alice")
	require.NoError(t, err)
	assert.Nil(t, s.Lobby)
}

func TestLogoutRejectsUnknownPlayer(t *testing.T) {
	e := testEngine(t, 2)

	_, err := e.Logout(testState(), "Nobody")
	require.ErrorIs(t, err, ErrPlayerNotInLobby)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	e := testEngine(t, 2)

	s0, err := e.Login(testState(), "Alice")
	require.NoError(t, err)
	before := append([]string(nil), s0.Lobby...)

	_, err = e.Login(s0, "Bob")
	require.NoError(t, err)
	assert.Equal(t, before, s0.Lobby, "input snapshot must stay untouched")

	_, err = e.Logout(s0, "Alice")
	require.NoError(t, err)
	assert.Equal(t, before, s0.Lobby, "input snapshot must stay untouched")
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "name_taken", Code(ErrNameTaken))
	assert.Equal(t, "slot_type_mismatch", Code(ErrSlotTypeMismatch))
	assert.Equal(t, "empty_catalog_for_type", Code(ErrEmptyCatalogForType))
	assert.Equal(t, "internal_error", Code(io.EOF))
}
