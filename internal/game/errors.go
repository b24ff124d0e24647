package game

import "errors"

// Every engine transition either commits fully or fails with one of these
// errors and no observable state change. The transport maps them to stable
// wire codes via Code and surfaces them only to the acting player.
var (
	// Membership
	ErrNameTaken        = errors.New("name already taken")
	ErrNotInLobby       = errors.New("player not in lobby")
	ErrPlayerNotInLobby = errors.New("player not logged in to lobby")
	ErrAlreadyInGame    = errors.New("player already in game")
	ErrNotInGame        = errors.New("player not in game")

	// Authorization
	ErrNotHost    = errors.New("player is not the host")
	ErrNotDecider = errors.New("player is not the decider")
	ErrIsDecider  = errors.New("decider cannot submit a play")

	// Lifecycle
	ErrGameNotFound        = errors.New("game not found")
	ErrAlreadyStarted      = errors.New("game already started")
	ErrGameNotStarted      = errors.New("game not started")
	ErrInsufficientPlayers = errors.New("not enough players to start")

	// Play validation
	ErrCardNotInHand    = errors.New("submitted card not in hand")
	ErrSlotTypeMismatch = errors.New("card type does not match slot")
	ErrIncompleteSlots  = errors.New("not all slots were filled")
	ErrTooManyCards     = errors.New("more cards than open slots")
	ErrAlreadySubmitted = errors.New("play already submitted this round")
	ErrNoSubmission     = errors.New("player has no submitted play")

	// Configuration
	ErrInvalidCardType     = errors.New("card type missing playable flag")
	ErrEmptyCatalogForType = errors.New("catalog has no cards of type")
	ErrInsufficientCards   = errors.New("catalog has fewer cards of type than a deal needs")
	ErrWrongPassword       = errors.New("wrong password")
)

var errorCodes = map[error]string{
	ErrNameTaken:           "name_taken",
	ErrNotInLobby:          "not_in_lobby",
	ErrPlayerNotInLobby:    "player_not_in_lobby",
	ErrAlreadyInGame:       "already_in_game",
	ErrNotInGame:           "not_in_game",
	ErrNotHost:             "not_host",
	ErrNotDecider:          "not_decider",
	ErrIsDecider:           "is_decider",
	ErrGameNotFound:        "game_not_found",
	ErrAlreadyStarted:      "already_started",
	ErrGameNotStarted:      "game_not_started",
	ErrInsufficientPlayers: "insufficient_players",
	ErrCardNotInHand:       "card_not_in_hand",
	ErrSlotTypeMismatch:    "slot_type_mismatch",
	ErrIncompleteSlots:     "incomplete_slots",
	ErrTooManyCards:        "too_many_cards",
	ErrAlreadySubmitted:    "already_submitted",
	ErrNoSubmission:        "no_submission",
	ErrInvalidCardType:     "invalid_card_type",
	ErrEmptyCatalogForType: "empty_catalog_for_type",
	ErrInsufficientCards:   "insufficient_cards",
	ErrWrongPassword:       "wrong_password",
}

// Code returns the stable wire code for an engine error, or "internal_error"
// for anything outside the taxonomy.
func Code(err error) string {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "internal_error"
}
