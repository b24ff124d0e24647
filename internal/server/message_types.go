package server

// MessageType represents a WebSocket message type with type safety.
type MessageType string

// WebSocket message type constants for the client-server protocol.
const (
	// Client to server messages
	MessageTypeLogin        MessageType = "login"
	MessageTypeLogout       MessageType = "logout"
	MessageTypeCreateGame   MessageType = "create_game"
	MessageTypeJoinGame     MessageType = "join_game"
	MessageTypeStartGame    MessageType = "start_game"
	MessageTypeLeaveGame    MessageType = "leave_game"
	MessageTypeSubmitPlay   MessageType = "submit_play"
	MessageTypeDecideWinner MessageType = "decide_winner"
	MessageTypeNextRound    MessageType = "next_round"
	MessageTypeListGames    MessageType = "list_games"

	// Server to client messages
	MessageTypeError      MessageType = "error"
	MessageTypeLoggedIn   MessageType = "logged_in"
	MessageTypeLoggedOut  MessageType = "logged_out"
	MessageTypeGameLeft   MessageType = "game_left"
	MessageTypeLobbyGames MessageType = "lobby_games"
	MessageTypeGameState  MessageType = "game_state"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}
