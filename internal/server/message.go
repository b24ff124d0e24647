package server

import (
	"encoding/json"
	"time"

	"github.com/partydeck/partydeck/internal/catalog"
)

// Message is the base WebSocket message envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var dataBytes json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		dataBytes = b
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type LoginData struct {
	Player string `json:"player"`
}

type CreateGameData struct {
	GameName string `json:"gameName"`
	Password string `json:"password,omitempty"`
}

type JoinGameData struct {
	GameName string `json:"gameName"`
	Password string `json:"password,omitempty"`
}

type SubmitPlayData struct {
	Cards []catalog.Card `json:"cards"`
}

type DecideWinnerData struct {
	Winner string `json:"winner"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LoggedInData struct {
	Player string `json:"player"`
}

// GameSummary is the lobby browser's row for one active game.
type GameSummary struct {
	Name        string   `json:"name"`
	Host        string   `json:"host"`
	Started     bool     `json:"started"`
	Players     []string `json:"players"`
	HasPassword bool     `json:"hasPassword"`
}

type LobbyGamesData struct {
	Games []GameSummary `json:"games"`
}

// PlayerView is what everyone may know about a game member: hand contents
// stay private, hand size does not.
type PlayerView struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	HandSize  int    `json:"handSize"`
	Submitted bool   `json:"submitted"`
}

// PlayView is a submitted play as shown to the game's members.
type PlayView struct {
	Player string         `json:"player"`
	Cards  []catalog.Card `json:"cards"`
}

// GameStateData is the personalized game view pushed to each member after
// a committed action: shared state plus the recipient's own hand.
type GameStateData struct {
	Name       string                  `json:"name"`
	Host       string                  `json:"host"`
	Started    bool                    `json:"started"`
	Decider    string                  `json:"decider,omitempty"`
	LastWinner string                  `json:"lastWinner,omitempty"`
	Players    []PlayerView            `json:"players"`
	Hand       []catalog.Card          `json:"hand,omitempty"`
	Current    map[string]catalog.Card `json:"current,omitempty"`
	Plays      []PlayView              `json:"plays,omitempty"`
}
