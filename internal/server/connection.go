package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/partydeck/partydeck/internal/game"
	"github.com/partydeck/partydeck/internal/store"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. It carries the
// session state the engine trusts verbatim: which player the connection
// authenticated as and which game it is bound to.
type Connection struct {
	id         string
	conn       *websocket.Conn
	send       chan *Message
	playerName string
	gameName   string
	logger     *log.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	closeOnce  sync.Once
	server     *Server
}

// NewConnection creates a new connection wrapper.
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn").With("id", id),
		ctx:    ctx,
		cancel: cancel,
		server: server,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player.
func (c *Connection) SetPlayer(playerName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = playerName
}

// GetPlayer returns the associated player name.
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// SetGame associates this connection with a game.
func (c *Connection) SetGame(gameName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameName = gameName
}

// GetGame returns the associated game name.
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameName
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client. The ping ticker runs
// off the server's clock so tests can drive keepalive timing.
func (c *Connection) writePump() {
	ticker := c.server.clock.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes an inbound message to its action handler.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeLogin:
		var data LoginData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse login data")
			return
		}
		c.handleLogin(data)

	case MessageTypeLogout:
		c.handleLogout()

	case MessageTypeCreateGame:
		var data CreateGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create game data")
			return
		}
		c.handleCreateGame(data)

	case MessageTypeJoinGame:
		var data JoinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join game data")
			return
		}
		c.handleJoinGame(data)

	case MessageTypeStartGame:
		c.handleStartGame()

	case MessageTypeLeaveGame:
		c.handleLeaveGame()

	case MessageTypeSubmitPlay:
		var data SubmitPlayData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse submit play data")
			return
		}
		c.handleSubmitPlay(data)

	case MessageTypeDecideWinner:
		var data DecideWinnerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse decide winner data")
			return
		}
		c.handleDecideWinner(data)

	case MessageTypeNextRound:
		c.handleNextRound()

	case MessageTypeListGames:
		c.handleListGames()

	// Catalog mutations never arrive over the wire; the store would
	// reject them as remote anyway, but there is no route to try.
	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError reports a failure to the acting player only; the rest of the
// world never hears about a rejected action.
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

// dispatch runs one remote action through the store, reporting any
// rejection back to this client. Returns true when the action committed.
func (c *Connection) dispatch(action store.Action) bool {
	action.Remote = true
	_, err := c.server.store.Dispatch(c.ctx, action)
	if err != nil {
		c.sendError(game.Code(err), err.Error())
		return false
	}
	return true
}

func (c *Connection) handleLogin(data LoginData) {
	if data.Player == "" {
		c.sendError("invalid_message", "Player name required")
		return
	}
	if c.GetPlayer() != "" {
		c.sendError("already_logged_in", "Connection already has a player")
		return
	}

	if !c.dispatch(store.Action{Type: store.ActionLogin, Player: data.Player}) {
		return
	}
	c.SetPlayer(data.Player)

	response, _ := NewMessage(MessageTypeLoggedIn, LoggedInData{Player: data.Player})
	_ = c.SendMessage(response)
	c.server.BroadcastState()
}

func (c *Connection) handleLogout() {
	player := c.GetPlayer()
	if player == "" {
		c.sendError("not_logged_in", "Must log in first")
		return
	}

	if !c.dispatch(store.Action{Type: store.ActionLogout, Player: player}) {
		return
	}
	c.SetPlayer("")
	c.SetGame("")

	response, _ := NewMessage(MessageTypeLoggedOut, nil)
	_ = c.SendMessage(response)
	c.server.BroadcastState()
}

func (c *Connection) handleCreateGame(data CreateGameData) {
	player := c.GetPlayer()
	if player == "" {
		c.sendError("not_logged_in", "Must log in first")
		return
	}

	if !c.dispatch(store.Action{
		Type:     store.ActionCreateGame,
		Player:   player,
		GameName: data.GameName,
		Password: data.Password,
	}) {
		return
	}
	c.SetGame(data.GameName)
	c.server.BroadcastState()
}

func (c *Connection) handleJoinGame(data JoinGameData) {
	player := c.GetPlayer()
	if player == "" {
		c.sendError("not_logged_in", "Must log in first")
		return
	}

	if !c.dispatch(store.Action{
		Type:     store.ActionJoinGame,
		Player:   player,
		GameName: data.GameName,
		Password: data.Password,
	}) {
		return
	}
	c.SetGame(data.GameName)
	c.server.BroadcastState()
}

func (c *Connection) handleStartGame() {
	player, gameName := c.GetPlayer(), c.GetGame()
	if player == "" || gameName == "" {
		c.sendError("not_in_game", "Must be in a game first")
		return
	}

	if !c.dispatch(store.Action{Type: store.ActionStartGame, Player: player, GameName: gameName}) {
		return
	}
	c.server.BroadcastState()
}

func (c *Connection) handleLeaveGame() {
	player, gameName := c.GetPlayer(), c.GetGame()
	if player == "" || gameName == "" {
		c.sendError("not_in_game", "Must be in a game first")
		return
	}

	if !c.dispatch(store.Action{Type: store.ActionLeaveGame, Player: player, GameName: gameName}) {
		return
	}
	c.SetGame("")

	response, _ := NewMessage(MessageTypeGameLeft, nil)
	_ = c.SendMessage(response)
	c.server.BroadcastState()
}

func (c *Connection) handleSubmitPlay(data SubmitPlayData) {
	player, gameName := c.GetPlayer(), c.GetGame()
	if player == "" || gameName == "" {
		c.sendError("not_in_game", "Must be in a game first")
		return
	}

	if !c.dispatch(store.Action{
		Type:     store.ActionSubmitPlay,
		Player:   player,
		GameName: gameName,
		Cards:    data.Cards,
	}) {
		return
	}
	c.server.BroadcastState()
}

func (c *Connection) handleDecideWinner(data DecideWinnerData) {
	player, gameName := c.GetPlayer(), c.GetGame()
	if player == "" || gameName == "" {
		c.sendError("not_in_game", "Must be in a game first")
		return
	}

	if !c.dispatch(store.Action{
		Type:     store.ActionDecideWinner,
		Player:   player,
		GameName: gameName,
		Winner:   data.Winner,
	}) {
		return
	}
	c.server.BroadcastState()
}

func (c *Connection) handleNextRound() {
	player, gameName := c.GetPlayer(), c.GetGame()
	if player == "" || gameName == "" {
		c.sendError("not_in_game", "Must be in a game first")
		return
	}

	if !c.dispatch(store.Action{Type: store.ActionNextRound, Player: player, GameName: gameName}) {
		return
	}
	c.server.BroadcastState()
}

func (c *Connection) handleListGames() {
	snapshot := c.server.store.Snapshot()
	response, _ := NewMessage(MessageTypeLobbyGames, LobbyGamesData{
		Games: LobbySummaries(snapshot),
	})
	_ = c.SendMessage(response)
}
