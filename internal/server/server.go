package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/partydeck/partydeck/internal/store"
)

// Server accepts WebSocket clients and bridges them to the state store:
// inbound messages become dispatched actions, committed snapshots fan out
// as lobby summaries and personalized game views. Errors go only to the
// acting player.
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	store       *store.Store
	clock       quartz.Clock
	httpServer  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithClock injects a clock, used by tests to drive keepalive timing.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// NewServer creates a new WebSocket server over the given store.
func NewServer(st *store.Store, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		store:       st,
		clock:       quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the WebSocket server on addr and blocks until Stop is
// called or the listener fails.
func (s *Server) Start(addr string) error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the WebSocket server and closes every connection.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// run handles connection lifecycle.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "id", conn.id, "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, known := s.connections[conn]
			if known {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if known {
				s.cleanupConnection(conn)
				_ = conn.Close()
			}
			s.logger.Info("Client disconnected", "id", conn.id, "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// cleanupConnection unwinds a disconnected client's world state: leave the
// game it was in, then log its player out of the lobby.
func (s *Server) cleanupConnection(conn *Connection) {
	player := conn.GetPlayer()
	if player == "" {
		return
	}

	if gameName := conn.GetGame(); gameName != "" {
		s.logger.Info("Removing disconnected player from game", "player", player, "game", gameName)
		if _, err := s.store.Dispatch(s.ctx, store.Action{
			Type:     store.ActionLeaveGame,
			Player:   player,
			GameName: gameName,
			Remote:   true,
		}); err != nil {
			s.logger.Warn("Failed to remove disconnected player from game", "player", player, "error", err)
		}
	}

	if _, err := s.store.Dispatch(s.ctx, store.Action{
		Type:   store.ActionLogout,
		Player: player,
		Remote: true,
	}); err != nil {
		s.logger.Warn("Failed to log out disconnected player", "player", player, "error", err)
	}
	s.BroadcastState()
}

// handleWebSocket handles WebSocket upgrade requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		// Upgraded after Stop; the run loop is gone, so drop the client.
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// BroadcastState pushes the current snapshot to every client: game members
// get their personalized game view, everyone else logged in gets the lobby
// browser. A connection whose game no longer exists is returned to the
// lobby view.
func (s *Server) BroadcastState() {
	snapshot := s.store.Snapshot()

	lobbyMsg, err := NewMessage(MessageTypeLobbyGames, LobbyGamesData{
		Games: LobbySummaries(snapshot),
	})
	if err != nil {
		s.logger.Error("Failed to create lobby games message", "error", err)
		return
	}

	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		player := conn.GetPlayer()
		if player == "" {
			continue
		}

		if gameName := conn.GetGame(); gameName != "" {
			g, ok := snapshot.Game(gameName)
			if ok {
				if _, member := g.Player(player); member {
					view := GameViewFor(g, player)
					msg, err := NewMessage(MessageTypeGameState, view)
					if err != nil {
						s.logger.Error("Failed to create game state message", "error", err, "game", gameName)
						continue
					}
					if err := conn.SendMessage(msg); err != nil {
						s.logger.Error("Failed to send game state", "error", err, "player", player)
					}
					continue
				}
			}
			// Game gone or membership lost (e.g. the game was destroyed)
			conn.SetGame("")
		}

		if err := conn.SendMessage(lobbyMsg); err != nil {
			s.logger.Error("Failed to send lobby games", "error", err, "player", player)
		}
	}
}

// SendToPlayer sends a message to a specific player.
func (s *Server) SendToPlayer(playerName string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() == playerName {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("player not connected: %s", playerName)
}

// ConnectedPlayers returns the names of all authenticated connections.
func (s *Server) ConnectedPlayers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []string
	for conn := range s.connections {
		if player := conn.GetPlayer(); player != "" {
			players = append(players, player)
		}
	}

	return players
}
