// Package harness exposes a running game over HTTP for automated
// play-testing. /events streams every bus event as JSON, /control
// invokes the game's automation hooks, and /state reports the coarse
// runtime state.
package harness

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vmarchenko/brickwave/internal/events"
	"github.com/vmarchenko/brickwave/internal/game"
)

const (
	clientBuffer = 256
	pumpInterval = 16 * time.Millisecond
	writeTimeout = 5 * time.Second
)

// envelope is the wire form of one bus event.
type envelope struct {
	Seq  uint64       `json:"seq"`
	Kind events.Kind  `json:"kind"`
	Data events.Event `json:"data"`
}

// controlRequest names one automation hook.
type controlRequest struct {
	Action string `json:"action"`
}

type controlError struct {
	Error string `json:"error"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Server drives one game instance and fans its events out to any
// number of websocket subscribers. The game itself is not safe for
// concurrent use, so every control action and every simulation tick
// goes through the server's mutex.
type Server struct {
	mu     sync.Mutex
	game   *game.Game
	logger *log.Logger

	upgrader websocket.Upgrader

	clientMu sync.Mutex
	clients  map[*client]struct{}
	seq      uint64
}

// NewServer wraps a game and taps its bus. The tap stays installed for
// the life of the game.
func NewServer(g *game.Game, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		game:   g,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	g.Bus().Tap(s.broadcast)
	return s
}

// Handler returns the HTTP routes. Exposed separately from Run so
// tests can mount them on httptest servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/control", s.handleControl)
	mux.HandleFunc("/state", s.handleState)
	return mux
}

// Run serves the harness on addr and pumps the simulation at a fixed
// cadence until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go s.pump(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("harness listening", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// pump advances the game on a wall-clock ticker. Holding the mutex per
// tick keeps control actions from landing mid-step.
func (s *Server) pump(ctx context.Context) {
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.mu.Lock()
			s.game.Advance(dt)
			s.mu.Unlock()
		}
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.clientMu.Lock()
	s.clients[c] = struct{}{}
	s.clientMu.Unlock()

	go s.writeLoop(c)
	go s.readLoop(c)
}

func (s *Server) writeLoop(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readLoop discards inbound frames; its only job is detecting the
// close handshake so the client can be unregistered.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(c)
}

func (s *Server) drop(c *client) {
	s.clientMu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.clientMu.Unlock()
	if ok {
		c.close()
	}
}

// broadcast marshals one event and hands it to every subscriber. A
// subscriber that cannot keep up loses events rather than stalling the
// simulation.
func (s *Server) broadcast(ev events.Event) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	if len(s.clients) == 0 {
		s.seq++
		return
	}

	s.seq++
	data, err := json.Marshal(envelope{Seq: s.seq, Kind: ev.Kind(), Data: ev})
	if err != nil {
		s.logger.Warn("dropping unmarshalable event", "kind", ev.Kind(), "err", err)
		return
	}

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Warn("subscriber too slow, dropping event", "kind", ev.Kind())
		}
	}
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, controlError{Error: "malformed body: " + err.Error()})
		return
	}

	s.mu.Lock()
	ok := s.apply(req.Action)
	state := s.game.Runtime()
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, controlError{Error: "unknown action " + req.Action})
		return
	}

	s.logger.Info("control action", "action", req.Action, "scene", state.Scene)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) apply(action string) bool {
	switch action {
	case "start":
		s.game.StartGameplay()
	case "pause":
		s.game.Pause()
	case "resume":
		s.game.Resume()
	case "force-launch":
		s.game.ForceLaunch()
	case "skip-level":
		s.game.SkipLevel()
	case "force-life-loss":
		s.game.ForceLifeLoss()
	case "drain-lives":
		s.game.DrainLives()
	case "quit":
		s.game.Quit()
	default:
		return false
	}
	return true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.game.Runtime()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
