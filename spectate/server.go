package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snek-arcade/scores"
)

const writeTimeout = 5 * time.Second

// Ranker serves leaderboard queries. scores.Leaderboard satisfies it.
type Ranker interface {
	Top(ctx context.Context, n int) ([]scores.Entry, error)
}

type Server struct {
	hub      *Hub
	ranker   Ranker
	upgrader websocket.Upgrader
	log      *slog.Logger
	started  time.Time
}

// NewServer builds the HTTP surface for a hub. ranker may be nil.
func NewServer(hub *Hub, ranker Ranker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		hub:      hub,
		ranker:   ranker,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      log,
		started:  time.Now(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleInfo)
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("spectator server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func parseIntQuery(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

type infoResponse struct {
	Service    string  `json:"service"`
	Spectators int     `json:"spectators"`
	UptimeSec  float64 `json:"uptime_sec"`
	GameID     string  `json:"game_id,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	resp := infoResponse{
		Service:    "snek-arcade",
		Spectators: s.hub.Clients(),
		UptimeSec:  time.Since(s.started).Seconds(),
	}
	if f, ok := s.hub.Latest(); ok {
		resp.GameID = f.GameID
	}
	writeJSON(w, resp)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f, ok := s.hub.Latest()
	if !ok {
		http.Error(w, "no game running", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.ranker == nil {
		http.Error(w, "leaderboard disabled", http.StatusNotFound)
		return
	}
	entries, err := s.ranker.Top(r.Context(), min(parseIntQuery(r, "limit", 10), 100))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{send: make(chan []byte, clientBuffer)}
	s.hub.register(c)
	s.log.Debug("spectator connected", "remote", r.RemoteAddr)

	go func() {
		defer conn.Close()
		for msg := range c.send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.hub.unregister(c)
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}()

	// Viewers are read-only; reading keeps control frames flowing and notices
	// the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.unregister(c)
			s.log.Debug("spectator disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}
