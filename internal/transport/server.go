package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/multiplayer"
)

// ServerConfig holds relay server settings.
type ServerConfig struct {
	Addr          string
	Path          string // Websocket endpoint, "/ws" when empty
	WriteWait     time.Duration
	PongWait      time.Duration
	SessionBuffer int
}

// Server accepts websocket clients and relays their frames through a hub.
type Server struct {
	hub      *multiplayer.Hub
	config   ServerConfig
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a relay server around hub. A nil logger discards output.
func NewServer(hub *multiplayer.Hub, cfg ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	cfg.WriteWait = orDefault(cfg.WriteWait, defaultWriteWait)
	cfg.PongWait = orDefault(cfg.PongWait, defaultPongWait)
	return &Server{
		hub:    hub,
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: the websocket endpoint and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.ServeWS)
	mux.HandleFunc("/healthz", s.serveHealth)
	return mux
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and runs the hub's cleanup loop. Both stop
// when ctx is cancelled or either one fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.hub.Run(gctx) })
	g.Go(func() error {
		s.logger.Info("relay listening", "addr", ln.Addr().String(), "path", s.config.Path)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ServeWS upgrades GET /ws?room=<code>&side=<1|2> and relays frames until
// either end disconnects.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	side, err := pong.ParseSide(r.URL.Query().Get("side"))
	if err != nil || room == "" {
		http.Error(w, "room and side (1 or 2) are required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), s.config.SessionBuffer)
	if err := s.hub.Join(room, side, session); err != nil {
		s.logger.Info("join refused", "room", room, "side", string(side), "error", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(s.config.WriteWait))
		conn.Close()
		return
	}

	go s.writePump(conn, session)
	s.readPump(conn, room, side, session)

	s.hub.Leave(room, side, session)
	session.Close()
}

// readPump relays every frame from the client until the connection fails.
func (s *Server) readPump(conn *websocket.Conn, room string, side pong.Side, session *multiplayer.ChannelSession) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "room", room, "side", string(side), "error", err)
			}
			return
		}
		if err := s.hub.Relay(room, side, frame); err != nil {
			s.logger.Debug("relay failed", "room", room, "error", err)
			return
		}
	}
}

// writePump delivers frames queued for session and keepalive pings. When
// the hub closes the session the client gets a close frame.
func (s *Server) writePump(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	ticker := time.NewTicker(pingInterval(s.config.PongWait))
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame := <-session.Frames():
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.Done():
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "room closed"))
			return
		}
	}
}

type health struct {
	Status   string                 `json:"status"`
	Rooms    int                    `json:"rooms"`
	Sessions int                    `json:"sessions"`
	Open     []multiplayer.RoomInfo `json:"open"`
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	open := s.hub.Rooms()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health{
		Status:   "ok",
		Rooms:    len(open),
		Sessions: s.hub.SessionCount(),
		Open:     open,
	})
}
