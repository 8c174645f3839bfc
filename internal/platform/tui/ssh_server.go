package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/shouta0715/ping-pong-game/internal/config"
	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/multiplayer"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pingpong/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the game over SSH. A session without a command plays
// local mode; "ROOM SIDE" as the command joins a networked match through
// the hub, where it can meet another SSH session or a websocket client.
type SSHServer struct {
	config SSHServerConfig
	app    config.Config
	hub    *multiplayer.Hub
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. A nil logger discards output.
func NewSSHServer(cfg SSHServerConfig, app config.Config, hub *multiplayer.Hub, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	srv := &SSHServer{
		config: cfg,
		app:    app,
		hub:    hub,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".pingpong", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// errUsage is returned for SSH commands other than none or "ROOM SIDE".
var errUsage = errors.New("usage: ssh -t <host> [ROOM SIDE]")

// sessionTarget is what an SSH command asks for. An empty Room means
// local mode.
type sessionTarget struct {
	Room string
	Side pong.Side
}

// parseSessionArgs reads the SSH command: nothing for local mode, or a
// room code and a side for a networked match.
func parseSessionArgs(args []string) (sessionTarget, error) {
	switch len(args) {
	case 0:
		return sessionTarget{}, nil
	case 2:
		if args[0] == "" {
			return sessionTarget{}, multiplayer.ErrInvalidRoom
		}
		side, err := pong.ParseSide(args[1])
		if err != nil {
			return sessionTarget{}, fmt.Errorf("%w: %q", multiplayer.ErrInvalidSide, args[1])
		}
		return sessionTarget{Room: args[0], Side: side}, nil
	default:
		return sessionTarget{}, errUsage
	}
}

// modelFor builds the model for an SSH command. For a networked match the
// returned link is seated in the hub; the caller closes it when the session
// ends. link is nil in local mode.
func (s *SSHServer) modelFor(args []string, logger *log.Logger) (tea.Model, *multiplayer.Link, error) {
	target, err := parseSessionArgs(args)
	if err != nil {
		return nil, nil, err
	}
	if target.Room == "" {
		return NewLocalModel(s.app, logger), nil, nil
	}

	link, err := s.hub.Attach(target.Room, target.Side, s.app.Relay.SessionBuffer)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With("room", target.Room, "side", string(target.Side))
	return NewNetModel(s.app, target.Room, target.Side, link, logger), link, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sess.Pty(); !ok {
		wish.Fatalln(sess, "no PTY requested; connect with ssh -t")
		return nil, nil
	}

	model, link, err := s.modelFor(sess.Command(), s.logger.With("user", sess.User()))
	if err != nil {
		wish.Fatalln(sess, err)
		return nil, nil
	}
	if link != nil {
		go func() {
			<-sess.Context().Done()
			link.Close()
		}()
	}
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"command", sess.Command(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"open_rooms", s.hub.RoomCount(),
		)
	}
}

// Run serves SSH sessions and the hub's cleanup loop until ctx is
// cancelled, then shuts down gracefully.
func (s *SSHServer) Run(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.hub.Run(gctx) })
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down...")
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
