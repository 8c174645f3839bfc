package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/protocol"
)

// ClientConfig holds connection tuning for Dial.
type ClientConfig struct {
	WriteWait time.Duration
	PongWait  time.Duration
	SendQueue int
	Logger    *log.Logger
}

// Client is one game's connection to the relay. It satisfies
// netplay.Transport.
type Client struct {
	conn      *websocket.Conn
	sendCh    chan []byte
	inbound   chan []byte
	done      chan struct{}
	writeWait time.Duration
	pongWait  time.Duration
	logger    *log.Logger

	mu     sync.Mutex
	closed bool
}

// Dial connects to the relay at serverURL and takes side in room.
// The room and side are passed as the "room" and "side" query parameters.
func Dial(ctx context.Context, serverURL, room string, side pong.Side, cfg ClientConfig) (*Client, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("transport: invalid side %q", string(side))
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse url: %w", err)
	}
	q := u.Query()
	q.Set("room", room)
	q.Set("side", string(side))
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("transport: dial %s: %s: %w", u.Redacted(), resp.Status, err)
		}
		return nil, fmt.Errorf("transport: dial %s: %w", u.Redacted(), err)
	}

	queue := cfg.SendQueue
	if queue <= 0 {
		queue = defaultQueue
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Client{
		conn:      conn,
		sendCh:    make(chan []byte, queue),
		inbound:   make(chan []byte, queue),
		done:      make(chan struct{}),
		writeWait: orDefault(cfg.WriteWait, defaultWriteWait),
		pongWait:  orDefault(cfg.PongWait, defaultPongWait),
		logger:    logger.With("room", room, "side", string(side)),
	}
	go c.writePump()
	go c.readPump()
	return c, nil
}

// Send encodes msg and queues it for the relay. It never blocks.
func (c *Client) Send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.sendCh <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// Inbound yields frames from the peer. It is closed when the connection ends.
func (c *Client) Inbound() <-chan []byte {
	return c.inbound
}

// Done closes when the connection ends for any reason.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close shuts down the connection. Safe to call multiple times.
func (c *Client) Close() error {
	if !c.shutdown() {
		return nil
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.writeWait))
	return c.conn.Close()
}

// shutdown marks the client closed and reports whether this call did it.
func (c *Client) shutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	close(c.done)
	return true
}

// readPump reads frames from the relay until the connection fails.
func (c *Client) readPump() {
	defer func() {
		close(c.inbound)
		if c.shutdown() {
			c.conn.Close()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", "error", err)
			}
			return
		}
		select {
		case c.inbound <- frame:
		case <-c.done:
			return
		}
	}
}

// writePump writes queued frames and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval(c.pongWait))
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
