/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait      = 10 * time.Second
	handshakeWait  = 10 * time.Second
	maxMessageSize = 1024
	sendBuffer     = 32
)

var (
	errClientClosed     = errors.New("client closed")
	errClientBacklogged = errors.New("client send buffer full")
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: timeout,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket subscribed to a room. It satisfies codenames.Conn:
// events are queued on send and written by writePump, so a slow peer never
// blocks a broadcast.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errClientClosed
	}

	select {
	case c.send <- payload:
		return nil
	default:
		c.closeLocked()

		return errClientBacklogged
	}
}

// Close stops the write pump, which then closes the connection and unblocks
// the read pump.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	return nil
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}

func (c *Client) readPump(cfg *Config, sub *codenames.Subscription) {
	defer func() {
		sub.Close()
		_ = c.Close()
		_ = c.conn.Close()
	}()

	pongWait := 2 * cfg.pingInterval

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// clients never need to talk after the handshake; anything they send
	// only proves the connection is alive
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) writePump(cfg *Config) {
	ticker := time.NewTicker(cfg.pingInterval)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// rejectSocket closes an upgraded connection that failed the token handshake.
func rejectSocket(conn *websocket.Conn, err error) {
	reason := "Unauthorized"
	if errors.Is(err, codenames.ErrRoomNotFound) {
		reason = "Room does not exist"
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(writeWait))
	_ = conn.Close()
}

// handshake reads the token the client sends as its first text frame.
func handshake(conn *websocket.Conn) (string, error) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))

	kind, msg, err := conn.ReadMessage()
	if err != nil {
		return "", err
	}

	if kind != websocket.TextMessage {
		return "", codenames.ErrUnauthorized
	}

	return codenames.BearerToken(string(msg)), nil
}

// serveSubscription streams a room's events over a websocket. The token comes
// either from ?token= or the Authorization header, in which case a bad token
// is refused before the upgrade, or from the first text frame, in which case
// the socket is closed with a policy violation.
func serveSubscription(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")

		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			token = tokenFrom(r)
		}

		var (
			creds codenames.Credentials
			err   error
		)

		if token != "" {
			creds, err = reg.Resolve(roomID, token)
		} else {
			_, err = reg.Lookup(roomID)
		}
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade for %s: %v", realIP(r), err)

			return
		}

		if token == "" {
			token, err = handshake(conn)
			if err != nil {
				rejectSocket(conn, err)

				return
			}

			creds, err = reg.Resolve(roomID, token)
			if err != nil {
				rejectSocket(conn, err)

				return
			}
		}

		client := newClient(conn)

		sub, err := creds.Room.Subscribe(creds, client)
		if err != nil {
			rejectSocket(conn, err)

			return
		}

		logf(cfg, "SOCKS: %s (%s) subscribed to %s from %s", sub.User.DisplayName, sub.User.ID, roomID, realIP(r))

		go client.writePump(cfg)
		client.readPump(cfg, sub)

		logf(cfg, "SOCKS: %s (%s) left %s", sub.User.DisplayName, sub.User.ID, roomID)
	}
}
