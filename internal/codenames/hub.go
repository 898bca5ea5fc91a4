/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import (
	"encoding/json"
	"maps"
	"sync"

	"github.com/rs/zerolog"
)

const (
	EventClick       = "click"
	EventRoomChange  = "roomchange"
	EventUserOnline  = "useronline"
	EventUserOffline = "useroffline"
)

// Conn is a write-capable handle on one live socket. The transport owns the
// real connection; Send and Close must be safe for concurrent use.
// Events reach a Conn in no guaranteed order.
type Conn interface {
	Send(payload []byte) error
	Close() error
}

// Event is a state change pushed to every open socket of a room.
type Event struct {
	Name        string
	Actor       string
	DisplayName string
	Fields      map[string]any
}

func newEvent(name string, actor *participant) Event {
	ev := Event{Name: name}
	if actor != nil {
		ev.Actor = actor.id
		ev.DisplayName = actor.displayName
	}

	return ev
}

func (e Event) with(key string, value any) Event {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value

	return e
}

// MarshalJSON flattens the event into {"event", "user", "displayname", ...fields}.
func (e Event) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+3)
	maps.Copy(m, e.Fields)

	m["event"] = e.Name
	if e.Actor != "" {
		m["user"] = e.Actor
		m["displayname"] = e.DisplayName
	}

	return json.Marshal(m)
}

// hub fans events out to sockets. It never holds a room lock: callers
// snapshot the target sockets while locked and hand them over afterwards.
type hub struct {
	logger  zerolog.Logger
	pending sync.WaitGroup
}

// publish serializes ev once and delivers it to every conn concurrently,
// without blocking the caller. Separate publishes are not ordered relative to
// each other: a socket may receive two events in the reverse of the order
// they were published in. Failed deliveries are logged and dropped; the
// owning connection notices the broken peer on its own read loop.
func (h *hub) publish(roomID string, ev Event, conns []Conn) {
	if len(conns) == 0 {
		return
	}

	h.pending.Add(1)

	go func() {
		defer h.pending.Done()

		payload, err := json.Marshal(ev)
		if err != nil {
			h.logger.Error().Err(err).Str("room", roomID).Str("event", ev.Name).Msg("failed to encode event")

			return
		}

		var wg sync.WaitGroup

		for _, conn := range conns {
			wg.Add(1)

			go func(conn Conn) {
				defer wg.Done()

				if err := conn.Send(payload); err != nil {
					h.logger.Debug().Err(err).Str("room", roomID).Str("event", ev.Name).Msg("dropped event")
				}
			}(conn)
		}

		wg.Wait()
	}()
}

// closeAll closes conns in the background.
func (h *hub) closeAll(conns []Conn) {
	if len(conns) == 0 {
		return
	}

	h.pending.Add(1)

	go func() {
		defer h.pending.Done()

		var wg sync.WaitGroup

		for _, conn := range conns {
			wg.Add(1)

			go func(conn Conn) {
				defer wg.Done()

				_ = conn.Close()
			}(conn)
		}

		wg.Wait()
	}()
}

func (h *hub) wait() {
	h.pending.Wait()
}

// Subscription is one socket's membership in a room's broadcast set.
type Subscription struct {
	User Summary

	room   *Room
	member *participant
	conn   Conn
	once   sync.Once
}

// Subscribe registers conn under c's participant. The participant's first
// socket moves it online and announces that to the whole room.
func (r *Room) Subscribe(c Credentials, conn Conn) (*Subscription, error) {
	r.mu.Lock()

	p, err := r.memberLocked(c.token)
	if err != nil {
		r.mu.Unlock()

		return nil, err
	}

	wasOffline := !p.online()
	p.sockets[conn] = struct{}{}

	sub := &Subscription{
		User:   p.summary(),
		room:   r,
		member: p,
		conn:   conn,
	}

	var (
		ev    Event
		conns []Conn
	)
	if wasOffline {
		ev = newEvent(EventUserOnline, p)
		conns = r.socketsLocked()
	}

	r.mu.Unlock()

	if wasOffline {
		r.logger.Debug().Str("room", r.ID).Str("user", p.id).Msg("participant online")

		r.hub.publish(r.ID, ev, conns)
	}

	return sub, nil
}

// Close removes the socket from its participant. It runs at most once; the
// participant's last socket to close moves it offline and announces that.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.room.unsubscribe(s.member, s.conn)
	})
}

func (r *Room) unsubscribe(p *participant, conn Conn) {
	r.mu.Lock()

	// removed participants and closed rooms have already dropped their sockets
	if r.byID[p.id] != p {
		r.mu.Unlock()

		return
	}

	if _, ok := p.sockets[conn]; !ok {
		r.mu.Unlock()

		return
	}

	delete(p.sockets, conn)

	if p.online() {
		r.mu.Unlock()

		return
	}

	ev := newEvent(EventUserOffline, p)
	conns := r.socketsLocked()

	r.mu.Unlock()

	r.logger.Debug().Str("room", r.ID).Str("user", p.id).Msg("participant offline")

	r.hub.publish(r.ID, ev, conns)
}
