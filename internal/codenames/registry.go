/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import (
	"fmt"
	"sync"
	"time"

	"github.com/Seednode/codenames/internal/names"
	"github.com/rs/zerolog"
)

// DefaultCapacity is the number of rooms a registry holds unless configured.
const DefaultCapacity = 100

// NamePool supplies display names: one shuffled working copy per room, popped
// once per admitted participant.
type NamePool interface {
	Shuffle() []string
	Pop(pool *[]string) (string, error)
}

type Options struct {
	// Capacity is the maximum number of concurrent rooms.
	Capacity int

	Names     NamePool
	Generator Generator
	Now       func() time.Time

	// Logger receives room lifecycle and delivery logs. Nil discards them.
	Logger *zerolog.Logger
}

// Registry holds every live room, keyed by room id.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	capacity int
	names    NamePool
	gen      Generator
	now      func() time.Time
	logger   zerolog.Logger
	hub      *hub
}

func NewRegistry(opts Options) *Registry {
	g := &Registry{
		rooms:    make(map[string]*Room),
		capacity: opts.Capacity,
		names:    opts.Names,
		gen:      opts.Generator,
		now:      opts.Now,
	}

	if g.capacity <= 0 {
		g.capacity = DefaultCapacity
	}
	if g.names == nil {
		g.names = names.Default()
	}
	if g.gen == nil {
		g.gen = uuidGenerator{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	if opts.Logger != nil {
		g.logger = *opts.Logger
	} else {
		g.logger = zerolog.Nop()
	}

	g.hub = &hub{logger: g.logger}

	return g
}

// Created is what the creator of a room needs to act as its admin.
type Created struct {
	RoomID      string `json:"id"`
	Token       string `json:"token"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"displayname"`
}

// CreateRoom validates b, allocates a room id and a bootstrap admin, and
// registers the room.
func (g *Registry) CreateRoom(b Board) (Created, error) {
	if err := b.Validate(); err != nil {
		return Created{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.rooms) >= g.capacity {
		return Created{}, fmt.Errorf("%w: limit is %d", ErrCapacityExceeded, g.capacity)
	}

	id, ok := tryN(retries, g.gen.RoomID, func(s string) bool {
		_, taken := g.rooms[s]

		return !taken
	})
	if !ok {
		return Created{}, fmt.Errorf("%w: could not generate an unused room id", ErrResourceExhausted)
	}

	room := newRoom(id, b, g.now(), g.names, g.gen, g.hub, g.logger)

	room.mu.Lock()
	admin, err := room.admitLocked(Admin)
	room.mu.Unlock()
	if err != nil {
		return Created{}, err
	}

	g.rooms[id] = room

	g.logger.Info().Str("room", id).Int("rooms", len(g.rooms)).Msg("room created")

	return Created{
		RoomID:      id,
		Token:       admin.token,
		Identifier:  admin.id,
		DisplayName: admin.displayName,
	}, nil
}

// Lookup returns the live room registered under id.
func (g *Registry) Lookup(id string) (*Room, error) {
	g.mu.RLock()
	room, ok := g.rooms[id]
	g.mu.RUnlock()

	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.rooms)
}

// Delete removes c's room. Only its admins may do so. Sockets still open on
// the room are closed in the background.
func (g *Registry) Delete(c Credentials) error {
	room := c.Room

	room.mu.Lock()
	admin, err := room.adminLocked(c.token)
	room.mu.Unlock()
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.rooms[room.ID] != room {
		g.mu.Unlock()

		return ErrRoomNotFound
	}
	delete(g.rooms, room.ID)
	g.mu.Unlock()

	conns := room.close()

	g.logger.Info().Str("room", room.ID).Str("by", admin.id).Int("sockets", len(conns)).Msg("room deleted")

	g.hub.closeAll(conns)

	return nil
}

// Drain blocks until every broadcast and background close started so far
// has finished.
func (g *Registry) Drain() {
	g.hub.wait()
}

// Shutdown closes every room and its sockets, then waits for outstanding
// deliveries.
func (g *Registry) Shutdown() {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for id, room := range g.rooms {
		rooms = append(rooms, room)
		delete(g.rooms, id)
	}
	g.mu.Unlock()

	for _, room := range rooms {
		g.hub.closeAll(room.close())
	}

	g.Drain()
}
