/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Room is one game session: a board plus the people allowed to see it.
//
// A single mutex guards the board, the participant indexes, the name pool and
// every participant's socket set, so cross-field operations (reveal and its
// broadcast snapshot, role changes, removals) are atomic to other callers.
// Broadcasts are always handed to the hub after the mutex is released.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	words        [BoardSize]string
	colors       [BoardSize]Color
	revealed     [BoardSize]bool
	participants []*participant
	byToken      map[string]*participant
	byID         map[string]*participant
	names        []string
	closed       bool

	pool   NamePool
	gen    Generator
	hub    *hub
	logger zerolog.Logger
}

// Info is a reader's view of the board.
type Info struct {
	Words    []string `json:"words"`
	Revealed []bool   `json:"revealed"`
	Colors   []Color  `json:"colors"`
}

func newRoom(id string, b Board, created time.Time, pool NamePool, gen Generator, h *hub, logger zerolog.Logger) *Room {
	r := &Room{
		ID:        id,
		CreatedAt: created,
		byToken:   make(map[string]*participant),
		byID:      make(map[string]*participant),
		names:     pool.Shuffle(),
		pool:      pool,
		gen:       gen,
		hub:       h,
		logger:    logger,
	}

	r.setBoardLocked(b)

	return r
}

// setBoardLocked assumes b has already been validated.
func (r *Room) setBoardLocked(b Board) {
	copy(r.words[:], b.Words)

	for i, c := range b.Colors {
		r.colors[i], _ = ParseColor(string(c))
	}

	r.revealed = [BoardSize]bool{}
}

// memberLocked authenticates token against the live participant set.
func (r *Room) memberLocked(token string) (*participant, error) {
	if r.closed {
		return nil, ErrRoomNotFound
	}

	p, ok := r.byToken[token]
	if !ok {
		return nil, ErrUnauthorized
	}

	return p, nil
}

func (r *Room) adminLocked(token string) (*participant, error) {
	p, err := r.memberLocked(token)
	if err != nil {
		return nil, err
	}

	if p.role != Admin {
		return nil, fmt.Errorf("%w: %s role required", ErrUnauthorized, Admin)
	}

	return p, nil
}

// socketsLocked snapshots every open socket in the room.
func (r *Room) socketsLocked() []Conn {
	var conns []Conn

	for _, p := range r.participants {
		for c := range p.sockets {
			conns = append(conns, c)
		}
	}

	return conns
}

// admitLocked creates a fully-formed participant and makes it visible. Every
// fallible step runs before the first mutation, so a failed admission leaves
// the room and its name pool untouched.
func (r *Room) admitLocked(role Role) (*participant, error) {
	if !role.valid() {
		return nil, fmt.Errorf("%w: unknown role %d", ErrValidation, int(role))
	}

	token, ok := tryN(retries, r.gen.Token, func(s string) bool {
		_, taken := r.byToken[s]

		return !taken
	})
	if !ok {
		return nil, fmt.Errorf("%w: could not generate an unused token", ErrResourceExhausted)
	}

	id, ok := tryN(retries, r.gen.Token, func(s string) bool {
		_, taken := r.byID[s]

		return !taken
	})
	if !ok {
		return nil, fmt.Errorf("%w: could not generate an unused identifier", ErrResourceExhausted)
	}

	name, err := r.pool.Pop(&r.names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}

	p := &participant{
		id:          id,
		token:       token,
		displayName: name,
		role:        role,
		sockets:     make(map[Conn]struct{}),
	}

	r.participants = append(r.participants, p)
	r.byToken[token] = p
	r.byID[id] = p

	r.logger.Info().
		Str("room", r.ID).
		Str("user", id).
		Str("displayname", name).
		Stringer("role", role).
		Msg("participant admitted")

	return p, nil
}

// Info returns the board as c may see it. Only admins and spymasters see the
// colors of unrevealed cells; everyone else gets Unknown for them.
func (r *Room) Info(c Credentials) (Info, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.memberLocked(c.token)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Words:    make([]string, BoardSize),
		Revealed: make([]bool, BoardSize),
		Colors:   make([]Color, BoardSize),
	}

	copy(info.Words, r.words[:])
	copy(info.Revealed, r.revealed[:])

	seesAll := p.role.SeesColors()
	for i := range BoardSize {
		if seesAll || r.revealed[i] {
			info.Colors[i] = r.colors[i]
		} else {
			info.Colors[i] = Unknown
		}
	}

	return info, nil
}

// Reveal turns cell face up. Revealing a cell twice is a silent no-op that
// broadcasts nothing.
func (r *Room) Reveal(c Credentials, cell int) error {
	r.mu.Lock()

	p, err := r.memberLocked(c.token)
	if err != nil {
		r.mu.Unlock()

		return err
	}

	if cell < 0 || cell >= BoardSize {
		r.mu.Unlock()

		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, cell, BoardSize)
	}

	if p.role == Spectator {
		r.mu.Unlock()

		return fmt.Errorf("%w: spectators cannot reveal cells", ErrUnauthorized)
	}

	if r.revealed[cell] {
		r.mu.Unlock()

		return nil
	}

	r.revealed[cell] = true

	ev := newEvent(EventClick, p).with("cell", cell)
	conns := r.socketsLocked()

	r.mu.Unlock()

	r.hub.publish(r.ID, ev, conns)

	return nil
}

// Replace swaps in a new board and hides every cell again.
func (r *Room) Replace(c Credentials, b Board) error {
	r.mu.Lock()

	p, err := r.adminLocked(c.token)
	if err != nil {
		r.mu.Unlock()

		return err
	}

	if err := b.Validate(); err != nil {
		r.mu.Unlock()

		return err
	}

	r.setBoardLocked(b)

	ev := newEvent(EventRoomChange, p)
	conns := r.socketsLocked()

	r.mu.Unlock()

	r.logger.Info().Str("room", r.ID).Str("user", p.id).Msg("board replaced")

	r.hub.publish(r.ID, ev, conns)

	return nil
}

// Participants lists every member of the room in admission order.
func (r *Room) Participants(c Credentials) ([]Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.memberLocked(c.token); err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(r.participants))
	for _, p := range r.participants {
		summaries = append(summaries, p.summary())
	}

	return summaries, nil
}

// Self returns the caller's own current summary.
func (r *Room) Self(c Credentials) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.memberLocked(c.token)
	if err != nil {
		return Summary{}, err
	}

	return p.summary(), nil
}

// RemoveParticipant drops the participant with the given identifier. Its
// token stops working immediately; its sockets are closed in the background.
func (r *Room) RemoveParticipant(c Credentials, id string) error {
	r.mu.Lock()

	admin, err := r.adminLocked(c.token)
	if err != nil {
		r.mu.Unlock()

		return err
	}

	target, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()

		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	dst := r.participants[:0]
	for _, p := range r.participants {
		if p != target {
			dst = append(dst, p)
		}
	}
	clear(r.participants[len(dst):])
	r.participants = dst

	delete(r.byToken, target.token)
	delete(r.byID, target.id)

	conns := make([]Conn, 0, len(target.sockets))
	for conn := range target.sockets {
		conns = append(conns, conn)
	}
	clear(target.sockets)

	r.mu.Unlock()

	r.logger.Info().
		Str("room", r.ID).
		Str("user", target.id).
		Str("by", admin.id).
		Int("sockets", len(conns)).
		Msg("participant removed")

	r.hub.closeAll(conns)

	return nil
}

// ChangeRole sets the role of the participant with the given identifier.
func (r *Room) ChangeRole(c Credentials, id string, role Role) error {
	if !role.valid() {
		return fmt.Errorf("%w: unknown role %d", ErrValidation, int(role))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	admin, err := r.adminLocked(c.token)
	if err != nil {
		return err
	}

	target, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	target.role = role

	r.logger.Info().
		Str("room", r.ID).
		Str("user", target.id).
		Stringer("role", role).
		Str("by", admin.id).
		Msg("role changed")

	return nil
}

// close detaches the room from every future operation and returns the
// sockets that were open at the time.
func (r *Room) close() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true

	conns := r.socketsLocked()
	for _, p := range r.participants {
		clear(p.sockets)
	}

	return conns
}
