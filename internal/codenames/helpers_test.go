/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/Seednode/codenames/internal/names"
	"github.com/stretchr/testify/require"
)

// fakeConn records every payload it is sent.
type fakeConn struct {
	mu       sync.Mutex
	payloads [][]byte
	closes   int
	fail     bool
}

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("peer gone")
	}

	f.payloads = append(f.payloads, payload)

	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closes++

	return nil
}

func (f *fakeConn) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closes
}

func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0, len(f.payloads))
	for _, p := range f.payloads {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(p, &ev))
		out = append(out, ev)
	}

	return out
}

func (f *fakeConn) named(t *testing.T, name string) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, ev := range f.events(t) {
		if ev["event"] == name {
			out = append(out, ev)
		}
	}

	return out
}

// scriptedGenerator hands out queued tokens first, then unique fallbacks.
type scriptedGenerator struct {
	mu      sync.Mutex
	rooms   []string
	tokens  []string
	counter int
}

func (g *scriptedGenerator) RoomID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.rooms) > 0 {
		id := g.rooms[0]
		g.rooms = g.rooms[1:]

		return id
	}

	g.counter++

	return fmt.Sprintf("room-%d", g.counter)
}

func (g *scriptedGenerator) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.tokens) > 0 {
		tok := g.tokens[0]
		g.tokens = g.tokens[1:]

		return tok
	}

	g.counter++

	return fmt.Sprintf("token-%d", g.counter)
}

func (g *scriptedGenerator) queue(tokens ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tokens = append(g.tokens, tokens...)
}

func testBoard() codenames.Board {
	b := codenames.Board{
		Words:  make([]string, codenames.BoardSize),
		Colors: make([]codenames.Color, codenames.BoardSize),
	}

	palette := []codenames.Color{codenames.Red, codenames.Blue, codenames.Neutral}
	for i := range codenames.BoardSize {
		b.Words[i] = fmt.Sprintf("word%02d", i)
		b.Colors[i] = palette[i%len(palette)]
	}
	b.Colors[7] = codenames.Black

	return b
}

func newTestRegistry(t *testing.T, opts codenames.Options) *codenames.Registry {
	t.Helper()

	reg := codenames.NewRegistry(opts)
	t.Cleanup(reg.Shutdown)

	return reg
}

type fixture struct {
	reg   *codenames.Registry
	room  string
	admin codenames.Created
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := newTestRegistry(t, codenames.Options{Names: names.Default()})

	created, err := reg.CreateRoom(testBoard())
	require.NoError(t, err)

	return &fixture{reg: reg, room: created.RoomID, admin: created}
}

func (f *fixture) share(t *testing.T, role codenames.Role) string {
	t.Helper()

	token, err := f.reg.IssueShare(f.room, f.admin.Token, role)
	require.NoError(t, err)

	return token
}

func (f *fixture) subscribe(t *testing.T, token string) (*fakeConn, *codenames.Subscription) {
	t.Helper()

	conn := &fakeConn{}
	sub, err := f.reg.Subscribe(f.room, token, conn)
	require.NoError(t, err)

	return conn, sub
}

func (f *fixture) me(t *testing.T, token string) codenames.Summary {
	t.Helper()

	me, err := f.reg.Me(f.room, token)
	require.NoError(t, err)

	return me
}
