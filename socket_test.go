/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) wsURL(roomID string) string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/roomSubscription/" + roomID
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()

	t.Cleanup(func() { conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(msg, &ev))

	return ev
}

// expectClose reads until the server closes the socket and returns the close code.
func expectClose(t *testing.T, conn *websocket.Conn) int {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}

		var ce *websocket.CloseError
		require.ErrorAs(t, err, &ce)

		return ce.Code
	}
}

func TestSubscription_QueryToken(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	conn := dial(t, srv.wsURL(room.RoomID)+"?token="+room.Token)

	online := readEvent(t, conn)
	assert.Equal(t, codenames.EventUserOnline, online["event"])
	assert.Equal(t, room.Identifier, online["user"])

	revealer := srv.share(t, room, "revealer")

	resp := srv.do(t, http.MethodPut, "/room/"+room.RoomID+"/3", revealer, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	click := readEvent(t, conn)
	assert.Equal(t, codenames.EventClick, click["event"])
	assert.EqualValues(t, 3, click["cell"])

	resp = srv.do(t, http.MethodGet, "/user/"+room.RoomID+"/me", room.Token, nil)
	assert.Equal(t, true, decode[codenames.Summary](t, resp).Online)
}

func TestSubscription_FirstFrameToken(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	conn := dial(t, srv.wsURL(room.RoomID))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(room.Token)))

	online := readEvent(t, conn)
	assert.Equal(t, codenames.EventUserOnline, online["event"])
	assert.Equal(t, room.DisplayName, online["displayname"])
}

func TestSubscription_FirstFrameBadToken(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	conn := dial(t, srv.wsURL(room.RoomID))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("forged")))

	assert.Equal(t, websocket.ClosePolicyViolation, expectClose(t, conn))
}

func TestSubscription_FirstFrameTooLarge(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	conn := dial(t, srv.wsURL(room.RoomID))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", 4*maxMessageSize))))

	assert.Equal(t, websocket.CloseMessageTooBig, expectClose(t, conn))
}

func TestSubscription_RejectedBeforeUpgrade(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "bad token", url: srv.wsURL(room.RoomID) + "?token=forged", want: http.StatusUnauthorized},
		{name: "missing room", url: srv.wsURL("missing") + "?token=" + room.Token, want: http.StatusNotFound},
		{name: "missing room without token", url: srv.wsURL("missing"), want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(tt.url, nil)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSubscription_ClosedOnRemoval(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	spectator := srv.share(t, room, "spectator")

	resp := srv.do(t, http.MethodGet, "/user/"+room.RoomID+"/me", spectator, nil)
	userID := decode[codenames.Summary](t, resp).ID

	conn := dial(t, srv.wsURL(room.RoomID)+"?token="+spectator)
	readEvent(t, conn)

	resp = srv.do(t, http.MethodDelete, "/user/"+room.RoomID+"/"+userID, room.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, websocket.CloseNormalClosure, expectClose(t, conn))
}

func TestSubscription_OfflineOnDisconnect(t *testing.T) {
	srv := newTestServer(t, codenames.Options{})
	room := srv.createRoom(t)

	watcher := dial(t, srv.wsURL(room.RoomID)+"?token="+room.Token)
	readEvent(t, watcher)

	spectator := srv.share(t, room, "spectator")

	conn := dial(t, srv.wsURL(room.RoomID)+"?token="+spectator)

	online := readEvent(t, watcher)
	assert.Equal(t, codenames.EventUserOnline, online["event"])

	require.NoError(t, conn.Close())

	offline := readEvent(t, watcher)
	assert.Equal(t, codenames.EventUserOffline, offline["event"])
	assert.Equal(t, online["user"], offline["user"])
}
