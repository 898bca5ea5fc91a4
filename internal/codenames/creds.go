/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import "strings"

// Credentials bind a bearer token to the room and participant it resolved
// to. They can only be obtained through Registry.Resolve; every Room
// operation re-checks the token under the room's lock, so a participant
// removed after resolution is rejected.
type Credentials struct {
	Room *Room
	User Summary

	token string
}

func (c Credentials) Role() Role {
	return c.User.Role
}

func (c Credentials) IsAdmin() bool {
	return c.User.Role == Admin
}

// BearerToken strips an optional "Bearer " scheme from an Authorization value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)

	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return header
}

// Resolve looks up roomID and authenticates token against its participants.
func (g *Registry) Resolve(roomID, token string) (Credentials, error) {
	room, err := g.Lookup(roomID)
	if err != nil {
		return Credentials{}, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	p, err := room.memberLocked(token)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Room:  room,
		User:  p.summary(),
		token: token,
	}, nil
}
