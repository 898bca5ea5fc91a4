/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

// participant is one member of a room. Every field except role and sockets
// is fixed before the record is reachable through the room's indexes.
type participant struct {
	id          string
	token       string
	displayName string
	role        Role

	// open sockets, guarded by the owning room's mutex
	sockets map[Conn]struct{}
}

func (p *participant) online() bool {
	return len(p.sockets) > 0
}

func (p *participant) summary() Summary {
	return Summary{
		ID:          p.id,
		DisplayName: p.displayName,
		Online:      p.online(),
		Role:        p.role,
	}
}

// Summary is the non-secret view of a participant. It never carries the token.
type Summary struct {
	ID          string `json:"user_id"`
	DisplayName string `json:"displayname"`
	Online      bool   `json:"online"`
	Role        Role   `json:"role"`
}
