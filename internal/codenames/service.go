/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

// The methods below resolve (roomID, token) and run one room operation. They
// are what a transport calls per request.

func (g *Registry) GetRoom(roomID, token string) (Info, error) {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return Info{}, err
	}

	return c.Room.Info(c)
}

func (g *Registry) ReplaceRoom(roomID, token string, b Board) error {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return err
	}

	return c.Room.Replace(c, b)
}

func (g *Registry) DeleteRoom(roomID, token string) error {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return err
	}

	return g.Delete(c)
}

func (g *Registry) Reveal(roomID, token string, cell int) error {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return err
	}

	return c.Room.Reveal(c, cell)
}

func (g *Registry) IssueShare(roomID, token string, role Role) (string, error) {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return "", err
	}

	return c.Room.IssueShare(c, role)
}

func (g *Registry) ListParticipants(roomID, token string) ([]Summary, error) {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return nil, err
	}

	return c.Room.Participants(c)
}

func (g *Registry) Me(roomID, token string) (Summary, error) {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return Summary{}, err
	}

	return c.Room.Self(c)
}

func (g *Registry) RemoveParticipant(roomID, token, target string) error {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return err
	}

	return c.Room.RemoveParticipant(c, target)
}

func (g *Registry) ChangeRole(roomID, token, target string, role Role) error {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return err
	}

	return c.Room.ChangeRole(c, target, role)
}

func (g *Registry) Subscribe(roomID, token string, conn Conn) (*Subscription, error) {
	c, err := g.Resolve(roomID, token)
	if err != nil {
		return nil, err
	}

	return c.Room.Subscribe(c, conn)
}
