/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import (
	"fmt"
	"strings"
)

// Role is a participant's privilege level. Lower values are more privileged.
type Role int

const (
	Admin Role = iota
	Spymaster
	Revealer
	Spectator
)

var roleNames = [...]string{
	Admin:     "admin",
	Spymaster: "spymaster",
	Revealer:  "revealer",
	Spectator: "spectator",
}

func (r Role) valid() bool {
	return r >= Admin && r <= Spectator
}

func (r Role) String() string {
	if !r.valid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}

	return roleNames[r]
}

// OutranksOrEquals reports whether r may act on behalf of, or hand out, role o.
func (r Role) OutranksOrEquals(o Role) bool {
	return r.valid() && o.valid() && r <= o
}

// SeesColors reports whether r may read the true color of unrevealed cells.
func (r Role) SeesColors() bool {
	return r == Admin || r == Spymaster
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if strings.EqualFold(s, name) {
			return Role(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.valid() {
		return nil, fmt.Errorf("%w: unknown role %d", ErrValidation, int(r))
	}

	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}
