/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/google/uuid"
)

// retries bounds every collision-checked random draw.
const retries = 5

// Generator produces the random opaque strings used for room ids, tokens and
// participant identifiers.
type Generator interface {
	RoomID() string
	Token() string
}

type uuidGenerator struct{}

// RoomID is the URL-safe base64 form of the first 9 bytes of a random uuid.
func (uuidGenerator) RoomID() string {
	u := uuid.New()

	return base64.URLEncoding.EncodeToString(u[:9])
}

func (uuidGenerator) Token() string {
	u := uuid.New()

	return hex.EncodeToString(u[:])
}

// tryN draws up to n candidates and returns the first one accepted by ok.
func tryN(n int, draw func() string, ok func(string) bool) (string, bool) {
	for range n {
		candidate := draw()
		if ok(candidate) {
			return candidate, true
		}
	}

	return "", false
}
