/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import "errors"

var (
	ErrValidation        = errors.New("invalid request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRoomNotFound      = errors.New("room does not exist")
	ErrNotFound          = errors.New("participant does not exist")
	ErrOutOfRange        = errors.New("cell index out of range")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrCapacityExceeded  = errors.New("too many rooms")
)

// IsRetryable reports whether err is transient, so the same request may
// succeed later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrResourceExhausted) || errors.Is(err, ErrCapacityExceeded)
}
