/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import "fmt"

// IssueShare admits a new participant at role and returns its token. The
// caller must hold role or a more privileged one. A failed issuance changes
// nothing, not even the name pool.
func (r *Room) IssueShare(c Credentials, role Role) (string, error) {
	if !role.valid() {
		return "", fmt.Errorf("%w: unknown role %d", ErrValidation, int(role))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	issuer, err := r.memberLocked(c.token)
	if err != nil {
		return "", err
	}

	if !issuer.role.OutranksOrEquals(role) {
		return "", fmt.Errorf("%w: %s cannot issue %s", ErrUnauthorized, issuer.role, role)
	}

	p, err := r.admitLocked(role)
	if err != nil {
		return "", err
	}

	return p.token, nil
}
