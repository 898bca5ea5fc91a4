/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames_test

import (
	"sync"
	"testing"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/Seednode/codenames/internal/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueShare_RoleGating(t *testing.T) {
	roles := []codenames.Role{
		codenames.Admin,
		codenames.Spymaster,
		codenames.Revealer,
		codenames.Spectator,
	}

	for _, issuer := range roles {
		for _, requested := range roles {
			t.Run(issuer.String()+"/"+requested.String(), func(t *testing.T) {
				f := newFixture(t)

				token := f.admin.Token
				if issuer != codenames.Admin {
					token = f.share(t, issuer)
				}

				got, err := f.reg.IssueShare(f.room, token, requested)
				if !issuer.OutranksOrEquals(requested) {
					require.ErrorIs(t, err, codenames.ErrUnauthorized)
					assert.Empty(t, got)

					return
				}

				require.NoError(t, err)
				assert.Equal(t, requested, f.me(t, got).Role)
			})
		}
	}
}

func TestIssueShare_RevealerCannotMintAdmin(t *testing.T) {
	f := newFixture(t)

	revealer := f.share(t, codenames.Revealer)

	_, err := f.reg.IssueShare(f.room, revealer, codenames.Admin)
	require.ErrorIs(t, err, codenames.ErrUnauthorized)

	all, err := f.reg.ListParticipants(f.room, f.admin.Token)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIssueShare_InvalidRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.reg.IssueShare(f.room, f.admin.Token, codenames.Role(-1))
	require.ErrorIs(t, err, codenames.ErrValidation)
}

func TestIssueShare_Concurrent(t *testing.T) {
	f := newFixture(t)

	const n = 50

	tokens := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup

	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tokens[i], errs[i] = f.reg.IssueShare(f.room, f.admin.Token, codenames.Spectator)
		}()
	}

	wg.Wait()

	seenTokens := make(map[string]struct{}, n)
	seenIDs := make(map[string]struct{}, n)
	seenNames := make(map[string]struct{}, n)

	for i := range n {
		require.NoError(t, errs[i])

		me := f.me(t, tokens[i])

		seenTokens[tokens[i]] = struct{}{}
		seenIDs[me.ID] = struct{}{}
		seenNames[me.DisplayName] = struct{}{}
	}

	assert.Len(t, seenTokens, n)
	assert.Len(t, seenIDs, n)
	assert.Len(t, seenNames, n)

	all, err := f.reg.ListParticipants(f.room, f.admin.Token)
	require.NoError(t, err)
	assert.Len(t, all, n+1)
}

func TestIssueShare_TokenCollisionLeavesNamesAlone(t *testing.T) {
	gen := &scriptedGenerator{}
	reg := newTestRegistry(t, codenames.Options{
		Names:     names.New([]string{"Alpha", "Bravo"}),
		Generator: gen,
	})

	gen.queue("admin-token", "admin-id")

	created, err := reg.CreateRoom(testBoard())
	require.NoError(t, err)
	require.Equal(t, "admin-token", created.Token)

	// every token draw collides with the admin's
	gen.queue("admin-token", "admin-token", "admin-token", "admin-token", "admin-token")

	_, err = reg.IssueShare(created.RoomID, created.Token, codenames.Spectator)
	require.ErrorIs(t, err, codenames.ErrResourceExhausted)
	assert.True(t, codenames.IsRetryable(err))

	// the second name is still available
	token, err := reg.IssueShare(created.RoomID, created.Token, codenames.Spectator)
	require.NoError(t, err)

	me, err := reg.Me(created.RoomID, token)
	require.NoError(t, err)
	assert.NotEqual(t, created.DisplayName, me.DisplayName)

	all, err := reg.ListParticipants(created.RoomID, created.Token)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIssueShare_IdentifierCollisionLeavesNamesAlone(t *testing.T) {
	gen := &scriptedGenerator{}
	reg := newTestRegistry(t, codenames.Options{
		Names:     names.New([]string{"Alpha", "Bravo"}),
		Generator: gen,
	})

	gen.queue("admin-token", "admin-id")

	created, err := reg.CreateRoom(testBoard())
	require.NoError(t, err)
	require.Equal(t, "admin-id", created.Identifier)

	// the token is fresh but every identifier draw collides with the admin's
	gen.queue("fresh-token", "admin-id", "admin-id", "admin-id", "admin-id", "admin-id")

	_, err = reg.IssueShare(created.RoomID, created.Token, codenames.Revealer)
	require.ErrorIs(t, err, codenames.ErrResourceExhausted)
	assert.True(t, codenames.IsRetryable(err))

	_, err = reg.Me(created.RoomID, "fresh-token")
	require.ErrorIs(t, err, codenames.ErrUnauthorized)

	all, err := reg.ListParticipants(created.RoomID, created.Token)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	token, err := reg.IssueShare(created.RoomID, created.Token, codenames.Revealer)
	require.NoError(t, err)

	me, err := reg.Me(created.RoomID, token)
	require.NoError(t, err)
	assert.NotEqual(t, created.DisplayName, me.DisplayName)
	assert.Contains(t, []string{"Alpha", "Bravo"}, me.DisplayName)
}

func TestIssueShare_NamesExhausted(t *testing.T) {
	reg := newTestRegistry(t, codenames.Options{Names: names.New([]string{"Alpha", "Bravo"})})

	created, err := reg.CreateRoom(testBoard())
	require.NoError(t, err)

	_, err = reg.IssueShare(created.RoomID, created.Token, codenames.Revealer)
	require.NoError(t, err)

	_, err = reg.IssueShare(created.RoomID, created.Token, codenames.Revealer)
	require.ErrorIs(t, err, codenames.ErrResourceExhausted)
	assert.ErrorIs(t, err, names.ErrEmpty)

	all, err := reg.ListParticipants(created.RoomID, created.Token)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
