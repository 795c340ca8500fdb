package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/internal/model"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sharedUIDs(t *testing.T, env *testEnv, noteID int64) []int64 {
	t.Helper()
	n, err := env.noteRepo.GetByID(context.Background(), noteID)
	require.NoError(t, err)
	return n.SharedUsers
}

func TestShareService_Share(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	carol := env.mustUser(t, "carol")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")

	require.NoError(t, env.shares.Share(ctx, alice, &dto.NoteShareRequest{ID: n.ID, Usernames: []string{"bob", "carol", "bob"}}))
	assert.ElementsMatch(t, []int64{bob, carol}, sharedUIDs(t, env, n.ID))

	users, err := env.shares.SharedUsers(ctx, bob, n.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)
}

func TestShareService_ShareIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob")
	env.mustShare(t, alice, n.ID, "bob")

	assert.Equal(t, []int64{bob}, sharedUIDs(t, env, n.ID))
}

func TestShareService_OwnerIsNotGranted(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "alice", "bob")

	assert.Equal(t, []int64{bob}, sharedUIDs(t, env, n.ID))
}

func TestShareService_UnknownUserLeavesGrantsUnchanged(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	env.mustUser(t, "carol")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob")

	err := env.shares.Share(ctx, alice, &dto.NoteShareRequest{ID: n.ID, Usernames: []string{"carol", "ghost_one", "ghost_two"}})
	require.ErrorIs(t, err, code.ErrorUserNotFound)

	var c *code.Code
	require.True(t, errors.As(err, &c))
	assert.Equal(t, []string{"ghost_one"}, c.Details())

	assert.Equal(t, []int64{bob}, sharedUIDs(t, env, n.ID))
}

func TestShareService_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")

	tests := []struct {
		name    string
		uid     int64
		request *dto.NoteShareRequest
		want    *code.Code
	}{
		{"empty list", alice, &dto.NoteShareRequest{ID: n.ID}, code.ErrorShareUsernamesRequired},
		{"blank name", alice, &dto.NoteShareRequest{ID: n.ID, Usernames: []string{"bob", " "}}, code.ErrorShareUsernamesRequired},
		{"missing note", alice, &dto.NoteShareRequest{ID: 42, Usernames: []string{"bob"}}, code.ErrorNoteNotFound},
		{"not owner", bob, &dto.NoteShareRequest{ID: n.ID, Usernames: []string{"bob"}}, code.ErrorNoteShareForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, env.shares.Share(ctx, tt.uid, tt.request), tt.want)
		})
	}
	assert.Empty(t, sharedUIDs(t, env, n.ID))
}

func TestShareService_Unshare(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	carol := env.mustUser(t, "carol")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob", "carol")

	assert.ErrorIs(t,
		env.shares.Unshare(ctx, bob, &dto.NoteUnshareRequest{ID: n.ID, Usernames: []string{"carol"}}),
		code.ErrorNoteShareForbidden,
	)

	require.NoError(t, env.shares.Unshare(ctx, alice, &dto.NoteUnshareRequest{ID: n.ID, Usernames: []string{"bob"}}))
	assert.Equal(t, []int64{carol}, sharedUIDs(t, env, n.ID))

	_, err := env.notes.AppendContent(ctx, bob, &dto.NoteAppendRequest{ID: n.ID, Content: "x"})
	assert.ErrorIs(t, err, code.ErrorNoteEditForbidden)

	// 取消未分享的用户不报错
	require.NoError(t, env.shares.Unshare(ctx, alice, &dto.NoteUnshareRequest{ID: n.ID, Usernames: []string{"bob"}}))
}

func TestShareService_SharedUsersForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	mallory := env.mustUser(t, "mallory")

	n := env.mustNote(t, alice, "hello")

	_, err := env.shares.SharedUsers(context.Background(), mallory, n.ID)
	assert.ErrorIs(t, err, code.ErrorNoteReadForbidden)
}

// deletingResolver deletes the note while the names are being resolved.
type deletingResolver struct {
	UsernameResolver
	once   sync.Once
	delete func()
}

func (r *deletingResolver) ResolveUsername(ctx context.Context, username string) (int64, error) {
	uid, err := r.UsernameResolver.ResolveUsername(ctx, username)
	r.once.Do(r.delete)
	return uid, err
}

func TestShareService_NoteDeletedDuringResolve(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	env.mustUser(t, "bob")
	ctx := context.Background()

	for _, tt := range []struct {
		name string
		run  func(s ShareService, noteID int64) error
	}{
		{"share", func(s ShareService, noteID int64) error {
			return s.Share(ctx, alice, &dto.NoteShareRequest{ID: noteID, Usernames: []string{"bob"}})
		}},
		{"unshare", func(s ShareService, noteID int64) error {
			return s.Unshare(ctx, alice, &dto.NoteUnshareRequest{ID: noteID, Usernames: []string{"bob"}})
		}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			target := env.mustNote(t, alice, "doomed")
			resolver := &deletingResolver{
				UsernameResolver: env.users,
				delete: func() {
					assert.NoError(t, env.notes.Delete(ctx, alice, target.ID))
				},
			}
			shares := NewShareService(env.dao, env.noteRepo, env.userRepo, resolver, env.wq, nil, zap.NewNop(), &AppServiceConfig{})

			assert.ErrorIs(t, tt.run(shares, target.ID), code.ErrorNoteNotFound)

			var rows int64
			require.NoError(t, env.dao.DB(ctx).Model(&model.NoteSharedUser{}).Where("note_id = ?", target.ID).Count(&rows).Error)
			assert.Zero(t, rows, "no grant may outlive the note")
		})
	}
}
