package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteHistoryService_List(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	mallory := env.mustUser(t, "mallory")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob")
	_, err := env.notes.AppendContent(ctx, alice, &dto.NoteAppendRequest{ID: n.ID, Content: "one"})
	require.NoError(t, err)
	_, err = env.notes.AppendContent(ctx, bob, &dto.NoteAppendRequest{ID: n.ID, Content: "two"})
	require.NoError(t, err)

	list, err := env.histories.List(ctx, bob, n.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, domain.HistoryChangeCreated, list[0].Change)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "Note updated: Added 'one' by user alice", list[1].Change)
	assert.Equal(t, "Note updated: Added 'two' by user bob", list[2].Change)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}

	_, err = env.histories.List(ctx, mallory, n.ID)
	assert.ErrorIs(t, err, code.ErrorNoteHistoryForbidden)

	_, err = env.histories.List(ctx, alice, 77)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteHistoryService_CleanupOrphans(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	env.mustUser(t, "bob")
	ctx := context.Background()

	kept := env.mustNote(t, alice, "kept")
	gone := env.mustNote(t, alice, "gone")
	env.mustShare(t, alice, gone.ID, "bob")

	// 绕过服务层直接删除笔记，留下孤立记录
	require.NoError(t, env.noteRepo.Delete(ctx, gone.ID))

	histories, grants, err := env.histories.CleanupOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), histories)
	assert.Equal(t, int64(1), grants)

	assert.Zero(t, env.historyCount(t, gone.ID))
	assert.Equal(t, int64(1), env.historyCount(t, kept.ID))

	histories, grants, err = env.histories.CleanupOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, histories)
	assert.Zero(t, grants)
}
