package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/haierkeys/note-share-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDBEngineWithConfig(Config{
		Type:         "sqlite",
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		TablePrefix:  "t_",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	d := New(db, zap.NewNop())
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createUser(t *testing.T, d *Dao, username string) *domain.User {
	t.Helper()
	u, err := NewUserRepository(d).Create(context.Background(), &domain.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hash",
	})
	require.NoError(t, err)
	return u
}

func TestNoteRepository_CreateAndGet(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	n, err := repo.Create(ctx, domain.NewNote(1, "hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
	assert.Equal(t, int64(1), n.Version)

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, int64(1), got.Owner)
	assert.Empty(t, got.SharedUsers)

	_, err = repo.GetByID(ctx, 99)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestNoteRepository_UpdateContentVersionCheck(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	n, err := repo.Create(ctx, domain.NewNote(1, "hello"))
	require.NoError(t, err)

	updated, err := repo.UpdateContent(ctx, n.ID, "hello\nworld", 1)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", updated.Content)
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.UpdateContent(ctx, n.ID, "stale", 1)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", got.Content)
}

func TestNoteRepository_SharedUsers(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	n, err := repo.Create(ctx, domain.NewNote(1, "hello"))
	require.NoError(t, err)

	require.NoError(t, repo.AddSharedUsers(ctx, n.ID, []int64{2, 3}))
	require.NoError(t, repo.AddSharedUsers(ctx, n.ID, []int64{3}))

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, got.SharedUsers)

	require.NoError(t, repo.RemoveSharedUsers(ctx, n.ID, []int64{2}))
	got, err = repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, got.SharedUsers)
}

func TestNoteRepository_ListAccessible(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	own, err := repo.Create(ctx, domain.NewNote(1, "mine"))
	require.NoError(t, err)
	other, err := repo.Create(ctx, domain.NewNote(2, "theirs"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.NewNote(2, "private"))
	require.NoError(t, err)
	require.NoError(t, repo.AddSharedUsers(ctx, other.ID, []int64{1}))

	list, err := repo.ListAccessible(ctx, 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, other.ID, list[0].ID)
	assert.Equal(t, own.ID, list[1].ID)

	count, err := repo.ListAccessibleCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTransaction_Rollback(t *testing.T) {
	d := newTestDao(t)
	notes := NewNoteRepository(d)
	ctx := context.Background()

	boom := errors.New("boom")
	err := d.Transaction(ctx, func(ctx context.Context) error {
		if _, err := notes.Create(ctx, domain.NewNote(1, "hello")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := notes.ListAccessibleCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoteHistoryRepository_ListWithUsernames(t *testing.T) {
	d := newTestDao(t)
	alice := createUser(t, d, "alice")
	bob := createUser(t, d, "bob")

	notes := NewNoteRepository(d)
	histories := NewNoteHistoryRepository(d)
	ctx := context.Background()

	n, err := notes.Create(ctx, domain.NewNote(alice.UID, "hello"))
	require.NoError(t, err)
	_, err = histories.Create(ctx, domain.NewNoteHistory(n.ID, alice.UID, domain.HistoryChangeCreated))
	require.NoError(t, err)
	_, err = histories.Create(ctx, domain.NewNoteHistory(n.ID, bob.UID, domain.HistoryChangeAppended("world", "bob")))
	require.NoError(t, err)

	list, err := histories.ListByNoteID(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, domain.HistoryChangeCreated, list[0].Change)
	assert.Equal(t, "bob", list[1].Username)
	assert.Equal(t, "Note updated: Added 'world' by user bob", list[1].Change)
	assert.Less(t, list[0].ID, list[1].ID)
}

func TestOrphanCleanup(t *testing.T) {
	d := newTestDao(t)
	notes := NewNoteRepository(d)
	histories := NewNoteHistoryRepository(d)
	ctx := context.Background()

	kept, err := notes.Create(ctx, domain.NewNote(1, "kept"))
	require.NoError(t, err)
	gone, err := notes.Create(ctx, domain.NewNote(1, "gone"))
	require.NoError(t, err)

	for _, id := range []int64{kept.ID, gone.ID} {
		_, err := histories.Create(ctx, domain.NewNoteHistory(id, 1, domain.HistoryChangeCreated))
		require.NoError(t, err)
		require.NoError(t, notes.AddSharedUsers(ctx, id, []int64{2}))
	}

	// 绕过级联直接删除笔记
	require.NoError(t, notes.Delete(ctx, gone.ID))

	removed, err := histories.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = notes.DeleteOrphanSharedUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := histories.CountByNoteID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	alice := createUser(t, d, "alice")
	assert.Positive(t, alice.UID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.UID, byName.UID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.UID, byEmail.UID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, "new-hash", alice.UID))
	got, err := repo.GetByUID(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)

	bob := createUser(t, d, "bob")
	users, err := repo.GetByUIDs(ctx, []int64{bob.UID, alice.UID})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
