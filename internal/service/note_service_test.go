package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CreateProperty(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)
	properties.Property("create sets owner, no grants and one created entry", prop.ForAll(
		func(content string) bool {
			n, err := env.notes.Create(ctx, alice, &dto.NoteCreateRequest{Content: content})
			if err != nil {
				return false
			}
			list, err := env.histories.List(ctx, alice, n.ID)
			if err != nil || len(list) != 1 {
				return false
			}
			return n.Owner == alice &&
				len(n.SharedUsers) == 0 &&
				n.Version == 1 &&
				n.Content == content &&
				list[0].Change == domain.HistoryChangeCreated &&
				list[0].UID == alice
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))
	properties.TestingRun(t)
}

func TestNoteService_CreateRejectsBlank(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := env.notes.Create(context.Background(), alice, &dto.NoteCreateRequest{Content: content})
		assert.ErrorIs(t, err, code.ErrorNoteContentRequired, "content %q", content)
	}
}

func TestNoteService_FirstNoteGetsIDOne(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")

	n := env.mustNote(t, alice, "hello")
	assert.Equal(t, int64(1), n.ID)
}

func TestNoteService_Get(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	carol := env.mustUser(t, "carol")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob")

	got, err := env.notes.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)

	got, err = env.notes.Get(ctx, bob, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob}, got.SharedUsers)

	_, err = env.notes.Get(ctx, carol, n.ID)
	assert.ErrorIs(t, err, code.ErrorNoteReadForbidden)

	_, err = env.notes.Get(ctx, alice, 404)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteService_AppendByStrangerForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	mallory := env.mustUser(t, "mallory")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")

	_, err := env.notes.AppendContent(ctx, mallory, &dto.NoteAppendRequest{ID: n.ID, Content: "x"})
	assert.ErrorIs(t, err, code.ErrorNoteEditForbidden)

	got, err := env.notes.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, int64(1), env.historyCount(t, n.ID))
}

func TestNoteService_AppendBySharedUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob")

	updated, err := env.notes.AppendContent(ctx, bob, &dto.NoteAppendRequest{ID: n.ID, Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "hello\nx", updated.Content)
	assert.Equal(t, int64(2), updated.Version)

	list, err := env.histories.List(ctx, bob, n.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bob, list[1].UID)
	assert.Equal(t, "bob", list[1].Username)
	assert.Equal(t, "Note updated: Added 'x' by user bob", list[1].Change)
}

func TestNoteService_AppendValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")

	_, err := env.notes.AppendContent(ctx, alice, &dto.NoteAppendRequest{ID: n.ID, Content: ""})
	assert.ErrorIs(t, err, code.ErrorNoteContentRequired)

	_, err = env.notes.AppendContent(ctx, alice, &dto.NoteAppendRequest{ID: 999, Content: "x"})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	// 仅空字符串被拒绝，空白行可追加
	updated, err := env.notes.AppendContent(ctx, alice, &dto.NoteAppendRequest{ID: n.ID, Content: " "})
	require.NoError(t, err)
	assert.Equal(t, "hello\n ", updated.Content)
}

func TestNoteService_ConcurrentAppends(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	ctx := context.Background()

	n := env.mustNote(t, alice, "start")
	env.mustShare(t, alice, n.ID, "bob")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := alice
			if i%2 == 1 {
				uid = bob
			}
			_, err := env.notes.AppendContent(ctx, uid, &dto.NoteAppendRequest{ID: n.ID, Content: "line"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := env.notes.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	lines := strings.Split(got.Content, "\n")
	assert.Len(t, lines, writers+1)
	assert.Equal(t, int64(writers+1), got.Version)
	assert.Equal(t, int64(writers+1), env.historyCount(t, n.ID))
}

// conflictingNoteRepo bumps the stored version before every conditional update.
type conflictingNoteRepo struct {
	domain.NoteRepository
	conflicts int
}

func (r *conflictingNoteRepo) UpdateContent(ctx context.Context, id int64, content string, expectedVersion int64) (*domain.Note, error) {
	if r.conflicts > 0 {
		r.conflicts--
		return nil, domain.ErrVersionConflict
	}
	return r.NoteRepository.UpdateContent(ctx, id, content, expectedVersion)
}

type countingMetrics struct {
	nopMetrics
	retries int
}

func (m *countingMetrics) ObserveAppendRetry() { m.retries++ }

func TestNoteService_AppendRetriesThenConflicts(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	ctx := context.Background()
	n := env.mustNote(t, alice, "hello")

	base := env.notes.(*noteService)

	t.Run("recovers within retry budget", func(t *testing.T) {
		metrics := &countingMetrics{}
		svc := *base
		svc.noteRepo = &conflictingNoteRepo{NoteRepository: env.noteRepo, conflicts: 2}
		svc.metrics = metrics

		updated, err := svc.AppendContent(ctx, alice, &dto.NoteAppendRequest{ID: n.ID, Content: "a"})
		require.NoError(t, err)
		assert.Equal(t, "hello\na", updated.Content)
		assert.Equal(t, 2, metrics.retries)
	})

	t.Run("gives up with conflict", func(t *testing.T) {
		svc := *base
		svc.noteRepo = &conflictingNoteRepo{NoteRepository: env.noteRepo, conflicts: DefaultAppendMaxRetries + 1}
		svc.metrics = NopMetrics()

		_, err := svc.AppendContent(ctx, alice, &dto.NoteAppendRequest{ID: n.ID, Content: "b"})
		assert.ErrorIs(t, err, code.ErrorNoteConflict)
		assert.Equal(t, 409, code.ErrorNoteConflict.StatusCode())
	})

	got, err := env.notes.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello\na", got.Content)
	assert.Equal(t, int64(2), env.historyCount(t, n.ID))
}

func TestNoteService_Delete(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	ctx := context.Background()

	n := env.mustNote(t, alice, "hello")
	env.mustShare(t, alice, n.ID, "bob")

	assert.ErrorIs(t, env.notes.Delete(ctx, bob, n.ID), code.ErrorNoteDeleteForbidden)
	assert.ErrorIs(t, env.shares.Share(ctx, bob, &dto.NoteShareRequest{ID: n.ID, Usernames: []string{"alice"}}), code.ErrorNoteShareForbidden)

	require.NoError(t, env.notes.Delete(ctx, alice, n.ID))

	_, err := env.notes.Get(ctx, alice, n.ID)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Zero(t, env.historyCount(t, n.ID))

	assert.ErrorIs(t, env.notes.Delete(ctx, alice, n.ID), code.ErrorNoteNotFound)
}

func TestNoteService_List(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	bob := env.mustUser(t, "bob")
	ctx := context.Background()

	mine := env.mustNote(t, alice, "mine")
	theirs := env.mustNote(t, bob, "theirs")
	env.mustNote(t, bob, "private")
	env.mustShare(t, bob, theirs.ID, "alice")

	list, count, err := env.notes.List(ctx, alice, &app.Pager{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, list, 2)
	assert.Equal(t, theirs.ID, list[0].ID)
	assert.Equal(t, mine.ID, list[1].ID)

	list, _, err = env.notes.List(ctx, alice, &app.Pager{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustUser(t, "usera")
	b := env.mustUser(t, "userb")
	ctx := context.Background()

	n := env.mustNote(t, a, "hello")
	require.Equal(t, int64(1), n.ID)

	history, err := env.histories.List(ctx, a, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "usera", history[0].Username)
	assert.Equal(t, "Note created", history[0].Change)

	env.mustShare(t, a, 1, "userb")

	updated, err := env.notes.AppendContent(ctx, b, &dto.NoteAppendRequest{ID: 1, Content: "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", updated.Content)
	assert.Equal(t, int64(2), env.historyCount(t, 1))

	assert.ErrorIs(t, env.notes.Delete(ctx, b, 1), code.ErrorNoteDeleteForbidden)
	got, err := env.notes.Get(ctx, a, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", got.Content)
	assert.Equal(t, int64(2), env.historyCount(t, 1))

	require.NoError(t, env.notes.Delete(ctx, a, 1))
	_, err = env.notes.Get(ctx, a, 1)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Zero(t, env.historyCount(t, 1))
}

// gatedNoteRepo holds every GetByID until release is closed.
type gatedNoteRepo struct {
	domain.NoteRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	ctxErr  chan error
}

func (r *gatedNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	r.once.Do(func() { close(r.entered) })
	<-r.release
	select {
	case r.ctxErr <- ctx.Err():
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.NoteRepository.GetByID(ctx, id)
}

func TestNoteService_GetSurvivesCancelledLeader(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	n := env.mustNote(t, alice, "hello")

	repo := &gatedNoteRepo{
		NoteRepository: env.noteRepo,
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
		ctxErr:         make(chan error, 1),
	}
	svc := *env.notes.(*noteService)
	svc.noteRepo = repo

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Get(leaderCtx, alice, n.ID)
		leaderErr <- err
	}()
	<-repo.entered

	// 发起方取消后立即返回，共享读取继续进行
	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	followerErr := make(chan error, 1)
	go func() {
		got, err := svc.Get(context.Background(), alice, n.ID)
		if err == nil && got.Content != "hello" {
			err = assert.AnError
		}
		followerErr <- err
	}()

	close(repo.release)
	assert.NoError(t, <-repo.ctxErr, "shared load must not inherit the leader's cancellation")
	assert.NoError(t, <-followerErr)
}

func TestDBErrorKeepsContextErrors(t *testing.T) {
	assert.ErrorIs(t, dbError(context.Canceled), context.Canceled)
	assert.NotErrorIs(t, dbError(context.DeadlineExceeded), code.ErrorDBQuery)
	assert.ErrorIs(t, dbError(assert.AnError), code.ErrorDBQuery)
}
