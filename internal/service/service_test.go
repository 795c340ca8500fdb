package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/haierkeys/note-share-service/internal/dao"
	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/writequeue"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	dao         *dao.Dao
	wq          *writequeue.Manager
	noteRepo    domain.NoteRepository
	userRepo    domain.UserRepository
	historyRepo domain.NoteHistoryRepository
	notes       NoteService
	shares      ShareService
	histories   NoteHistoryService
	users       UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := dao.NewDBEngineWithConfig(dao.Config{
		Type:         "sqlite",
		Path:         fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name),
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	d := dao.New(db, zap.NewNop())
	wq := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		_ = d.Close()
	})

	noteRepo := dao.NewNoteRepository(d)
	historyRepo := dao.NewNoteHistoryRepository(d)
	userRepo := dao.NewUserRepository(d)

	cfg := &ServiceConfig{User: UserServiceConfig{RegisterIsEnable: true}}
	users := NewUserService(userRepo, app.NewTokenManager(app.TokenConfig{SecretKey: "test-key"}), zap.NewNop(), cfg)

	return &testEnv{
		dao:         d,
		wq:          wq,
		noteRepo:    noteRepo,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		notes:       NewNoteService(d, noteRepo, historyRepo, userRepo, wq, nil, zap.NewNop(), &cfg.App),
		shares:      NewShareService(d, noteRepo, userRepo, users, wq, nil, zap.NewNop(), &cfg.App),
		histories:   NewNoteHistoryService(d, historyRepo, noteRepo, nil, zap.NewNop()),
		users:       users,
	}
}

// mustUser registers username and returns its uid.
func (e *testEnv) mustUser(t *testing.T, username string) int64 {
	t.Helper()
	u, err := e.users.Register(context.Background(), &dto.UserCreateRequest{
		Email:           username + "@example.com",
		Username:        username,
		Password:        "secret-" + username,
		ConfirmPassword: "secret-" + username,
	})
	require.NoError(t, err)
	return u.UID
}

func (e *testEnv) mustNote(t *testing.T, uid int64, content string) *dto.NoteDTO {
	t.Helper()
	n, err := e.notes.Create(context.Background(), uid, &dto.NoteCreateRequest{Content: content})
	require.NoError(t, err)
	return n
}

func (e *testEnv) mustShare(t *testing.T, uid, noteID int64, usernames ...string) {
	t.Helper()
	require.NoError(t, e.shares.Share(context.Background(), uid, &dto.NoteShareRequest{ID: noteID, Usernames: usernames}))
}

func (e *testEnv) historyCount(t *testing.T, noteID int64) int64 {
	t.Helper()
	n, err := e.historyRepo.CountByNoteID(context.Background(), noteID)
	require.NoError(t, err)
	return n
}
