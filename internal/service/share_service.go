package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/logger"
	"github.com/haierkeys/note-share-service/pkg/util"
	"github.com/haierkeys/note-share-service/pkg/writequeue"

	"github.com/gookit/goutil/strutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UsernameResolver resolves a username to a user id
// UsernameResolver 将用户名解析为用户 ID
type UsernameResolver interface {
	// ResolveUsername returns code.ErrorUserNotFound when no active user has the name
	ResolveUsername(ctx context.Context, username string) (int64, error)
}

// ShareService defines the note sharing service interface
// ShareService 定义笔记分享服务接口
type ShareService interface {
	// Share grants read and update access to every named user, all or nothing
	// Share 将笔记分享给所有指定用户，全部成功或全部不生效
	Share(ctx context.Context, uid int64, params *dto.NoteShareRequest) error

	// Unshare revokes access from every named user, all or nothing
	// Unshare 取消指定用户的分享
	Unshare(ctx context.Context, uid int64, params *dto.NoteUnshareRequest) error

	// SharedUsers lists the users a note is shared with
	// SharedUsers 获取笔记的被分享用户
	SharedUsers(ctx context.Context, uid int64, noteID int64) ([]*dto.NoteShareUserDTO, error)
}

// shareService 实现 ShareService 接口
type shareService struct {
	tx         domain.Transactor
	noteRepo   domain.NoteRepository
	userRepo   domain.UserRepository
	resolver   UsernameResolver
	writeQueue *writequeue.Manager
	metrics    Metrics
	logger     *zap.Logger
	config     *AppServiceConfig
}

// NewShareService 创建 ShareService 实例
func NewShareService(
	tx domain.Transactor,
	noteRepo domain.NoteRepository,
	userRepo domain.UserRepository,
	resolver UsernameResolver,
	writeQueue *writequeue.Manager,
	metrics Metrics,
	logger *zap.Logger,
	config *AppServiceConfig,
) ShareService {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shareService{
		tx:         tx,
		noteRepo:   noteRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		writeQueue: writeQueue,
		metrics:    metrics,
		logger:     logger,
		config:     config,
	}
}

// checkUsernames rejects an empty list or a blank name and collapses duplicates.
func checkUsernames(usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return nil, code.ErrorShareUsernamesRequired
	}
	for _, name := range usernames {
		if strutil.IsBlank(name) {
			return nil, code.ErrorShareUsernamesRequired.WithDetails("blank username")
		}
	}
	return util.ArrayUnique(usernames), nil
}

// ownedNote loads a note and requires uid to own it.
func (s *shareService) ownedNote(ctx context.Context, uid, noteID int64) (*domain.Note, error) {
	note, err := loadNote(ctx, s.noteRepo, noteID)
	if err != nil {
		return nil, err
	}
	if !domain.Permits(uid, note, domain.OpShare) {
		return nil, code.ErrorNoteShareForbidden
	}
	return note, nil
}

// resolveAll looks every name up concurrently.
// The reported failure is the first unresolvable name in input order.
// resolveAll 并发解析用户名，失败时按输入顺序报告第一个无法解析的用户名
func (s *shareService) resolveAll(ctx context.Context, usernames []string) ([]int64, error) {
	uids := make([]int64, len(usernames))
	errs := make([]error, len(usernames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.shareResolveLimit())
	for i, name := range usernames {
		g.Go(func() error {
			uid, err := s.resolver.ResolveUsername(gctx, name)
			if err != nil {
				errs[i] = err
				// 用户不存在不取消其他查询，保证按输入顺序报告
				if errors.Is(err, code.ErrorUserNotFound) {
					return nil
				}
				return err
			}
			uids[i] = uid
			return nil
		})
	}
	waitErr := g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, code.ErrorUserNotFound) {
			return nil, code.ErrorUserNotFound.WithDetails(usernames[i])
		}
	}
	if waitErr != nil {
		return nil, dbError(waitErr)
	}
	return uids, nil
}

// withoutOwner drops the owner from the resolved ids.
func withoutOwner(note *domain.Note, uids []int64) []int64 {
	out := make([]int64, 0, len(uids))
	for _, id := range util.ArrayUnique(uids) {
		if id != note.Owner {
			out = append(out, id)
		}
	}
	return out
}

// mutateGrants re-checks ownership and applies fn to the grantee set in one transaction,
// serialized with the other writers of the note.
// mutateGrants 在笔记写队列与同一事务中重新校验所有权并修改分享集合
func (s *shareService) mutateGrants(ctx context.Context, uid, noteID int64, uids []int64, fn func(ctx context.Context, noteID int64, uids []int64) error) error {
	err := s.writeQueue.Execute(ctx, noteID, func(ctx context.Context) error {
		return s.tx.Transaction(ctx, func(ctx context.Context) error {
			note, err := s.ownedNote(ctx, uid, noteID)
			if err != nil {
				return err
			}
			return dbError(fn(ctx, note.ID, withoutOwner(note, uids)))
		})
	})
	return queueError(err)
}

// Share 分享笔记
func (s *shareService) Share(ctx context.Context, uid int64, params *dto.NoteShareRequest) (err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteShare, err) }()

	if params == nil {
		return code.ErrorInvalidParams
	}
	usernames, err := checkUsernames(params.Usernames)
	if err != nil {
		return err
	}

	// 先快速校验，名称解析后在写队列内再次校验
	if _, err = s.ownedNote(ctx, uid, params.ID); err != nil {
		return err
	}

	uids, err := s.resolveAll(ctx, usernames)
	if err != nil {
		return err
	}

	if err = s.mutateGrants(ctx, uid, params.ID, uids, s.noteRepo.AddSharedUsers); err != nil {
		return err
	}

	s.logger.Info("note shared",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, params.ID),
		zap.Strings(logger.FieldUsernames, usernames),
	)
	return nil
}

// Unshare 取消分享
func (s *shareService) Unshare(ctx context.Context, uid int64, params *dto.NoteUnshareRequest) (err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteUnshare, err) }()

	if params == nil {
		return code.ErrorInvalidParams
	}
	usernames, err := checkUsernames(params.Usernames)
	if err != nil {
		return err
	}

	// 先快速校验，名称解析后在写队列内再次校验
	if _, err = s.ownedNote(ctx, uid, params.ID); err != nil {
		return err
	}

	uids, err := s.resolveAll(ctx, usernames)
	if err != nil {
		return err
	}

	if err = s.mutateGrants(ctx, uid, params.ID, uids, s.noteRepo.RemoveSharedUsers); err != nil {
		return err
	}

	s.logger.Info("note unshared",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, params.ID),
		zap.Strings(logger.FieldUsernames, usernames),
	)
	return nil
}

// SharedUsers 获取被分享用户
func (s *shareService) SharedUsers(ctx context.Context, uid int64, noteID int64) (out []*dto.NoteShareUserDTO, err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteSharedTo, err) }()

	note, err := loadNote(ctx, s.noteRepo, noteID)
	if err != nil {
		return nil, err
	}
	if !domain.Permits(uid, note, domain.OpRead) {
		return nil, code.ErrorNoteReadForbidden
	}

	users, err := s.userRepo.GetByUIDs(ctx, note.SharedUsers)
	if err != nil {
		return nil, dbError(err)
	}

	out = make([]*dto.NoteShareUserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, &dto.NoteShareUserDTO{UID: u.UID, Username: u.Username})
	}
	return out, nil
}

var _ ShareService = (*shareService)(nil)
