package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/logger"
	"github.com/haierkeys/note-share-service/pkg/writequeue"

	"github.com/gookit/goutil/strutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// NoteService defines the note business service interface
// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create creates a note owned by uid and records "Note created"
	// Create 创建笔记并记录创建历史
	Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Get returns a note the caller may read
	// Get 获取调用者有权读取的笔记
	Get(ctx context.Context, uid int64, noteID int64) (*dto.NoteDTO, error)

	// AppendContent appends a line and records the change
	// AppendContent 追加一行内容并记录历史
	AppendContent(ctx context.Context, uid int64, params *dto.NoteAppendRequest) (*dto.NoteDTO, error)

	// Delete removes a note with its history and grants
	// Delete 删除笔记及其历史与分享关系
	Delete(ctx context.Context, uid int64, noteID int64) error

	// List lists notes owned by or shared with uid, newest first
	// List 分页获取拥有或被分享的笔记
	List(ctx context.Context, uid int64, pager *app.Pager) ([]*dto.NoteDTO, int64, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	tx          domain.Transactor
	noteRepo    domain.NoteRepository
	historyRepo domain.NoteHistoryRepository
	userRepo    domain.UserRepository
	writeQueue  *writequeue.Manager
	metrics     Metrics
	sf          *singleflight.Group
	logger      *zap.Logger
	config      *AppServiceConfig
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(
	tx domain.Transactor,
	noteRepo domain.NoteRepository,
	historyRepo domain.NoteHistoryRepository,
	userRepo domain.UserRepository,
	writeQueue *writequeue.Manager,
	metrics Metrics,
	logger *zap.Logger,
	config *AppServiceConfig,
) NoteService {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		tx:          tx,
		noteRepo:    noteRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		writeQueue:  writeQueue,
		metrics:     metrics,
		sf:          &singleflight.Group{},
		logger:      logger,
		config:      config,
	}
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (out *dto.NoteDTO, err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteCreate, err) }()

	if params == nil || strutil.IsBlank(params.Content) {
		return nil, code.ErrorNoteContentRequired
	}

	var created *domain.Note
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		note, err := s.noteRepo.Create(ctx, domain.NewNote(uid, params.Content))
		if err != nil {
			return dbError(err)
		}
		if _, err := s.historyRepo.Create(ctx, domain.NewNoteHistory(note.ID, uid, domain.HistoryChangeCreated)); err != nil {
			return dbError(err)
		}
		created = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("note created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, created.ID),
	)
	return dto.NewNoteDTO(created), nil
}

// Get 获取笔记
func (s *noteService) Get(ctx context.Context, uid int64, noteID int64) (out *dto.NoteDTO, err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteGet, err) }()

	note, err := sharedLoad(ctx, s.sf, fmt.Sprintf("note:%d", noteID), func(ctx context.Context) (*domain.Note, error) {
		return loadNote(ctx, s.noteRepo, noteID)
	})
	if err != nil {
		return nil, err
	}

	if !domain.Permits(uid, note, domain.OpRead) {
		return nil, code.ErrorNoteReadForbidden
	}
	return dto.NewNoteDTO(note), nil
}

// AppendContent runs in the note's write queue; a stale version re-reads and retries.
// AppendContent 在笔记写队列中执行，版本冲突时重新读取并重试
func (s *noteService) AppendContent(ctx context.Context, uid int64, params *dto.NoteAppendRequest) (out *dto.NoteDTO, err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteAppend, err) }()

	if params == nil || params.Content == "" {
		return nil, code.ErrorNoteContentRequired
	}

	maxRetries := s.config.appendMaxRetries()

	var updated *domain.Note
	err = s.writeQueue.Execute(ctx, params.ID, func(ctx context.Context) error {
		for attempt := 0; ; attempt++ {
			note, err := s.appendOnce(ctx, uid, params.ID, params.Content)
			if err == nil {
				updated = note
				return nil
			}
			if !errors.Is(err, domain.ErrVersionConflict) {
				return err
			}
			if attempt >= maxRetries {
				s.logger.Warn("note append gave up after version conflicts",
					zap.Int64(logger.FieldUID, uid),
					zap.Int64(logger.FieldNoteID, params.ID),
					zap.Int("attempts", attempt+1),
				)
				return code.ErrorNoteConflict.WithCause(err)
			}
			s.metrics.ObserveAppendRetry()
		}
	})
	if err != nil {
		return nil, queueError(err)
	}

	return dto.NewNoteDTO(updated), nil
}

// appendOnce reads, checks and updates the note in one transaction.
// Returns domain.ErrVersionConflict when another writer bumped the version first.
func (s *noteService) appendOnce(ctx context.Context, uid int64, noteID int64, text string) (*domain.Note, error) {
	var updated *domain.Note
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		note, err := loadNote(ctx, s.noteRepo, noteID)
		if err != nil {
			return err
		}
		if !domain.Permits(uid, note, domain.OpUpdate) {
			return code.ErrorNoteEditForbidden
		}

		user, err := s.userRepo.GetByUID(ctx, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code.ErrorUserNotFound
			}
			return dbError(err)
		}

		n, err := s.noteRepo.UpdateContent(ctx, note.ID, note.AppendedContent(text), note.Version)
		if err != nil {
			return dbError(err)
		}

		history := domain.NewNoteHistory(note.ID, uid, domain.HistoryChangeAppended(text, user.Username))
		if _, err := s.historyRepo.Create(ctx, history); err != nil {
			return dbError(err)
		}

		updated = n
		return nil
	})
	return updated, err
}

// Delete runs in the note's write queue so it never interleaves with an append.
// Delete 在笔记写队列中执行
func (s *noteService) Delete(ctx context.Context, uid int64, noteID int64) (err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteDelete, err) }()

	err = s.writeQueue.Execute(ctx, noteID, func(ctx context.Context) error {
		return s.tx.Transaction(ctx, func(ctx context.Context) error {
			note, err := loadNote(ctx, s.noteRepo, noteID)
			if err != nil {
				return err
			}
			if !domain.Permits(uid, note, domain.OpDelete) {
				return code.ErrorNoteDeleteForbidden
			}

			if err := s.historyRepo.DeleteByNoteID(ctx, note.ID); err != nil {
				return dbError(err)
			}
			if err := s.noteRepo.DeleteSharedUsersByNoteID(ctx, note.ID); err != nil {
				return dbError(err)
			}
			return dbError(s.noteRepo.Delete(ctx, note.ID))
		})
	})
	if err != nil {
		return queueError(err)
	}

	s.logger.Debug("note deleted",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID),
	)
	return nil
}

// List 获取可访问笔记列表
func (s *noteService) List(ctx context.Context, uid int64, pager *app.Pager) (out []*dto.NoteDTO, count int64, err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteList, err) }()

	page, pageSize := 1, app.DefaultPaginationConfig.DefaultPageSize
	if pager != nil {
		if pager.Page > 0 {
			page = pager.Page
		}
		if pager.PageSize > 0 {
			pageSize = pager.PageSize
		}
	}

	notes, err := s.noteRepo.ListAccessible(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, dbError(err)
	}
	count, err = s.noteRepo.ListAccessibleCount(ctx, uid)
	if err != nil {
		return nil, 0, dbError(err)
	}
	return dto.NewNoteDTOList(notes), count, nil
}

// 确保 noteService 实现了 NoteService 接口
var _ NoteService = (*noteService)(nil)
