package service

import (
	"context"
	"fmt"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/code"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NoteHistoryService defines the note history business service interface
// NoteHistoryService 定义笔记历史业务服务接口
type NoteHistoryService interface {
	// List returns the history of a note the caller may read, oldest first
	// List 获取笔记历史，按创建顺序排列
	List(ctx context.Context, uid int64, noteID int64) ([]*dto.NoteHistoryDTO, error)

	// CleanupOrphans removes history entries and grants whose note no longer exists
	// CleanupOrphans 清理笔记已不存在的历史记录与分享关系
	CleanupOrphans(ctx context.Context) (histories int64, grants int64, err error)
}

// noteHistoryService 实现 NoteHistoryService 接口
type noteHistoryService struct {
	tx          domain.Transactor
	historyRepo domain.NoteHistoryRepository
	noteRepo    domain.NoteRepository
	metrics     Metrics
	sf          *singleflight.Group
	logger      *zap.Logger
}

// NewNoteHistoryService 创建 NoteHistoryService 实例
func NewNoteHistoryService(tx domain.Transactor, historyRepo domain.NoteHistoryRepository, noteRepo domain.NoteRepository, metrics Metrics, logger *zap.Logger) NoteHistoryService {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteHistoryService{
		tx:          tx,
		historyRepo: historyRepo,
		noteRepo:    noteRepo,
		metrics:     metrics,
		sf:          &singleflight.Group{},
		logger:      logger,
	}
}

// List 获取笔记历史
func (s *noteHistoryService) List(ctx context.Context, uid int64, noteID int64) (out []*dto.NoteHistoryDTO, err error) {
	defer func() { s.metrics.ObserveNoteOperation(OpNoteHistory, err) }()

	note, err := loadNote(ctx, s.noteRepo, noteID)
	if err != nil {
		return nil, err
	}
	if !domain.Permits(uid, note, domain.OpRead) {
		return nil, code.ErrorNoteHistoryForbidden
	}

	// 合并同一笔记的并发查询
	histories, err := sharedLoad(ctx, s.sf, fmt.Sprintf("history:%d", noteID), func(ctx context.Context) ([]*domain.NoteHistory, error) {
		return s.historyRepo.ListByNoteID(ctx, noteID)
	})
	if err != nil {
		return nil, dbError(err)
	}
	return dto.NewNoteHistoryDTOList(histories), nil
}

// CleanupOrphans 清理孤立记录
func (s *noteHistoryService) CleanupOrphans(ctx context.Context) (histories int64, grants int64, err error) {
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if histories, err = s.historyRepo.DeleteOrphans(ctx); err != nil {
			return dbError(err)
		}
		if grants, err = s.noteRepo.DeleteOrphanSharedUsers(ctx); err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return histories, grants, nil
}

var _ NoteHistoryService = (*noteHistoryService)(nil)
