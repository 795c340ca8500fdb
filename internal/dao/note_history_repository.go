package dao

import (
	"context"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/model"
	"github.com/haierkeys/note-share-service/pkg/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// noteHistoryRepository 实现 domain.NoteHistoryRepository 接口
type noteHistoryRepository struct {
	dao *Dao
}

// NewNoteHistoryRepository 创建 NoteHistoryRepository 实例
func NewNoteHistoryRepository(dao *Dao) domain.NoteHistoryRepository {
	return &noteHistoryRepository{dao: dao}
}

func (r *noteHistoryRepository) toDomain(m *model.NoteHistory, username string) *domain.NoteHistory {
	if m == nil {
		return nil
	}
	return &domain.NoteHistory{
		ID:        m.ID,
		NoteID:    m.NoteID,
		UID:       m.UID,
		Username:  username,
		Change:    m.Change,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create 追加历史记录
func (r *noteHistoryRepository) Create(ctx context.Context, history *domain.NoteHistory) (*domain.NoteHistory, error) {
	m := &model.NoteHistory{
		NoteID:    history.NoteID,
		UID:       history.UID,
		Change:    history.Change,
		CreatedAt: history.CreatedAt,
		UpdatedAt: history.UpdatedAt,
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, errors.Wrap(err, "dao.noteHistory.Create")
	}
	return r.toDomain(m, history.Username), nil
}

// ListByNoteID 获取笔记的历史记录，按 ID 升序
func (r *noteHistoryRepository) ListByNoteID(ctx context.Context, noteID int64) ([]*domain.NoteHistory, error) {
	var rows []*model.NoteHistory
	err := r.dao.DB(ctx).
		Where("note_id = ?", noteID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "dao.noteHistory.ListByNoteID")
	}

	uids := make([]int64, 0, len(rows))
	for _, m := range rows {
		uids = append(uids, m.UID)
	}
	uids = util.ArrayUnique(uids)

	names := make(map[int64]string, len(uids))
	if len(uids) > 0 {
		var users []*model.User
		err := r.dao.DB(ctx).
			Select("uid", "username").
			Where("uid IN ?", uids).
			Find(&users).Error
		if err != nil {
			return nil, errors.Wrap(err, "dao.noteHistory.ListByNoteID users")
		}
		for _, u := range users {
			names[u.UID] = u.Username
		}
	}

	list := make([]*domain.NoteHistory, 0, len(rows))
	for _, m := range rows {
		list = append(list, r.toDomain(m, names[m.UID]))
	}
	return list, nil
}

// CountByNoteID 获取历史记录数量
func (r *noteHistoryRepository) CountByNoteID(ctx context.Context, noteID int64) (int64, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.NoteHistory{}).Where("note_id = ?", noteID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "dao.noteHistory.CountByNoteID")
	}
	return count, nil
}

// DeleteByNoteID 删除笔记的所有历史记录
func (r *noteHistoryRepository) DeleteByNoteID(ctx context.Context, noteID int64) error {
	err := r.dao.DB(ctx).Where("note_id = ?", noteID).Delete(&model.NoteHistory{}).Error
	return errors.Wrap(err, "dao.noteHistory.DeleteByNoteID")
}

// DeleteOrphans 删除孤立的历史记录
func (r *noteHistoryRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	db := r.dao.DB(ctx)
	notes := db.Session(&gorm.Session{NewDB: true}).Model(&model.Note{}).Select("id")
	result := db.Where("note_id NOT IN (?)", notes).Delete(&model.NoteHistory{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "dao.noteHistory.DeleteOrphans")
	}
	return result.RowsAffected, nil
}

var _ domain.NoteHistoryRepository = (*noteHistoryRepository)(nil)
