package dao

import (
	"context"
	"time"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/model"
	"github.com/haierkeys/note-share-service/pkg/convert"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note, shared []int64) *domain.Note {
	if m == nil {
		return nil
	}
	if shared == nil {
		shared = []int64{}
	}
	return &domain.Note{
		ID:          m.ID,
		Content:     m.Content,
		Owner:       m.OwnerUID,
		SharedUsers: shared,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:        note.ID,
		Content:   note.Content,
		OwnerUID:  note.Owner,
		Version:   note.Version,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// sharedUIDs loads the grant set of each note id.
func (r *noteRepository) sharedUIDs(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []*model.NoteSharedUser
	err := r.dao.DB(ctx).
		Clauses(dbresolver.Write).
		Where("note_id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "dao.note.sharedUIDs")
	}
	for _, row := range rows {
		out[row.NoteID] = append(out[row.NoteID], row.UID)
	}
	return out, nil
}

// GetByID reads from the primary so a version read before a conditional update is current.
// GetByID 根据ID获取笔记（含分享用户），读取主库
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.DB(ctx).Clauses(dbresolver.Write).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, errors.Wrap(err, "dao.note.GetByID")
	}

	shared, err := r.sharedUIDs(ctx, []int64{m.ID})
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, shared[m.ID]), nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	m.ID = 0
	if m.Version == 0 {
		m.Version = 1
	}

	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, errors.Wrap(err, "dao.note.Create")
	}

	if len(note.SharedUsers) > 0 {
		if err := r.AddSharedUsers(ctx, m.ID, note.SharedUsers); err != nil {
			return nil, err
		}
	}
	return r.toDomain(m, append([]int64{}, note.SharedUsers...)), nil
}

// UpdateContent 按版本号条件更新内容
func (r *noteRepository) UpdateContent(ctx context.Context, id int64, content string, expectedVersion int64) (*domain.Note, error) {
	m := &model.Note{
		Content:   content,
		Version:   expectedVersion + 1,
		UpdatedAt: time.Now(),
	}

	values := make(map[string]any)
	if err := convert.StructToModelMap(m, values, "ID"); err != nil {
		return nil, errors.Wrap(err, "dao.note.UpdateContent")
	}
	delete(values, "owner_uid")
	delete(values, "created_at")

	result := r.dao.DB(ctx).
		Model(&model.Note{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "dao.note.UpdateContent")
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrVersionConflict
	}

	return r.GetByID(ctx, id)
}

// Delete 物理删除笔记
func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	err := r.dao.DB(ctx).Where("id = ?", id).Delete(&model.Note{}).Error
	return errors.Wrap(err, "dao.note.Delete")
}

// AddSharedUsers 添加分享用户
func (r *noteRepository) AddSharedUsers(ctx context.Context, id int64, uids []int64) error {
	if len(uids) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*model.NoteSharedUser, 0, len(uids))
	for _, uid := range uids {
		rows = append(rows, &model.NoteSharedUser{NoteID: id, UID: uid, CreatedAt: now})
	}

	err := r.dao.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}, {Name: "uid"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	return errors.Wrap(err, "dao.note.AddSharedUsers")
}

// RemoveSharedUsers 移除分享用户
func (r *noteRepository) RemoveSharedUsers(ctx context.Context, id int64, uids []int64) error {
	if len(uids) == 0 {
		return nil
	}
	err := r.dao.DB(ctx).
		Where("note_id = ? AND uid IN ?", id, uids).
		Delete(&model.NoteSharedUser{}).Error
	return errors.Wrap(err, "dao.note.RemoveSharedUsers")
}

// DeleteSharedUsersByNoteID 删除笔记的所有分享关系
func (r *noteRepository) DeleteSharedUsersByNoteID(ctx context.Context, id int64) error {
	err := r.dao.DB(ctx).Where("note_id = ?", id).Delete(&model.NoteSharedUser{}).Error
	return errors.Wrap(err, "dao.note.DeleteSharedUsersByNoteID")
}

// accessible 拥有或被分享的笔记查询
func (r *noteRepository) accessible(ctx context.Context, uid int64) *gorm.DB {
	db := r.dao.DB(ctx)
	shared := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.NoteSharedUser{}).
		Select("note_id").
		Where("uid = ?", uid)
	return db.Model(&model.Note{}).Where("owner_uid = ? OR id IN (?)", uid, shared)
}

// ListAccessible 分页获取可访问笔记
func (r *noteRepository) ListAccessible(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Note, error) {
	if page <= 0 {
		page = 1
	}
	var rows []*model.Note
	err := r.accessible(ctx, uid).
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "dao.note.ListAccessible")
	}

	ids := make([]int64, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	shared, err := r.sharedUIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Note, 0, len(rows))
	for _, m := range rows {
		list = append(list, r.toDomain(m, shared[m.ID]))
	}
	return list, nil
}

// ListAccessibleCount 获取可访问笔记数量
func (r *noteRepository) ListAccessibleCount(ctx context.Context, uid int64) (int64, error) {
	var count int64
	if err := r.accessible(ctx, uid).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "dao.note.ListAccessibleCount")
	}
	return count, nil
}

// DeleteOrphanSharedUsers 删除孤立的分享关系
func (r *noteRepository) DeleteOrphanSharedUsers(ctx context.Context) (int64, error) {
	db := r.dao.DB(ctx)
	notes := db.Session(&gorm.Session{NewDB: true}).Model(&model.Note{}).Select("id")
	result := db.Where("note_id NOT IN (?)", notes).Delete(&model.NoteSharedUser{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "dao.note.DeleteOrphanSharedUsers")
	}
	return result.RowsAffected, nil
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
