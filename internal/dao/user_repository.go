package dao

import (
	"context"
	"time"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/model"

	"github.com/pkg/errors"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		Username:  m.Username,
		Password:  m.Password,
		Avatar:    m.Avatar,
		IsDeleted: m.IsDeleted == 1,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(user *domain.User) *model.User {
	if user == nil {
		return nil
	}
	isDeleted := int64(0)
	if user.IsDeleted {
		isDeleted = 1
	}
	return &model.User{
		UID:       user.UID,
		Email:     user.Email,
		Username:  user.Username,
		Password:  user.Password,
		Avatar:    user.Avatar,
		IsDeleted: isDeleted,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m model.User
	err := r.dao.DB(ctx).Where(query, arg).Where("is_deleted = ?", 0).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	u, err := r.first(ctx, "uid = ?", uid)
	return u, errors.Wrap(err, "dao.user.GetByUID")
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.first(ctx, "email = ?", email)
	return u, errors.Wrap(err, "dao.user.GetByEmail")
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := r.first(ctx, "username = ?", username)
	return u, errors.Wrap(err, "dao.user.GetByUsername")
}

// GetByUIDs 批量获取用户
func (r *userRepository) GetByUIDs(ctx context.Context, uids []int64) ([]*domain.User, error) {
	if len(uids) == 0 {
		return []*domain.User{}, nil
	}
	var rows []*model.User
	err := r.dao.DB(ctx).Where("uid IN ?", uids).Where("is_deleted = ?", 0).Order("uid ASC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "dao.user.GetByUIDs")
	}
	list := make([]*domain.User, 0, len(rows))
	for _, m := range rows {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	m.UID = 0
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, errors.Wrap(err, "dao.user.Create")
	}
	return r.toDomain(m), nil
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(ctx context.Context, password string, uid int64) error {
	err := r.dao.DB(ctx).
		Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]any{
			"password":   password,
			"updated_at": time.Now(),
		}).Error
	return errors.Wrap(err, "dao.user.UpdatePassword")
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
