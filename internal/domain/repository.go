package domain

import "context"

// Transactor runs fn inside one database transaction.
// Repositories called with the ctx passed to fn join that transaction.
// Transactor 在单个数据库事务中执行 fn，使用 fn 收到的 ctx 调用仓储即加入该事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记（含分享用户）
	GetByID(ctx context.Context, id int64) (*Note, error)

	// Create persists note and assigns its ID
	// Create 创建笔记并回填 ID
	Create(ctx context.Context, note *Note) (*Note, error)

	// UpdateContent sets content and bumps version when the stored version equals expectedVersion.
	// Returns ErrVersionConflict otherwise.
	// UpdateContent 仅当版本号匹配时更新内容并递增版本，否则返回 ErrVersionConflict
	UpdateContent(ctx context.Context, id int64, content string, expectedVersion int64) (*Note, error)

	// Delete 物理删除笔记
	Delete(ctx context.Context, id int64) error

	// AddSharedUsers adds grants; existing grants are ignored
	// AddSharedUsers 添加分享用户，已存在的忽略
	AddSharedUsers(ctx context.Context, id int64, uids []int64) error

	// RemoveSharedUsers 移除分享用户
	RemoveSharedUsers(ctx context.Context, id int64, uids []int64) error

	// DeleteSharedUsersByNoteID 删除笔记的所有分享关系
	DeleteSharedUsersByNoteID(ctx context.Context, id int64) error

	// ListAccessible lists notes owned by or shared with uid, newest first
	// ListAccessible 分页获取 uid 拥有或被分享的笔记，按 ID 倒序
	ListAccessible(ctx context.Context, uid int64, page, pageSize int) ([]*Note, error)

	// ListAccessibleCount 获取可访问笔记数量
	ListAccessibleCount(ctx context.Context, uid int64) (int64, error)

	// DeleteOrphanSharedUsers removes grants whose note no longer exists
	// DeleteOrphanSharedUsers 删除笔记已不存在的分享关系
	DeleteOrphanSharedUsers(ctx context.Context) (int64, error)
}

// NoteHistoryRepository 笔记历史仓储接口，只追加
type NoteHistoryRepository interface {
	// Create 追加一条历史记录
	Create(ctx context.Context, history *NoteHistory) (*NoteHistory, error)

	// ListByNoteID returns entries oldest first, with usernames
	// ListByNoteID 按创建顺序返回历史记录（含用户名）
	ListByNoteID(ctx context.Context, noteID int64) ([]*NoteHistory, error)

	// CountByNoteID 获取历史记录数量
	CountByNoteID(ctx context.Context, noteID int64) (int64, error)

	// DeleteByNoteID 删除笔记的所有历史记录（仅用于笔记删除的级联）
	DeleteByNoteID(ctx context.Context, noteID int64) error

	// DeleteOrphans removes entries whose note no longer exists
	// DeleteOrphans 删除笔记已不存在的历史记录
	DeleteOrphans(ctx context.Context) (int64, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据用户ID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByUIDs 批量获取用户
	GetByUIDs(ctx context.Context, uids []int64) ([]*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdatePassword 更新密码
	UpdatePassword(ctx context.Context, password string, uid int64) error
}
