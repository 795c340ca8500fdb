package domain

import (
	"time"

	"github.com/haierkeys/note-share-service/pkg/util"
)

// User 用户领域模型，Password 为 bcrypt 哈希
type User struct {
	UID       int64
	Email     string
	Username  string
	Password  string
	Avatar    string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PasswordMatches 校验明文密码，已删除用户始终失败
func (u *User) PasswordMatches(plain string) bool {
	if u == nil || u.IsDeleted || plain == "" {
		return false
	}
	return util.CheckPasswordHash(u.Password, plain)
}
