package dto

import (
	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/pkg/timex"
)

// UserCreateRequest User registration request parameters
// 用户注册请求参数
type UserCreateRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`                        // User email // 用户邮件
	Username        string `json:"username" form:"username" binding:"required,username"`               // User name // 用户名
	Password        string `json:"password" form:"password" binding:"required,notblank"`               // User password // 用户密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required,notblank"` // Confirm password // 校验密码
}

// UserLoginRequest User login request parameters
// 用户登录请求参数
type UserLoginRequest struct {
	Credentials string `json:"credentials" form:"credentials"`                // Username or Email // 登录凭证（用户名或邮件）
	Username    string `json:"username" form:"username"`                      // Username, used when credentials is empty // 用户名
	Password    string `json:"password" form:"password" binding:"required"` // Password // 密码
}

// Login returns the credential to authenticate with.
// Login 返回登录凭证，credentials 为空时使用 username
func (r *UserLoginRequest) Login() string {
	if r.Credentials != "" {
		return r.Credentials
	}
	return r.Username
}

// UserChangePasswordRequest Request parameters for changing password
// 修改密码请求参数
type UserChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" binding:"required"`                  // Old password // 旧密码
	Password        string `json:"password" form:"password" binding:"required,notblank"`               // New password // 新密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required,notblank"` // Confirm password // 校验密码
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64      `json:"uid"`       // User ID (primary key) // 用户唯一标识（主键）
	Email     string     `json:"email"`     // Email address // 邮件地址
	Username  string     `json:"username"`  // Username // 用户名
	Token     string     `json:"token"`     // Authentication Token // 认证 Token
	Avatar    string     `json:"avatar"`    // Avatar URL or handle // 头像路径或名称
	UpdatedAt timex.Time `json:"updatedAt"` // Last updated time // 最后更新时间
	CreatedAt timex.Time `json:"createdAt"` // Account created time // 账号创建时间
}

// NewUserDTO 领域模型转换为 DTO，不含密码
func NewUserDTO(u *domain.User, token string) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		UID:       u.UID,
		Email:     u.Email,
		Username:  u.Username,
		Token:     token,
		Avatar:    u.Avatar,
		UpdatedAt: timex.Time(u.UpdatedAt),
		CreatedAt: timex.Time(u.CreatedAt),
	}
}
