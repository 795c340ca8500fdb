package dto

// NoteShareRequest Request parameters for sharing a note by usernames
// 按用户名分享笔记请求参数
type NoteShareRequest struct {
	ID        int64    `json:"note_id" form:"note_id" binding:"required,gt=0"`                    // Note ID // 笔记 ID
	Usernames []string `json:"shared_users" form:"shared_users" binding:"omitempty,eachnotblank"` // Usernames to grant // 被分享的用户名
}

// NoteUnshareRequest Request parameters for revoking shares
// 取消分享请求参数
type NoteUnshareRequest struct {
	ID        int64    `json:"note_id" form:"note_id" binding:"required,gt=0"`                    // Note ID // 笔记 ID
	Usernames []string `json:"shared_users" form:"shared_users" binding:"omitempty,eachnotblank"` // Usernames to revoke // 取消分享的用户名
}

// NoteSharesRequest Request parameters for listing the users a note is shared with
// 获取笔记分享用户请求参数
type NoteSharesRequest struct {
	ID int64 `uri:"id" json:"-" form:"-" binding:"required,gt=0"` // Note ID // 笔记 ID
}

// NoteShareUserDTO A user a note is shared with
// 被分享用户
type NoteShareUserDTO struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
}
