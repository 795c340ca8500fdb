package model

import "time"

// User mapped from table <user>
type User struct {
	UID       int64     `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_user_email" json:"email" form:"email"`
	Username  string    `gorm:"column:username;size:64;not null;uniqueIndex:idx_user_username" json:"username" form:"username"`
	Password  string    `gorm:"column:password;size:255;not null" json:"password" form:"password"`
	Avatar    string    `gorm:"column:avatar;size:255" json:"avatar" form:"avatar"`
	IsDeleted int64     `gorm:"column:is_deleted;not null;default:0" json:"isDeleted" form:"isDeleted"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
}
