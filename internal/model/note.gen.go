package model

import "time"

// Note mapped from table <note>
type Note struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content" form:"content"`
	OwnerUID  int64     `gorm:"column:owner_uid;not null;index:idx_note_owner" json:"ownerUid" form:"ownerUid"`
	Version   int64     `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
}
