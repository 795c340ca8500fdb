package model

import "time"

// NoteHistory mapped from table <note_history>
type NoteHistory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	NoteID    int64     `gorm:"column:note_id;not null;index:idx_note_history_note" json:"noteId" form:"noteId"`
	UID       int64     `gorm:"column:uid;not null" json:"uid" form:"uid"`
	Change    string    `gorm:"column:change;type:text;not null" json:"change" form:"change"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
}
