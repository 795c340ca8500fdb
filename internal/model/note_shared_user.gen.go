package model

import "time"

// NoteSharedUser mapped from table <note_shared_user>
type NoteSharedUser struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	NoteID    int64     `gorm:"column:note_id;not null;uniqueIndex:idx_note_shared_user,priority:1" json:"noteId" form:"noteId"`
	UID       int64     `gorm:"column:uid;not null;uniqueIndex:idx_note_shared_user,priority:2;index:idx_note_shared_user_uid" json:"uid" form:"uid"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
}
