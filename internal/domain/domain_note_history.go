package domain

import (
	"fmt"
	"time"
)

// HistoryChangeCreated is the change text recorded when a note is created.
const HistoryChangeCreated = "Note created"

// NoteHistory 笔记历史领域模型，创建后不可修改
type NoteHistory struct {
	ID        int64
	NoteID    int64
	UID       int64
	Username  string
	Change    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryChangeAppended describes an append by username.
// HistoryChangeAppended 生成追加内容的变更描述
func HistoryChangeAppended(text, username string) string {
	return fmt.Sprintf("Note updated: Added '%s' by user %s", text, username)
}

// NewNoteHistory builds an unsaved history entry.
func NewNoteHistory(noteID, uid int64, change string) *NoteHistory {
	now := time.Now()
	return &NoteHistory{
		NoteID:    noteID,
		UID:       uid,
		Change:    change,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
