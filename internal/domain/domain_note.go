// Package domain 定义领域模型和接口
package domain

import (
	"time"
)

// Note 笔记领域模型
type Note struct {
	ID          int64
	Content     string
	Owner       int64
	SharedUsers []int64
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewNote builds an unsaved note owned by owner. ID is assigned on persist.
// NewNote 构造一个未持久化的笔记，ID 在持久化时分配
func NewNote(owner int64, content string) *Note {
	now := time.Now()
	return &Note{
		Content:     content,
		Owner:       owner,
		SharedUsers: []int64{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOwner 判断是否为所有者
func (n *Note) IsOwner(uid int64) bool {
	return n != nil && uid > 0 && n.Owner == uid
}

// IsSharedWith 判断是否已分享给该用户
func (n *Note) IsSharedWith(uid int64) bool {
	if n == nil || uid <= 0 {
		return false
	}
	for _, id := range n.SharedUsers {
		if id == uid {
			return true
		}
	}
	return false
}

// AppendedContent returns the content after appending text on a new line.
// AppendedContent 返回追加一行文本后的内容
func (n *Note) AppendedContent(text string) string {
	return n.Content + "\n" + text
}
