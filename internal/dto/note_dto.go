// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/pkg/convert"
	"github.com/haierkeys/note-share-service/pkg/timex"
)

// NoteCreateRequest Request parameters for creating a note
// 创建笔记请求参数
type NoteCreateRequest struct {
	Content string `json:"content" form:"content"` // Note content, must not be blank // 笔记内容，不能为空白
}

// NoteGetRequest Request parameters for reading a note
// 获取笔记请求参数
type NoteGetRequest struct {
	ID int64 `uri:"id" json:"-" form:"-" binding:"required,gt=0"` // Note ID // 笔记 ID
}

// NoteAppendRequest Request parameters for appending a line to a note
// 追加笔记内容请求参数
type NoteAppendRequest struct {
	ID      int64  `uri:"id" json:"-" form:"-" binding:"required,gt=0"` // Note ID // 笔记 ID
	Content string `json:"content" form:"content"`                      // Text to append // 追加的文本
}

// NoteDeleteRequest Request parameters for deleting a note
// 删除笔记请求参数
type NoteDeleteRequest struct {
	ID int64 `uri:"id" json:"-" form:"-" binding:"required,gt=0"` // Note ID // 笔记 ID
}

// ---------------- DTO / Response ----------------

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID          int64      `json:"id"`          // Note ID // 笔记 ID
	Content     string     `json:"content"`     // Content // 内容
	Owner       int64      `json:"owner"`       // Owner UID // 所有者
	SharedUsers []int64    `json:"sharedUsers"` // UIDs the note is shared with // 被分享用户
	Version     int64      `json:"version"`     // Content version // 内容版本
	UpdatedAt   timex.Time `json:"updatedAt"`   // Last updated time // 最后更新时间
	CreatedAt   timex.Time `json:"createdAt"`   // Created time // 创建时间
}

// NewNoteDTO 领域模型转换为 DTO
func NewNoteDTO(n *domain.Note) *NoteDTO {
	if n == nil {
		return nil
	}
	out := &NoteDTO{}
	convert.StructAssign(n, out)
	if out.SharedUsers == nil {
		out.SharedUsers = []int64{}
	}
	out.CreatedAt = timex.Time(n.CreatedAt)
	out.UpdatedAt = timex.Time(n.UpdatedAt)
	return out
}

// NewNoteDTOList 批量转换
func NewNoteDTOList(list []*domain.Note) []*NoteDTO {
	out := make([]*NoteDTO, 0, len(list))
	for _, n := range list {
		out = append(out, NewNoteDTO(n))
	}
	return out
}
