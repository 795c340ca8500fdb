package dto

import (
	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/pkg/convert"
	"github.com/haierkeys/note-share-service/pkg/timex"
)

// NoteHistoryListRequest Note history list request parameters
// 笔记历史列表请求参数
type NoteHistoryListRequest struct {
	ID int64 `uri:"id" json:"-" form:"-" binding:"required,gt=0"` // Note ID // 笔记 ID
}

// NoteHistoryDTO Note history data transfer object
// NoteHistoryDTO 笔记历史数据传输对象
type NoteHistoryDTO struct {
	ID        int64      `json:"id"`        // History entry ID // 历史记录 ID
	NoteID    int64      `json:"noteId"`    // Note ID // 笔记 ID
	UID       int64      `json:"uid"`       // Acting user ID // 操作用户 ID
	Username  string     `json:"username"`  // Acting username // 操作用户名
	Change    string     `json:"change"`    // Change description // 变更描述
	UpdatedAt timex.Time `json:"updatedAt"` // Updated time // 更新时间
	CreatedAt timex.Time `json:"createdAt"` // Created time // 创建时间
}

// NewNoteHistoryDTOList 领域模型批量转换为 DTO
func NewNoteHistoryDTOList(list []*domain.NoteHistory) []*NoteHistoryDTO {
	out := make([]*NoteHistoryDTO, 0, len(list))
	for _, h := range list {
		d := &NoteHistoryDTO{}
		convert.StructAssign(h, d)
		d.CreatedAt = timex.Time(h.CreatedAt)
		d.UpdatedAt = timex.Time(h.UpdatedAt)
		out = append(out, d)
	}
	return out
}
