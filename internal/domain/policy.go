package domain

// Operation is an action a caller may attempt on a note.
// Operation 笔记操作类型
type Operation int

const (
	OpRead Operation = iota + 1
	OpUpdate
	OpDelete
	OpShare
)

func (o Operation) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpShare:
		return "share"
	default:
		return "unknown"
	}
}

// Permits reports whether caller may perform op on note.
// Read and update are open to the owner and shared users; delete and share to the owner only.
// There is no admin override.
// Permits 判断调用者是否可以对笔记执行操作：读与更新允许所有者和被分享用户，删除与分享仅允许所有者
func Permits(caller int64, note *Note, op Operation) bool {
	if note == nil || caller <= 0 {
		return false
	}
	switch op {
	case OpRead, OpUpdate:
		return note.IsOwner(caller) || note.IsSharedWith(caller)
	case OpDelete, OpShare:
		return note.IsOwner(caller)
	default:
		return false
	}
}
