package service

// Note operation names reported to Metrics
// 上报指标使用的笔记操作名
const (
	OpNoteCreate   = "create"
	OpNoteGet      = "get"
	OpNoteAppend   = "append"
	OpNoteDelete   = "delete"
	OpNoteList     = "list"
	OpNoteShare    = "share"
	OpNoteUnshare  = "unshare"
	OpNoteHistory  = "history"
	OpNoteSharedTo = "shared_users"
)

// Metrics receives note operation outcomes
// Metrics 接收笔记操作结果上报
type Metrics interface {
	// ObserveNoteOperation records one finished operation; err is nil on success
	ObserveNoteOperation(op string, err error)
	// ObserveAppendRetry records one version-conflict retry of an append
	ObserveAppendRetry()
}

type nopMetrics struct{}

func (nopMetrics) ObserveNoteOperation(string, error) {}
func (nopMetrics) ObserveAppendRetry()                {}

// NopMetrics discards everything
func NopMetrics() Metrics { return nopMetrics{} }
