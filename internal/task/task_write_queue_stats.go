package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/pkg/convert"

	"go.uber.org/zap"
)

// WriteQueueStatsTask 定期记录写队列与 Worker Pool 指标
type WriteQueueStatsTask struct {
	app      *app.App
	interval time.Duration
}

// Name 返回任务名称
func (t *WriteQueueStatsTask) Name() string {
	return "WriteQueueStats"
}

// LoopInterval 返回执行间隔
func (t *WriteQueueStatsTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *WriteQueueStatsTask) IsStartupRun() bool {
	return false
}

// Run 输出指标
func (t *WriteQueueStatsTask) Run(ctx context.Context) error {
	writeQueue := map[string]interface{}{}
	if err := convert.StructToMap(t.app.WriteQueueManager().GetMetrics(), writeQueue); err != nil {
		return err
	}
	workerPool := map[string]interface{}{}
	if err := convert.StructToMap(t.app.WorkerPool().GetMetrics(), workerPool); err != nil {
		return err
	}

	t.app.Logger().Debug("task log",
		zap.String("task", t.Name()),
		zap.Any("writeQueue", writeQueue),
		zap.Any("workerPool", workerPool))
	return nil
}

// NewWriteQueueStatsTask 间隔为 0 时关闭
func NewWriteQueueStatsTask(appContainer *app.App) (Task, error) {
	interval := appContainer.Config().GetWriteQueueStatsInterval()
	if interval <= 0 {
		return nil, nil
	}
	return &WriteQueueStatsTask{app: appContainer, interval: interval}, nil
}

func init() {
	RegisterWithApp(NewWriteQueueStatsTask)
}
