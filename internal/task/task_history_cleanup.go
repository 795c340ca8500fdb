package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-share-service/internal/app"

	"go.uber.org/zap"
)

// HistoryOrphanCleanupTask 清理笔记已不存在的历史记录与分享关系
type HistoryOrphanCleanupTask struct {
	app      *app.App
	interval time.Duration
	cronSpec string
}

// Name 返回任务名称
func (t *HistoryOrphanCleanupTask) Name() string {
	return "HistoryOrphanCleanup"
}

// LoopInterval 返回执行间隔
func (t *HistoryOrphanCleanupTask) LoopInterval() time.Duration {
	return t.interval
}

// CronSpec 设置后按 cron 表达式调度
func (t *HistoryOrphanCleanupTask) CronSpec() string {
	return t.cronSpec
}

// IsStartupRun 是否立即执行一次
func (t *HistoryOrphanCleanupTask) IsStartupRun() bool {
	return true
}

// Run 执行清理
func (t *HistoryOrphanCleanupTask) Run(ctx context.Context) error {
	histories, grants, err := t.app.NoteHistoryService.CleanupOrphans(ctx)
	if err != nil {
		return err
	}

	log := t.app.Logger().Debug
	if histories > 0 || grants > 0 {
		log = t.app.Logger().Info
	}
	log("task log",
		zap.String("task", t.Name()),
		zap.Int64("histories", histories),
		zap.Int64("grants", grants),
		zap.String("msg", "success"))
	return nil
}

// NewHistoryOrphanCleanupTask 创建清理任务，间隔为 0 且未设置 cron 时关闭
func NewHistoryOrphanCleanupTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config()

	t := &HistoryOrphanCleanupTask{
		app:      appContainer,
		interval: cfg.GetHistoryCleanupInterval(),
		cronSpec: cfg.App.HistoryCleanupCron,
	}
	if t.cronSpec != "" {
		if _, err := ParseCron(t.cronSpec); err != nil {
			return nil, err
		}
		return t, nil
	}
	if t.interval <= 0 {
		return nil, nil
	}
	return t, nil
}

// init 自动注册清理任务
func init() {
	RegisterWithApp(NewHistoryOrphanCleanupTask)
}
