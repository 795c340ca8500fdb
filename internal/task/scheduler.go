package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/note-share-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask 返回非空 cron 表达式的任务按表达式调度，忽略 LoopInterval
type CronTask interface {
	Task
	CronSpec() string
}

// Runner 执行一次任务，通常提交到 Worker Pool
type Runner func(ctx context.Context, fn func(context.Context) error) error

// cronParser 标准五段式 cron 表达式
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron 解析 cron 表达式
func ParseCron(spec string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return schedule, nil
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	run    Runner
}

// NewScheduler 创建任务调度器，run 为空时在调度协程中直接执行
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose, run Runner) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if run == nil {
		run = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		run:    run,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Tasks 已添加的任务
func (s *Scheduler) Tasks() []Task {
	return s.tasks
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(task Task) {
	var schedule cron.Schedule
	if ct, ok := task.(CronTask); ok && ct.CronSpec() != "" {
		var err error
		if schedule, err = ParseCron(ct.CronSpec()); err != nil {
			s.logger.Error("task not scheduled", zap.String("name", task.Name()), zap.Error(err))
			return
		}
	}

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-closeSignal:
				cancel()
			case <-ctx.Done():
			}
		}()

		if task.IsStartupRun() {
			s.execute(ctx, task, "startupRun")
		}

		next := func() (time.Duration, bool) {
			if schedule != nil {
				return time.Until(schedule.Next(time.Now())), true
			}
			return task.LoopInterval(), task.LoopInterval() > 0
		}

		for {
			wait, ok := next()
			if !ok {
				return
			}
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				s.execute(ctx, task, "loopRun")
			case <-closeSignal:
				timer.Stop()
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

// execute 运行一次任务，panic 与错误只记录日志
func (s *Scheduler) execute(ctx context.Context, task Task, kind string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("type", kind),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Debug("task running", zap.String("name", task.Name()), zap.String("type", kind))
	if err := s.run(ctx, task.Run); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("type", kind),
			zap.Error(err))
	}
}
