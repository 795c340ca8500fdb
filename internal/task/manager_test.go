package task

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/dao"
	"github.com/haierkeys/note-share-service/pkg/safe_close"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, mutate func(cfg *app.AppConfig)) *app.App {
	t.Helper()

	cfg, err := app.ParseConfig(nil)
	require.NoError(t, err)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg.Database.Path = fmt.Sprintf("file:task_%s?mode=memory&cache=shared", name)
	cfg.Database.MaxIdleConns = 1
	cfg.Database.MaxOpenConns = 1
	if mutate != nil {
		mutate(cfg)
	}

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func taskNames(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name())
	}
	return out
}

func TestManager_RegisterTasks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *app.AppConfig)
		want   []string
	}{
		{"defaults", nil, []string{"HistoryOrphanCleanup", "WriteQueueStats"}},
		{"stats disabled", func(cfg *app.AppConfig) { cfg.App.WriteQueueStatsInterval = "0" }, []string{"HistoryOrphanCleanup"}},
		{"cron cleanup", func(cfg *app.AppConfig) { cfg.App.HistoryCleanupCron = "0 4 * * *" }, []string{"HistoryOrphanCleanup", "WriteQueueStats"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, tt.mutate)
			m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), a)
			require.NoError(t, m.RegisterTasks())
			assert.ElementsMatch(t, tt.want, taskNames(m.Scheduler().Tasks()))
		})
	}
}

func TestManager_InvalidCron(t *testing.T) {
	a := newTestApp(t, func(cfg *app.AppConfig) { cfg.App.HistoryCleanupCron = "every day" })
	m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), a)
	assert.Error(t, m.RegisterTasks())
}

func TestTasks_Run(t *testing.T) {
	a := newTestApp(t, nil)

	cleanup, err := NewHistoryOrphanCleanupTask(a)
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	assert.NoError(t, a.SubmitTask(context.Background(), cleanup.Run))

	stats, err := NewWriteQueueStatsTask(a)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.NoError(t, stats.Run(context.Background()))
}

func TestManager_StartAndStop(t *testing.T) {
	a := newTestApp(t, nil)
	sc := safe_close.NewSafeClose()
	m := NewManager(zap.NewNop(), sc, a)
	require.NoError(t, m.RegisterTasks())

	m.Start()
	sc.SendCloseSignal(nil)
	assert.NoError(t, sc.WaitClosed())
}
