package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/writequeue"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// dbError wraps a storage error unless it already carries a code.
// dbError 将存储层错误包装为 ErrorDBQuery，已是 Code 的错误原样返回
func dbError(err error) error {
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return err
	}
	if errors.Is(err, domain.ErrVersionConflict) {
		return err
	}
	// 请求取消或超时不视为数据库错误
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return code.ErrorDBQuery.WithCause(err)
}

// loadNote reads a note, mapping a missing row to ErrorNoteNotFound.
func loadNote(ctx context.Context, repo domain.NoteRepository, id int64) (*domain.Note, error) {
	note, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, dbError(err)
	}
	return note, nil
}

// queueError maps write queue failures to response codes; ctx errors pass through.
// queueError 将写队列错误转换为响应码
func queueError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, writequeue.ErrWriteQueueFull):
		return code.ErrorTooManyRequests.WithCause(err)
	case errors.Is(err, writequeue.ErrWriteTimeout):
		return code.ErrorRequestTimeout.WithCause(err)
	case errors.Is(err, writequeue.ErrWriteQueueClosed):
		return code.ErrorServerInternal.WithCause(err)
	}
	return err
}

// sharedLoad merges concurrent loads of key. The load itself ignores the
// caller's cancellation so one caller going away cannot fail the others;
// each caller still returns as soon as its own ctx is done.
// sharedLoad 合并同 key 的并发读取，单个调用方取消不影响其他调用方
func sharedLoad[T any](ctx context.Context, g *singleflight.Group, key string, load func(ctx context.Context) (T, error)) (T, error) {
	ch := g.DoChan(key, func() (any, error) {
		return load(context.WithoutCancel(ctx))
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}
