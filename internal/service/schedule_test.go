package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	var calls []string
	s := NewScheduler(time.Minute,
		Task{Name: "broken", Run: func(ctx context.Context) error {
			calls = append(calls, "broken")
			return errors.New("boom")
		}},
		Task{Name: "healthy", Run: func(ctx context.Context) error {
			calls = append(calls, "healthy")
			return nil
		}},
	)

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"broken", "healthy"}, calls)
}

func TestStartTicksUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(10*time.Millisecond, Task{Name: "count", Run: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestDefaultTasksRecountLikes(t *testing.T) {
	f := newMovieFixture(t)
	likes := NewLikeService(f.movieRepo, f.uow, nil)
	tasks := DefaultTasks(f.common, likes, time.Hour)

	names := make([]string, 0, len(tasks))
	for _, task := range tasks {
		names = append(names, task.Name)
		assert.NoError(t, task.Run(context.Background()))
	}
	assert.Equal(t, []string{"erase_orphan_files", "recount_movie_likes"}, names)
}
