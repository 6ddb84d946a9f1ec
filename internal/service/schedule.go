package service

import (
	"Movie_Catalog/pkg/logger"
	"Movie_Catalog/pkg/metrics"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Task 一个周期性执行的后台任务
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler 按固定间隔依次执行所有任务，ctx取消后退出
type Scheduler struct {
	interval time.Duration
	tasks    []Task
}

func NewScheduler(interval time.Duration, tasks ...Task) *Scheduler {
	return &Scheduler{interval: interval, tasks: tasks}
}

// DefaultTasks 清理孤儿上传文件、重算点赞计数
func DefaultTasks(common CommonService, likes LikeService, orphanMaxAge time.Duration) []Task {
	return []Task{
		{
			Name: "erase_orphan_files",
			Run: func(ctx context.Context) error {
				removed, err := common.EraseOrphanFiles(orphanMaxAge)
				if removed > 0 {
					logger.Log.WithField("removed", removed).Info("已清理过期的临时文件")
				}
				return err
			},
		},
		{
			Name: "recount_movie_likes",
			Run: func(ctx context.Context) error {
				_, err := likes.RecountAll(ctx)
				return err
			},
		},
	}
}

// Start 阻塞运行，一般放在单独的goroutine里
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Log.WithField("interval", s.interval.String()).Info("定时任务已启动")
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("定时任务已停止")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce 执行一轮，单个任务失败只记日志，不影响其他任务
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, task := range s.tasks {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		err := task.Run(ctx)
		metrics.ScheduledTaskDuration.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"task": task.Name,
			}).WithError(err).Error("定时任务执行失败")
		}
	}
}
