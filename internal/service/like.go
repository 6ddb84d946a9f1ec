package service

import (
	"Movie_Catalog/internal/data"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/pkg/logger"
	"Movie_Catalog/pkg/metrics"
	"context"
	"errors"

	"gorm.io/gorm"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueMovieLike = "movie_catalog.movie_like.queue"
)

// MovieLikeMessage 点赞状态变化后投递到MQ，消费者据此重新统计这部电影的计数
type MovieLikeMessage struct {
	MovieID uint64 `json:"movieId"`
}

// EventPublisher 由rabbitmq.Publisher实现，测试里用记录型的假实现
type EventPublisher interface {
	PublishJSON(queue string, v any) error
}

type LikeService interface {
	// 返回切换后的状态：true喜欢，false不喜欢，nil取消表态
	ToggleLike(ctx context.Context, movieID, userID uint64, isLike bool) (*bool, error)
	// 消费者调用：按点赞表重算一部电影的计数
	RecountMovie(ctx context.Context, movieID uint64) error
	// 定时任务调用：重算全部电影
	RecountAll(ctx context.Context) (int64, error)
}

type likeService struct {
	movieRepo repository.MovieRepository
	uow       data.UnitOfWork
	publisher EventPublisher
}

// publisher可以为nil，此时计数只依赖定时任务重算
func NewLikeService(movieRepo repository.MovieRepository, uow data.UnitOfWork, publisher EventPublisher) LikeService {
	return &likeService{
		movieRepo: movieRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// 切换态度：1、电影必须存在 2、加锁读取已有记录 3、没有就新建，相同就删除，不同就翻转 4、清缓存并发布消息
func (s *likeService) ToggleLike(ctx context.Context, movieID, userID uint64, isLike bool) (*bool, error) {
	var status *bool
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if _, err := repos.MovieRepo.FindByID(ctx, movieID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		like, err := repos.LikeRepo.FindForUpdate(ctx, movieID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch {
		case like == nil:
			if err := repos.LikeRepo.Create(ctx, &model.MovieUserLike{MovieID: movieID, UserID: userID, IsLike: isLike}); err != nil {
				return err
			}
			status = &isLike
		case like.IsLike == isLike:
			if err := repos.LikeRepo.Delete(ctx, movieID, userID); err != nil {
				return err
			}
			status = nil
		default:
			if err := repos.LikeRepo.SetIsLike(ctx, movieID, userID, isLike); err != nil {
				return err
			}
			status = &isLike
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.movieRepo.DeleteMovieCache(ctx, movieID); err != nil {
		logger.Log.WithField("movie_id", movieID).WithError(err).Warn("清理电影缓存失败")
	}
	s.publish(movieID)
	return status, nil
}

// 发布失败不影响接口结果，计数会由定时任务兜底
func (s *likeService) publish(movieID uint64) {
	if s.publisher == nil {
		metrics.LikeEventsPublished.WithLabelValues("skipped").Inc()
		return
	}
	if err := s.publisher.PublishJSON(QueueMovieLike, MovieLikeMessage{MovieID: movieID}); err != nil {
		metrics.LikeEventsPublished.WithLabelValues("failed").Inc()
		logger.Log.WithField("movie_id", movieID).WithError(err).Error("发布点赞消息失败")
		return
	}
	metrics.LikeEventsPublished.WithLabelValues("ok").Inc()
}

func (s *likeService) RecountMovie(ctx context.Context, movieID uint64) error {
	if err := s.movieRepo.RecountLikes(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}
	if err := s.movieRepo.DeleteMovieCache(ctx, movieID); err != nil {
		logger.Log.WithField("movie_id", movieID).WithError(err).Warn("清理电影缓存失败")
	}
	return nil
}

func (s *likeService) RecountAll(ctx context.Context) (int64, error) {
	return s.movieRepo.RecountAllLikes(ctx)
}
