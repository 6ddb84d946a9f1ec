package service

import (
	"Movie_Catalog/pkg/logger"
	"context"
)

// MovieCache 电影缓存的失效入口，导演、类型改动后用它清掉引用它们的电影
type MovieCache interface {
	DeleteMovieCache(ctx context.Context, id uint64) error
}

// 失效失败只记日志，缓存最多再旧一个TTL
func invalidateMovies(ctx context.Context, cache MovieCache, ids []uint64) {
	if cache == nil {
		return
	}
	for _, id := range ids {
		if err := cache.DeleteMovieCache(ctx, id); err != nil {
			logger.Log.WithField("movie_id", id).WithError(err).Warn("清理电影缓存失败")
		}
	}
}
