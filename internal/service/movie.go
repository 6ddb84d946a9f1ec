package service

import (
	"Movie_Catalog/internal/data"
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const recentMovieLimit = 10

// MoviePage 列表页结果，LikeStatus只包含当前用户表过态的电影
type MoviePage struct {
	Movies     []model.Movie
	LikeStatus map[uint64]bool
	NextCursor *string
	Count      int64
}

type MovieService interface {
	// userID为nil表示匿名访问，不查询点赞状态
	FindAll(ctx context.Context, req dto.GetMoviesRequest, userID *uint64) (*MoviePage, error)
	FindRecent(ctx context.Context) ([]model.Movie, error)
	FindOne(ctx context.Context, id uint64) (*model.Movie, error)
	Create(ctx context.Context, req dto.CreateMovieRequest, creatorID uint64) (*model.Movie, error)
	Update(ctx context.Context, id uint64, req dto.UpdateMovieRequest) (*model.Movie, error)
	Remove(ctx context.Context, id uint64) (uint64, error)
}

type movieService struct {
	sf singleflight.Group

	movieRepo repository.MovieRepository
	likeRepo  repository.LikeRepository
	uow       data.UnitOfWork
	files     FileStorage
	recentTTL time.Duration
}

func NewMovieService(movieRepo repository.MovieRepository, likeRepo repository.LikeRepository,
	uow data.UnitOfWork, files FileStorage, recentTTL time.Duration) MovieService {
	return &movieService{
		movieRepo: movieRepo,
		likeRepo:  likeRepo,
		uow:       uow,
		files:     files,
		recentTTL: recentTTL,
	}
}

// 列表：1、解析游标和排序 2、分页查询 3、登录用户批量查点赞状态 4、生成下一页游标
func (s *movieService) FindAll(ctx context.Context, req dto.GetMoviesRequest, userID *uint64) (*MoviePage, error) {
	q, order, err := buildMovieQuery(req)
	if err != nil {
		return nil, err
	}

	movies, count, err := s.movieRepo.FindPage(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &MoviePage{Movies: movies, Count: count}
	if userID != nil && len(movies) > 0 {
		ids := make([]uint64, 0, len(movies))
		for _, m := range movies {
			ids = append(ids, m.ID)
		}
		likes, err := s.likeRepo.FindByUserAndMovies(ctx, *userID, ids)
		if err != nil {
			return nil, err
		}
		page.LikeStatus = make(map[uint64]bool, len(likes))
		for _, l := range likes {
			page.LikeStatus[l.MovieID] = l.IsLike
		}
	}

	page.NextCursor, err = nextMovieCursor(movies, order, q.Take)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// 最新电影：先读Redis，未命中查库后写回，Redis故障时直接查库
func (s *movieService) FindRecent(ctx context.Context) ([]model.Movie, error) {
	cached, err := s.movieRepo.GetRecentCache(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("读取最新电影缓存失败")
	} else if cached != nil {
		return cached, nil
	}

	movies, err := s.movieRepo.FindRecent(ctx, recentMovieLimit)
	if err != nil {
		return nil, err
	}
	if err := s.movieRepo.SetRecentCache(ctx, movies, s.recentTTL); err != nil {
		logger.Log.WithError(err).Warn("写入最新电影缓存失败")
	}
	return movies, nil
}

// 根据ID查找电影：1、查找Redis缓存 2、未命中时通过SingleFlight合并并发的数据库查询
func (s *movieService) FindOne(ctx context.Context, id uint64) (*model.Movie, error) {
	movie, err := s.movieRepo.GetMovieCache(ctx, id)
	if err == nil && movie != nil {
		return movie, nil
	}
	if err != nil {
		logger.Log.WithField("movie_id", id).WithError(err).Warn("读取电影缓存失败，改为查库")
	}

	key := fmt.Sprintf("get_movie_%d", id)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbMovie, dbErr := s.movieRepo.FindByID(ctx, id)
		if dbErr != nil {
			return nil, dbErr
		}
		if cacheErr := s.movieRepo.SetMovieCache(ctx, dbMovie); cacheErr != nil {
			logger.Log.WithField("movie_id", id).WithError(cacheErr).Warn("写入电影缓存失败")
		}
		return dbMovie, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return result.(*model.Movie), nil
}

// 创建电影，整体在一个事务里：1、导演和类型必须存在 2、标题不能重复 3、先写详情再写电影和类型关联 4、把上传的文件移到movie目录
func (s *movieService) Create(ctx context.Context, req dto.CreateMovieRequest, creatorID uint64) (*model.Movie, error) {
	var movieID uint64
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := ensureDirector(ctx, repos.DirectorRepo, req.DirectorID); err != nil {
			return err
		}
		genres, err := loadGenres(ctx, repos.GenreRepo, req.GenreIDs)
		if err != nil {
			return err
		}
		if err := ensureTitleFree(ctx, repos.MovieRepo, req.Title, 0); err != nil {
			return err
		}

		detail := &model.MovieDetail{Detail: req.Detail}
		if err := repos.MovieRepo.CreateDetail(ctx, detail); err != nil {
			return err
		}

		movie := &model.Movie{
			Title:         req.Title,
			DetailID:      detail.ID,
			DirectorID:    req.DirectorID,
			Genres:        genres,
			MovieFilePath: s.files.MovieFilePath(req.MovieFileName),
		}
		if creatorID != 0 {
			movie.CreatorID = &creatorID
		}
		if err := repos.MovieRepo.Create(ctx, movie); err != nil {
			return err
		}

		// 文件移动放在最后，失败时前面写入的数据随事务回滚
		if _, err := s.files.MoveToMovieDir(req.MovieFileName); err != nil {
			return err
		}
		movieID = movie.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.movieRepo.DeleteMovieCache(ctx, movieID); err != nil {
		logger.Log.WithField("movie_id", movieID).WithError(err).Warn("清理电影缓存失败")
	}
	return s.FindOne(ctx, movieID)
}

// 更新电影：detail单独写详情表，其余字段写电影表，genreIds整体替换
func (s *movieService) Update(ctx context.Context, id uint64, req dto.UpdateMovieRequest) (*model.Movie, error) {
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		movie, err := repos.MovieRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		fields := map[string]any{}
		if req.Title != nil {
			if err := ensureTitleFree(ctx, repos.MovieRepo, *req.Title, id); err != nil {
				return err
			}
			fields["title"] = *req.Title
		}
		if req.DirectorID != nil {
			if err := ensureDirector(ctx, repos.DirectorRepo, *req.DirectorID); err != nil {
				return err
			}
			fields["director_id"] = *req.DirectorID
		}
		if req.Detail != nil {
			if err := repos.MovieRepo.UpdateDetail(ctx, movie.DetailID, *req.Detail); err != nil {
				return err
			}
		}
		if req.GenreIDs != nil {
			genres, err := loadGenres(ctx, repos.GenreRepo, req.GenreIDs)
			if err != nil {
				return err
			}
			if err := repos.MovieRepo.ReplaceGenres(ctx, id, genreIDs(genres)); err != nil {
				return err
			}
		}

		// 只改了详情或类型也算一次修改，版本号照样递增
		if len(fields) > 0 || req.Detail != nil || req.GenreIDs != nil {
			return repos.MovieRepo.Update(ctx, id, fields)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.movieRepo.DeleteMovieCache(ctx, id); err != nil {
		logger.Log.WithField("movie_id", id).WithError(err).Warn("清理电影缓存失败")
	}
	return s.FindOne(ctx, id)
}

// 删除电影：先删电影（连同类型关联和点赞），再删详情
func (s *movieService) Remove(ctx context.Context, id uint64) (uint64, error) {
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		movie, err := repos.MovieRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMovieNotFound
			}
			return err
		}
		if err := repos.MovieRepo.Delete(ctx, id); err != nil {
			return err
		}
		return repos.MovieRepo.DeleteDetail(ctx, movie.DetailID)
	})
	if err != nil {
		return 0, err
	}

	if err := s.movieRepo.DeleteMovieCache(ctx, id); err != nil {
		logger.Log.WithField("movie_id", id).WithError(err).Warn("清理电影缓存失败")
	}
	return id, nil
}

func ensureDirector(ctx context.Context, repo repository.DirectorRepository, id uint64) error {
	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDirectorNotFound
		}
		return err
	}
	return nil
}

func ensureTitleFree(ctx context.Context, repo repository.MovieRepository, title string, excludeID uint64) error {
	exists, err := repo.ExistsByTitle(ctx, title, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrMovieTitleTaken
	}
	return nil
}

// 请求里的类型ID去重后必须全部存在，否则报出实际存在的那些ID
func loadGenres(ctx context.Context, repo repository.GenreRepository, ids []uint64) ([]model.Genre, error) {
	if len(ids) == 0 {
		return nil, ErrNoGenres
	}
	seen := make(map[uint64]bool, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	genres, err := repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(unique) {
		return nil, fmt.Errorf("%w: 存在的ids -> %v", ErrGenreNotFound, genreIDs(genres))
	}
	return genres, nil
}

func genreIDs(genres []model.Genre) []uint64 {
	ids := make([]uint64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
