package service

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/pkg/logger"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type DirectorService interface {
	Create(ctx context.Context, req dto.CreateDirectorRequest) (*model.Director, error)
	FindAll(ctx context.Context) ([]model.Director, error)
	FindOne(ctx context.Context, id uint64) (*model.Director, error)
	Update(ctx context.Context, id uint64, req dto.UpdateDirectorRequest) (*model.Director, error)
	Remove(ctx context.Context, id uint64) (uint64, error)
}

type directorService struct {
	directorRepo repository.DirectorRepository
	cache        MovieCache
}

func NewDirectorService(directorRepo repository.DirectorRepository, cache MovieCache) DirectorService {
	return &directorService{directorRepo: directorRepo, cache: cache}
}

func (s *directorService) Create(ctx context.Context, req dto.CreateDirectorRequest) (*model.Director, error) {
	dob, err := time.Parse(dto.DateLayout, req.Dob)
	if err != nil {
		return nil, err
	}
	director := &model.Director{Name: req.Name, Dob: dob, Nationality: req.Nationality}
	if err := s.directorRepo.Create(ctx, director); err != nil {
		return nil, err
	}
	return director, nil
}

func (s *directorService) FindAll(ctx context.Context) ([]model.Director, error) {
	return s.directorRepo.FindAll(ctx)
}

func (s *directorService) FindOne(ctx context.Context, id uint64) (*model.Director, error) {
	director, err := s.directorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDirectorNotFound
		}
		return nil, err
	}
	return director, nil
}

func (s *directorService) Update(ctx context.Context, id uint64, req dto.UpdateDirectorRequest) (*model.Director, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Dob != nil {
		dob, err := time.Parse(dto.DateLayout, *req.Dob)
		if err != nil {
			return nil, err
		}
		fields["dob"] = dob
	}
	if req.Nationality != nil {
		fields["nationality"] = *req.Nationality
	}
	if len(fields) > 0 {
		if err := s.directorRepo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
		// 电影缓存里内嵌了导演
		if s.cache != nil {
			movieIDs, err := s.directorRepo.MovieIDs(ctx, id)
			if err != nil {
				logger.Log.WithField("director_id", id).WithError(err).Warn("查询导演关联的电影失败")
			}
			invalidateMovies(ctx, s.cache, movieIDs)
		}
	}
	return s.FindOne(ctx, id)
}

// 还有电影引用这个导演时拒绝删除，而不是让外键报错
func (s *directorService) Remove(ctx context.Context, id uint64) (uint64, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.directorRepo.CountMovies(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrDirectorInUse
	}
	if err := s.directorRepo.Delete(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
