package service

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/pkg/logger"
	"context"
	"errors"

	"gorm.io/gorm"
)

type GenreService interface {
	Create(ctx context.Context, req dto.CreateGenreRequest) (*model.Genre, error)
	FindAll(ctx context.Context) ([]model.Genre, error)
	FindOne(ctx context.Context, id uint64) (*model.Genre, error)
	Update(ctx context.Context, id uint64, req dto.UpdateGenreRequest) (*model.Genre, error)
	Remove(ctx context.Context, id uint64) (uint64, error)
}

type genreService struct {
	genreRepo repository.GenreRepository
	cache     MovieCache
}

// cache可以为nil，此时不做电影缓存失效
func NewGenreService(genreRepo repository.GenreRepository, cache MovieCache) GenreService {
	return &genreService{genreRepo: genreRepo, cache: cache}
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*model.Genre, error) {
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}
	genre := &model.Genre{Name: req.Name}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *genreService) FindAll(ctx context.Context) ([]model.Genre, error) {
	return s.genreRepo.FindAll(ctx)
}

func (s *genreService) FindOne(ctx context.Context, id uint64) (*model.Genre, error) {
	genre, err := s.genreRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Update(ctx context.Context, id uint64, req dto.UpdateGenreRequest) (*model.Genre, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
		if err := s.genreRepo.Update(ctx, id, map[string]any{"name": *req.Name}); err != nil {
			return nil, err
		}
		s.invalidateMovies(ctx, id)
	}
	return s.FindOne(ctx, id)
}

// 删除类型：1、有电影只剩这一个类型时拒绝 2、断开关联并删除 3、失效这些电影的缓存
func (s *genreService) Remove(ctx context.Context, id uint64) (uint64, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.genreRepo.CountSoleGenreMovies(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrGenreInUse
	}
	movieIDs, err := s.genreRepo.MovieIDs(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.genreRepo.Delete(ctx, id); err != nil {
		return 0, err
	}
	invalidateMovies(ctx, s.cache, movieIDs)
	return id, nil
}

func (s *genreService) invalidateMovies(ctx context.Context, id uint64) {
	if s.cache == nil {
		return
	}
	movieIDs, err := s.genreRepo.MovieIDs(ctx, id)
	if err != nil {
		logger.Log.WithField("genre_id", id).WithError(err).Warn("查询类型关联的电影失败")
		return
	}
	invalidateMovies(ctx, s.cache, movieIDs)
}

func (s *genreService) ensureNameFree(ctx context.Context, name string, selfID uint64) error {
	existing, err := s.genreRepo.FindByName(ctx, name)
	if err == nil {
		if existing.ID != selfID {
			return ErrGenreExists
		}
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
