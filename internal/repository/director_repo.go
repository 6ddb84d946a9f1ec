package repository

import (
	"Movie_Catalog/internal/model"
	"context"

	"gorm.io/gorm"
)

type DirectorRepository interface {
	Create(ctx context.Context, director *model.Director) error
	FindByID(ctx context.Context, id uint64) (*model.Director, error)
	FindAll(ctx context.Context) ([]model.Director, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	Delete(ctx context.Context, id uint64) error
	// 有多少部电影挂在这个导演名下，删除前检查用
	CountMovies(ctx context.Context, id uint64) (int64, error)
	MovieIDs(ctx context.Context, id uint64) ([]uint64, error)

	WithTx(tx *gorm.DB) DirectorRepository
}

type directorRepository struct {
	db *gorm.DB
}

func NewDirectorRepository(db *gorm.DB) DirectorRepository {
	return &directorRepository{db: db}
}

func (r *directorRepository) WithTx(tx *gorm.DB) DirectorRepository {
	return &directorRepository{db: tx}
}

func (r *directorRepository) Create(ctx context.Context, director *model.Director) error {
	return r.db.WithContext(ctx).Create(director).Error
}

func (r *directorRepository) FindByID(ctx context.Context, id uint64) (*model.Director, error) {
	var result model.Director
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *directorRepository) FindAll(ctx context.Context) ([]model.Director, error) {
	var directors []model.Director
	err := r.db.WithContext(ctx).Order("id asc").Find(&directors).Error
	return directors, err
}

func (r *directorRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Director{}).Where("id = ?", id).Updates(withVersionBump(fields)).Error
}

func (r *directorRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Director{}, id).Error
}

func (r *directorRepository) CountMovies(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Where("director_id = ?", id).Count(&count).Error
	return count, err
}

func (r *directorRepository) MovieIDs(ctx context.Context, id uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Where("director_id = ?", id).
		Order("id asc").Pluck("id", &ids).Error
	return ids, err
}
