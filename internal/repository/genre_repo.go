package repository

import (
	"Movie_Catalog/internal/model"
	"context"

	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	FindByID(ctx context.Context, id uint64) (*model.Genre, error)
	FindByName(ctx context.Context, name string) (*model.Genre, error)
	// 按ID列表批量查找，不存在的ID会被静默忽略，由调用方比对数量
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Genre, error)
	FindAll(ctx context.Context) ([]model.Genre, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	Delete(ctx context.Context, id uint64) error
	// 引用了这个类型的电影
	MovieIDs(ctx context.Context, id uint64) ([]uint64, error)
	// 只有这一个类型的电影数量，删掉类型它们就没有类型了
	CountSoleGenreMovies(ctx context.Context, id uint64) (int64, error)

	WithTx(tx *gorm.DB) GenreRepository
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) WithTx(tx *gorm.DB) GenreRepository {
	return &genreRepository{db: tx}
}

func (r *genreRepository) Create(ctx context.Context, genre *model.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *genreRepository) FindByID(ctx context.Context, id uint64) (*model.Genre, error) {
	var result model.Genre
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	var result model.Genre
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Genre, error) {
	var genres []model.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&genres).Error
	return genres, err
}

func (r *genreRepository) FindAll(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	err := r.db.WithContext(ctx).Order("id asc").Find(&genres).Error
	return genres, err
}

func (r *genreRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Genre{}).Where("id = ?", id).Updates(withVersionBump(fields)).Error
}

// 先断开和电影的关联，再删类型本身
func (r *genreRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM movie_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Genre{}, id).Error
	})
}

func (r *genreRepository) MovieIDs(ctx context.Context, id uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Table("movie_genres").Where("genre_id = ?", id).
		Order("movie_id asc").Pluck("movie_id", &ids).Error
	return ids, err
}

func (r *genreRepository) CountSoleGenreMovies(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM movie_genres mg
		WHERE mg.genre_id = ? AND NOT EXISTS (
			SELECT 1 FROM movie_genres o WHERE o.movie_id = mg.movie_id AND o.genre_id <> mg.genre_id)`, id).
		Scan(&count).Error
	return count, err
}
