package repository

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/pkg/logger"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// 没有记录时返回gorm.ErrRecordNotFound
	Find(ctx context.Context, movieID, userID uint64) (*model.MovieUserLike, error)
	// 加行锁读取，用在切换喜欢/不喜欢的事务里
	FindForUpdate(ctx context.Context, movieID, userID uint64) (*model.MovieUserLike, error)
	Create(ctx context.Context, like *model.MovieUserLike) error
	SetIsLike(ctx context.Context, movieID, userID uint64, isLike bool) error
	Delete(ctx context.Context, movieID, userID uint64) error
	// 批量取出某个用户对一组电影的态度，列表页用
	FindByUserAndMovies(ctx context.Context, userID uint64, movieIDs []uint64) ([]model.MovieUserLike, error)

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Find(ctx context.Context, movieID, userID uint64) (*model.MovieUserLike, error) {
	var like model.MovieUserLike
	err := r.db.WithContext(ctx).Where("movie_id = ? AND user_id = ?", movieID, userID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) FindForUpdate(ctx context.Context, movieID, userID uint64) (*model.MovieUserLike, error) {
	var like model.MovieUserLike
	db := r.db.WithContext(ctx)
	// sqlite不支持FOR UPDATE，它本身就是整库写锁
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := db.Where("movie_id = ? AND user_id = ?", movieID, userID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Create(ctx context.Context, like *model.MovieUserLike) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(like)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("添加点赞记录失败")
		return result.Error
	}
	return nil
}

func (r *likeRepository) SetIsLike(ctx context.Context, movieID, userID uint64, isLike bool) error {
	return r.db.WithContext(ctx).Model(&model.MovieUserLike{}).
		Where("movie_id = ? AND user_id = ?", movieID, userID).
		Update("is_like", isLike).Error
}

func (r *likeRepository) Delete(ctx context.Context, movieID, userID uint64) error {
	result := r.db.WithContext(ctx).Exec("DELETE FROM movie_user_likes WHERE movie_id = ? AND user_id = ?", movieID, userID)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("删除点赞记录失败")
		return result.Error
	}
	return nil
}

func (r *likeRepository) FindByUserAndMovies(ctx context.Context, userID uint64, movieIDs []uint64) ([]model.MovieUserLike, error) {
	var likes []model.MovieUserLike
	if len(movieIDs) == 0 {
		return likes, nil
	}
	err := r.db.WithContext(ctx).Where("user_id = ? AND movie_id IN ?", userID, movieIDs).Find(&likes).Error
	return likes, err
}
