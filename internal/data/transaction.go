package data

import (
	"Movie_Catalog/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 定义了事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行，
	// 并为它提供绑定在同一个事务上的 Repositories。
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有需要在同一个事务中操作的 Repository
type TransactionalRepositories struct {
	MovieRepo    repository.MovieRepository
	DirectorRepo repository.DirectorRepository
	GenreRepo    repository.GenreRepository
	LikeRepo     repository.LikeRepository
}

type gormUnitOfWork struct {
	db           *gorm.DB
	movieRepo    repository.MovieRepository
	directorRepo repository.DirectorRepository
	genreRepo    repository.GenreRepository
	likeRepo     repository.LikeRepository
}

// NewUnitOfWork 接收的是原始的、非事务的 repositories
func NewUnitOfWork(db *gorm.DB, movieRepo repository.MovieRepository, directorRepo repository.DirectorRepository,
	genreRepo repository.GenreRepository, likeRepo repository.LikeRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:           db,
		movieRepo:    movieRepo,
		directorRepo: directorRepo,
		genreRepo:    genreRepo,
		likeRepo:     likeRepo,
	}
}

// fn返回error则回滚，返回nil则提交
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了这个事务的Repo副本
		return fn(&TransactionalRepositories{
			MovieRepo:    u.movieRepo.WithTx(tx),
			DirectorRepo: u.directorRepo.WithTx(tx),
			GenreRepo:    u.genreRepo.WithTx(tx),
			LikeRepo:     u.likeRepo.WithTx(tx),
		})
	})
}
