package repository

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/pkg/metrics"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	keyMovieRecent = "movie:recent"
)

// OrderBy 一个排序字段，Column必须是已经过白名单校验的列名
type OrderBy struct {
	Column string
	Desc   bool
}

// MovieQuery 电影列表的查询条件：标题模糊匹配 + 游标分页
type MovieQuery struct {
	Title  string
	Orders []OrderBy
	// 上一页最后一条记录在各排序列上的值，为空表示第一页
	After map[string]any
	Take  int
}

type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	CreateDetail(ctx context.Context, detail *model.MovieDetail) error
	FindByID(ctx context.Context, id uint64) (*model.Movie, error)
	FindPage(ctx context.Context, q MovieQuery) ([]model.Movie, int64, error)
	FindRecent(ctx context.Context, limit int) ([]model.Movie, error)
	ExistsByTitle(ctx context.Context, title string, excludeID uint64) (bool, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	UpdateDetail(ctx context.Context, detailID uint64, detail string) error
	ReplaceGenres(ctx context.Context, movieID uint64, genreIDs []uint64) error
	// 删除电影本身，以及它的类型关联和点赞记录，详情由DeleteDetail单独删除
	Delete(ctx context.Context, id uint64) error
	DeleteDetail(ctx context.Context, detailID uint64) error

	RecountLikes(ctx context.Context, movieID uint64) error
	RecountAllLikes(ctx context.Context) (int64, error)

	GetMovieCache(ctx context.Context, id uint64) (*model.Movie, error)
	SetMovieCache(ctx context.Context, movie *model.Movie) error
	DeleteMovieCache(ctx context.Context, id uint64) error
	GetRecentCache(ctx context.Context) ([]model.Movie, error)
	SetRecentCache(ctx context.Context, movies []model.Movie, ttl time.Duration) error

	WithTx(tx *gorm.DB) MovieRepository
}

type movieRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// rdb可以为nil（消费者、事务中），此时所有缓存操作都是空操作
func NewMovieRepository(db *gorm.DB, rdb *redis.Client) MovieRepository {
	return &movieRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回绑定事务的实例，事务里不碰Redis
func (r *movieRepository) WithTx(tx *gorm.DB) MovieRepository {
	return &movieRepository{
		db: tx,
	}
}

func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	// 关联的导演、类型、详情都已经存在，只写movies表和movie_genres中间表
	return r.db.WithContext(ctx).Omit("Detail", "Director", "Creator", "Genres.*").Create(movie).Error
}

func (r *movieRepository) CreateDetail(ctx context.Context, detail *model.MovieDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *movieRepository) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Preload("Detail").
		Preload("Director").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id asc") }).
		Preload("Creator").
		First(&movie, id).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// 列表查询：1、标题模糊匹配并计数 2、游标条件 3、排序 4、取Take条
func (r *movieRepository) FindPage(ctx context.Context, q MovieQuery) ([]model.Movie, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Movie{})
	if q.Title != "" {
		base = base.Where("movies.title LIKE ?", "%"+q.Title+"%")
	}

	var count int64
	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	tx := base.Session(&gorm.Session{})
	if cond, args := keysetCondition(q.Orders, q.After); cond != "" {
		tx = tx.Where(cond, args...)
	}
	for _, o := range q.Orders {
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		tx = tx.Order("movies." + o.Column + " " + dir)
	}
	if q.Take > 0 {
		tx = tx.Limit(q.Take)
	}

	var movies []model.Movie
	err := tx.
		Preload("Director").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id asc") }).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, count, nil
}

// keysetCondition 展开的游标条件，每个字段按自己的方向比较，方向可以混用：
// (c1 op1 v1) OR (c1 = v1 AND c2 op2 v2) OR ...
// 游标里缺了某个排序字段的值时，只用它前面的字段
func keysetCondition(orders []OrderBy, after map[string]any) (string, []any) {
	if len(after) == 0 {
		return "", nil
	}
	var (
		branches []string
		args     []any
		eqCols   []string
		eqArgs   []any
	)
	for _, o := range orders {
		v, ok := after[o.Column]
		if !ok {
			break
		}
		op := ">"
		if o.Desc {
			op = "<"
		}
		parts := make([]string, 0, len(eqCols)+1)
		for _, col := range eqCols {
			parts = append(parts, col+" = ?")
		}
		parts = append(parts, "movies."+o.Column+" "+op+" ?")
		branches = append(branches, "("+strings.Join(parts, " AND ")+")")
		args = append(args, eqArgs...)
		args = append(args, v)

		eqCols = append(eqCols, "movies."+o.Column)
		eqArgs = append(eqArgs, v)
	}
	if len(branches) == 0 {
		return "", nil
	}
	return "(" + strings.Join(branches, " OR ") + ")", args
}

func (r *movieRepository) FindRecent(ctx context.Context, limit int) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).
		Preload("Director").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id asc") }).
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) ExistsByTitle(ctx context.Context, title string, excludeID uint64) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Movie{}).Where("title = ?", title)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *movieRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", id).Updates(withVersionBump(fields)).Error
}

func (r *movieRepository) UpdateDetail(ctx context.Context, detailID uint64, detail string) error {
	return r.db.WithContext(ctx).Model(&model.MovieDetail{}).Where("id = ?", detailID).Update("detail", detail).Error
}

// 直接操作中间表，避免gorm的Association在替换时顺带upsert类型表
func (r *movieRepository) ReplaceGenres(ctx context.Context, movieID uint64, genreIDs []uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM movie_genres WHERE movie_id = ?", movieID).Error; err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(genreIDs))
	for _, gid := range genreIDs {
		rows = append(rows, map[string]any{"movie_id": movieID, "genre_id": gid})
	}
	return db.Table("movie_genres").Create(rows).Error
}

func (r *movieRepository) Delete(ctx context.Context, id uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM movie_user_likes WHERE movie_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM movie_genres WHERE movie_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&model.Movie{}, id).Error
}

func (r *movieRepository) DeleteDetail(ctx context.Context, detailID uint64) error {
	return r.db.WithContext(ctx).Delete(&model.MovieDetail{}, detailID).Error
}

const recountSQL = `UPDATE movies SET
	like_count = (SELECT COUNT(*) FROM movie_user_likes l WHERE l.movie_id = movies.id AND l.is_like = ?),
	dislike_count = (SELECT COUNT(*) FROM movie_user_likes l WHERE l.movie_id = movies.id AND l.is_like = ?)`

// RecountLikes 从点赞表重新统计单部电影的计数，可重复执行（幂等）
func (r *movieRepository) RecountLikes(ctx context.Context, movieID uint64) error {
	res := r.db.WithContext(ctx).Exec(recountSQL+" WHERE id = ?", true, false, movieID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// 计数本来就对时，mysql默认返回的是"改动行数"0，不能据此判断电影不存在
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *movieRepository) RecountAllLikes(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(recountSQL, true, false)
	return res.RowsAffected, res.Error
}

func (r *movieRepository) keyMovieInfo(id uint64) string {
	return fmt.Sprintf("movie:info:%d", id)
}

// 从Redis读取单部电影：未命中返回(nil, nil)，Redis出错返回err
func (r *movieRepository) GetMovieCache(ctx context.Context, id uint64) (*model.Movie, error) {
	if r.rdb == nil {
		return nil, nil
	}
	movieJSON, err := r.rdb.Get(ctx, r.keyMovieInfo(id)).Result()
	if err == redis.Nil {
		metrics.RecordCacheLookup("movie", "miss")
		return nil, nil
	} else if err != nil {
		metrics.RecordCacheLookup("movie", "error")
		return nil, err
	}
	var movie model.Movie
	if err := json.Unmarshal([]byte(movieJSON), &movie); err != nil {
		return nil, err
	}
	metrics.RecordCacheLookup("movie", "hit")
	return &movie, nil
}

// 写入缓存：5分钟再加上随机秒数，防止缓存雪崩
func (r *movieRepository) SetMovieCache(ctx context.Context, movie *model.Movie) error {
	if r.rdb == nil {
		return nil
	}
	movieJSON, err := json.Marshal(movie)
	if err != nil {
		return err
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyMovieInfo(movie.ID), movieJSON, expiration).Err()
}

// 电影被修改、删除、点赞后调用，连同最新列表一起失效
func (r *movieRepository) DeleteMovieCache(ctx context.Context, id uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, r.keyMovieInfo(id), keyMovieRecent).Err()
}

func (r *movieRepository) GetRecentCache(ctx context.Context) ([]model.Movie, error) {
	if r.rdb == nil {
		return nil, nil
	}
	raw, err := r.rdb.Get(ctx, keyMovieRecent).Result()
	if err == redis.Nil {
		metrics.RecordCacheLookup("recent", "miss")
		return nil, nil
	} else if err != nil {
		metrics.RecordCacheLookup("recent", "error")
		return nil, err
	}
	var movies []model.Movie
	if err := json.Unmarshal([]byte(raw), &movies); err != nil {
		return nil, err
	}
	metrics.RecordCacheLookup("recent", "hit")
	return movies, nil
}

func (r *movieRepository) SetRecentCache(ctx context.Context, movies []model.Movie, ttl time.Duration) error {
	if r.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, keyMovieRecent, raw, ttl).Err()
}
