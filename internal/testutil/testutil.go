// Package testutil 测试用的数据库和Redis夹具
package testutil

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/pkg/database"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 每个测试一个独立的内存sqlite库，已完成迁移
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:movie_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(database.SqliteDialector(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// 内存库在最后一个连接关闭时就会消失，保持至少一个空闲连接
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewTestRedis 启动一个miniredis，并返回连到它上面的go-redis客户端
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// SeedUser 直接写库创建用户，密码字段不做哈希
func SeedUser(t *testing.T, db *gorm.DB, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: email, Password: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func SeedDirector(t *testing.T, db *gorm.DB, name string) *model.Director {
	t.Helper()
	d := &model.Director{Name: name, Dob: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), Nationality: "KR"}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("failed to seed director: %v", err)
	}
	return d
}

func SeedGenre(t *testing.T, db *gorm.DB, name string) *model.Genre {
	t.Helper()
	g := &model.Genre{Name: name}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("failed to seed genre: %v", err)
	}
	return g
}

// SeedMovie 写入详情、电影和类型关联
func SeedMovie(t *testing.T, db *gorm.DB, title string, directorID uint64, genres ...model.Genre) *model.Movie {
	t.Helper()
	detail := &model.MovieDetail{Detail: title + " detail"}
	if err := db.Create(detail).Error; err != nil {
		t.Fatalf("failed to seed detail: %v", err)
	}
	m := &model.Movie{Title: title, DetailID: detail.ID, DirectorID: directorID, Genres: genres}
	if err := db.Omit("Detail", "Director", "Creator", "Genres.*").Create(m).Error; err != nil {
		t.Fatalf("failed to seed movie: %v", err)
	}
	return m
}
