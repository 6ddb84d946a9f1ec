// cmd/seeder/main.go

package main

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/pkg/config"
	"Movie_Catalog/pkg/database"
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	adminEmail      = "admin@movie.local"
	defaultPassword = "password"

	userCount     = 50
	directorCount = 20
	movieCount    = 200
	likeCount     = 1000
)

var nationalities = []string{"Korea", "Japan", "USA", "France", "Italy", "China", "UK"}

var genreNames = []string{"drama", "comedy", "thriller", "action", "romance", "horror", "animation", "documentary"}

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	// 和server用同一份配置，保证连的是同一个库
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	db, err := database.Open(cfg.DB, false)
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	fmt.Println("🧹 正在清理旧数据...")
	// 注意：这将删除所有数据！按依赖的反序删表
	models := model.All()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			log.Fatalf("❌ 删表失败: %v", err)
		}
	}
	if err := db.Migrator().DropTable("movie_genres"); err != nil {
		log.Fatalf("❌ 删表失败: %v", err)
	}
	fmt.Println("✅ 旧表删除成功!")

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	// 所有用户共用一个密码，只哈希一次
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), cfg.Auth.HashRounds)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}

	userIDs := seedUsers(db, string(hashed))
	directorIDs := seedDirectors(db)
	genres := seedGenres(db)
	movieIDs := seedMovies(db, directorIDs, genres, userIDs[0])
	seedLikes(db, userIDs, movieIDs)

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
	fmt.Printf("👤 管理员账号: %s / %s\n", adminEmail, defaultPassword)
}

// --- 3. 创建用户，第一个是管理员 ---
func seedUsers(db *gorm.DB, hashedPassword string) []uint64 {
	fmt.Println("👥 正在创建用户...")
	admin := model.User{Email: adminEmail, Password: hashedPassword, Role: model.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("❌ 创建管理员失败: %v", err)
	}
	ids := []uint64{admin.ID}

	for i := 0; i < userCount; i++ {
		role := model.RoleUser
		if i%5 == 0 {
			role = model.RolePaidUser
		}
		user := model.User{
			// faker的邮箱可能重复，加上序号保证唯一
			Email:    fmt.Sprintf("%d_%s", i, faker.Email()),
			Password: hashedPassword,
			Role:     role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("❌ 创建用户失败: %v", err)
		}
		ids = append(ids, user.ID)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", len(ids))
	return ids
}

// --- 4. 创建导演 ---
func seedDirectors(db *gorm.DB) []uint64 {
	fmt.Println("🎬 正在创建导演...")
	ids := make([]uint64, 0, directorCount)
	for i := 0; i < directorCount; i++ {
		director := model.Director{
			Name:        faker.Name(),
			Dob:         time.Unix(faker.UnixTime(), 0).UTC(),
			Nationality: nationalities[rand.Intn(len(nationalities))],
		}
		if err := db.Create(&director).Error; err != nil {
			log.Fatalf("❌ 创建导演失败: %v", err)
		}
		ids = append(ids, director.ID)
	}
	fmt.Printf("✅ 成功创建 %d 个导演!\n", len(ids))
	return ids
}

// --- 5. 创建类型 ---
func seedGenres(db *gorm.DB) []model.Genre {
	fmt.Println("🏷️ 正在创建类型...")
	genres := make([]model.Genre, 0, len(genreNames))
	for _, name := range genreNames {
		genres = append(genres, model.Genre{Name: name})
	}
	if err := db.Create(&genres).Error; err != nil {
		log.Fatalf("❌ 创建类型失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 个类型!\n", len(genres))
	return genres
}

// --- 6. 创建电影：详情、导演、1到3个类型 ---
func seedMovies(db *gorm.DB, directorIDs []uint64, genres []model.Genre, creatorID uint64) []uint64 {
	fmt.Println("🍿 正在创建电影...")
	ids := make([]uint64, 0, movieCount)
	for i := 0; i < movieCount; i++ {
		// 标题有唯一索引，加上序号避免faker生成重复的句子
		title := fmt.Sprintf("%s #%d", faker.Sentence(), i+1)

		picked := make([]model.Genre, 0, 3)
		for _, idx := range rand.Perm(len(genres))[:rand.Intn(3)+1] {
			picked = append(picked, genres[idx])
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			detail := model.MovieDetail{Detail: faker.Paragraph()}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
			movie := model.Movie{
				Title:      title,
				DetailID:   detail.ID,
				DirectorID: directorIDs[rand.Intn(len(directorIDs))],
				Genres:     picked,
				CreatorID:  &creatorID,
				// 种子数据没有真实的视频文件
				MovieFilePath: "public/movie/sample.mp4",
			}
			// 类型已经存在，只写关联表
			if err := tx.Omit("Detail", "Director", "Creator", "Genres.*").Create(&movie).Error; err != nil {
				return err
			}
			ids = append(ids, movie.ID)
			return nil
		})
		if err != nil {
			log.Fatalf("❌ 创建电影失败: %v", err)
		}
	}
	fmt.Printf("✅ 成功创建 %d 部电影!\n", len(ids))
	return ids
}

// --- 7. 创建随机点赞，并把计数同步到movies表 ---
func seedLikes(db *gorm.DB, userIDs, movieIDs []uint64) {
	fmt.Println("👍 正在创建随机点赞...")
	for i := 0; i < likeCount; i++ {
		like := model.MovieUserLike{
			UserID:  userIDs[rand.Intn(len(userIDs))],
			MovieID: movieIDs[rand.Intn(len(movieIDs))],
			// 大约七成是喜欢
			IsLike: rand.Intn(10) < 7,
		}
		// 同一个用户对同一部电影只能有一条记录，冲突就跳过
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "movie_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&like).Error; err != nil {
			log.Fatalf("❌ 创建点赞失败: %v", err)
		}
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机点赞!\n", likeCount)

	// 复用仓储里的统计SQL，批量回填like_count / dislike_count
	rows, err := repository.NewMovieRepository(db, nil).RecountAllLikes(context.Background())
	if err != nil {
		log.Fatalf("❌ 同步点赞数失败: %v", err)
	}
	fmt.Printf("✅ 已同步 %d 部电影的点赞数!\n", rows)
}
