package repository

import (
	"Movie_Catalog/internal/model"
	"context"

	"gorm.io/gorm"
)

// 用户仓库接口：增删改查，以及按邮箱查找（登录、注册查重用）
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	Delete(ctx context.Context, id uint64) error

	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err // 没找到时是gorm.ErrRecordNotFound，交给service判断
	}
	return &result, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(withVersionBump(fields)).Error
}

// 删除用户前先删掉他的点赞记录，并把他创建的电影的creator置空
func (r *userRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM movie_user_likes WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("UPDATE movies SET creator_id = NULL WHERE creator_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

// Updates时顺便把version加一
func withVersionBump(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["version"] = gorm.Expr("version + ?", 1)
	return out
}
