package service

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

// 用户管理（管理员用），注册登录在AuthService里
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindOne(ctx context.Context, id uint64) (*model.User, error)
	Update(ctx context.Context, id uint64, req dto.UpdateUserRequest) (*model.User, error)
	Remove(ctx context.Context, id uint64) (uint64, error)
}

type userService struct {
	userRepo   repository.UserRepository
	hashRounds int
}

func NewUserService(userRepo repository.UserRepository, hashRounds int) UserService {
	return &userService{userRepo: userRepo, hashRounds: hashRounds}
}

// 创建：1、邮箱查重 2、密码加密 3、角色默认user
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}
	role := model.RoleUser
	if req.Role != nil {
		role = model.Role(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}
	hash, err := hashPassword(req.Password, s.hashRounds)
	if err != nil {
		return nil, err
	}
	user := &model.User{Email: req.Email, Password: hash, Role: role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) FindAll(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) FindOne(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// 更新：只改请求里出现的字段，密码重新加密
func (s *userService) Update(ctx context.Context, id uint64, req dto.UpdateUserRequest) (*model.User, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Email != nil {
		if err := s.ensureEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		fields["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password, s.hashRounds)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		fields["role"] = role
	}
	if len(fields) > 0 {
		if err := s.userRepo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.FindOne(ctx, id)
}

func (s *userService) Remove(ctx context.Context, id uint64) (uint64, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return 0, err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, selfID uint64) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if existing.ID != selfID {
			return ErrEmailTaken
		}
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
