package dto

import (
	"Movie_Catalog/internal/model"
	"time"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=72"`
	// 0 admin, 1 paidUser, 2 user；不填默认user
	Role *int `json:"role" binding:"omitempty,min=0,max=2"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=4,max=72"`
	Role     *int    `json:"role" binding:"omitempty,min=0,max=2"`
}

// UserResponse 对外的用户信息，不含密码
type UserResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Role      int       `json:"role"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      int(user.Role),
		RoleName:  user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Version:   user.Version,
	}
}

func ToUserResponses(users []model.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, ToUserResponse(&users[i]))
	}
	return resp
}
