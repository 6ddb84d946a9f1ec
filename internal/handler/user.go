package handler

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Create(c *gin.Context)
	FindAll(c *gin.Context)
	FindOne(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
}

// 对Service进行封装
type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

func (h *userHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.UserService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建用户失败")
		return
	}

	logger.Log.WithField("user_id", user.ID).Info("用户创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToUserResponse(user),
	})
}

func (h *userHandler) FindAll(c *gin.Context) {
	users, err := h.UserService.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询用户列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToUserResponses(users),
	})
}

func (h *userHandler) FindOne(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询用户失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToUserResponse(user),
	})
}

func (h *userHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.UserService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新用户失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
		"data":    dto.ToUserResponse(user),
	})
}

func (h *userHandler) Remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	removed, err := h.UserService.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "删除用户失败")
		return
	}

	logger.Log.WithField("user_id", removed).Info("用户已删除")
	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
		"data":    removed,
	})
}
