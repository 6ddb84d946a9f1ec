package handler

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/middleware"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	RotateAccessToken(c *gin.Context)
	BlockToken(c *gin.Context)
	Private(c *gin.Context)
}

type authHandler struct {
	AuthService service.AuthService
}

func NewAuthHandler(authService service.AuthService) AuthHandler {
	return &authHandler{AuthService: authService}
}

// 注册：Authorization: Basic base64(email:password)
func (h *authHandler) Register(c *gin.Context) {
	user, err := h.AuthService.Register(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err, "用户注册失败")
		return
	}

	logger.Log.WithField("user_id", user.ID).Info("用户注册成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"data":    dto.ToUserResponse(user),
	})
}

// 登录：校验Basic令牌，返回refresh和access两个令牌
func (h *authHandler) Login(c *gin.Context) {
	tokens, err := h.AuthService.Login(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err, "用户登录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"data":    tokens,
	})
}

// 用refresh令牌换新的access令牌
func (h *authHandler) RotateAccessToken(c *gin.Context) {
	access, err := h.AuthService.RotateAccessToken(c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err, "换发access令牌失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "换发成功",
		"data":    dto.AccessTokenResponse{AccessToken: access},
	})
}

func (h *authHandler) BlockToken(c *gin.Context) {
	var req dto.BlockTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	caller, _ := middleware.CurrentClaims(c)

	if err := h.AuthService.BlockToken(c.Request.Context(), caller, req.Token); err != nil {
		respondError(c, err, "封禁令牌失败")
		return
	}

	logger.Log.WithField("user_id", caller.UserID()).Info("令牌已封禁")
	c.JSON(http.StatusOK, gin.H{
		"message": "封禁成功",
		"data":    true,
	})
}

// 回显当前令牌里的用户信息
func (h *authHandler) Private(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户信息",
		"data": gin.H{
			"sub":  claims.UserID(),
			"role": claims.Role.String(),
			"type": claims.Type,
			"exp":  claims.ExpiresAt.Unix(),
		},
	})
}
