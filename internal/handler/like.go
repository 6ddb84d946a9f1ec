package handler

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/middleware"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	LikeMovie(c *gin.Context)
	DislikeMovie(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) LikeHandler {
	return &likeHandler{LikeService: likeService}
}

func (h *likeHandler) LikeMovie(c *gin.Context) {
	h.toggle(c, true)
}

func (h *likeHandler) DislikeMovie(c *gin.Context) {
	h.toggle(c, false)
}

// 切换态度：1、从URL取movieID 2、从认证后的context取userID 3、执行切换，返回最新的isLike
func (h *likeHandler) toggle(c *gin.Context, isLike bool) {
	movieID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("movie_id", movieID)
	status, err := h.LikeService.ToggleLike(c.Request.Context(), movieID, userID, isLike)
	if err != nil {
		respondError(c, err, "切换点赞状态失败")
		return
	}
	logCtx.WithField("is_like", status).Info("点赞状态已更新")

	c.JSON(http.StatusOK, gin.H{
		"message": "操作成功",
		"data":    dto.LikeStatusResponse{IsLike: status},
	})
}
