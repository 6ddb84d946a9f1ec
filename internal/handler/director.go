package handler

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DirectorHandler interface {
	Create(c *gin.Context)
	FindAll(c *gin.Context)
	FindOne(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
}

type directorHandler struct {
	DirectorService service.DirectorService
}

func NewDirectorHandler(directorService service.DirectorService) DirectorHandler {
	return &directorHandler{DirectorService: directorService}
}

func (h *directorHandler) Create(c *gin.Context) {
	var req dto.CreateDirectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	director, err := h.DirectorService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建导演失败")
		return
	}

	logger.Log.WithField("director_id", director.ID).Info("导演创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToDirectorResponse(director),
	})
}

func (h *directorHandler) FindAll(c *gin.Context) {
	list, err := h.DirectorService.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询导演列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToDirectorResponses(list),
	})
}

func (h *directorHandler) FindOne(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	director, err := h.DirectorService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询导演失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToDirectorResponse(director),
	})
}

func (h *directorHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDirectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	director, err := h.DirectorService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新导演失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
		"data":    dto.ToDirectorResponse(director),
	})
}

func (h *directorHandler) Remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	removed, err := h.DirectorService.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "删除导演失败")
		return
	}

	logger.Log.WithField("director_id", removed).Info("导演已删除")
	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
		"data":    removed,
	})
}
