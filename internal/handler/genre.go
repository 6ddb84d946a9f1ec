package handler

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type GenreHandler interface {
	Create(c *gin.Context)
	FindAll(c *gin.Context)
	FindOne(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
}

type genreHandler struct {
	GenreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) GenreHandler {
	return &genreHandler{GenreService: genreService}
}

func (h *genreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	genre, err := h.GenreService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建类型失败")
		return
	}

	logger.Log.WithField("genre_id", genre.ID).Info("类型创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToGenreResponse(genre),
	})
}

func (h *genreHandler) FindAll(c *gin.Context) {
	list, err := h.GenreService.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询类型列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToGenreResponses(list),
	})
}

func (h *genreHandler) FindOne(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	genre, err := h.GenreService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询类型失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToGenreResponse(genre),
	})
}

func (h *genreHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	genre, err := h.GenreService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新类型失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
		"data":    dto.ToGenreResponse(genre),
	})
}

func (h *genreHandler) Remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	removed, err := h.GenreService.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "删除类型失败")
		return
	}

	logger.Log.WithField("genre_id", removed).Info("类型已删除")
	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
		"data":    removed,
	})
}
