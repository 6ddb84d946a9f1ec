package handler

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/middleware"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MovieHandler interface {
	FindAll(c *gin.Context)
	FindRecent(c *gin.Context)
	FindOne(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
}

type movieHandler struct {
	MovieService service.MovieService
}

func NewMovieHandler(movieService service.MovieService) MovieHandler {
	return &movieHandler{MovieService: movieService}
}

// 电影列表：标题搜索 + 游标分页，登录用户额外带上自己的点赞状态
func (h *movieHandler) FindAll(c *gin.Context) {
	var req dto.GetMoviesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var userID *uint64
	if id, ok := middleware.CurrentUserID(c); ok {
		userID = &id
	}

	page, err := h.MovieService.FindAll(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "查询电影列表失败")
		return
	}

	items := make([]dto.MovieListItem, 0, len(page.Movies))
	for i := range page.Movies {
		item := dto.MovieListItem{MovieResponse: dto.ToMovieResponse(&page.Movies[i])}
		if isLike, ok := page.LikeStatus[page.Movies[i].ID]; ok {
			item.LikeStatus = &isLike
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data": dto.MoviePageResponse{
			Data:       items,
			NextCursor: page.NextCursor,
			Count:      page.Count,
		},
	})
}

func (h *movieHandler) FindRecent(c *gin.Context) {
	movies, err := h.MovieService.FindRecent(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询最新电影失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToMovieResponses(movies),
	})
}

func (h *movieHandler) FindOne(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	movie, err := h.MovieService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询电影失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "查询成功",
		"data":    dto.ToMovieResponse(movie),
	})
}

// 创建电影：1、解析Body 2、从context取创建者 3、service层在事务里落库并转正上传的文件
func (h *movieHandler) Create(c *gin.Context) {
	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	creatorID, _ := middleware.CurrentUserID(c)

	logCtx := logger.Log.WithField("creator_id", creatorID)
	logCtx.Info("开始处理创建电影请求")

	movie, err := h.MovieService.Create(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, err, "创建电影失败")
		return
	}

	logCtx.WithField("movie_id", movie.ID).Info("电影创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToMovieResponse(movie),
	})
}

func (h *movieHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	movie, err := h.MovieService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新电影失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
		"data":    dto.ToMovieResponse(movie),
	})
}

func (h *movieHandler) Remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	removed, err := h.MovieService.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "删除电影失败")
		return
	}

	logger.Log.WithField("movie_id", removed).Info("电影已删除")
	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
		"data":    removed,
	})
}
