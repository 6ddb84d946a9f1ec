package handler

import (
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidTokenFormat, http.StatusBadRequest},
	{service.ErrEmailTaken, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusBadRequest},
	{service.ErrRefreshTokenRequired, http.StatusBadRequest},
	{service.ErrAccessTokenRequired, http.StatusBadRequest},
	{service.ErrGenreExists, http.StatusBadRequest},
	{service.ErrMovieTitleTaken, http.StatusBadRequest},
	{service.ErrDirectorInUse, http.StatusBadRequest},
	{service.ErrGenreInUse, http.StatusBadRequest},
	{service.ErrPasswordTooLong, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrInvalidCursor, http.StatusBadRequest},
	{service.ErrInvalidOrder, http.StatusBadRequest},
	{service.ErrInvalidTake, http.StatusBadRequest},
	{service.ErrNoGenres, http.StatusBadRequest},
	{service.ErrUnsupportedFile, http.StatusBadRequest},
	{service.ErrFileTooLarge, http.StatusBadRequest},

	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrTokenExpired, http.StatusUnauthorized},
	{service.ErrTokenBlocked, http.StatusUnauthorized},

	{service.ErrForbidden, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrMovieNotFound, http.StatusNotFound},
	{service.ErrDirectorNotFound, http.StatusNotFound},
	{service.ErrGenreNotFound, http.StatusNotFound},
	{service.ErrFileNotFound, http.StatusNotFound},
}

// respondError 把service层的错误翻译成HTTP状态码；未知错误一律500，细节只进日志
func respondError(c *gin.Context, err error, logMsg string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			logger.Log.WithField("path", c.Request.URL.Path).WithError(err).Warn(logMsg)
			sendErrorResponse(c, e.status, err.Error())
			return
		}
	}

	// 数据库约束冲突，按请求错误处理
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		logger.Log.WithField("path", c.Request.URL.Path).WithError(err).Warn(logMsg)
		sendErrorResponse(c, http.StatusBadRequest, "已存在的键值")
		return
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		logger.Log.WithField("path", c.Request.URL.Path).WithError(err).Warn(logMsg)
		sendErrorResponse(c, http.StatusBadRequest, "关联的数据不存在")
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		sendErrorResponse(c, http.StatusNotFound, "资源不存在")
		return
	}

	logger.Log.WithField("path", c.Request.URL.Path).WithError(err).Error(logMsg)
	sendErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
}

// 参数绑定或校验失败
func respondBindError(c *gin.Context, err error) {
	logger.Log.WithField("path", c.Request.URL.Path).WithError(err).Warn("请求参数解析失败")
	sendErrorResponse(c, http.StatusBadRequest, "无效的参数: "+err.Error())
}

// 路径里的id必须是数字
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "请输入数字")
		return 0, false
	}
	return id, true
}
