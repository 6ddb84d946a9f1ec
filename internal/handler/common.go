package handler

import (
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

const videoField = "video"

type CommonHandler interface {
	UploadVideo(c *gin.Context)
}

type commonHandler struct {
	CommonService service.CommonService
}

func NewCommonHandler(commonService service.CommonService) CommonHandler {
	return &commonHandler{CommonService: commonService}
}

// 上传视频：文件先落到临时目录，创建电影时再用返回的fileName认领
func (h *commonHandler) UploadVideo(c *gin.Context) {
	// 多留1MB给表单的其他部分
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxVideoSize+1<<20)

	fh, err := c.FormFile(videoField)
	if err != nil {
		logger.Log.WithError(err).Warn("读取上传文件失败")
		sendErrorResponse(c, http.StatusBadRequest, "请上传video字段的文件")
		return
	}

	fileName, err := h.CommonService.SaveVideo(fh)
	if err != nil {
		respondError(c, err, "保存上传文件失败")
		return
	}

	logger.Log.WithField("file_name", fileName).Info("视频上传成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "上传成功",
		"data":    gin.H{"fileName": fileName},
	})
}
