package router

import (
	"Movie_Catalog/internal/handler"
	"Movie_Catalog/internal/middleware"
	"Movie_Catalog/internal/service"
	"net/http"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	movieListLimit  = 5
	movieListWindow = time.Minute
)

// Dependencies 路由需要的全部依赖，由cmd/server组装
type Dependencies struct {
	AuthService          service.AuthService
	Enforcer             *casbin.SyncedEnforcer
	Redis                *redis.Client
	PublicDir            string
	SlowRequestThreshold time.Duration

	AuthHandler     handler.AuthHandler
	UserHandler     handler.UserHandler
	DirectorHandler handler.DirectorHandler
	GenreHandler    handler.GenreHandler
	MovieHandler    handler.MovieHandler
	LikeHandler     handler.LikeHandler
	CommonHandler   handler.CommonHandler
}

// 中间件顺序：耗时统计 -> 令牌解析 -> 权限校验，先执行的包在外层
func SetupRouter(d Dependencies) *gin.Engine {
	// 请求体里出现未定义的字段直接报400
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.Default()
	r.Use(
		middleware.ResponseTime(d.SlowRequestThreshold),
		middleware.BearerAuth(d.AuthService),
		middleware.RBAC(d.Enforcer),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/public", d.PublicDir)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", d.AuthHandler.Register)
		authGroup.POST("/login", d.AuthHandler.Login)
		authGroup.POST("/token/access", d.AuthHandler.RotateAccessToken)
		authGroup.POST("/token/block", d.AuthHandler.BlockToken)
		authGroup.GET("/private", d.AuthHandler.Private)
	}

	userGroup := r.Group("/user")
	{
		userGroup.POST("", d.UserHandler.Create)
		userGroup.GET("", d.UserHandler.FindAll)
		userGroup.GET("/:id", d.UserHandler.FindOne)
		userGroup.PATCH("/:id", d.UserHandler.Update)
		userGroup.DELETE("/:id", d.UserHandler.Remove)
	}

	directorGroup := r.Group("/director")
	{
		directorGroup.POST("", d.DirectorHandler.Create)
		directorGroup.GET("", d.DirectorHandler.FindAll)
		directorGroup.GET("/:id", d.DirectorHandler.FindOne)
		directorGroup.PATCH("/:id", d.DirectorHandler.Update)
		directorGroup.DELETE("/:id", d.DirectorHandler.Remove)
	}

	genreGroup := r.Group("/genre")
	{
		genreGroup.POST("", d.GenreHandler.Create)
		genreGroup.GET("", d.GenreHandler.FindAll)
		genreGroup.GET("/:id", d.GenreHandler.FindOne)
		genreGroup.PATCH("/:id", d.GenreHandler.Update)
		genreGroup.DELETE("/:id", d.GenreHandler.Remove)
	}

	movieGroup := r.Group("/movie")
	{
		movieGroup.GET("", middleware.Throttle(d.Redis, movieListLimit, movieListWindow), d.MovieHandler.FindAll)
		movieGroup.GET("/recent", d.MovieHandler.FindRecent)
		movieGroup.GET("/:id", d.MovieHandler.FindOne)
		movieGroup.POST("", d.MovieHandler.Create)
		movieGroup.PATCH("/:id", d.MovieHandler.Update)
		movieGroup.DELETE("/:id", d.MovieHandler.Remove)

		movieGroup.POST("/:id/like", d.LikeHandler.LikeMovie)
		movieGroup.POST("/:id/dislike", d.LikeHandler.DislikeMovie)
	}

	r.POST("/common/video", d.CommonHandler.UploadVideo)

	return r
}
