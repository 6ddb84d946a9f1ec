package main

import (
	"Movie_Catalog/internal/data"
	"Movie_Catalog/internal/handler"
	"Movie_Catalog/internal/middleware"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/internal/router"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/config"
	"Movie_Catalog/pkg/database"
	"Movie_Catalog/pkg/logger"
	"Movie_Catalog/pkg/rabbitmq"
	"Movie_Catalog/pkg/redis"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 读取配置（.env + 环境变量），校验不过直接退出
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	// 初始化logger
	logger.InitLogger(cfg.LogFile, cfg.LogLevel, cfg.IsDev())

	// 初始化Redis
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ，点赞事件队列启动时就声明好
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueMovieLike); err != nil {
		logger.Log.Fatalf("声明队列失败: %v", err)
	}
	logger.Log.Info("RabbitMQ连接成功")

	db, err := database.Open(cfg.DB, cfg.IsDev())
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.WithField("type", cfg.DB.Type).Info("数据库连接成功")
	// 没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	if err := service.EnsureDirs(cfg.PublicDir); err != nil {
		logger.Log.Fatalf("创建上传目录失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient)
	directorRepo := repository.NewDirectorRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	movieRepo := repository.NewMovieRepository(db, redisClient)
	likeRepo := repository.NewLikeRepository(db)

	uow := data.NewUnitOfWork(db, movieRepo, directorRepo, genreRepo, likeRepo)

	authService := service.NewAuthService(userRepo, tokenRepo, cfg.Auth)
	userService := service.NewUserService(userRepo, cfg.Auth.HashRounds)
	directorService := service.NewDirectorService(directorRepo, movieRepo)
	genreService := service.NewGenreService(genreRepo, movieRepo)
	commonService := service.NewCommonService(cfg.PublicDir)
	movieService := service.NewMovieService(movieRepo, likeRepo, uow, commonService, cfg.RecentMovieCacheTTL)
	likeService := service.NewLikeService(movieRepo, uow, rabbitmq.NewPublisher(rabbitMQConn))

	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		logger.Log.Fatalf("权限策略加载失败: %v", err)
	}

	r := router.SetupRouter(router.Dependencies{
		AuthService:          authService,
		Enforcer:             enforcer,
		Redis:                redisClient,
		PublicDir:            cfg.PublicDir,
		SlowRequestThreshold: cfg.SlowRequestThreshold,

		AuthHandler:     handler.NewAuthHandler(authService),
		UserHandler:     handler.NewUserHandler(userService),
		DirectorHandler: handler.NewDirectorHandler(directorService),
		GenreHandler:    handler.NewGenreHandler(genreService),
		MovieHandler:    handler.NewMovieHandler(movieService),
		LikeHandler:     handler.NewLikeHandler(likeService),
		CommonHandler:   handler.NewCommonHandler(commonService),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 定时任务：清理临时目录里没人认领的视频、校准点赞计数
	scheduler := service.NewScheduler(cfg.ScheduleInterval,
		service.DefaultTasks(commonService, likeService, cfg.OrphanFileMaxAge)...)
	go scheduler.Start(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
	go func() {
		logger.Log.Printf("服务器将在: %s 启动", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("收到退出信号，开始关闭服务器")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("服务器关闭失败: %v", err)
		return
	}
	logger.Log.Info("服务器已关闭")
}
