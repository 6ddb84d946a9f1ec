package main

import (
	"Movie_Catalog/internal/data"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/internal/service"
	"Movie_Catalog/pkg/config"
	"Movie_Catalog/pkg/database"
	"Movie_Catalog/pkg/logger"
	"Movie_Catalog/pkg/rabbitmq"
	"Movie_Catalog/pkg/redis"
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

// 可以重试的数据库错误：锁等待超时、死锁、序列化冲突
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213

	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// 消费者进程：连接数据库和rabbitMQ，收到点赞事件后重新统计这部电影的喜欢/不喜欢数量
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	logger.InitLogger(cfg.LogFile, cfg.LogLevel, cfg.IsDev())

	// 连接数据库
	db, err := database.Open(cfg.DB, cfg.IsDev())
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueMovieLike); err != nil {
		logger.Log.Fatalf("声明队列失败: %v", err)
	}

	// 重新统计完要让server那边的电影缓存失效，所以也连上Redis
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}
	defer redisClient.Close()

	movieRepo := repository.NewMovieRepository(db, redisClient)
	uow := data.NewUnitOfWork(db, movieRepo, repository.NewDirectorRepository(db),
		repository.NewGenreRepository(db), repository.NewLikeRepository(db))
	likeService := service.NewLikeService(movieRepo, uow, nil)

	consumeMovieLikes(rabbitMQConn, likeService)
}

// 点赞事件消费者：1、通过mq的TCP连接创建channel 2、注册消费者 3、持续从msgs通道读取消息 4、重新统计计数，并根据结果ack/nack
func consumeMovieLikes(conn *amqp.Connection, likeService service.LikeService) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		service.QueueMovieLike, // queue
		"",                     // consumer
		false,                  // auto-ack: 处理完再手动确认
		false,                  // exclusive
		false,                  // no-local
		false,                  // no-wait
		nil,                    // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册点赞消费者: %v", err)
	}
	// 创建一个没有任何缓冲的bool类型通道
	forever := make(chan bool)

	go func() {
		// msgs是通道，没有消息时会阻塞而不是结束循环
		for d := range msgs {
			handleMovieLike(context.Background(), likeService, d.Body, d.Redelivered, d)
		}
	}()
	logger.Log.Info(" [*] 等待点赞消息中. 按 CTRL+C 退出")
	// 没有发送者，这会阻止main函数退出
	<-forever
}

// acknowledger 是amqp.Delivery的确认部分，测试里用假的实现
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// handleMovieLike 处理一条点赞事件：坏消息直接丢弃，电影不存在直接确认，可重试的错误重新入队
func handleMovieLike(ctx context.Context, likeService service.LikeService, body []byte, redelivered bool, ack acknowledger) {
	logCtx := logger.Log.WithField("body", string(body)).WithField("redelivered", redelivered)
	logCtx.Info("收到一条点赞消息")

	var msg service.MovieLikeMessage
	if err := json.Unmarshal(body, &msg); err != nil || msg.MovieID == 0 {
		logCtx.WithError(err).Error("消息解析失败，直接丢弃")
		_ = ack.Nack(false, false)
		return
	}
	logCtx = logCtx.WithField("movie_id", msg.MovieID)

	err := likeService.RecountMovie(ctx, msg.MovieID)
	switch {
	case err == nil:
		_ = ack.Ack(false)
	case errors.Is(err, service.ErrMovieNotFound):
		// 电影在事件发出后被删掉了，没有需要统计的东西
		logCtx.Warn("电影已不存在，消息将被确认")
		_ = ack.Ack(false)
	case retryable(err, redelivered):
		logCtx.WithError(err).Error("处理消息失败，将进行重试")
		_ = ack.Nack(false, true)
	default:
		logCtx.WithError(err).Error("处理消息失败，错误不可重试，消息将被丢弃")
		_ = ack.Nack(false, false)
	}
}

// 数据库明确报出的错误只重试锁冲突；识别不了的错误（多半是连接问题）重试一次，
// 重投后还失败就丢弃，计数交给定时任务校准
func retryable(err error, redelivered bool) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlLockWaitTimeout || mysqlErr.Number == mysqlDeadlock
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected || pgErr.Code == pgLockNotAvailable
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return false
	}
	return !redelivered
}
