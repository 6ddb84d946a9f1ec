package database

import (
	"Movie_Catalog/pkg/config"
	"fmt"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// 纯Go实现的sqlite驱动，注册名为"sqlite"，不依赖CGO
	_ "modernc.org/sqlite"
)

// Open 根据DB_TYPE选择gorm方言：postgres、mysql，以及本地开发和测试用的sqlite
func Open(cfg config.DBConfig, dev bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if dev {
		level = gormlogger.Info
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
		// 把各家数据库的重复键、外键错误翻译成gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
		TranslateError: true,
	})
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
		return postgres.Open(dsn), nil
	case "mysql":
		// 用驱动自带的Config拼DSN，避免密码里的特殊字符出问题
		mc := mysqldriver.NewConfig()
		mc.User = cfg.Username
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Host + ":" + strconv.Itoa(cfg.Port)
		mc.DBName = cfg.Database
		mc.ParseTime = true
		// UPDATE返回匹配行数而不是改动行数，和postgres、sqlite保持一致
		mc.ClientFoundRows = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(mc.FormatDSN()), nil
	case "sqlite":
		return SqliteDialector(cfg.Database), nil
	default:
		return nil, fmt.Errorf("不支持的数据库类型: %s", cfg.Type)
	}
}

// SqliteDialector 使用modernc驱动打开sqlite，并开启外键约束
func SqliteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        withForeignKeys(dsn),
	})
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&_pragma=foreign_keys(1)"
	}
	return dsn + "?_pragma=foreign_keys(1)"
}
