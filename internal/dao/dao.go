// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/note-share-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// Config 数据库连接配置
type Config struct {
	// Type sqlite | mysql | postgres
	Type        string
	Path        string
	UserName    string
	Password    string
	Host        string
	Port        int
	Name        string
	TablePrefix string
	Charset     string
	ParseTime   bool
	SSLMode     string
	// Replicas 只读副本，mysql/postgres 为 DSN，sqlite 为文件路径
	Replicas        []string
	AutoMigrate     bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// Debug 输出全部 SQL
	Debug bool
	// Tracing 启用 opentracing SQL span
	Tracing bool
	// SlowThreshold 慢查询阈值
	SlowThreshold time.Duration
}

type Dao struct {
	db     *gorm.DB
	logger *zap.Logger
}

// txKey 上下文中的事务键
type txKey struct{}

// New 创建 Dao
func New(db *gorm.DB, logger *zap.Logger) *Dao {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dao{db: db, logger: logger}
}

// DB returns the transaction carried by ctx, or the pool bound to ctx.
// DB 返回 ctx 中的事务，没有事务时返回绑定 ctx 的连接
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// Transaction runs fn in one transaction. A ctx already inside a transaction joins it.
// Transaction 在事务中执行 fn，已在事务中的 ctx 直接复用
func (d *Dao) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Ping 检查数据库连接
func (d *Dao) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (d *Dao) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDBEngineWithConfig opens the database, applies pool settings and plugins, and migrates when enabled.
// NewDBEngineWithConfig 打开数据库，设置连接池与插件，并按配置执行迁移
func NewDBEngineWithConfig(c Config, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dialector, err := userDialector(c, "")
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger, c.Debug, c.SlowThreshold),
		// 唯一索引冲突统一转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`User` 的表名应该是 `t_user`
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database failed")
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB failed")
	}

	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)
	}

	if len(c.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, dsn := range c.Replicas {
			r, err := userDialector(c, dsn)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, r)
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: c.Debug,
		})
		if c.MaxIdleConns > 0 {
			resolver.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.MaxOpenConns > 0 {
			resolver.SetMaxOpenConns(c.MaxOpenConns)
		}
		if c.ConnMaxLifetime > 0 {
			resolver.SetConnMaxLifetime(c.ConnMaxLifetime)
		}
		if err := db.Use(resolver); err != nil {
			return nil, errors.Wrap(err, "register db resolver failed")
		}
	}

	if c.Tracing {
		if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
			logger.Warn("gorm tracing plugin", zap.Error(err))
		}
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db, ""); err != nil {
			return nil, errors.Wrap(err, "auto migrate failed")
		}
	}

	return db, nil
}

// userDialector builds the dialector for dsn, or for the primary connection when dsn is empty.
func userDialector(c Config, dsn string) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		if dsn == "" {
			port := c.Port
			if port == 0 {
				port = 3306
			}
			charset := c.Charset
			if charset == "" {
				charset = "utf8mb4"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
				c.UserName,
				c.Password,
				c.Host,
				port,
				c.Name,
				charset,
				c.ParseTime,
			)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		if dsn == "" {
			port := c.Port
			if port == 0 {
				port = 5432
			}
			sslMode := c.SSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
				c.Host,
				c.UserName,
				c.Password,
				c.Name,
				port,
				sslMode,
			)
		}
		return postgres.Open(dsn), nil
	case "sqlite", "":
		if dsn == "" {
			dsn = c.Path
		}
		return sqlite.Open(sqliteDSN(dsn)), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}

// sqliteDSN creates the parent directory of a file database and enables WAL with a busy timeout.
// In-memory DSNs are returned unchanged.
func sqliteDSN(path string) string {
	if path == "" || strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return path
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, os.ModePerm)
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}
