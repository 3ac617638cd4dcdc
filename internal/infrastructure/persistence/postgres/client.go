// Package postgres 提供 PostgreSQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
)

var tracer = otel.Tracer("postgres")

// Client PostgreSQL 客户端（GORM 版本）
// 连接在首次使用时建立；未配置连接信息时每次访问都返回 ConfigurationError。
type Client struct {
	config *config.PostgresConfig

	mu sync.Mutex
	db *gorm.DB
}

// NewClient 创建 PostgreSQL 客户端，不立即连接
func NewClient(cfg *config.PostgresConfig) *Client {
	return &Client{config: cfg}
}

// DB 获取 GORM DB 实例，必要时建立连接
func (c *Client) DB(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	if c.config == nil || !c.config.Configured() {
		return nil, apperrors.NewConfigurationError("database url is not configured")
	}

	db, err := open(ctx, c.config)
	if err != nil {
		return nil, apperrors.NewPersistenceError("connect", err)
	}
	c.db = db
	return db, nil
}

// slogWriter 把 GORM 的慢查询与错误日志转到 slog
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	logger.Default().Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

func open(ctx context.Context, cfg *config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(slogWriter{}, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Close 关闭数据库连接
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}

// HealthCheck 健康检查
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.HealthCheck")
	defer span.End()

	db, err := c.DB(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	var result int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// AutoMigrate 创建或更新 profiles、products、ebooks 表
func (c *Client) AutoMigrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.AutoMigrate")
	defer span.End()

	db, err := c.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).AutoMigrate(&entity.UserProfile{}, &entity.Product{}, &entity.Ebook{}); err != nil {
		span.RecordError(err)
		return apperrors.NewPersistenceError("migrate", err)
	}
	return nil
}
