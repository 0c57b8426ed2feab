package database

import (
	"context"
	"fmt"
	"time"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDatabase 连接 MongoDB 并返回配置的数据库句柄。
//
// 启动时执行 Ping，失败会断开客户端并返回错误；
// cleanup 在 Wire 关闭阶段断开客户端。
func NewMongoDatabase(ctx context.Context, cfg loader.MongoDB, logger log.Logger) (*mongo.Database, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "database.mongodb"))

	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongodb URI is required (set MONGODB_URI)")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMonitor(commandMonitor(helper))
	if d := cfg.ConnectTimeout.AsDuration(); d > 0 {
		opts.SetConnectTimeout(d).SetServerSelectionTimeout(d)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongodb health check failed: %w", err)
	}

	helper.Infof("mongodb client connected: uri=%s database=%s collection=%s",
		SanitizeDSN(cfg.URI), cfg.Database, cfg.Collection)

	cleanup := func() {
		helper.Info("closing mongodb client")
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			helper.Warnf("mongodb disconnect failed: %v", err)
		}
	}
	return client.Database(cfg.Database), cleanup, nil
}

// commandMonitor 仅记录失败的命令，不输出命令体。
func commandMonitor(helper *log.Helper) *event.CommandMonitor {
	return &event.CommandMonitor{
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			helper.WithContext(ctx).Errorf(
				"mongodb command failed: command=%s database=%s duration=%s error=%s",
				evt.CommandName,
				evt.DatabaseName,
				evt.Duration,
				evt.Failure,
			)
		},
	}
}
