package database

import (
	"context"
	"fmt"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store 持有按 data.driver 选择的唯一存储连接；另一个字段始终为 nil。
type Store struct {
	Driver   string
	Mongo    *mongo.Database
	Postgres *pgxpool.Pool
}

// NewStore 根据配置的驱动建立连接。
func NewStore(ctx context.Context, c *loader.Data, logger log.Logger) (*Store, func(), error) {
	if c == nil {
		return nil, nil, fmt.Errorf("data configuration is required")
	}
	switch c.Driver {
	case loader.DriverMongoDB:
		db, cleanup, err := NewMongoDatabase(ctx, c.MongoDB, logger)
		if err != nil {
			return nil, nil, err
		}
		return &Store{Driver: c.Driver, Mongo: db}, cleanup, nil
	case loader.DriverPostgres:
		pool, cleanup, err := NewPgxPool(ctx, c.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		return &Store{Driver: c.Driver, Postgres: pool}, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", c.Driver)
	}
}

// Ping 检查当前驱动的可达性，供 /readyz 使用。
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s == nil:
		return fmt.Errorf("store is not initialised")
	case s.Mongo != nil:
		return s.Mongo.Client().Ping(ctx, nil)
	case s.Postgres != nil:
		return s.Postgres.Ping(ctx)
	default:
		return fmt.Errorf("store %q has no connection", s.Driver)
	}
}
