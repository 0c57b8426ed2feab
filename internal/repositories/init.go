package repositories

import (
	"context"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-person/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderSet 暴露 Repository 层的构造函数供 Wire 依赖注入使用。
var ProviderSet = wire.NewSet(
	NewPersonStore,
)

// PersonStore 是两种驱动共同实现的完整能力集合。
type PersonStore interface {
	Importer
	Insert(ctx context.Context, person *po.Person) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*po.Person, error)
	FindByField(ctx context.Context, field, value string) (*po.Person, error)
	FindAll(ctx context.Context) ([]*po.Person, error)
	Update(ctx context.Context, id primitive.ObjectID, patch po.PersonPatch) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

var (
	_ PersonStore = (*MongoPersonRepository)(nil)
	_ PersonStore = (*PostgresPersonRepository)(nil)
)

// NewPersonStore 按 store 实际持有的连接选择仓储实现。
// PostgreSQL 驱动会在返回前执行建表迁移。
func NewPersonStore(ctx context.Context, store *database.Store, c *loader.Data, logger log.Logger) (PersonStore, error) {
	if store == nil || c == nil {
		return nil, errors.Wrap(ErrUnsupportedDriver, "store is not configured")
	}
	switch {
	case store.Mongo != nil:
		return NewMongoPersonRepository(store.Mongo, c.MongoDB.Collection, logger), nil
	case store.Postgres != nil:
		repo := NewPostgresPersonRepository(store.Postgres, c.Postgres.Table, logger)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDriver, "driver '%s'", store.Driver)
	}
}
