package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-person/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPostgresTable 是未配置表名时使用的文档表。
const DefaultPostgresTable = "persons"

// PostgresPersonRepository 把人员文档存放在 PostgreSQL 的 JSONB 列中。
//
// 表结构：
//
//	id  text primary key   -- ObjectID 十六进制
//	seq bigserial          -- 插入顺序，FindAll 依此排序
//	doc jsonb not null     -- 除 _id 外的文档内容（relaxed 扩展 JSON）
type PostgresPersonRepository struct {
	pool  *pgxpool.Pool
	table string
	log   *log.Helper
}

// NewPostgresPersonRepository 构造 PostgreSQL 仓储；table 为空时使用 DefaultPostgresTable。
func NewPostgresPersonRepository(pool *pgxpool.Pool, table string, logger log.Logger) *PostgresPersonRepository {
	if table == "" {
		table = DefaultPostgresTable
	}
	return &PostgresPersonRepository{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		log:   log.NewHelper(log.With(logger, "module", "repository.person.postgres")),
	}
}

// Migrate 创建文档表（幂等）。
func (r *PostgresPersonRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
        create table if not exists %s (
            id  text primary key,
            seq bigserial not null,
            doc jsonb not null
        )`, r.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

// encodeDocument 把实体编码为 JSONB 文档（不含 _id）。
func encodeDocument(person po.Person) ([]byte, error) {
	person.ID = primitive.NilObjectID
	data, err := bson.MarshalExtJSON(person, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode person document: %w", err)
	}
	return data, nil
}

func decodeDocument(id string, doc []byte) (*po.Person, error) {
	var person po.Person
	if err := bson.UnmarshalExtJSON(doc, false, &person); err != nil {
		return nil, fmt.Errorf("decode person document %s: %w", id, err)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("decode person id %q: %w", id, err)
	}
	person.ID = oid
	return &person, nil
}

// Insert 插入新文档，ID 在写入前生成。
func (r *PostgresPersonRepository) Insert(ctx context.Context, person *po.Person) (primitive.ObjectID, error) {
	doc, err := encodeDocument(*person)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := primitive.NewObjectID()
	query := fmt.Sprintf(`insert into %s (id, doc) values ($1, $2::jsonb)`, r.table)
	if _, err := r.pool.Exec(ctx, query, id.Hex(), string(doc)); err != nil {
		r.log.WithContext(ctx).Errorf("insert person failed: name=%q err=%v", person.Name, err)
		return primitive.NilObjectID, fmt.Errorf("insert person: %w", err)
	}
	return id, nil
}

// FindByID 根据 id 查询单个文档。
//
// 错误处理：
//   - pgx.ErrNoRows → ErrPersonNotFound
//   - 其他数据库错误包装后返回
func (r *PostgresPersonRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*po.Person, error) {
	query := fmt.Sprintf(`select id, doc from %s where id = $1`, r.table)
	return r.queryOne(ctx, query, id.Hex())
}

// FindByField 返回插入顺序上第一个 doc->>field = value 的文档。
func (r *PostgresPersonRepository) FindByField(ctx context.Context, field, value string) (*po.Person, error) {
	if err := checkField(field); err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}
	query := fmt.Sprintf(`select id, doc from %s where doc ->> $1 = $2 order by seq limit 1`, r.table)
	return r.queryOne(ctx, query, field, value)
}

func (r *PostgresPersonRepository) queryOne(ctx context.Context, query string, args ...any) (*po.Person, error) {
	var (
		id  string
		doc []byte
	)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return decodeDocument(id, doc)
}

// FindAll 按插入顺序返回全部文档。
func (r *PostgresPersonRepository) FindAll(ctx context.Context) ([]*po.Person, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`select id, doc from %s order by seq`, r.table))
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []*po.Person{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		person, err := decodeDocument(id, doc)
		if err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

// Update 用 jsonb 拼接合并补丁字段，返回是否命中文档。
func (r *PostgresPersonRepository) Update(ctx context.Context, id primitive.ObjectID, patch po.PersonPatch) (bool, error) {
	fields, err := json.Marshal(patch.Fields())
	if err != nil {
		return false, fmt.Errorf("encode person patch: %w", err)
	}
	query := fmt.Sprintf(`update %s set doc = doc || $2::jsonb where id = $1`, r.table)
	tag, err := r.pool.Exec(ctx, query, id.Hex(), string(fields))
	if err != nil {
		r.log.WithContext(ctx).Errorf("update person failed: id=%s err=%v", id.Hex(), err)
		return false, fmt.Errorf("update person %s: %w", id.Hex(), err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete 删除文档，返回是否删除了一行。
func (r *PostgresPersonRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`delete from %s where id = $1`, r.table), id.Hex())
	if err != nil {
		r.log.WithContext(ctx).Errorf("delete person failed: id=%s err=%v", id.Hex(), err)
		return false, fmt.Errorf("delete person %s: %w", id.Hex(), err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count 返回文档总数。
func (r *PostgresPersonRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`select count(*) from %s`, r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}

// Import 在单个事务内清空表并写入数据集。
func (r *PostgresPersonRepository) Import(ctx context.Context, ds *Dataset) (int64, error) {
	if err := r.Migrate(ctx); err != nil {
		return 0, err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`truncate table %s restart identity`, r.table)); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", r.table, err)
	}

	insert := fmt.Sprintf(`insert into %s (id, doc) values ($1, $2::jsonb)`, r.table)
	batch := &pgx.Batch{}
	for i, doc := range ds.documents() {
		id, rest, err := splitID(doc)
		if err != nil {
			return 0, fmt.Errorf("document %d: %w", i, err)
		}
		data, err := bson.MarshalExtJSON(rest, false, false)
		if err != nil {
			return 0, fmt.Errorf("document %d: %w", i, err)
		}
		batch.Queue(insert, id.Hex(), string(data))
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("import into %s: %w", r.table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	r.log.WithContext(ctx).Infof("imported dataset: table=%s documents=%d", r.table, batch.Len())
	return int64(batch.Len()), nil
}

// Ping 检查 PostgreSQL 可达性。
func (r *PostgresPersonRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
