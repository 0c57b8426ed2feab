package repositories

import (
	"context"

	"github.com/bionicotaku/lingo-services-person/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPersonRepository 基于 MongoDB 集合实现人员文档的存取。
type MongoPersonRepository struct {
	coll *mongo.Collection
	log  *log.Helper
}

// NewMongoPersonRepository 构造 MongoDB 仓储，collection 为目标集合名。
func NewMongoPersonRepository(db *mongo.Database, collection string, logger log.Logger) *MongoPersonRepository {
	return &MongoPersonRepository{
		coll: db.Collection(collection),
		log:  log.NewHelper(log.With(logger, "module", "repository.person.mongo")),
	}
}

func byID(id primitive.ObjectID) bson.M {
	return bson.M{po.FieldID: id}
}

// Insert 插入新文档并返回存储生成的 ObjectID；传入实体上已有的 ID 会被覆盖。
func (r *MongoPersonRepository) Insert(ctx context.Context, person *po.Person) (primitive.ObjectID, error) {
	doc := *person
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.WithContext(ctx).Errorf("insert person failed: name=%q err=%v", person.Name, err)
		return primitive.NilObjectID, errors.Wrap(err, "inserting person")
	}
	return doc.ID, nil
}

// FindByID 根据 _id 查询单个文档。
//
// 错误处理：
//   - mongo.ErrNoDocuments → ErrPersonNotFound
//   - 其他驱动错误包装后返回
func (r *MongoPersonRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*po.Person, error) {
	return r.findOne(ctx, byID(id))
}

// FindByField 返回第一个 field == value 的文档。
func (r *MongoPersonRepository) FindByField(ctx context.Context, field, value string) (*po.Person, error) {
	if err := checkField(field); err != nil {
		return nil, errors.Wrapf(err, "field '%s'", field)
	}
	return r.findOne(ctx, bson.M{field: value})
}

func (r *MongoPersonRepository) findOne(ctx context.Context, filter bson.M) (*po.Person, error) {
	res := r.coll.FindOne(ctx, filter)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPersonNotFound
		}
		return nil, errors.Wrap(err, "finding person")
	}

	var person po.Person
	if err := res.Decode(&person); err != nil {
		return nil, errors.Wrap(err, "decoding person")
	}
	return &person, nil
}

// FindAll 按集合自然顺序返回全部文档。
func (r *MongoPersonRepository) FindAll(ctx context.Context) ([]*po.Person, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "listing persons")
	}
	persons := []*po.Person{}
	if err := cur.All(ctx, &persons); err != nil {
		return nil, errors.Wrap(err, "decoding persons")
	}
	return persons, nil
}

// Update 以 $set 合并补丁中出现的字段，返回是否命中文档。
// 空补丁不会写库，只检查文档是否存在。
func (r *MongoPersonRepository) Update(ctx context.Context, id primitive.ObjectID, patch po.PersonPatch) (bool, error) {
	if patch.IsEmpty() {
		n, err := r.coll.CountDocuments(ctx, byID(id))
		if err != nil {
			return false, errors.Wrap(err, "checking person")
		}
		return n > 0, nil
	}

	res, err := r.coll.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M(patch.Fields())})
	if err != nil {
		r.log.WithContext(ctx).Errorf("update person failed: id=%s err=%v", id.Hex(), err)
		return false, errors.Wrapf(err, "updating person '%s'", id.Hex())
	}
	return res.MatchedCount > 0, nil
}

// Delete 删除文档，返回是否确实删除了一条。
func (r *MongoPersonRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		r.log.WithContext(ctx).Errorf("delete person failed: id=%s err=%v", id.Hex(), err)
		return false, errors.Wrapf(err, "deleting person '%s'", id.Hex())
	}
	return res.DeletedCount > 0, nil
}

// Count 返回集合中的文档总数。
func (r *MongoPersonRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "counting persons")
	}
	return n, nil
}

// Import 删除集合后原样插入数据集中的文档。
func (r *MongoPersonRepository) Import(ctx context.Context, ds *Dataset) (int64, error) {
	if err := r.coll.Drop(ctx); err != nil {
		return 0, errors.Wrapf(err, "dropping collection '%s'", r.coll.Name())
	}
	if ds.Len() == 0 {
		return 0, nil
	}

	docs := make([]any, 0, ds.Len())
	for _, doc := range ds.documents() {
		docs = append(docs, doc)
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, errors.Wrapf(err, "importing into '%s'", r.coll.Name())
	}
	r.log.WithContext(ctx).Infof("imported dataset: collection=%s documents=%d", r.coll.Name(), len(res.InsertedIDs))
	return int64(len(res.InsertedIDs)), nil
}

// Ping 检查 MongoDB 可达性。
func (r *MongoPersonRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
