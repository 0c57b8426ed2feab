package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dataset 是一份待导入的文档数组，文档按原样保存（包括扩展 JSON 形式的 _id）。
type Dataset struct {
	Documents []bson.D
}

// Len 返回文档数量。
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Documents)
}

func (d *Dataset) documents() []bson.D {
	if d == nil {
		return nil
	}
	return d.Documents
}

// Importer 清空集合并导入数据集，语义等同于 mongoimport --jsonArray --drop。
type Importer interface {
	Import(ctx context.Context, ds *Dataset) (int64, error)
}

// LoadDataset 从文件读取 JSON 数组形式的数据集。
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset 解析 JSON 数组，每个元素按 relaxed 扩展 JSON 解码，
// 因此 {"$oid": "..."} 会被还原为 ObjectID。
func ParseDataset(data []byte) (*Dataset, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("dataset must be a json array: %w", err)
	}
	ds := &Dataset{Documents: make([]bson.D, 0, len(raws))}
	for i, raw := range raws {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		ds.Documents = append(ds.Documents, doc)
	}
	return ds, nil
}

// splitID 拆出文档的 _id；缺失时生成新的 ObjectID，非 ObjectID 的 _id 视为错误。
func splitID(doc bson.D) (primitive.ObjectID, bson.D, error) {
	rest := make(bson.D, 0, len(doc))
	var (
		id    primitive.ObjectID
		found bool
	)
	for _, elem := range doc {
		if elem.Key != "_id" {
			rest = append(rest, elem)
			continue
		}
		oid, ok := elem.Value.(primitive.ObjectID)
		if !ok {
			return primitive.NilObjectID, nil, fmt.Errorf("_id must be an ObjectID, got %T", elem.Value)
		}
		id, found = oid, true
	}
	if !found {
		id = primitive.NewObjectID()
	}
	return id, rest, nil
}
