// Package repositories 实现数据访问层，封装 MongoDB 与 PostgreSQL(JSONB) 两种文档存储驱动。
package repositories

import (
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-person/internal/models/po"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrPersonNotFound 表示按 id 或字段查找未命中任何文档。
	ErrPersonNotFound = errors.New("person not found")
	// ErrInvalidPersonID 表示标识不是 24 位十六进制 ObjectID。
	ErrInvalidPersonID = errors.New("invalid person id")
	// ErrUnsupportedField 表示 FindByField 的字段名不在允许的文档字段之内。
	ErrUnsupportedField = errors.New("unsupported person field")
	// ErrUnsupportedDriver 表示配置了未知的存储驱动。
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)

// searchableFields 是允许按字段查找的文档字段。
var searchableFields = map[string]struct{}{
	po.FieldName:      {},
	po.FieldBirthDate: {},
	po.FieldStatus:    {},
}

func checkField(field string) error {
	if _, ok := searchableFields[field]; !ok {
		return ErrUnsupportedField
	}
	return nil
}

// ParseID 把十六进制字符串解析为 ObjectID，失败时返回 ErrInvalidPersonID。
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidPersonID, raw)
	}
	return id, nil
}
