// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射文档集合的结构，不直接暴露给上层业务逻辑。
package po

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonStatus 表示人员的生存状态。
type PersonStatus string

// 人员状态常量定义
const (
	PersonStatusLiving   PersonStatus = "LIVING"   // 在世
	PersonStatusDeceased PersonStatus = "DECEASED" // 已故
)

// ParsePersonStatus 将枚举名解析为 PersonStatus，仅接受精确的大写枚举名。
func ParsePersonStatus(raw string) (PersonStatus, error) {
	switch status := PersonStatus(raw); status {
	case PersonStatusLiving, PersonStatusDeceased:
		return status, nil
	default:
		return "", fmt.Errorf("invalid status %q: want %s or %s", raw, PersonStatusLiving, PersonStatusDeceased)
	}
}

// Valid 判断状态是否属于已知枚举。
func (s PersonStatus) Valid() bool {
	return s == PersonStatusLiving || s == PersonStatusDeceased
}

// 文档字段名，与导入的数据集保持一致。
const (
	FieldID        = "_id"
	FieldName      = "name"
	FieldBirthDate = "birthDate"
	FieldStatus    = "status"
)

// Person 表示 person 集合中的一条文档。
// ID 由存储层在插入时生成，之后不可变。
type Person struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	BirthDate Date               `bson:"birthDate"`
	Status    PersonStatus       `bson:"status,omitempty"`
}

// PersonPatch 描述一次部分更新：nil 字段保持原值不变。
type PersonPatch struct {
	Name      *string
	BirthDate *Date
	Status    *PersonStatus
}

// IsEmpty 判断补丁是否不包含任何字段。
func (p PersonPatch) IsEmpty() bool {
	return p.Name == nil && p.BirthDate == nil && p.Status == nil
}

// Fields 返回补丁中出现的字段及其持久化值，键为文档字段名。
func (p PersonPatch) Fields() map[string]any {
	fields := make(map[string]any, 3)
	if p.Name != nil {
		fields[FieldName] = *p.Name
	}
	if p.BirthDate != nil {
		fields[FieldBirthDate] = p.BirthDate.String()
	}
	if p.Status != nil {
		fields[FieldStatus] = string(*p.Status)
	}
	return fields
}

// Apply 将补丁合并到 Person 上（原地修改）。
func (p PersonPatch) Apply(person *Person) {
	if person == nil {
		return
	}
	if p.Name != nil {
		person.Name = *p.Name
	}
	if p.BirthDate != nil {
		person.BirthDate = *p.BirthDate
	}
	if p.Status != nil {
		person.Status = *p.Status
	}
}
