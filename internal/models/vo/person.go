// Package vo 定义视图对象（View Objects），用于向上层传递业务数据。
// VO 对象由 Service 层返回，经 views 渲染为 HTTP 响应，隔离持久化结构。
package vo

import (
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
)

// Person 是 Service 层返回的人员视图。
// ID 为存储层 ObjectID 的十六进制字符串形式。
type Person struct {
	ID        string
	Name      string
	BirthDate po.Date
	Status    po.PersonStatus
}

// NewPerson 从持久化实体构造视图。
func NewPerson(p *po.Person) *Person {
	if p == nil {
		return nil
	}
	return &Person{
		ID:        p.ID.Hex(),
		Name:      p.Name,
		BirthDate: p.BirthDate,
		Status:    p.Status,
	}
}

// NewPersons 批量转换，保持存储返回的顺序；空输入返回非 nil 空切片。
func NewPersons(items []*po.Person) []*Person {
	out := make([]*Person, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, NewPerson(item))
	}
	return out
}
