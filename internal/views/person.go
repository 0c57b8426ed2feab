// Package views 负责将内部 VO 对象渲染为 HTTP JSON 响应体。
// 该层作为传输层的序列化适配器，隔离业务视图与线上字段名。
package views

import (
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/models/vo"
)

// Person 是 /persons 接口返回的 JSON 结构。
// birthDate 编码为 yyyy-MM-dd，缺省时为 null；status 为枚举名。
type Person struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BirthDate po.Date `json:"birthDate"`
	Status    string  `json:"status,omitempty"`
}

// NewPerson 渲染单个人员；nil 返回空对象。
func NewPerson(p *vo.Person) *Person {
	if p == nil {
		return &Person{}
	}
	return &Person{
		ID:        p.ID,
		Name:      p.Name,
		BirthDate: p.BirthDate,
		Status:    string(p.Status),
	}
}

// NewPersons 渲染列表，空输入返回 []。
func NewPersons(items []*vo.Person) []*Person {
	out := make([]*Person, 0, len(items))
	for _, item := range items {
		out = append(out, NewPerson(item))
	}
	return out
}
