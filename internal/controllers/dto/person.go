// Package dto 定义 HTTP 请求体与领域输入之间的转换。
package dto

import (
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
)

// PersonDTO 是 /persons 的请求体，所有字段可选。
// 创建时忽略 ID；更新时以路径中的标识为准，同样忽略 ID。
type PersonDTO struct {
	ID        *string  `json:"id,omitempty"`
	Name      *string  `json:"name,omitempty"`
	BirthDate *po.Date `json:"birthDate,omitempty"`
	Status    *string  `json:"status,omitempty"`
}

// ToPerson 构造待创建的实体；缺失的字段保持零值。
func (d *PersonDTO) ToPerson() (po.Person, error) {
	var person po.Person
	if d == nil {
		return person, nil
	}
	if d.Name != nil {
		person.Name = *d.Name
	}
	if d.BirthDate != nil {
		person.BirthDate = *d.BirthDate
	}
	if d.Status != nil {
		status, err := po.ParsePersonStatus(*d.Status)
		if err != nil {
			return person, err
		}
		person.Status = status
	}
	return person, nil
}

// ToPatch 构造部分更新补丁；缺失或为 null 的字段不进入补丁。
func (d *PersonDTO) ToPatch() (po.PersonPatch, error) {
	var patch po.PersonPatch
	if d == nil {
		return patch, nil
	}
	if d.Name != nil {
		name := *d.Name
		patch.Name = &name
	}
	if d.BirthDate != nil {
		date := *d.BirthDate
		patch.BirthDate = &date
	}
	if d.Status != nil {
		status, err := po.ParsePersonStatus(*d.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	return patch, nil
}
