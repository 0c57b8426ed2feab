package po

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// DateLayout 是日期在 JSON 与文档中的 ISO 格式（yyyy-MM-dd）。
const DateLayout = "2006-01-02"

// Date 表示不带时间部分的日历日期。
// JSON 与 BSON 中均编码为 "yyyy-MM-dd" 字符串，零值编码为 null。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate 构造日期。
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate 解析 "yyyy-MM-dd" 字符串。
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want yyyy-MM-dd", raw)
	}
	return DateOf(t), nil
}

// DateOf 截取 time.Time 的日期部分。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero 判断是否为零值日期。
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String 返回 ISO 格式；零值返回空串。
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON 实现 json.Marshaler。
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON 实现 json.Unmarshaler，null 保持零值。
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("birthDate must be a yyyy-MM-dd string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue 实现 bsoncodec.ValueMarshaler。
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bsontype.String, bsoncore.AppendString(nil, d.String()), nil
}

// UnmarshalBSONValue 实现 bsoncodec.ValueUnmarshaler。
// 兼容以 BSON date 类型存储的历史文档。
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*d = Date{}
		return nil
	case bsontype.String:
		raw, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("birthDate: malformed bson string")
		}
		parsed, err := ParseDate(raw)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case bsontype.DateTime:
		ms, _, ok := bsoncore.ReadDateTime(data)
		if !ok {
			return fmt.Errorf("birthDate: malformed bson datetime")
		}
		*d = DateOf(time.UnixMilli(ms).UTC())
		return nil
	default:
		return fmt.Errorf("birthDate: unsupported bson type %s", t)
	}
}
