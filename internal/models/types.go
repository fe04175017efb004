package models

import (
	"database/sql/driver"
	"encoding/json"
)

// StringArray 字符串数组类型，用于存储 tags、images 等
type StringArray []string

// Value 实现 driver.Valuer 接口。以 JSON 文本（而非二进制）落库，
// 保证 tags LIKE 过滤可命中。
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}
