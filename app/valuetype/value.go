package valuetype

import (
	"encoding/json"
	"strconv"
)

// Value 类型化的设置值
type Value interface {
	// Interface 返回可直接序列化的 Go 值
	Interface() any
	// Encode 返回存储层的文本表示
	Encode() string
}

// BoolValue 布尔值
type BoolValue bool

func (v BoolValue) Interface() any { return bool(v) }
func (v BoolValue) Encode() string { return strconv.FormatBool(bool(v)) }

// IntValue 整数值
type IntValue int64

func (v IntValue) Interface() any { return int64(v) }
func (v IntValue) Encode() string { return strconv.FormatInt(int64(v), 10) }

// FloatValue 浮点数值
type FloatValue float64

func (v FloatValue) Interface() any { return float64(v) }
func (v FloatValue) Encode() string { return strconv.FormatFloat(float64(v), 'f', -1, 64) }

// TextValue 字符串、长文本、URL、邮箱
type TextValue string

func (v TextValue) Interface() any { return string(v) }
func (v TextValue) Encode() string { return string(v) }

// JSONValue 解析后的 JSON 文档，通常是对象
type JSONValue struct {
	Doc any
}

func (v JSONValue) Interface() any { return v.Doc }

func (v JSONValue) Encode() string {
	b, err := json.Marshal(v.Doc)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Interface 取出值，nil 安全
func Interface(v Value) any {
	if v == nil {
		return nil
	}
	return v.Interface()
}
