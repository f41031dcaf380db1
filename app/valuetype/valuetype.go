package valuetype

import (
	"fmt"
)

// ValueType 设置值类型
type ValueType string

// 支持的值类型
const (
	Boolean ValueType = "boolean"
	Integer ValueType = "integer"
	Float   ValueType = "float"
	String  ValueType = "string"
	Text    ValueType = "text"
	JSON    ValueType = "json"
	URL     ValueType = "url"
	Email   ValueType = "email"
)

// kind 描述一种值类型的转换与格式校验实现
type kind struct {
	label  string
	coerce func(raw any) Value
	// check 返回空字符串表示格式合法，否则返回错误提示
	check func(raw any) string
	// encode 将原始值转为存储文本
	encode func(raw any) string
}

var order = []ValueType{Boolean, Integer, Float, String, Text, JSON, URL, Email}

var kinds = map[ValueType]kind{
	Boolean: {label: "布尔值", coerce: coerceBool, check: noCheck, encode: encodeBool},
	Integer: {label: "整数", coerce: coerceInt, check: checkInt, encode: Stringify},
	Float:   {label: "浮点数", coerce: coerceFloat, check: checkFloat, encode: Stringify},
	String:  {label: "字符串", coerce: coerceText, check: noCheck, encode: Stringify},
	Text:    {label: "长文本", coerce: coerceText, check: noCheck, encode: Stringify},
	JSON:    {label: "JSON数据", coerce: coerceJSON, check: checkJSON, encode: encodeJSON},
	URL:     {label: "URL地址", coerce: coerceText, check: checkURL, encode: Stringify},
	Email:   {label: "邮箱地址", coerce: coerceText, check: checkEmail, encode: Stringify},
}

// lookup 未知类型按字符串处理
func lookup(t ValueType) kind {
	if k, ok := kinds[t]; ok {
		return k
	}
	return kinds[String]
}

// Parse 解析值类型名称
func Parse(s string) (ValueType, error) {
	t := ValueType(s)
	if _, ok := kinds[t]; !ok {
		return "", fmt.Errorf("无效的值类型: %s", s)
	}
	return t, nil
}

// Valid 是否为已知类型
func (t ValueType) Valid() bool {
	_, ok := kinds[t]
	return ok
}

// Label 类型的显示名称
func (t ValueType) Label() string {
	if k, ok := kinds[t]; ok {
		return k.label
	}
	return string(t)
}

// Types 按固定顺序返回全部值类型
func Types() []ValueType {
	out := make([]ValueType, len(order))
	copy(out, order)
	return out
}

// Coerce 将原始值转换为类型化的值，转换失败时返回该类型的零值，nil 输入返回 nil
func Coerce(t ValueType, raw any) Value {
	if raw == nil {
		return nil
	}
	return lookup(t).coerce(raw)
}

// CoerceStored 转换存储层的可空文本
func CoerceStored(t ValueType, raw *string) Value {
	if raw == nil {
		return nil
	}
	return Coerce(t, *raw)
}

// Encode 将原始值转为存储文本，nil 表示清空
func Encode(t ValueType, raw any) *string {
	if raw == nil {
		return nil
	}
	s := lookup(t).encode(raw)
	return &s
}

// CheckFormat 仅执行类型格式检查，返回空字符串表示通过
func CheckFormat(t ValueType, raw any) string {
	if isEmpty(raw) {
		return ""
	}
	return lookup(t).check(raw)
}
