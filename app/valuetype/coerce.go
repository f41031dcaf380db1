package valuetype

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var truthy = map[string]bool{"true": true, "1": true, "yes": true, "on": true}

// ToBool 按布尔规则转换：字符串仅 true/1/yes/on（不区分大小写）为真
func ToBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return truthy[strings.ToLower(v)]
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}
	return cast.ToBool(raw)
}

// ToInt 解析整数，失败返回 false
func ToInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	}
	n, err := cast.ToInt64E(raw)
	return n, err == nil
}

// ToFloat 解析浮点数，失败返回 false
func ToFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	f, err := cast.ToFloat64E(raw)
	return f, err == nil
}

// Stringify 返回原始值的文本形式
func Stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	if s, err := cast.ToStringE(raw); err == nil {
		return s
	}
	return fmt.Sprint(raw)
}

func coerceBool(raw any) Value {
	return BoolValue(ToBool(raw))
}

func coerceInt(raw any) Value {
	n, _ := ToInt(raw)
	return IntValue(n)
}

func coerceFloat(raw any) Value {
	f, _ := ToFloat(raw)
	return FloatValue(f)
}

func coerceText(raw any) Value {
	return TextValue(Stringify(raw))
}

func coerceJSON(raw any) Value {
	switch v := raw.(type) {
	case map[string]any:
		return JSONValue{Doc: v}
	case string:
		return parseJSON([]byte(v))
	case []byte:
		return parseJSON(v)
	}
	return JSONValue{Doc: map[string]any{}}
}

func parseJSON(b []byte) Value {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return JSONValue{Doc: map[string]any{}}
	}
	return JSONValue{Doc: doc}
}

func encodeBool(raw any) string {
	return strconv.FormatBool(ToBool(raw))
}

// encodeJSON 字符串原样保存，不做二次编码
func encodeJSON(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return Stringify(raw)
	}
	return string(b)
}
