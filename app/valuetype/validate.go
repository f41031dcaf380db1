package valuetype

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// 校验提示信息
const (
	MsgOK       = "验证通过"
	MsgRequired = "此设置项为必填项"
)

var validate = validator.New()

// Rules 设置的验证规则
type Rules struct {
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int     `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

// Choice 可选项
type Choice struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// ChoicesFrom 从额外选项中读取 choices；未配置时返回 nil，配置为空列表时返回空切片
func ChoicesFrom(extra map[string]any) []Choice {
	raw, ok := extra["choices"]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return []Choice{}
	}
	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label, _ := m["label"].(string)
		choices = append(choices, Choice{Label: label, Value: m["value"]})
	}
	return choices
}

// Validate 按固定顺序校验候选原始值，遇到第一个失败即返回
func Validate(t ValueType, raw any, rules Rules, choices []Choice) (bool, string) {
	empty := isEmpty(raw)
	if rules.Required && empty {
		return false, MsgRequired
	}
	if empty {
		return true, MsgOK
	}

	if msg := lookup(t).check(raw); msg != "" {
		return false, msg
	}

	text := Stringify(raw)
	length := utf8.RuneCountInString(text)
	if rules.MinLength != nil && length < *rules.MinLength {
		return false, fmt.Sprintf("长度不能少于%d个字符", *rules.MinLength)
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return false, fmt.Sprintf("长度不能超过%d个字符", *rules.MaxLength)
	}

	if n, ok := ToFloat(raw); ok {
		if rules.Min != nil && n < *rules.Min {
			return false, "值不能小于" + formatNumber(*rules.Min)
		}
		if rules.Max != nil && n > *rules.Max {
			return false, "值不能大于" + formatNumber(*rules.Max)
		}
	}

	if choices != nil {
		allowed := make([]string, 0, len(choices))
		for _, c := range choices {
			if reflect.DeepEqual(raw, c.Value) {
				return true, MsgOK
			}
			allowed = append(allowed, Stringify(c.Value))
		}
		return false, "值必须是以下选项之一：" + strings.Join(allowed, ", ")
	}

	return true, MsgOK
}

func isEmpty(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && s == ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func noCheck(any) string { return "" }

func checkInt(raw any) string {
	if _, ok := ToInt(raw); !ok {
		return "请输入有效的整数"
	}
	return ""
}

func checkFloat(raw any) string {
	if _, ok := ToFloat(raw); !ok {
		return "请输入有效的数字"
	}
	return ""
}

func checkEmail(raw any) string {
	if err := validate.Var(Stringify(raw), "email"); err != nil {
		return "请输入有效的邮箱地址"
	}
	return ""
}

func checkURL(raw any) string {
	s := Stringify(raw)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "请输入有效的URL地址（包含http://或https://）"
	}
	return ""
}

func checkJSON(raw any) string {
	if s, ok := raw.(string); ok && !json.Valid([]byte(s)) {
		return "请输入有效的JSON格式"
	}
	return ""
}
