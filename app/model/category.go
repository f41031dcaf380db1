package model

import "fmt"

// Category 设置分类
type Category string

// 设置分类常量
const (
	CategorySystem       Category = "system"       // 系统配置
	CategoryFeature      Category = "feature"      // 功能开关
	CategoryUI           Category = "ui"           // 界面配置
	CategoryEmail        Category = "email"        // 邮件配置
	CategorySecurity     Category = "security"     // 安全配置
	CategoryNotification Category = "notification" // 通知配置
	CategoryAPI          Category = "api"          // API配置
	CategoryBusiness     Category = "business"     // 业务配置
)

var categoryLabels = map[Category]string{
	CategorySystem:       "系统配置",
	CategoryFeature:      "功能开关",
	CategoryUI:           "界面配置",
	CategoryEmail:        "邮件配置",
	CategorySecurity:     "安全配置",
	CategoryNotification: "通知配置",
	CategoryAPI:          "API配置",
	CategoryBusiness:     "业务配置",
}

// Categories 按声明顺序返回全部分类
func Categories() []Category {
	return []Category{
		CategorySystem, CategoryFeature, CategoryUI, CategoryEmail,
		CategorySecurity, CategoryNotification, CategoryAPI, CategoryBusiness,
	}
}

// ParseCategory 解析分类名称
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("无效的分类: %s", s)
	}
	return c, nil
}

// Label 分类显示名称，未知分类返回原值
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
