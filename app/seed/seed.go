package seed

import (
	"context"
	"fmt"
	"os"

	"setting-center/app/model"
	"setting-center/app/repository"
	"setting-center/app/valuetype"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Entry 一条初始设置
type Entry struct {
	Key             string          `yaml:"key"`
	Name            string          `yaml:"name"`
	ValueType       string          `yaml:"value_type"`
	Category        string          `yaml:"category"`
	Value           any             `yaml:"value"`
	DefaultValue    any             `yaml:"default_value"`
	Description     string          `yaml:"description"`
	IsActive        *bool           `yaml:"is_active"`
	IsEditable      *bool           `yaml:"is_editable"`
	SortOrder       int             `yaml:"sort_order"`
	ValidationRules valuetype.Rules `yaml:"validation_rules"`
	ExtraOptions    map[string]any  `yaml:"extra_options"`
}

// File 初始设置文件结构
type File struct {
	Settings []Entry `yaml:"settings"`
}

func ptr[T any](v T) *T { return &v }

// Builtins 系统内置的初始设置
func Builtins() []Entry {
	return []Entry{
		{
			Key:          "system.site_name",
			Name:         "站点名称",
			ValueType:    string(valuetype.String),
			Category:     string(model.CategorySystem),
			Value:        "Setting Center",
			DefaultValue: "Setting Center",
			Description:  "网站的名称，显示在标题栏和侧边栏",
			SortOrder:    1,
		},
		{
			Key:          "system.site_logo",
			Name:         "站点 Logo",
			ValueType:    string(valuetype.URL),
			Category:     string(model.CategorySystem),
			Value:        "http://localhost:5000/static/img/logo.png",
			DefaultValue: "http://localhost:5000/static/img/logo.png",
			Description:  "网站 Logo 图片地址",
			SortOrder:    2,
		},
		{
			Key:             "ui.pagination_size",
			Name:            "分页数量",
			ValueType:       string(valuetype.Integer),
			Category:        string(model.CategoryUI),
			Value:           "20",
			DefaultValue:    "20",
			Description:     "后台列表页默认每页显示的条数",
			SortOrder:       10,
			ValidationRules: valuetype.Rules{Min: ptr(5.0), Max: ptr(100.0)},
		},
		{
			Key:          "ui.theme",
			Name:         "默认主题",
			ValueType:    string(valuetype.String),
			Category:     string(model.CategoryUI),
			Value:        "light",
			DefaultValue: "light",
			Description:  "系统默认配色方案",
			SortOrder:    11,
			ExtraOptions: map[string]any{
				"choices": []any{
					map[string]any{"label": "浅色", "value": "light"},
					map[string]any{"label": "深色", "value": "dark"},
					map[string]any{"label": "系统", "value": "system"},
				},
			},
		},
		{
			Key:          "security.enable_captcha",
			Name:         "登录验证码",
			ValueType:    string(valuetype.Boolean),
			Category:     string(model.CategorySecurity),
			Value:        "true",
			DefaultValue: "true",
			Description:  "是否开启登录页面的验证码校验",
			SortOrder:    20,
		},
	}
}

// LoadFile 读取 YAML 初始设置文件
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取初始设置文件失败: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析初始设置文件失败: %w", err)
	}
	return f.Settings, nil
}

// Setting 转换为设置模型
func (e Entry) Setting() (*model.Setting, error) {
	if e.Key == "" {
		return nil, fmt.Errorf("初始设置缺少键名")
	}
	vt, err := valuetype.Parse(e.ValueType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Key, err)
	}
	category, err := model.ParseCategory(e.Category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Key, err)
	}
	if msg := valuetype.CheckFormat(vt, e.DefaultValue); msg != "" {
		return nil, fmt.Errorf("%s 默认值无效: %s", e.Key, msg)
	}

	s := &model.Setting{
		Key:          e.Key,
		Name:         e.Name,
		ValueType:    vt,
		Category:     category,
		Description:  e.Description,
		IsActive:     e.IsActive == nil || *e.IsActive,
		IsEditable:   e.IsEditable == nil || *e.IsEditable,
		SortOrder:    e.SortOrder,
		ExtraOptions: e.ExtraOptions,
	}
	if s.Name == "" {
		s.Name = e.Key
	}
	s.SetRules(e.ValidationRules)
	s.SetDefaultValue(e.DefaultValue)
	if ok, msg := s.ValidateValue(e.Value); !ok {
		return nil, fmt.Errorf("%s 值无效: %s", e.Key, msg)
	}
	s.SetValue(e.Value)
	return s, nil
}

// Apply 创建尚不存在的设置，已存在（包括已删除）的键跳过，返回新建的键
func Apply(ctx context.Context, repo repository.SettingRepository, entries []Entry) ([]string, error) {
	var (
		created []string
		result  *multierror.Error
	)

	for _, e := range entries {
		s, err := e.Setting()
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		exists, err := repo.KeyExists(ctx, s.Key, true)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", s.Key, err))
			continue
		}
		if exists {
			continue
		}

		if err := repo.Create(ctx, s); err != nil {
			result = multierror.Append(result, fmt.Errorf("创建设置 %s 失败: %w", s.Key, err))
			continue
		}
		created = append(created, s.Key)
	}

	return created, result.ErrorOrNil()
}
