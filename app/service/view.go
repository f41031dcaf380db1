package service

import (
	"encoding/json"
	"io"
	"time"

	"setting-center/app/model"
	"setting-center/app/valuetype"
)

// SettingView 设置的对外表示
type SettingView struct {
	ID              string          `json:"id"`
	Key             string          `json:"key"`
	Name            string          `json:"name"`
	ValueType       string          `json:"value_type"`
	Category        string          `json:"category"`
	Value           any             `json:"value"`
	DefaultValue    any             `json:"default_value"`
	Description     string          `json:"description"`
	IsActive        bool            `json:"is_active"`
	IsEditable      bool            `json:"is_editable"`
	SortOrder       int             `json:"sort_order"`
	ValidationRules valuetype.Rules `json:"validation_rules"`
	ExtraOptions    map[string]any  `json:"extra_options"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewSettingView typed 为 true 时值和默认值为类型化结果，否则为存储文本
func NewSettingView(s *model.Setting, typed bool) SettingView {
	v := SettingView{
		ID:              s.ID,
		Key:             s.Key,
		Name:            s.Name,
		ValueType:       string(s.ValueType),
		Category:        string(s.Category),
		Description:     s.Description,
		IsActive:        s.IsActive,
		IsEditable:      s.IsEditable,
		SortOrder:       s.SortOrder,
		ValidationRules: s.Rules(),
		ExtraOptions:    s.ExtraOptions,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if v.ExtraOptions == nil {
		v.ExtraOptions = map[string]any{}
	}

	if typed {
		v.Value = valuetype.Interface(s.TypedValue())
		v.DefaultValue = valuetype.Interface(s.TypedDefault())
	} else {
		v.Value = rawText(s.Value)
		v.DefaultValue = rawText(s.DefaultValue)
	}
	return v
}

func rawText(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// ValueDetail 设置值详情
type ValueDetail struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Value       any    `json:"value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description"`
}

// CategoryGroup 按分类分组的设置
type CategoryGroup struct {
	Category     string        `json:"category"`
	CategoryName string        `json:"category_name"`
	Settings     []SettingView `json:"settings"`
}

// Pagination 分页信息
type Pagination struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

// PageResult 分页结果
type PageResult struct {
	Results    []SettingView `json:"results"`
	Pagination Pagination    `json:"pagination"`
}

// BatchItem 批量更新中的一项
type BatchItem struct {
	Key      string `json:"key"`
	Value    any    `json:"value"`
	Validate *bool  `json:"validate"`
}

func (i BatchItem) shouldValidate() bool {
	return i.Validate == nil || *i.Validate
}

// BatchUpdated 批量更新成功的一项
type BatchUpdated struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// BatchError 批量更新失败的一项
type BatchError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// BatchResult 批量更新结果，各项互不影响
type BatchResult struct {
	Updated      []BatchUpdated `json:"updated"`
	Errors       []BatchError   `json:"errors"`
	UpdatedCount int            `json:"updated_count"`
	ErrorCount   int            `json:"error_count"`
}

// Field JSON 中出现的字段，显式的 null 也算出现
type Field[T any] struct {
	Set   bool
	Value T
}

// NewField 构造已设置的字段
func NewField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// CreateInput 创建设置的参数
type CreateInput struct {
	Key             string           `json:"key"`
	Name            string           `json:"name"`
	ValueType       string           `json:"value_type"`
	Category        string           `json:"category"`
	Value           any              `json:"value"`
	DefaultValue    any              `json:"default_value"`
	Description     string           `json:"description"`
	IsActive        *bool            `json:"is_active"`
	IsEditable      *bool            `json:"is_editable"`
	SortOrder       int              `json:"sort_order"`
	ValidationRules *valuetype.Rules `json:"validation_rules"`
	ExtraOptions    map[string]any   `json:"extra_options"`
}

// UpdateInput 更新设置的参数，未出现的字段保持不变
type UpdateInput struct {
	Key             *string          `json:"key,omitempty"`
	Name            *string          `json:"name,omitempty"`
	ValueType       *string          `json:"value_type,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Value           Field[any]       `json:"value"`
	DefaultValue    Field[any]       `json:"default_value"`
	Description     *string          `json:"description,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	IsEditable      *bool            `json:"is_editable,omitempty"`
	SortOrder       *int             `json:"sort_order,omitempty"`
	ValidationRules *valuetype.Rules `json:"validation_rules,omitempty"`
	ExtraOptions    map[string]any   `json:"extra_options,omitempty"`
}

// UploadFile 待上传的文件
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// UploadResult 上传结果
type UploadResult struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
