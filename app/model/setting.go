package model

import (
	"time"

	"setting-center/app/valuetype"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Setting 系统设置模型
type Setting struct {
	ID              string                               `gorm:"primaryKey;size:36" json:"id"`
	Key             string                               `gorm:"size:100;not null;uniqueIndex:idx_system_settings_key,where:deleted_at IS NULL;comment:设置键名" json:"key"`
	Name            string                               `gorm:"size:200;not null;comment:设置名称" json:"name"`
	ValueType       valuetype.ValueType                  `gorm:"size:20;not null;comment:值类型" json:"value_type"`
	Category        Category                             `gorm:"size:20;not null;index;comment:分类" json:"category"`
	Value           *string                              `gorm:"type:text;comment:设置值" json:"value"`
	DefaultValue    *string                              `gorm:"type:text;comment:默认值" json:"default_value"`
	Description     string                               `gorm:"type:text;comment:描述" json:"description"`
	IsActive        bool                                 `gorm:"not null;comment:是否启用" json:"is_active"`
	IsEditable      bool                                 `gorm:"not null;comment:是否可编辑" json:"is_editable"`
	SortOrder       int                                  `gorm:"not null;default:0;comment:排序" json:"sort_order"`
	ValidationRules datatypes.JSONType[valuetype.Rules] `gorm:"not null;comment:验证规则" json:"validation_rules"`
	ExtraOptions    datatypes.JSONMap                    `gorm:"comment:额外选项" json:"extra_options"`
	CreatedAt       time.Time                            `json:"created_at"`
	UpdatedAt       time.Time                            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt                       `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "system_settings"
}

// BeforeCreate 生成ID
func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave JSON 列不写入 NULL
func (s *Setting) BeforeSave(tx *gorm.DB) error {
	if s.ExtraOptions == nil {
		s.ExtraOptions = datatypes.JSONMap{}
	}
	return nil
}

// Rules 返回验证规则
func (s *Setting) Rules() valuetype.Rules {
	return s.ValidationRules.Data()
}

// SetRules 替换验证规则
func (s *Setting) SetRules(rules valuetype.Rules) {
	s.ValidationRules = datatypes.NewJSONType(rules)
}

// Choices 返回额外选项中配置的可选值
func (s *Setting) Choices() []valuetype.Choice {
	return valuetype.ChoicesFrom(s.ExtraOptions)
}

// TypedValue 当前值的类型化结果，未设置时使用默认值
func (s *Setting) TypedValue() valuetype.Value {
	if s.Value == nil {
		return s.TypedDefault()
	}
	return valuetype.CoerceStored(s.ValueType, s.Value)
}

// TypedDefault 默认值的类型化结果
func (s *Setting) TypedDefault() valuetype.Value {
	return valuetype.CoerceStored(s.ValueType, s.DefaultValue)
}

// ValidateValue 按该设置的类型、规则与可选值校验候选值
func (s *Setting) ValidateValue(raw any) (bool, string) {
	return valuetype.Validate(s.ValueType, raw, s.Rules(), s.Choices())
}

// SetValue 将原始值编码为存储文本，nil 表示清空
func (s *Setting) SetValue(raw any) {
	s.Value = valuetype.Encode(s.ValueType, raw)
}

// SetDefaultValue 将原始默认值编码为存储文本
func (s *Setting) SetDefaultValue(raw any) {
	s.DefaultValue = valuetype.Encode(s.ValueType, raw)
}
