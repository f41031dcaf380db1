package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"setting-center/app/apperr"
	"setting-center/app/auth"
	"setting-center/app/model"
	"setting-center/app/repository"
	"setting-center/app/valuetype"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// SetValue 更新单个设置值，validate 为 false 时跳过校验直接保存
func (s *SettingService) SetValue(ctx context.Context, op auth.Operator, key string, raw any, validate bool) (*SettingView, error) {
	if err := ensureOperator(op); err != nil {
		return nil, err
	}

	setting, err := s.findByKey(ctx, key, false)
	if err != nil {
		return nil, err
	}
	if !setting.IsEditable {
		return nil, apperr.Business(msgNotEditable)
	}
	if validate {
		if ok, msg := setting.ValidateValue(raw); !ok {
			return nil, apperr.Validation(msg)
		}
	}

	setting.SetValue(raw)
	if err := s.repo.UpdateValue(ctx, setting); err != nil {
		return nil, fmt.Errorf("保存设置 %s 失败: %w", key, err)
	}
	s.cache.Invalidate(key)

	s.logger.WithOperator(op.Identity()).Info("设置值已更新", zap.String("key", key))
	view := NewSettingView(setting, true)
	return &view, nil
}

// BatchUpdate 逐项更新设置值，单项失败不影响其他项
func (s *SettingService) BatchUpdate(ctx context.Context, op auth.Operator, items []BatchItem) (*BatchResult, error) {
	if err := ensureOperator(op); err != nil {
		return nil, err
	}

	result := &BatchResult{
		Updated: []BatchUpdated{},
		Errors:  []BatchError{},
	}
	fail := func(key, msg string) {
		result.Errors = append(result.Errors, BatchError{Key: key, Message: msg})
	}

	for _, item := range items {
		if item.Key == "" {
			fail("", msgMissingKey)
			continue
		}

		setting, err := s.repo.FindByKey(ctx, item.Key, false)
		if errors.Is(err, repository.ErrNotFound) {
			fail(item.Key, msgNotFound)
			continue
		}
		if err != nil {
			s.logger.Error("查询设置失败", zap.String("key", item.Key), zap.Error(err))
			fail(item.Key, "查询设置失败")
			continue
		}
		if !setting.IsEditable {
			fail(item.Key, msgNotEditable)
			continue
		}
		if item.shouldValidate() {
			if ok, msg := setting.ValidateValue(item.Value); !ok {
				fail(item.Key, msg)
				continue
			}
		}

		setting.SetValue(item.Value)
		if err := s.repo.UpdateValue(ctx, setting); err != nil {
			s.logger.Error("保存设置失败", zap.String("key", item.Key), zap.Error(err))
			fail(item.Key, "保存设置失败")
			continue
		}
		s.cache.Invalidate(item.Key)

		result.Updated = append(result.Updated, BatchUpdated{
			Key:   setting.Key,
			Name:  setting.Name,
			Value: valuetype.Interface(setting.TypedValue()),
		})
	}

	result.UpdatedCount = len(result.Updated)
	result.ErrorCount = len(result.Errors)
	s.logger.WithOperator(op.Identity()).Info("批量更新设置",
		zap.Int("updated", result.UpdatedCount),
		zap.Int("errors", result.ErrorCount))
	return result, nil
}

// ResetToDefaults 将所有启用的设置恢复为默认值，返回成功重置的数量
func (s *SettingService) ResetToDefaults(ctx context.Context, op auth.Operator) (int, error) {
	if err := ensureOperator(op); err != nil {
		return 0, err
	}

	settings, err := s.repo.List(ctx, repository.SettingFilter{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("查询启用设置失败: %w", err)
	}

	var (
		count  int
		result *multierror.Error
	)
	for i := range settings {
		setting := &settings[i]
		setting.Value = copyText(setting.DefaultValue)
		if err := s.repo.UpdateValue(ctx, setting); err != nil {
			result = multierror.Append(result, fmt.Errorf("重置设置 %s 失败: %w", setting.Key, err))
			continue
		}
		s.cache.Invalidate(setting.Key)
		count++
	}
	s.cache.Flush()

	s.logger.WithOperator(op.Identity()).Info("设置已重置为默认值", zap.Int("count", count))
	return count, result.ErrorOrNil()
}

func copyText(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Create 创建新设置
func (s *SettingService) Create(ctx context.Context, op auth.Operator, in CreateInput) (*model.Setting, error) {
	if err := ensureOperator(op); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.Key)
	if key == "" {
		return nil, apperr.Validation("设置键名不能为空")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("设置名称不能为空")
	}
	vt, err := valuetype.Parse(in.ValueType)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	category, err := model.ParseCategory(in.Category)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	exists, err := s.repo.KeyExists(ctx, key, false)
	if err != nil {
		return nil, fmt.Errorf("检查设置键名失败: %w", err)
	}
	if exists {
		return nil, apperr.Business("设置键名已存在")
	}

	setting := &model.Setting{
		Key:          key,
		Name:         in.Name,
		ValueType:    vt,
		Category:     category,
		Description:  in.Description,
		IsActive:     in.IsActive == nil || *in.IsActive,
		IsEditable:   in.IsEditable == nil || *in.IsEditable,
		SortOrder:    in.SortOrder,
		ExtraOptions: in.ExtraOptions,
	}
	if in.ValidationRules != nil {
		setting.SetRules(*in.ValidationRules)
	}

	if msg := valuetype.CheckFormat(vt, in.DefaultValue); msg != "" {
		return nil, apperr.Validation("默认值无效: " + msg)
	}
	if in.Value != nil {
		if ok, msg := setting.ValidateValue(in.Value); !ok {
			return nil, apperr.Validation(msg)
		}
	}
	setting.SetValue(in.Value)
	setting.SetDefaultValue(in.DefaultValue)

	if err := s.repo.Create(ctx, setting); err != nil {
		return nil, fmt.Errorf("创建设置 %s 失败: %w", key, err)
	}
	s.cache.Invalidate(key)

	s.logger.WithOperator(op.Identity()).Info("设置已创建", zap.String("key", key))
	return setting, nil
}

// UpdateMetadata 更新设置元信息，值的修改与 SetValue 走相同的校验
func (s *SettingService) UpdateMetadata(ctx context.Context, op auth.Operator, id string, in UpdateInput) (*model.Setting, error) {
	if err := ensureOperator(op); err != nil {
		return nil, err
	}

	setting, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Key != nil && *in.Key != setting.Key {
		return nil, apperr.Business("不支持修改设置键名")
	}
	editable := setting.IsEditable

	typeChanged := false
	if in.ValueType != nil {
		vt, err := valuetype.Parse(*in.ValueType)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		typeChanged = vt != setting.ValueType
		setting.ValueType = vt
	}
	if in.Category != nil {
		category, err := model.ParseCategory(*in.Category)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		setting.Category = category
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Validation("设置名称不能为空")
		}
		setting.Name = *in.Name
	}
	if in.Description != nil {
		setting.Description = *in.Description
	}
	if in.IsActive != nil {
		setting.IsActive = *in.IsActive
	}
	if in.IsEditable != nil {
		setting.IsEditable = *in.IsEditable
	}
	if in.SortOrder != nil {
		setting.SortOrder = *in.SortOrder
	}
	if in.ValidationRules != nil {
		setting.SetRules(*in.ValidationRules)
	}
	if in.ExtraOptions != nil {
		setting.ExtraOptions = in.ExtraOptions
	}

	if in.DefaultValue.Set {
		if msg := valuetype.CheckFormat(setting.ValueType, in.DefaultValue.Value); msg != "" {
			return nil, apperr.Validation("默认值无效: " + msg)
		}
		setting.SetDefaultValue(in.DefaultValue.Value)
	} else if typeChanged && setting.DefaultValue != nil {
		if msg := valuetype.CheckFormat(setting.ValueType, *setting.DefaultValue); msg != "" {
			return nil, apperr.Validation("默认值与新类型不匹配: " + msg)
		}
	}

	switch {
	case in.Value.Set:
		if !editable {
			return nil, apperr.Business(msgNotEditable)
		}
		if ok, msg := setting.ValidateValue(in.Value.Value); !ok {
			return nil, apperr.Validation(msg)
		}
		setting.SetValue(in.Value.Value)
	case typeChanged && setting.Value != nil:
		if msg := valuetype.CheckFormat(setting.ValueType, *setting.Value); msg != "" {
			return nil, apperr.Validation("当前值与新类型不匹配: " + msg)
		}
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, fmt.Errorf("更新设置 %s 失败: %w", setting.Key, err)
	}
	s.cache.Invalidate(setting.Key)

	s.logger.WithOperator(op.Identity()).Info("设置已更新", zap.String("key", setting.Key))
	return setting, nil
}

// Delete 按ID软删除设置
func (s *SettingService) Delete(ctx context.Context, op auth.Operator, id string) error {
	if err := ensureOperator(op); err != nil {
		return err
	}

	setting, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	return s.softDelete(ctx, op, setting)
}

// DeleteByKey 按键名软删除设置
func (s *SettingService) DeleteByKey(ctx context.Context, op auth.Operator, key string) error {
	if err := ensureOperator(op); err != nil {
		return err
	}

	setting, err := s.findByKey(ctx, key, false)
	if err != nil {
		return err
	}
	return s.softDelete(ctx, op, setting)
}

func (s *SettingService) softDelete(ctx context.Context, op auth.Operator, setting *model.Setting) error {
	if err := s.repo.SoftDelete(ctx, setting); err != nil {
		return fmt.Errorf("删除设置 %s 失败: %w", setting.Key, err)
	}
	s.cache.Invalidate(setting.Key)

	s.logger.WithOperator(op.Identity()).Info("设置已删除", zap.String("key", setting.Key))
	return nil
}

// FlushCache 清空全部设置缓存
func (s *SettingService) FlushCache(ctx context.Context, op auth.Operator) error {
	if err := ensureOperator(op); err != nil {
		return err
	}
	s.cache.Flush()
	s.logger.WithOperator(op.Identity()).Info("设置缓存已清空")
	return nil
}
