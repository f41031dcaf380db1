package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"setting-center/app/model"
	"setting-center/app/repository"
	"setting-center/app/valuetype"

	"go.uber.org/zap"
)

// List 按分类、排序值、键名返回设置，值为存储文本
func (s *SettingService) List(ctx context.Context, f repository.SettingFilter) ([]SettingView, error) {
	settings, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("查询设置列表失败: %w", err)
	}
	return views(settings, false), nil
}

// Paginate 分页查询，页码超出范围时返回最后一页
func (s *SettingService) Paginate(ctx context.Context, page, size int, f repository.SettingFilter) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	settings, total, err := s.repo.Page(ctx, f, page, size)
	if err != nil {
		return nil, fmt.Errorf("分页查询设置失败: %w", err)
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
		settings, total, err = s.repo.Page(ctx, f, page, size)
		if err != nil {
			return nil, fmt.Errorf("分页查询设置失败: %w", err)
		}
	}

	return &PageResult{
		Results: views(settings, false),
		Pagination: Pagination{
			Count:    total,
			Page:     page,
			PageSize: size,
			Pages:    pages,
		},
	}, nil
}

func views(settings []model.Setting, typed bool) []SettingView {
	out := make([]SettingView, 0, len(settings))
	for i := range settings {
		out = append(out, NewSettingView(&settings[i], typed))
	}
	return out
}

// Grouped 启用的设置按分类分组，值为类型化结果
func (s *SettingService) Grouped(ctx context.Context) ([]CategoryGroup, error) {
	settings, err := s.repo.List(ctx, repository.SettingFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("查询启用设置失败: %w", err)
	}

	grouped := make(map[model.Category][]SettingView)
	for i := range settings {
		c := settings[i].Category
		grouped[c] = append(grouped[c], NewSettingView(&settings[i], true))
	}

	categories := make([]model.Category, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	out := make([]CategoryGroup, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryGroup{
			Category:     string(c),
			CategoryName: c.Label(),
			Settings:     grouped[c],
		})
	}
	return out, nil
}

// Dictionary 启用设置的键值快照，每次调用重新读取，已缓存的单项直接复用
func (s *SettingService) Dictionary(ctx context.Context) (map[string]any, error) {
	settings, err := s.repo.List(ctx, repository.SettingFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("查询启用设置失败: %w", err)
	}

	out := make(map[string]any, len(settings))
	for i := range settings {
		if v, ok := s.cache.Peek(settings[i].Key); ok {
			out[settings[i].Key] = valuetype.Interface(v)
			continue
		}
		out[settings[i].Key] = valuetype.Interface(settings[i].TypedValue())
	}
	return out, nil
}

// GetByID 包括未启用的设置
func (s *SettingService) GetByID(ctx context.Context, id string) (*SettingView, error) {
	setting, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewSettingView(setting, true)
	return &view, nil
}

// GetByKey 仅返回启用的设置
func (s *SettingService) GetByKey(ctx context.Context, key string) (*SettingView, error) {
	setting, err := s.findByKey(ctx, key, true)
	if err != nil {
		return nil, err
	}
	view := NewSettingView(setting, true)
	return &view, nil
}

// ValueDetail 启用设置的值详情
func (s *SettingService) ValueDetail(ctx context.Context, key string) (*ValueDetail, error) {
	setting, err := s.findByKey(ctx, key, true)
	if err != nil {
		return nil, err
	}
	return &ValueDetail{
		Key:         setting.Key,
		Name:        setting.Name,
		Value:       valuetype.Interface(setting.TypedValue()),
		ValueType:   string(setting.ValueType),
		Description: setting.Description,
	}, nil
}

// Validate 按设置的规则校验候选值，不做任何写入
func (s *SettingService) Validate(ctx context.Context, key string, raw any) (bool, string, error) {
	setting, err := s.findByKey(ctx, key, false)
	if err != nil {
		return false, "", err
	}
	ok, msg := setting.ValidateValue(raw)
	return ok, msg, nil
}

// GetValue 通过缓存读取类型化的值，设置不存在、未启用、值为空或读取失败时返回 def
func (s *SettingService) GetValue(ctx context.Context, key string, def any) any {
	v, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("读取设置失败，使用默认值", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	if v == nil {
		return def
	}
	return v.Interface()
}

func (s *SettingService) GetBool(ctx context.Context, key string, def bool) bool {
	return valuetype.ToBool(s.GetValue(ctx, key, def))
}

func (s *SettingService) GetInt(ctx context.Context, key string, def int64) int64 {
	n, ok := valuetype.ToInt(s.GetValue(ctx, key, def))
	if !ok {
		return def
	}
	return n
}

func (s *SettingService) GetFloat(ctx context.Context, key string, def float64) float64 {
	f, ok := valuetype.ToFloat(s.GetValue(ctx, key, def))
	if !ok {
		return def
	}
	return f
}

func (s *SettingService) GetString(ctx context.Context, key string, def string) string {
	v := s.GetValue(ctx, key, def)
	if v == nil {
		return def
	}
	return valuetype.Stringify(v)
}

// GetDict 值不是 JSON 对象时返回 def
func (s *SettingService) GetDict(ctx context.Context, key string, def map[string]any) map[string]any {
	if def == nil {
		def = map[string]any{}
	}
	if m, ok := s.GetValue(ctx, key, def).(map[string]any); ok {
		return m
	}
	return def
}
