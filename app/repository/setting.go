package repository

import (
	"context"
	"errors"

	"setting-center/app/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound 记录不存在或已删除
var ErrNotFound = errors.New("record not found")

// SettingFilter 列表过滤条件
type SettingFilter struct {
	ActiveOnly bool
	Category   string
}

// SettingRepository 设置存储
type SettingRepository interface {
	Create(ctx context.Context, s *model.Setting) error
	FindByKey(ctx context.Context, key string, activeOnly bool) (*model.Setting, error)
	FindByID(ctx context.Context, id string) (*model.Setting, error)
	// KeyExists includeDeleted 为 true 时软删除的记录也计入
	KeyExists(ctx context.Context, key string, includeDeleted bool) (bool, error)
	List(ctx context.Context, f SettingFilter) ([]model.Setting, error)
	Page(ctx context.Context, f SettingFilter, page, size int) ([]model.Setting, int64, error)
	Save(ctx context.Context, s *model.Setting) error
	UpdateValue(ctx context.Context, s *model.Setting) error
	SoftDelete(ctx context.Context, s *model.Setting) error
}

// GormSettingRepository 基于 gorm 的设置存储
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建设置存储
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func (r *GormSettingRepository) Create(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormSettingRepository) FindByKey(ctx context.Context, key string, activeOnly bool) (*model.Setting, error) {
	cond := map[string]any{"key": key}
	if activeOnly {
		cond["is_active"] = true
	}

	var s model.Setting
	if err := r.db.WithContext(ctx).Where(cond).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormSettingRepository) FindByID(ctx context.Context, id string) (*model.Setting, error) {
	var s model.Setting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormSettingRepository) KeyExists(ctx context.Context, key string, includeDeleted bool) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Setting{})
	if includeDeleted {
		q = q.Unscoped()
	}

	var count int64
	if err := q.Where(map[string]any{"key": key}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSettingRepository) List(ctx context.Context, f SettingFilter) ([]model.Setting, error) {
	var out []model.Setting
	err := r.scope(ctx, f).Order(ordering()).Find(&out).Error
	return out, err
}

func (r *GormSettingRepository) Page(ctx context.Context, f SettingFilter, page, size int) ([]model.Setting, int64, error) {
	var total int64
	if err := r.scope(ctx, f).Model(&model.Setting{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.Setting
	err := r.scope(ctx, f).
		Order(ordering()).
		Offset((page - 1) * size).
		Limit(size).
		Find(&out).Error
	return out, total, err
}

func (r *GormSettingRepository) Save(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// UpdateValue 只写入 value 列，NULL 也会写入
func (r *GormSettingRepository) UpdateValue(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Model(s).Updates(map[string]any{"value": s.Value}).Error
}

func (r *GormSettingRepository) SoftDelete(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Delete(s).Error
}

func (r *GormSettingRepository) scope(ctx context.Context, f SettingFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

// ordering 按分类、排序值、键名排列
func ordering() clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "category"}},
		{Column: clause.Column{Name: "sort_order"}},
		{Column: clause.Column{Name: "key"}},
	}}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
