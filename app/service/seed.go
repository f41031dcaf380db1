package service

import (
	"context"

	"setting-center/app/auth"
	"setting-center/app/seed"

	"go.uber.org/zap"
)

// Seed 创建尚不存在的初始设置，op 为 nil 表示系统调用
func (s *SettingService) Seed(ctx context.Context, op auth.Operator, entries []seed.Entry) (int, error) {
	if op != nil {
		if err := ensureOperator(op); err != nil {
			return 0, err
		}
	}

	created, err := seed.Apply(ctx, s.repo, entries)
	for _, key := range created {
		s.cache.Invalidate(key)
	}
	if len(created) > 0 {
		s.logger.Info("初始设置已创建", zap.Strings("keys", created))
	}
	return len(created), err
}
