package service

import (
	"context"
	"testing"

	"setting-center/app/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheFlushService(t *testing.T) {
	svc, _ := newService(t)

	disabled := NewCacheFlushService(svc.Cache(), "", logger.Nop())
	require.NoError(t, disabled.Start())
	disabled.Stop()

	invalid := NewCacheFlushService(svc.Cache(), "every minute", logger.Nop())
	assert.Error(t, invalid.Start())

	flusher := NewCacheFlushService(svc.Cache(), "@every 1h", logger.Nop())
	require.NoError(t, flusher.Start())
	require.NoError(t, flusher.Start())

	svc.GetValue(context.Background(), "ui.theme", nil)
	flusher.flush()
	_, ok := svc.Cache().Peek("ui.theme")
	assert.False(t, ok)

	flusher.Stop()
	flusher.Stop()
}
