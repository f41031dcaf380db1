package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"setting-center/app/repository"
	"setting-center/app/testutil"
	"setting-center/app/valuetype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBuiltinsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSettingRepository(testutil.NewDB(t))

	created, err := Apply(ctx, repo, Builtins())
	require.NoError(t, err)
	assert.Len(t, created, 5)

	created, err = Apply(ctx, repo, Builtins())
	require.NoError(t, err)
	assert.Empty(t, created)

	s, err := repo.FindByKey(ctx, "ui.pagination_size", true)
	require.NoError(t, err)
	assert.Equal(t, valuetype.IntValue(20), s.TypedValue())
	require.NotNil(t, s.Rules().Max)
	assert.Equal(t, 100.0, *s.Rules().Max)
	assert.True(t, s.IsEditable)

	theme, err := repo.FindByKey(ctx, "ui.theme", true)
	require.NoError(t, err)
	assert.Len(t, theme.Choices(), 3)
}

func TestApplySkipsSoftDeleted(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSettingRepository(testutil.NewDB(t))

	_, err := Apply(ctx, repo, Builtins())
	require.NoError(t, err)
	s, err := repo.FindByKey(ctx, "system.site_logo", false)
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, s))

	created, err := Apply(ctx, repo, Builtins())
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestApplyCollectsErrors(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSettingRepository(testutil.NewDB(t))

	created, err := Apply(ctx, repo, []Entry{
		{Key: "bad.type", ValueType: "decimal", Category: "system"},
		{Key: "bad.value", ValueType: "integer", Category: "system", Value: "abc"},
		{Key: "ok.flag", ValueType: "boolean", Category: "feature", Value: "yes"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.type")
	assert.Contains(t, err.Error(), "bad.value")
	assert.Equal(t, []string{"ok.flag"}, created)

	s, err := repo.FindByKey(ctx, "ok.flag", true)
	require.NoError(t, err)
	assert.Equal(t, valuetype.BoolValue(true), s.TypedValue())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `settings:
  - key: feature.beta
    name: 测试功能
    value_type: boolean
    category: feature
    value: false
    default_value: false
    is_editable: false
  - key: api.rate_limit
    value_type: integer
    category: api
    value: 60
    validation_rules:
      min: 1
      max: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	s, err := entries[0].Setting()
	require.NoError(t, err)
	assert.False(t, s.IsEditable)
	assert.True(t, s.IsActive)
	assert.Equal(t, valuetype.BoolValue(false), s.TypedValue())

	s, err = entries[1].Setting()
	require.NoError(t, err)
	assert.Equal(t, "api.rate_limit", s.Name)
	assert.Equal(t, valuetype.IntValue(60), s.TypedValue())
	require.NotNil(t, s.Rules().Min)
	assert.Equal(t, 1.0, *s.Rules().Min)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
