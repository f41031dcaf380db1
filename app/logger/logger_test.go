package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"setting-center/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	l := New(config.LogConfig{Level: "info", Format: "json", Output: "file", Dir: dir, MaxSize: 1})
	l.Infof("设置 %s 已更新", "ui.theme")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ui.theme")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infof("ignored")
	l.WithOperator("admin").Info("ignored")
	assert.NoError(t, l.Close())
}
