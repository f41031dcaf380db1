package filewatcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"setting-center/app/logger"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// ReloadFunc 文件变更后的回调
type ReloadFunc func(path string) error

// SeedWatcher 监控初始设置文件，变更后重新执行初始化
type SeedWatcher struct {
	path     string
	reload   ReloadFunc
	logger   *logger.Logger
	debounce time.Duration

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	wg       sync.WaitGroup
	watching bool
	mu       sync.Mutex
}

// NewSeedWatcher 创建初始设置文件监控器
func NewSeedWatcher(path string, reload ReloadFunc, log *logger.Logger) *SeedWatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &SeedWatcher{
		path:     filepath.Clean(path),
		reload:   reload,
		logger:   log,
		debounce: defaultDebounce,
	}
}

// SetDebounce 设置事件合并间隔，需在 Start 之前调用
func (w *SeedWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start 启动监控，监听文件所在目录以便捕获编辑器的替换写入
func (w *SeedWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watching {
		return fmt.Errorf("初始设置文件监控器已经在运行")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监控器失败: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("添加监控目录失败: %w", err)
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.watching = true
	w.wg.Add(1)
	go w.watchLoop()

	w.logger.Infof("初始设置文件监控器已启动: %s", w.path)
	return nil
}

// Stop 停止监控
func (w *SeedWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.watching {
		return nil
	}

	close(w.stopCh)
	err := w.watcher.Close()
	w.wg.Wait()
	w.watching = false

	w.logger.Info("初始设置文件监控器已停止")
	return err
}

func (w *SeedWatcher) watchLoop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// 连续写入合并为一次重新加载
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			w.fire()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("初始设置文件监控器错误: %v", err)

		case <-w.stopCh:
			return
		}
	}
}

func (w *SeedWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *SeedWatcher) fire() {
	if err := w.reload(w.path); err != nil {
		w.logger.Errorf("重新加载初始设置文件失败: %s, 错误: %v", w.path, err)
		return
	}
	w.logger.Infof("已重新加载初始设置文件: %s", w.path)
}
