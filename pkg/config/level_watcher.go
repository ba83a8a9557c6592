package config

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay 文件事件去抖延迟（编辑器保存时常连续触发多次写事件）
const reloadDelay = 200 * time.Millisecond

// LevelWatcher 开发模式下监视关卡目录，修改后重新加载到 LevelCatalog
//
// 重新加载在后台 goroutine 中进行，只写入 LevelCatalog（带锁）；
// 新配置在下一次进入关卡时生效，不会修改正在进行的关卡。
// 解析失败的文件只记录日志，目录中保留旧配置。
type LevelWatcher struct {
	catalog *LevelCatalog
	dir     string
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	timers   map[string]*time.Timer
	onReload func(*LevelConfig) // 可选，测试和日志使用
}

// NewLevelWatcher 创建关卡目录监视器
func NewLevelWatcher(catalog *LevelCatalog, dir string) (*LevelWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &LevelWatcher{
		catalog: catalog,
		dir:     dir,
		watcher: watcher,
		timers:  make(map[string]*time.Timer),
	}, nil
}

// OnReload 设置重新加载成功后的回调
func (w *LevelWatcher) OnReload(fn func(*LevelConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Start 在后台处理文件事件，ctx 取消时关闭监视器
func (w *LevelWatcher) Start(ctx context.Context) {
	go w.processEvents(ctx)
	log.Printf("[LevelWatcher] Watching %s", w.dir)
}

func (w *LevelWatcher) processEvents(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isLevelFile(ev.Name) {
				continue
			}
			w.scheduleReload(ev.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[LevelWatcher] Watch error: %v", err)
		}
	}
}

// scheduleReload 对同一文件的连续事件去抖
func (w *LevelWatcher) scheduleReload(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(reloadDelay, func() {
		w.reloadFile(path)
	})
}

func (w *LevelWatcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// reloadFile 重新解析单个关卡文件并替换目录中的配置
func (w *LevelWatcher) reloadFile(path string) {
	lvl, err := LoadLevelConfig(path)
	if err != nil {
		log.Printf("[LevelWatcher] Reload of %s failed, keeping previous config: %v", path, err)
		return
	}

	w.catalog.Replace(lvl)
	log.Printf("[LevelWatcher] Reloaded level %s from %s", lvl.ID, path)

	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn(lvl)
	}
}
